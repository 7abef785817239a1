package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RunCountersReconcile rewrites the denormalized group and category product
// counters from the products table. Counter updates on the hot path are
// best-effort, so drift accumulates; this job is the repair.
func RunCountersReconcile(ctx context.Context, pool *pgxpool.Pool, logger *slog.Logger) error {
	started := time.Now()
	groupsTag, err := pool.Exec(ctx, `UPDATE groupes g
SET nombre_produit = (SELECT COUNT(*) FROM produits p WHERE p.id_groupe = g.id)
WHERE nombre_produit <> (SELECT COUNT(*) FROM produits p WHERE p.id_groupe = g.id)`)
	if err != nil {
		return err
	}
	catsTag, err := pool.Exec(ctx, `UPDATE categories c
SET produit_count = (SELECT COUNT(*) FROM produits p WHERE p.id_categorie = c.id)
WHERE produit_count <> (SELECT COUNT(*) FROM produits p WHERE p.id_categorie = c.id)`)
	if err != nil {
		return err
	}
	logger.Info("counters reconciled",
		slog.Int64("groups_fixed", groupsTag.RowsAffected()),
		slog.Int64("categories_fixed", catsTag.RowsAffected()),
		slog.Duration("took", time.Since(started)))
	return nil
}

// NewCountersReconcileHandler adapts the job to an Asynq handler.
func NewCountersReconcileHandler(pool *pgxpool.Pool, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, _ *asynq.Task) error {
		return RunCountersReconcile(ctx, pool, logger)
	}
}
