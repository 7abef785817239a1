package jobs

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RunLedgerIntegrityScan walks every product's movement chain and reports
// breaks: a movement whose stock_avant does not match the previous
// movement's stock_apres, or a final stock_apres that disagrees with the
// product row. Movements are never repaired, only reported; the ledger is
// evidence.
func RunLedgerIntegrityScan(ctx context.Context, pool *pgxpool.Pool, logger *slog.Logger) error {
	rows, err := pool.Query(ctx, `SELECT m.product_id, m.reference, m.stock_avant, m.stock_apres, p.stock
FROM mouvements_stock m
JOIN produits p ON p.id = m.product_id
ORDER BY m.product_id, m.date_ajout ASC, m.id ASC`)
	if err != nil {
		return err
	}
	defer rows.Close()

	var (
		products  int
		breaks    int
		prevID    string
		prevApres int64
		lastApres int64
		lastStock int64
		lastProd  string
	)
	flush := func() {
		if lastProd != "" && lastApres != lastStock {
			breaks++
			logger.Warn("ledger chain does not reach product stock",
				slog.String("product_id", lastProd),
				slog.Int64("chain_end", lastApres),
				slog.Int64("product_stock", lastStock))
		}
	}
	for rows.Next() {
		var productID, reference string
		var avant, apres, stock int64
		if err := rows.Scan(&productID, &reference, &avant, &apres, &stock); err != nil {
			return err
		}
		if productID != prevID {
			flush()
			products++
			prevID = productID
		} else if avant != prevApres {
			breaks++
			logger.Warn("ledger chain break",
				slog.String("product_id", productID),
				slog.String("reference", reference),
				slog.Int64("expected_avant", prevApres),
				slog.Int64("got_avant", avant))
		}
		prevApres = apres
		lastApres = apres
		lastStock = stock
		lastProd = productID
	}
	if err := rows.Err(); err != nil {
		return err
	}
	flush()

	logger.Info("ledger integrity scan finished",
		slog.Int("products", products), slog.Int("breaks", breaks))
	return nil
}

// NewLedgerIntegrityHandler adapts the scan to an Asynq handler.
func NewLedgerIntegrityHandler(pool *pgxpool.Pool, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, _ *asynq.Task) error {
		return RunLedgerIntegrityScan(ctx, pool, logger)
	}
}
