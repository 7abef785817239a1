package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultAuditRetentionDays = 180

// RunAuditCleanup deletes audit log entries older than the retention
// horizon. The movement ledger itself is never touched.
func RunAuditCleanup(ctx context.Context, pool *pgxpool.Pool, logger *slog.Logger, retentionDays int) error {
	if retentionDays <= 0 {
		retentionDays = defaultAuditRetentionDays
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays)
	tag, err := pool.Exec(ctx, `DELETE FROM audit_logs WHERE occurred_at < $1`, cutoff)
	if err != nil {
		return err
	}
	logger.Info("audit logs trimmed",
		slog.Int64("deleted", tag.RowsAffected()),
		slog.Time("cutoff", cutoff))
	return nil
}

// NewAuditCleanupHandler adapts the cleanup to an Asynq handler.
func NewAuditCleanupHandler(pool *pgxpool.Pool, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload AuditCleanupPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		return RunAuditCleanup(ctx, pool, logger, payload.RetentionDays)
	}
}
