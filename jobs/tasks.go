package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskCountersReconcile recomputes the denormalized product counters.
	TaskCountersReconcile = "counters:reconcile"
	// TaskLedgerIntegrity scans movement chains for gaps.
	TaskLedgerIntegrity = "ledger:integrity"
	// TaskAuditCleanup trims old audit log entries.
	TaskAuditCleanup = "audit:cleanup"
)

// NewCountersReconcileTask constructs an Asynq task for counter
// reconciliation. The job reads everything it needs from the database at
// run time, so the task carries no payload.
func NewCountersReconcileTask() *asynq.Task {
	return asynq.NewTask(TaskCountersReconcile, nil, asynq.Queue(QueueDefault))
}

// NewLedgerIntegrityTask constructs an Asynq task for the integrity scan.
// Like the reconcile task it is payload-free.
func NewLedgerIntegrityTask() *asynq.Task {
	return asynq.NewTask(TaskLedgerIntegrity, nil, asynq.Queue(QueueDefault))
}

// AuditCleanupPayload sets the retention horizon in days.
type AuditCleanupPayload struct {
	RetentionDays int `json:"retention_days"`
}

// NewAuditCleanupTask constructs an Asynq task for audit log cleanup.
func NewAuditCleanupTask(retentionDays int) (*asynq.Task, error) {
	body, err := json.Marshal(AuditCleanupPayload{RetentionDays: retentionDays})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAuditCleanup, body, asynq.Queue(QueueDefault)), nil
}
