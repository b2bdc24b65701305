package repository

import (
	"context"
	"time"

	"opportune/internal/infra"
	"opportune/internal/infra/db"
)

type NotificationRepository struct{}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{}
}

// CreateJob enqueues a delivery job row. The mail transport itself lives
// outside this service; the core only ever writes the job.
func (r *NotificationRepository) CreateJob(ctx context.Context, dbtx db.DBTX, kind, topic string, payload []byte, runAt time.Time) error {
	const q = `
		INSERT INTO notification_jobs (kind, topic, payload, run_at)
		VALUES ($1, $2, $3, $4)`

	if _, err := dbtx.Exec(ctx, q, kind, topic, payload, runAt); err != nil {
		return infra.WrapRepoErr("failed to create notification job", err)
	}
	return nil
}
