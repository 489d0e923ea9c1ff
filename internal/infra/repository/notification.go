package repository

import (
	"context"
	"time"

	"gatherly/internal/infra"
	"gatherly/internal/infra/db"

	"github.com/google/uuid"
)

type NotificationJobRepository struct {
	db db.DBTX
}

func NewNotificationJobRepository(dbtx db.DBTX) *NotificationJobRepository {
	return &NotificationJobRepository{db: dbtx}
}

func (r *NotificationJobRepository) CreateJob(ctx context.Context, kind, topic string, payload []byte, runAt time.Time) error {
	const query = `
		INSERT INTO notification_jobs (id, kind, topic, payload, run_at, created_at)
		VALUES ($1, $2, $3, $4, $5, now())`

	if _, err := r.db.Exec(ctx, query, uuid.New(), kind, topic, payload, runAt); err != nil {
		return infra.WrapRepoErr("failed to create notification job", err)
	}
	return nil
}
