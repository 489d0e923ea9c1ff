package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"gatherly/internal/infra/db"
	"gatherly/internal/infra/repository"

	"github.com/google/uuid"
)

// JobNotifier hands notifications to the delivery worker by enqueueing
// email jobs. Callers treat it as fire-and-forget: enqueue failures are
// logged and never propagate, so a flaky mailer cannot roll back an
// admission that already committed.
type JobNotifier struct {
	jobs *repository.NotificationJobRepository
}

func NewJobNotifier(dbtx db.DBTX) *JobNotifier {
	return &JobNotifier{jobs: repository.NewNotificationJobRepository(dbtx)}
}

func (n *JobNotifier) Send(ctx context.Context, userID uuid.UUID, template string, data map[string]any) {
	payload, err := json.Marshal(map[string]any{
		"user_id":  userID,
		"template": template,
		"data":     data,
	})
	if err != nil {
		slog.Error("failed to encode notification payload", "template", template, "error", err.Error())
		return
	}

	if err := n.jobs.CreateJob(ctx, "email", template, payload, time.Now()); err != nil {
		slog.Warn("failed to enqueue notification", "template", template, "user_id", userID.String(), "error", err.Error())
	}
}
