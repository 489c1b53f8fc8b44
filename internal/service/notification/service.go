package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rakmedia/hr-backend-go/internal/domain/notification"
	"github.com/rakmedia/hr-backend-go/internal/pkg/email"
	"github.com/rakmedia/hr-backend-go/internal/pkg/queue"
)

// ExpiryLayout is how link expiry is shown in emails.
const ExpiryLayout = "2006-01-02 15:04 MST"

// Worker sends the emails queued by account provisioning and password
// reset requests.
type Worker struct {
	email email.EmailService
}

func NewWorker(emailService email.EmailService) *Worker {
	return &Worker{email: emailService}
}

// Handle is a queue.Handler. Unknown job types are dropped so a bad
// message cannot block the queue.
func (w *Worker) Handle(ctx context.Context, msg queue.Message) error {
	var send func(to, username, resetLink, expiresAt string) error
	switch msg.Type {
	case notification.JobWelcome:
		send = w.email.SendWelcome
	case notification.JobPasswordReset:
		send = w.email.SendPasswordReset
	default:
		slog.WarnContext(ctx, "dropping unknown job", "job_id", msg.ID, "type", msg.Type)
		return nil
	}

	p, err := notification.DecodeLinkEmail(msg.Payload)
	if err != nil {
		return err
	}

	if err := send(p.Email, p.Username, p.ResetLink, p.ExpiresAt.UTC().Format(ExpiryLayout)); err != nil {
		return fmt.Errorf("failed to send %s email to user %d: %w", msg.Type, p.UserID, err)
	}

	slog.InfoContext(ctx, "email sent", "job_id", msg.ID, "type", msg.Type, "user_id", p.UserID)
	return nil
}

// Run consumes jobs until ctx is done.
func (w *Worker) Run(ctx context.Context, consumer queue.Consumer) error {
	slog.Info("email worker started")
	defer slog.Info("email worker stopped")
	return consumer.Consume(ctx, w.Handle)
}
