package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/qualityeducation/eduplatform-api/pkg/config"
	"github.com/qualityeducation/eduplatform-api/pkg/jobs"
	"github.com/qualityeducation/eduplatform-api/pkg/mail"
)

// Notifier sends account lifecycle mail. Every method is fire-and-forget:
// delivery failures are logged and never surface to the caller.
type Notifier interface {
	Welcome(email, name string)
	TeacherDecision(email, name string, approved bool, note string)
	PasswordReset(email, name, code string)
}

// MailNotifier dispatches mail through the background job queue.
type MailNotifier struct {
	mailer  mail.Mailer
	queue   *jobs.Queue
	baseURL string
	retries int
	logger  *zap.Logger
}

func NewMailNotifier(mailer mail.Mailer, queue *jobs.Queue, cfg *config.Config, logger *zap.Logger) *MailNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &MailNotifier{
		mailer:  mailer,
		queue:   queue,
		baseURL: cfg.SMTP.BaseURL,
		retries: cfg.Notify.Retries,
		logger:  logger,
	}
}

func (n *MailNotifier) Welcome(email, name string) {
	body := fmt.Sprintf(
		"Hi %s,\n\nWelcome to Quality Education! Your account has been created.\n\nHappy learning!",
		name,
	)
	n.dispatch("welcome", email, "Welcome to Quality Education", body)
}

func (n *MailNotifier) TeacherDecision(email, name string, approved bool, note string) {
	var subject, body string
	if approved {
		subject = "Your teacher account has been approved"
		body = fmt.Sprintf(
			"Hi %s,\n\nGood news: your teacher account has been approved. You can now sign in and start creating courses.",
			name,
		)
	} else {
		subject = "Your teacher application was not approved"
		body = fmt.Sprintf("Hi %s,\n\nUnfortunately your teacher application was not approved.", name)
		if note != "" {
			body += "\n\nReviewer note: " + note
		}
	}

	n.dispatch("teacher_decision", email, subject, body)
}

func (n *MailNotifier) PasswordReset(email, name, code string) {
	link := fmt.Sprintf("%s/reset-password?code=%s", n.baseURL, code)
	body := fmt.Sprintf(
		"Hi %s,\n\nA password reset was requested for your account. Use the link below within one hour:\n\n%s\n\nIf you did not request this, you can ignore this message.",
		name, link,
	)
	n.dispatch("password_reset", email, "Reset your password", body)
}

func (n *MailNotifier) dispatch(kind, email, subject, body string) {
	ok := n.queue.Enqueue(jobs.Job{
		Name:    "mail:" + kind,
		Retries: n.retries,
		Run: func(ctx context.Context) error {
			return n.mailer.Send(email, subject, body)
		},
	})
	if !ok {
		n.logger.Warn("notification dropped", zap.String("kind", kind), zap.String("email", email))
	}
}

// NopNotifier discards every notification. Used when notifications are
// disabled and in tests.
type NopNotifier struct{}

func (NopNotifier) Welcome(string, string)                       {}
func (NopNotifier) TeacherDecision(string, string, bool, string) {}
func (NopNotifier) PasswordReset(string, string, string)         {}
