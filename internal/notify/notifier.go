package notify

import (
	"context"

	"farmstore/internal/mailer"
	"farmstore/internal/util"

	"go.uber.org/zap"
)

// Alert is an owner notification: a short title plus plain-text body.
type Alert struct {
	Title   string
	Content string
}

// Notifier delivers owner alerts. Delivery is best-effort; callers log
// errors and move on.
type Notifier interface {
	NotifyOwner(ctx context.Context, alert Alert) error
}

// EmailNotifier sends owner alerts to the configured store-owner
// address via the mailer.
type EmailNotifier struct {
	mail   *mailer.Mailer
	to     string
	logger *zap.Logger
}

// NewEmailNotifier creates an owner notifier. With an empty address the
// notifier only logs.
func NewEmailNotifier(mail *mailer.Mailer, to string) *EmailNotifier {
	return &EmailNotifier{
		mail:   mail,
		to:     to,
		logger: util.GetLogger(),
	}
}

// NotifyOwner sends the alert to the owner address.
func (n *EmailNotifier) NotifyOwner(ctx context.Context, alert Alert) error {
	if n.to == "" {
		n.logger.Info("Owner email not configured, skipping alert", zap.String("title", alert.Title))
		return nil
	}
	if err := n.mail.SendPlain(n.to, alert.Title, alert.Content); err != nil {
		util.OwnerAlertsTotal.WithLabelValues("error").Inc()
		return err
	}
	util.OwnerAlertsTotal.WithLabelValues("ok").Inc()
	return nil
}
