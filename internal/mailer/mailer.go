package mailer

import (
	"fmt"

	"farmstore/config"
	"farmstore/internal/models"
	"farmstore/internal/util"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Mailer sends transactional email over SMTP. When SMTP is not
// configured every send becomes a logged no-op; mail failures never
// propagate to callers.
type Mailer struct {
	dialer *gomail.Dialer
	cfg    config.SMTPConfig
	logger *zap.Logger
}

// New creates a mailer. With empty SMTP credentials the mailer is
// disabled and only logs.
func New(cfg config.SMTPConfig) *Mailer {
	m := &Mailer{cfg: cfg, logger: util.GetLogger()}
	if cfg.Host != "" && cfg.User != "" && cfg.Password != "" {
		m.dialer = gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	} else {
		m.logger.Warn("SMTP not configured, emails will not be sent")
	}
	return m
}

func (m *Mailer) send(to, subject, htmlBody string) error {
	if m.dialer == nil {
		m.logger.Info("SMTP disabled, skipping email", zap.String("to", to), zap.String("subject", subject))
		return fmt.Errorf("smtp not configured")
	}

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.cfg.From, m.cfg.FromName)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	return m.dialer.DialAndSend(msg)
}

// SendPlain sends a simple title/content message wrapped in minimal HTML.
func (m *Mailer) SendPlain(to, subject, content string) error {
	body := fmt.Sprintf(
		`<div style="font-family: Arial, sans-serif; padding: 20px;"><h2>%s</h2><pre style="background: #f5f5f5; padding: 15px;">%s</pre></div>`,
		subject, content)
	return m.send(to, subject, body)
}

// SendCustomerOrderEmail sends the order confirmation to the customer.
func (m *Mailer) SendCustomerOrderEmail(data models.OrderSnapshot) bool {
	subject := fmt.Sprintf("Заказ %s — %s", data.OrderNumber, m.cfg.FromName)
	if err := m.send(data.CustomerEmail, subject, buildCustomerEmailHTML(data)); err != nil {
		util.EmailsSentTotal.WithLabelValues("customer", "error").Inc()
		m.logger.Error("Failed to send customer email",
			zap.String("order_number", data.OrderNumber), zap.Error(err))
		return false
	}
	util.EmailsSentTotal.WithLabelValues("customer", "ok").Inc()
	m.logger.Info("Customer email sent",
		zap.String("order_number", data.OrderNumber),
		zap.String("to", data.CustomerEmail))
	return true
}

// SendManagerOrderEmail sends the new-order alert to the manager.
func (m *Mailer) SendManagerOrderEmail(data models.OrderSnapshot) bool {
	if m.cfg.ManagerEmail == "" {
		m.logger.Warn("Manager email not configured")
		return false
	}
	subject := fmt.Sprintf("🛒 Новый заказ %s — %s", data.OrderNumber, data.CustomerName)
	if err := m.send(m.cfg.ManagerEmail, subject, buildManagerEmailHTML(data)); err != nil {
		util.EmailsSentTotal.WithLabelValues("manager", "error").Inc()
		m.logger.Error("Failed to send manager email",
			zap.String("order_number", data.OrderNumber), zap.Error(err))
		return false
	}
	util.EmailsSentTotal.WithLabelValues("manager", "ok").Inc()
	m.logger.Info("Manager email sent",
		zap.String("order_number", data.OrderNumber),
		zap.String("to", m.cfg.ManagerEmail))
	return true
}

// SendOrderEmails sends customer and manager emails in parallel. Each
// recipient fails independently; neither failure is returned as an
// error.
func (m *Mailer) SendOrderEmails(data models.OrderSnapshot) (customer, manager bool) {
	customerCh := make(chan bool, 1)
	go func() { customerCh <- m.SendCustomerOrderEmail(data) }()
	manager = m.SendManagerOrderEmail(data)
	customer = <-customerCh
	return customer, manager
}
