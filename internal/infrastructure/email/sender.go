// Package email sends price-drop alerts over SMTP.
package email

import (
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/pricelens/backend/internal/domain"
)

// Config holds SMTP settings. Sending needs every field; SendPriceDrop
// reports incomplete settings as domain.ErrAlertsNotConfigured so the
// tracker keeps working without mail credentials.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	To       string
}

func (c Config) complete() bool {
	return c.Host != "" && c.Port != 0 && c.Username != "" && c.Password != "" && c.To != ""
}

// Sender delivers price-drop notifications. It implements
// domain.AlertSender.
type Sender struct {
	cfg Config
	log *zap.SugaredLogger

	// send is swapped out in tests.
	send func(m *gomail.Message) error
}

// NewSender creates an SMTP alert sender.
func NewSender(cfg Config, log *zap.Logger) *Sender {
	s := &Sender{cfg: cfg, log: log.Sugar()}
	s.send = func(m *gomail.Message) error {
		d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
		return d.DialAndSend(m)
	}
	return s
}

// SendPriceDrop emails a drop notification for one product. Incomplete SMTP
// configuration returns domain.ErrAlertsNotConfigured so callers can treat
// the skip differently from a delivery failure.
func (s *Sender) SendPriceDrop(productName string, oldPrice, newPrice float64, url string) error {
	if !s.cfg.complete() {
		return domain.ErrAlertsNotConfigured
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.Username)
	m.SetHeader("To", s.cfg.To)
	m.SetHeader("Subject", fmt.Sprintf("Price Drop Alert: %s", productName))
	m.SetBody("text/plain", fmt.Sprintf(
		"The price for %s has dropped from $%.2f to $%.2f.\n\nProduct link: %s",
		productName, oldPrice, newPrice, url,
	))

	if err := s.send(m); err != nil {
		return fmt.Errorf("failed to send price drop alert: %w", err)
	}
	s.log.Infow("price drop alert sent", "product", productName, "old", oldPrice, "new", newPrice)
	return nil
}
