package services

import (
	"fmt"
	"log"

	"gopkg.in/gomail.v2"

	"github.com/hamidullaorifov/EffectiveMobileTask/pkg/config"
)

// EmailService sends proposal notifications over SMTP. When no SMTP host
// is configured the service stays disabled and every send is a no-op.
type EmailService struct {
	config *config.Config
	dialer *gomail.Dialer
}

func NewEmailService(cfg *config.Config) *EmailService {
	service := &EmailService{config: cfg}
	if cfg.SMTPHost != "" {
		service.dialer = gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
	}
	return service
}

// Enabled reports whether SMTP is configured.
func (es *EmailService) Enabled() bool {
	return es.dialer != nil
}

func (es *EmailService) send(to, subject, body string) {
	if es.dialer == nil {
		return
	}

	m := gomail.NewMessage()
	m.SetHeader("From", es.config.SMTPFrom)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := es.dialer.DialAndSend(m); err != nil {
		log.Printf("Failed to send email to %s: %v", to, err)
	}
}

// SendProposalReceived notifies the receiver-ad owner about a new proposal.
func (es *EmailService) SendProposalReceived(to, senderUsername, senderAdTitle, receiverAdTitle string) {
	subject := "New exchange proposal"
	body := fmt.Sprintf(
		"%s offered to trade %q for your ad %q.\n\nOpen your proposals page to accept or reject the offer.",
		senderUsername, senderAdTitle, receiverAdTitle,
	)
	es.send(to, subject, body)
}

// SendProposalStatusChanged notifies the sender-ad owner about a decision.
func (es *EmailService) SendProposalStatusChanged(to, status, senderAdTitle, receiverAdTitle string) {
	subject := fmt.Sprintf("Your exchange proposal was %s", status)
	body := fmt.Sprintf(
		"Your offer to trade %q for %q was %s.",
		senderAdTitle, receiverAdTitle, status,
	)
	es.send(to, subject, body)
}
