package mailer

import (
	"fmt"
	"time"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendSubscriptionExpired(toEmail, fullName, plan string, endDate time.Time) error
	SendSubscriptionExpiring(toEmail, fullName, plan string, endDate time.Time) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
}

func NewEmailService(host string, port int, username, password, senderEmail, senderName string) IEmailService {
	return &emailService{
		dialer:      gomail.NewDialer(host, port, username, password),
		senderEmail: senderEmail,
		senderName:  senderName,
	}
}

func (s *emailService) SendSubscriptionExpired(toEmail, fullName, plan string, endDate time.Time) error {
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Your subscription has expired</h2>
			<p>Hello %s,</p>
			<p>Your <strong>%s</strong> subscription ended on %s.</p>
			<p>Your account and every teacher, parent and student account of your academy have been disabled.
			Renew the subscription to restore access.</p>
		</div>
	`, fullName, plan, endDate.Format("02 Jan 2006"))

	return s.send(toEmail, "Subscription Expired", body)
}

func (s *emailService) SendSubscriptionExpiring(toEmail, fullName, plan string, endDate time.Time) error {
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Subscription Expiring Soon</h2>
			<p>Hello %s,</p>
			<p>Your <strong>%s</strong> subscription ends on %s.</p>
			<p>Renew before that date to keep your academy accounts active.</p>
		</div>
	`, fullName, plan, endDate.Format("02 Jan 2006"))

	return s.send(toEmail, "Subscription Expiring Soon", body)
}

func (s *emailService) send(toEmail, subject, body string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send %q to %s: %w", subject, toEmail, err)
	}
	return nil
}

// noopEmailService is used when SMTP is not configured.
type noopEmailService struct{}

func NewNoopEmailService() IEmailService {
	return noopEmailService{}
}

func (noopEmailService) SendSubscriptionExpired(string, string, string, time.Time) error {
	return nil
}

func (noopEmailService) SendSubscriptionExpiring(string, string, string, time.Time) error {
	return nil
}
