// Package mail delivers transactional email for account verification.
package mail

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"centsimple/internal/config"
	apperrors "centsimple/internal/errors"
)

// Mailer sends account-related email. The verification token is embedded in
// a frontend link the recipient clicks to confirm their address.
type Mailer interface {
	SendVerificationEmail(toEmail, token string) error
}

// SMTPMailer sends mail through a configured SMTP relay using gomail.
type SMTPMailer struct {
	dialer      *gomail.Dialer
	from        string
	frontendURL string
}

// NewSMTPMailer creates a Mailer from the application configuration.
func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{
		dialer:      gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		from:        cfg.MailFrom,
		frontendURL: cfg.FrontendURL,
	}
}

// SendVerificationEmail sends the confirmation link for a new account.
func (m *SMTPMailer) SendVerificationEmail(toEmail, token string) error {
	verificationURL := fmt.Sprintf("%s/verify-email?token=%s", m.frontendURL, token)

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", toEmail)
	msg.SetHeader("Subject", "Confirm your Centsimple account")
	msg.SetBody("text/plain", fmt.Sprintf(
		"Welcome to Centsimple! Please confirm your email address by visiting this link: %s",
		verificationURL,
	))
	msg.AddAlternative("text/html", fmt.Sprintf(`
		<div style="font-family: sans-serif; padding: 20px; text-align: center;">
			<h2>Welcome to Centsimple!</h2>
			<p>Please click the button below to confirm your email address and activate your account.</p>
			<a href="%s" style="display: inline-block; padding: 12px 24px; margin: 20px 0; color: white; background-color: #6750a4; text-decoration: none; border-radius: 9999px;">
				Confirm Email Address
			</a>
			<p>If you did not create an account, you can safely ignore this email.</p>
		</div>
	`, verificationURL))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return apperrors.Wrap(apperrors.ErrMailUnavailable, err)
	}
	return nil
}
