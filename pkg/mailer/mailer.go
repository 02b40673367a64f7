package mailer

import (
	"fmt"

	"cpsheet-backend/pkg/config"

	"gopkg.in/gomail.v2"
)

// Mailer delivers one-time codes. Delivery may fail transiently; callers
// decide how to roll back.
type Mailer interface {
	SendOTP(to, otp string) error
}

type SMTPMailer struct {
	dialer    *gomail.Dialer
	fromName  string
	fromEmail string
}

func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{
		dialer:    gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass),
		fromName:  cfg.SMTPFromName,
		fromEmail: cfg.SMTPFromEmail,
	}
}

func (m *SMTPMailer) SendOTP(to, otp string) error {
	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.fromEmail, m.fromName)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Email Verification OTP")
	msg.SetBody("text/plain", fmt.Sprintf(
		"Your OTP for email verification is: %s\n\nThis OTP is valid for 10 minutes.\n\nIf you didn't request this, please ignore this email.", otp))
	msg.AddAlternative("text/html", fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
			<h2 style="color: #333;">Email Verification</h2>
			<p>Your OTP for email verification is:</p>
			<div style="background-color: #f4f4f4; padding: 20px; text-align: center; margin: 20px 0;">
				<h1 style="color: #007bff; letter-spacing: 5px; margin: 0;">%s</h1>
			</div>
			<p>This OTP is valid for <strong>10 minutes</strong>.</p>
			<p style="color: #666; font-size: 14px;">If you didn't request this, please ignore this email.</p>
		</div>`, otp))

	return m.dialer.DialAndSend(msg)
}
