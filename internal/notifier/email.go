// Package notifier implements the outbound notification channels: SMTP
// email and FCM push.
package notifier

import (
	"context"
	"fmt"
	"time"

	"gopkg.in/gomail.v2"
)

const reminderEmailBody = `<!DOCTYPE html>
<html>
  <body style="margin:0;padding:24px;background:#f8fafc;font-family:sans-serif;color:#1e293b;">
    <div style="max-width:600px;margin:0 auto;background:#ffffff;border-radius:12px;padding:32px;border:1px solid #e2e8f0;">
      <h1 style="margin:0 0 16px;font-size:22px;">NotesApp Reminder</h1>
      <p style="margin:0 0 20px;">Hi %s,</p>
      <p style="margin:0 0 20px;">This is a friendly nudge for the reminder you set in your notes.</p>
      <div style="background:#f1f5f9;border-left:4px solid #4f46e5;border-radius:6px;padding:16px;margin-bottom:20px;">
        <p style="margin:0 0 8px;font-size:12px;color:#6366f1;text-transform:uppercase;">Note title</p>
        <p style="margin:0;font-weight:600;">%q</p>
        <p style="margin:12px 0 0;font-size:13px;color:#64748b;">Scheduled for: %s</p>
      </div>
      <p style="margin:0;font-size:12px;color:#94a3b8;">You received this because you set a reminder on your NotesApp account.</p>
    </div>
  </body>
</html>`

// SMTPMailer sends reminder emails over SMTP.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPMailer configures the mailer.
func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

// SendReminder delivers the reminder template to a single recipient.
func (m *SMTPMailer) SendReminder(_ context.Context, to, name, noteTitle string, at time.Time) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Reminder from NotesApp")
	msg.SetBody("text/html", fmt.Sprintf(
		reminderEmailBody,
		name,
		noteTitle,
		at.Format("Monday, 02 Jan 2006 15:04 MST"),
	))
	return m.dialer.DialAndSend(msg)
}
