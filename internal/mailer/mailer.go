// Package mailer sends completion notifications for scheduled searches.
package mailer

import (
	"fmt"

	"github.com/rotisserie/eris"
	gomail "gopkg.in/gomail.v2"

	"github.com/ecosdelseo/prospector/internal/config"
	"github.com/ecosdelseo/prospector/internal/model"
)

// Mailer sends notification email over SMTP. An empty host disables it.
type Mailer struct {
	cfg config.SMTPConfig
}

// New creates a Mailer from SMTP configuration.
func New(cfg config.SMTPConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

// Enabled reports whether SMTP is configured.
func (m *Mailer) Enabled() bool {
	return m.cfg.Host != ""
}

// SendCompletion notifies the recipient that a search job finished.
func (m *Mailer) SendCompletion(to string, job *model.Job) error {
	if !m.Enabled() {
		return eris.New("mailer: smtp not configured")
	}

	subject := fmt.Sprintf("Automatic search completed - %s", job.City)
	body := fmt.Sprintf(
		"<h2>Prospector</h2>"+
			"<p>The automatic search in <strong>%s</strong> finished with status <strong>%s</strong>.</p>"+
			"<p>Businesses found: %d</p>"+
			"<p>Started: %s</p>",
		job.City, job.Status, job.CurrentCount, job.StartedAt.Format("2006-01-02 15:04"),
	)
	if job.Error != "" {
		body += fmt.Sprintf("<p>Error: %s</p>", job.Error)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	dialer := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	if err := dialer.DialAndSend(msg); err != nil {
		return eris.Wrapf(err, "mailer: send to %s", to)
	}
	return nil
}
