package handlers

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"text/template"

	gomail "gopkg.in/gomail.v2"
)

// Mailer sends transactional mail (password resets, notification fallback
// for staff without an open session). SMTP settings come from SMTP_HOST,
// SMTP_PORT, SMTP_USER, SMTP_PASSWORD and MAIL_FROM; when SMTP_HOST is
// unset the mailer is disabled and Send reports an error the caller logs.
type Mailer struct {
	host string
	port int
	user string
	pass string
	from string
}

func NewMailer() *Mailer {
	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil || port == 0 {
		port = 587
	}
	return &Mailer{
		host: os.Getenv("SMTP_HOST"),
		port: port,
		user: os.Getenv("SMTP_USER"),
		pass: os.Getenv("SMTP_PASSWORD"),
		from: os.Getenv("MAIL_FROM"),
	}
}

// Enabled reports whether SMTP delivery is configured.
func (m *Mailer) Enabled() bool {
	return m.host != ""
}

// Send delivers a single HTML mail.
func (m *Mailer) Send(to, subject, htmlBody string) error {
	if !m.Enabled() {
		return fmt.Errorf("mailer disabled: SMTP_HOST not set")
	}
	from := m.from
	if from == "" {
		from = m.user
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(m.host, m.port, m.user, m.pass)
	return d.DialAndSend(msg)
}

var resetPasswordTemplate = template.Must(template.New("reset").Parse(`
<p>Hello {{.Name}},</p>
<p>We received a request to reset your password. If you did not make this
request you can ignore this email.</p>
<p>Click the link below to choose a new password (valid for one hour):</p>
<p><a href="{{.ResetURL}}">{{.ResetURL}}</a></p>
`))

var notificationMailTemplate = template.Must(template.New("notification").Parse(`
<p>Hello {{.Name}},</p>
<p>{{.Message}}</p>
<p>Open the staff panel to respond.</p>
`))

func renderTemplate(t *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
