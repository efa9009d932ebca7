package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	gomail "gopkg.in/mail.v2"
)

// Dialer is the part of *gomail.Dialer the client needs.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type SMTPClient struct {
	fromEmail string
	dialer    Dialer
	backoff   time.Duration
	sleep     func(time.Duration)
}

func NewSMTPClient(host string, port int, username, password, fromEmail string) (*SMTPClient, error) {
	if host == "" || fromEmail == "" {
		return nil, fmt.Errorf("mailer: host and from address are required")
	}
	d := gomail.NewDialer(host, port, username, password)
	d.Timeout = 10 * time.Second
	return newSMTPClient(d, fromEmail), nil
}

func newSMTPClient(d Dialer, fromEmail string) *SMTPClient {
	return &SMTPClient{
		fromEmail: fromEmail,
		dialer:    d,
		backoff:   time.Second,
		sleep:     time.Sleep,
	}
}

// Send renders templateFile and delivers it, retrying with a linear backoff.
// It returns the number of attempts made.
func (c *SMTPClient) Send(templateFile, username, email string, data any) (int, error) {
	tmpl, err := template.ParseFS(FS, "templates/"+templateFile)
	if err != nil {
		return 0, err
	}

	subject := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(subject, "subject", data); err != nil {
		return 0, err
	}
	plain := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(plain, "plainBody", data); err != nil {
		return 0, err
	}
	html := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(html, "htmlBody", data); err != nil {
		return 0, err
	}

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", c.fromEmail, FromName)
	msg.SetAddressHeader("To", email, username)
	msg.SetHeader("Subject", subject.String())
	msg.SetBody("text/plain", plain.String())
	msg.AddAlternative("text/html", html.String())

	var lastErr error
	for attempt := 1; attempt <= maxRetires; attempt++ {
		if lastErr = c.dialer.DialAndSend(msg); lastErr == nil {
			return attempt, nil
		}
		if attempt < maxRetires {
			c.sleep(c.backoff * time.Duration(attempt))
		}
	}
	return maxRetires, fmt.Errorf("%w after %d attempts: %v", ErrSendFailed, maxRetires, lastErr)
}
