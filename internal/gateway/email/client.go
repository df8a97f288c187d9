package email

import (
	"fmt"
	"strings"

	mail "gopkg.in/mail.v2"

	"service-rider-notify/internal/apperr"
	"service-rider-notify/internal/config"
)

// Client is an email gateway backed by SMTP. Sends are fire-and-forget
// aside from error capture; there is no provider callback for email.
type Client struct {
	host string
	port int
	user string
	pass string
	from string
}

// NewClient creates an email gateway client from SMTP settings.
func NewClient(cfg config.SMTP) *Client {
	return &Client{
		host: cfg.Host,
		port: cfg.Port,
		user: cfg.User,
		pass: cfg.Pass,
		from: cfg.From,
	}
}

// Send delivers one plain-text email.
func (c *Client) Send(to, subject, body string) error {
	if strings.TrimSpace(to) == "" {
		return fmt.Errorf("email gateway: empty recipient: %w", apperr.ErrInvalid)
	}

	m := mail.NewMessage()
	m.SetHeader("From", c.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := mail.NewDialer(c.host, c.port, c.user, c.pass)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("email gateway: send to %s: %w", to, err)
	}
	return nil
}
