package mailservice

import (
	"fmt"
	"time"

	"github.com/go-mail/mail/v2"
)

const senderName = "OG Camping"

func NewMailer(host string, port int, username, password, sender string, tp TemplateParser) *Mail {
	dialer := mail.NewDialer(host, port, username, password)
	dialer.Timeout = 5 * time.Second

	return &Mail{
		dialer: dialer,
		sender: sender,
		parser: tp,
	}
}

// compose renders templateFile into a message for recipient.
func (m *Mail) compose(recipient string, data any, templateFile string) (*mail.Message, error) {
	rendered, err := m.parser.Render(templateFile, data)
	if err != nil {
		return nil, err
	}

	msg := mail.NewMessage()
	msg.SetAddressHeader("From", m.sender, senderName)
	msg.SetHeader("To", recipient)
	msg.SetHeader("Subject", rendered.Subject)
	msg.SetBody("text/plain", rendered.Plain)
	msg.AddAlternative("text/html", rendered.HTML)

	return msg, nil
}

func (m *Mail) send(recipient string, data any, templateFile string) error {
	msg, err := m.compose(recipient, data, templateFile)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("could not send %s to %s: %w", templateFile, recipient, err)
	}

	return nil
}
