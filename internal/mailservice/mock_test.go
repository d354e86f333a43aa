package mailservice

import (
	"errors"
	"sync"

	"github.com/go-mail/mail/v2"
	"github.com/ogcamping/console/internal/common"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/mock"
)

type MockTemplate struct {
	mock.Mock
}

func (m *MockTemplate) Render(name string, data any) (*Rendered, error) {
	args := m.Called(name, data)
	rendered, _ := args.Get(0).(*Rendered)
	return rendered, args.Error(1)
}

type MockDialer struct {
	mock.Mock
}

func (d *MockDialer) DialAndSend(m ...*mail.Message) error {
	args := d.Called(m)
	return args.Error(0)
}

type sentMail struct {
	Recipient string
	Template  string
	Data      any
}

// MockMailer fails the first failures sends, then records every mail.
type MockMailer struct {
	mu       sync.Mutex
	failures int
	attempts int
	sent     []sentMail
}

func (m *MockMailer) send(recipient string, data any, templateFile string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.attempts++
	if m.attempts <= m.failures {
		return errors.New("smtp unavailable")
	}

	m.sent = append(m.sent, sentMail{Recipient: recipient, Template: templateFile, Data: data})
	return nil
}

func (m *MockMailer) Sent() []sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentMail(nil), m.sent...)
}

type MockLogger struct {
	mock.Mock
}

func (l *MockLogger) Error(msg string, args ...any) {
	l.Called(msg, args)
}

func (l *MockLogger) Info(msg string, args ...any) {
	l.Called(msg, args)
}

type MockMessageConsumer struct {
	mock.Mock
	bodies []string
}

func (m *MockMessageConsumer) Consume(key common.BindingKey, exchange common.Exchange, queue common.Queue) (<-chan amqp.Delivery, error) {
	m.Called(key, exchange, queue)

	msgsChan := make(chan amqp.Delivery)

	go func() {
		defer close(msgsChan)

		for _, body := range m.bodies {
			msgsChan <- amqp.Delivery{Body: []byte(body)}
		}
	}()

	return msgsChan, nil
}
