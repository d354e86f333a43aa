package common

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

type Exchange string

type Queue string

type BindingKey string

type MessageConsumer interface {
	Consume(key BindingKey, exchange Exchange, queue Queue) (<-chan amqp.Delivery, error)
}

const (
	BlogExchange Exchange = "blog_updates"

	// AdminBlogUpdatesKey is delivered to every connected admin session.
	AdminBlogUpdatesKey BindingKey = "admin.blog-updates"
	// StaffBlogUpdatesKey matches the targeted key of any staff member.
	StaffBlogUpdatesKey BindingKey = "user.*.blog-updates"

	ReviewMailQueue Queue = "blog_review_mail_queue"
)

// UserBlogUpdatesKey returns the routing key of the targeted queue for one user.
// Dots are not allowed inside a topic word, so they are replaced.
func UserBlogUpdatesKey(user string) BindingKey {
	return BindingKey("user." + strings.ReplaceAll(strings.ToLower(user), ".", "_") + ".blog-updates")
}

type MessageBroker struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewMessageBroker(URI string) (*MessageBroker, error) {
	conn, ch, err := connectAMQP(URI)
	if err != nil {
		return nil, err
	}

	return &MessageBroker{
		conn: conn,
		ch:   ch,
	}, nil
}

func connectAMQP(URI string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(URI)
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to AMQP: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("could not open channel: %w", err)
	}

	return conn, ch, nil
}

// Close closes the connection and channel of the message broker.
func (mb *MessageBroker) Close() error {
	err := mb.ch.Close()
	if err != nil {
		return err
	}

	err = mb.conn.Close()
	if err != nil {
		return err
	}

	return nil
}

func declareTopicExchange(ch *amqp.Channel, exchange Exchange) error {
	return ch.ExchangeDeclare(string(exchange), "topic", true, false, false, false, nil)
}

// SetupBlogExchange declares the blog update exchange and the durable queue feeding review e-mails.
func SetupBlogExchange(mb *MessageBroker) error {
	err := declareTopicExchange(mb.ch, BlogExchange)
	if err != nil {
		return err
	}

	_, err = mb.ch.QueueDeclare(string(ReviewMailQueue), true, false, false, false, nil)
	if err != nil {
		return err
	}

	err = mb.ch.QueueBind(string(ReviewMailQueue), string(StaffBlogUpdatesKey), string(BlogExchange), false, nil)
	if err != nil {
		return err
	}

	return nil
}

func (mb *MessageBroker) Consume(key BindingKey, exchange Exchange, queue Queue) (<-chan amqp.Delivery, error) {
	msgs, err := mb.ch.Consume(string(queue), string(key), false, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("could not consume message: %w", err)
	}

	return msgs, nil
}

// Message is a delivery on a realtime subscription.
type Message struct {
	ID   string
	Key  string
	Body []byte
}

// Subscription keeps a dedicated broker connection open for one console session.
// The connection is re-established after Delay whenever it drops, until the
// context passed to Run is cancelled.
type Subscription struct {
	URI      string
	Exchange Exchange
	Keys     []BindingKey
	Delay    time.Duration
	Logger   *slog.Logger
	Handler  func(Message)

	// OnConnect is called every time the queue is bound and consuming. It
	// runs on the goroutine of Run, before the deliveries of that connection
	// are handled, and never concurrently with itself or Handler.
	OnConnect func()
}

var errConnectionClosed = errors.New("connection closed")

func (s *Subscription) Run(ctx context.Context) {
	for {
		err := s.consume(ctx)
		if ctx.Err() != nil {
			return
		}

		s.Logger.Warn("realtime connection lost", slog.String("error", err.Error()), slog.Duration("retry_in", s.Delay))

		select {
		case <-ctx.Done():
			return
		case <-time.After(s.Delay):
		}
	}
}

func (s *Subscription) consume(ctx context.Context) error {
	conn, ch, err := connectAMQP(s.URI)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := declareTopicExchange(ch, s.Exchange); err != nil {
		return err
	}

	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return err
	}

	for _, key := range s.Keys {
		if err := ch.QueueBind(q.Name, string(key), string(s.Exchange), false, nil); err != nil {
			return err
		}
	}

	msgs, err := ch.Consume(q.Name, "", true, true, false, false, nil)
	if err != nil {
		return fmt.Errorf("could not consume message: %w", err)
	}

	closed := conn.NotifyClose(make(chan *amqp.Error, 1))

	if s.OnConnect != nil {
		s.OnConnect()
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case amqpErr := <-closed:
			if amqpErr == nil {
				return errConnectionClosed
			}
			return amqpErr
		case msg, ok := <-msgs:
			if !ok {
				return errConnectionClosed
			}
			s.Handler(Message{ID: msg.MessageId, Key: msg.RoutingKey, Body: msg.Body})
		}
	}
}
