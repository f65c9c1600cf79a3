package common

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

type Exchange string

type Queue string

type BindingKey string

type MessageProducer interface {
	Publish(ctx context.Context, msg []byte, key BindingKey, exchange Exchange) error
}

type MessageConsumer interface {
	Consume(key BindingKey, exchange Exchange, queue Queue) (<-chan amqp.Delivery, error)
}

// Binding routes Key on a direct Exchange into a durable Queue.
type Binding struct {
	Exchange Exchange
	Queue    Queue
	Key      BindingKey
}

const (
	ContactExchange     Exchange   = "contact_exchange"
	ContactMessageQueue Queue      = "contact_message_queue"
	ContactSubmittedKey BindingKey = "contact.submitted"
)

var ContactBinding = Binding{
	Exchange: ContactExchange,
	Queue:    ContactMessageQueue,
	Key:      ContactSubmittedKey,
}

// prefetch bounds the unacknowledged deliveries handed to a consumer.
const prefetch = 1

type MessageBroker struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewMessageBroker(uri string) (*MessageBroker, error) {
	conn, err := amqp.DialConfig(uri, amqp.Config{
		Heartbeat: 10 * time.Second,
		Properties: amqp.Table{
			"connection_name": "cleanblog",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("could not connect to AMQP: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("could not open channel: %w", err)
	}

	err = ch.Qos(prefetch, 0, false)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("could not set prefetch: %w", err)
	}

	return &MessageBroker{conn: conn, ch: ch}, nil
}

func (mb *MessageBroker) Close() error {
	err := mb.ch.Close()
	if err != nil {
		return err
	}

	return mb.conn.Close()
}

// IsClosed reports whether the broker connection has gone away.
func (mb *MessageBroker) IsClosed() bool {
	return mb.conn.IsClosed() || mb.ch.IsClosed()
}

// Declare creates the exchange, queue and binding described by b. Declaring an
// existing topology with the same arguments is a no-op.
func (mb *MessageBroker) Declare(b Binding) error {
	err := mb.ch.ExchangeDeclare(string(b.Exchange), amqp.ExchangeDirect, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("declare exchange %s: %w", b.Exchange, err)
	}

	_, err = mb.ch.QueueDeclare(string(b.Queue), true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("declare queue %s: %w", b.Queue, err)
	}

	err = mb.ch.QueueBind(string(b.Queue), string(b.Key), string(b.Exchange), false, nil)
	if err != nil {
		return fmt.Errorf("bind queue %s: %w", b.Queue, err)
	}

	return nil
}

// SetupContactExchange declares the topology carrying contact form submissions to the
// mail consumer.
func SetupContactExchange(mb *MessageBroker) error {
	return mb.Declare(ContactBinding)
}

// Publish sends a persistent JSON message. It fails when the exchange is missing.
func (mb *MessageBroker) Publish(ctx context.Context, msg []byte, key BindingKey, exchange Exchange) error {
	err := mb.ch.PublishWithContext(ctx, string(exchange), string(key), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    time.Now(),
		Body:         msg,
	})
	if err != nil {
		return fmt.Errorf("could not publish message: %w", err)
	}

	return nil
}

// Consume starts a manually acknowledged consumer on queue. The consumer tag names the
// binding key so that it can be told apart in the management UI.
func (mb *MessageBroker) Consume(key BindingKey, exchange Exchange, queue Queue) (<-chan amqp.Delivery, error) {
	tag := fmt.Sprintf("%s:%s", exchange, key)

	msgs, err := mb.ch.Consume(string(queue), tag, false, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("could not consume message: %w", err)
	}

	return msgs, nil
}
