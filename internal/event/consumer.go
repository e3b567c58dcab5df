package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"profile-service/internal/models"

	"github.com/rabbitmq/amqp091-go"
)

type Consumer interface {
	Start() error
	Close() error
}

// AccountWriter is the piece of the account repository the consumer needs to
// keep local account records in step with registration events.
type AccountWriter interface {
	Upsert(ctx context.Context, account *models.Account) error
}

type EventConsumer struct {
	conn      *amqp091.Connection
	channel   *amqp091.Channel
	queueName string
	accounts  AccountWriter
	shutdown  chan struct{}
	wg        sync.WaitGroup
	enabled   bool
}

type ExchangeConfig struct {
	Name       string
	Type       string
	Durable    bool
	AutoDelete bool
	Internal   bool
	NoWait     bool
	Args       amqp091.Table
}

type BindingConfig struct {
	Exchange   string
	RoutingKey string
}

func NewEventConsumer(rabbitURI string, accounts AccountWriter) (*EventConsumer, error) {
	if rabbitURI == "" {
		log.Println("Warning: RabbitMQ URI is empty, event consumption is disabled")
		return &EventConsumer{
			accounts: accounts,
			shutdown: make(chan struct{}),
			enabled:  false,
		}, nil
	}

	conn, err := amqp091.Dial(rabbitURI)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	err = channel.Qos(
		10,    // prefetch count
		0,     // prefetch size
		false, // global
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}

	return &EventConsumer{
		conn:      conn,
		channel:   channel,
		queueName: "profile-service-events",
		accounts:  accounts,
		shutdown:  make(chan struct{}),
		enabled:   true,
	}, nil
}

func (c *EventConsumer) Start() error {
	if !c.enabled {
		log.Println("Event consumption is disabled, not starting consumer")
		return nil
	}

	exchanges := []ExchangeConfig{
		{
			Name:       "user-events",
			Type:       "topic",
			Durable:    true,
			AutoDelete: false,
			Internal:   false,
			NoWait:     false,
		},
	}

	for _, exchange := range exchanges {
		err := c.channel.ExchangeDeclare(
			exchange.Name,
			exchange.Type,
			exchange.Durable,
			exchange.AutoDelete,
			exchange.Internal,
			exchange.NoWait,
			exchange.Args,
		)
		if err != nil {
			return fmt.Errorf("failed to declare exchange %s: %w", exchange.Name, err)
		}
		log.Printf("Declared exchange: %s", exchange.Name)
	}

	_, err := c.channel.QueueDeclare(
		c.queueName, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}
	log.Printf("Declared queue: %s", c.queueName)

	bindings := []BindingConfig{
		{Exchange: "user-events", RoutingKey: "user.#"},
	}

	for _, binding := range bindings {
		err := c.channel.QueueBind(
			c.queueName,        // queue name
			binding.RoutingKey, // routing key
			binding.Exchange,   // exchange
			false,              // no-wait
			nil,                // arguments
		)
		if err != nil {
			return fmt.Errorf("failed to bind queue to exchange %s with key %s: %w",
				binding.Exchange, binding.RoutingKey, err)
		}
		log.Printf("Bound queue %s to exchange %s with routing key %s",
			c.queueName, binding.Exchange, binding.RoutingKey)
	}

	msgs, err := c.channel.Consume(
		c.queueName, // queue
		"",          // consumer
		false,       // auto-ack
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return fmt.Errorf("failed to register a consumer: %w", err)
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.consume(msgs)
	}()

	log.Println("Event consumer started")
	return nil
}

func (c *EventConsumer) consume(msgs <-chan amqp091.Delivery) {
	for {
		select {
		case <-c.shutdown:
			log.Println("Stopping event consumer")
			return
		case msg, ok := <-msgs:
			if !ok {
				log.Println("Message channel closed by broker, event consumption stopped; restart the service to resume")
				return
			}

			err := c.processMessage(msg)
			if err != nil {
				log.Printf("Error processing message: %v", err)
				if err := msg.Nack(false, true); err != nil {
					log.Printf("Error NACKing message: %v", err)
				}
			} else {
				if err := msg.Ack(false); err != nil {
					log.Printf("Error ACKing message: %v", err)
				}
			}
		}
	}
}

func (c *EventConsumer) processMessage(msg amqp091.Delivery) error {
	log.Printf("Processing message from exchange '%s' with routing key: %s", msg.Exchange, msg.RoutingKey)

	switch msg.RoutingKey {
	case "user.registered":
		return c.handleUserRegistered(msg.Body)
	default:
		log.Printf("Unknown routing key: %s from exchange: %s", msg.RoutingKey, msg.Exchange)
		return nil // Acknowledge the message to avoid requeuing
	}
}

func (c *EventConsumer) handleUserRegistered(body []byte) error {
	var event models.UserRegisterEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("failed to unmarshal user registered event: %w", err)
	}

	if event.UserID == "" {
		log.Println("Ignoring user registered event without a user id")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	account := &models.Account{
		ID:     event.UserID,
		Name:   event.Username,
		Email:  event.Email,
		Avatar: event.Avatar,
	}
	if err := c.accounts.Upsert(ctx, account); err != nil {
		return fmt.Errorf("failed to record registered user %s: %w", event.UserID, err)
	}

	log.Printf("User registered: ID=%s, Username=%s", event.UserID, event.Username)
	return nil
}

func (c *EventConsumer) Close() error {
	if !c.enabled {
		return nil
	}

	close(c.shutdown)
	c.wg.Wait()

	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			log.Printf("Error closing RabbitMQ channel: %v", err)
		}
	}

	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			return fmt.Errorf("error closing RabbitMQ connection: %w", err)
		}
	}

	return nil
}
