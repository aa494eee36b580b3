package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/Gallery/internal/config"
	"github.com/GoArmGo/Gallery/internal/messaging/payloads"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Client - клиент RabbitMQ для событий о состоянии страницы.
// События публикуются в fanout-обменник, каждый наблюдатель получает свою очередь.
type Client struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	logger   *slog.Logger
}

// NewClient подключается к RabbitMQ и объявляет обменник
func NewClient(cfg *config.Config, logger *slog.Logger) (*Client, error) {
	conn, err := amqp.Dial(cfg.RabbitMQ.RabbitMQURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	// Идемпотентно: обменник создается, если его нет
	err = ch.ExchangeDeclare(
		cfg.RabbitMQ.RabbitMQExchange, // name
		amqp.ExchangeFanout,           // kind
		true,                          // durable
		false,                         // auto-deleted
		false,                         // internal
		false,                         // no-wait
		nil,                           // arguments
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	logger.Info("rabbitmq connected", "exchange", cfg.RabbitMQ.RabbitMQExchange)
	return &Client{
		conn:     conn,
		channel:  ch,
		exchange: cfg.RabbitMQ.RabbitMQExchange,
		logger:   logger,
	}, nil
}

// Close закрывает канал и соединение
func (c *Client) Close() error {
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			c.logger.Warn("error closing rabbitmq channel", "error", err)
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			return fmt.Errorf("error closing rabbitmq connection: %w", err)
		}
	}
	c.logger.Info("rabbitmq connection closed")
	return nil
}

// PublishPageState реализует ports.PageStatePublisher.
func (c *Client) PublishPageState(ctx context.Context, payload payloads.PageStatePayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload to JSON: %w", err)
	}

	publishCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = c.channel.PublishWithContext(
		publishCtx,
		c.exchange, // exchange
		"",         // routing key, fanout его игнорирует
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType: "application/json",
			MessageId:   payload.EventID.String(),
			Timestamp:   payload.OccurredAt,
			Body:        body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish a message: %w", err)
	}

	c.logger.Debug("page state published", "event_id", payload.EventID, "page", payload.Page, "status", payload.Status)
	return nil
}

// StartConsumingPageStates реализует ports.PageStateConsumer.
// Очередь эксклюзивная и удаляется при отключении наблюдателя.
// Канал done закрывается, когда брокер закрыл доставку или отменен ctx.
func (c *Client) StartConsumingPageStates(ctx context.Context, handler func(context.Context, payloads.PageStatePayload) error) (<-chan struct{}, error) {
	q, err := c.channel.QueueDeclare(
		"",    // name, генерирует сервер
		false, // durable
		true,  // delete when unused
		true,  // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return nil, fmt.Errorf("failed to declare a queue: %w", err)
	}

	if err := c.channel.QueueBind(q.Name, "", c.exchange, false, nil); err != nil {
		return nil, fmt.Errorf("failed to bind queue %s: %w", q.Name, err)
	}

	msgs, err := c.channel.Consume(
		q.Name, // queue
		"",     // consumer
		false,  // auto-ack
		true,   // exclusive
		false,  // no-local
		false,  // no-wait
		nil,    // args
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register a consumer: %w", err)
	}

	c.logger.Info("consumer registered", "queue", q.Name, "exchange", c.exchange)

	done := make(chan struct{})
	go func() {
		defer close(done)
		consume(ctx, c.logger, msgs, handler)
	}()

	return done, nil
}

// consume обрабатывает доставки, пока канал открыт и ctx не отменен
func consume(ctx context.Context, logger *slog.Logger, msgs <-chan amqp.Delivery, handler func(context.Context, payloads.PageStatePayload) error) {
	for {
		select {
		case msg, ok := <-msgs:
			if !ok {
				logger.Warn("rabbitmq delivery channel closed, stopping consumer")
				return
			}
			process(ctx, logger, msg.Body, msg, handler)
		case <-ctx.Done():
			logger.Info("context cancelled, stopping rabbitmq consumer")
			return
		}
	}
}

// acknowledger - часть amqp.Delivery, нужная для подтверждения
type acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

// process декодирует сообщение и передает его обработчику.
// Битые сообщения отклоняются без возврата в очередь, ошибки обработчика возвращают сообщение в очередь.
func process(ctx context.Context, logger *slog.Logger, body []byte, ack acknowledger, handler func(context.Context, payloads.PageStatePayload) error) {
	var payload payloads.PageStatePayload
	if err := json.Unmarshal(body, &payload); err != nil {
		logger.Error("error unmarshalling message", "error", err, "body", string(body))
		if err := ack.Nack(false, false); err != nil {
			logger.Error("error nacking message after unmarshal failure", "error", err)
		}
		return
	}

	if err := handler(ctx, payload); err != nil {
		logger.Error("error processing message", "event_id", payload.EventID, "error", err)
		if err := ack.Nack(false, true); err != nil {
			logger.Error("error nacking message after processing failure", "error", err)
		}
		return
	}

	if err := ack.Ack(false); err != nil {
		logger.Error("error acking message", "error", err)
	}
}
