package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Publisher публикует события бронирований в durable-очередь RabbitMQ.
// Ошибки публикации логируются и возвращаются; вызывающая сторона их
// игнорирует - доставка событий не должна ломать основной поток запроса.
type Publisher struct {
	url    string
	queue  string
	logger Logger
}

// NewPublisher создает publisher. Соединение устанавливается на каждую
// публикацию: объем событий мал, а переживание обрывов соединения
// брокера получается бесплатно.
func NewPublisher(url, queue string, logger Logger) *Publisher {
	return &Publisher{url: url, queue: queue, logger: logger}
}

// Publish отправляет событие в очередь. Сообщения персистентные.
func (p *Publisher) Publish(ctx context.Context, event BookingEvent) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		p.logger.Warn("events: dial broker failed: %v", err)
		return fmt.Errorf("events: dial broker: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.logger.Warn("events: channel open failed: %v", err)
		return fmt.Errorf("events: open channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	// Идемпотентное объявление durable-очереди
	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		p.logger.Warn("events: queue declare failed: %v", err)
		return fmt.Errorf("events: declare queue: %w", err)
	}

	body, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("events: marshal event failed: %v", err)
		return fmt.Errorf("events: marshal event: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx, "", p.queue, false, false, pub); err != nil {
		p.logger.Warn("events: publish failed: %v", err)
		return fmt.Errorf("events: publish: %w", err)
	}

	return nil
}

// NopPublisher заглушка для конфигураций без брокера
type NopPublisher struct{}

// Publish ничего не делает
func (NopPublisher) Publish(ctx context.Context, event BookingEvent) error {
	return nil
}
