package database

import (
	"fmt"
	"time"

	"video_ingest_service/pkg/logger"

	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// RabbitURL build an amqp url
func RabbitURL(host, port, user, password string) string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/", user, password, host, port)
}

// RabbitRepo definition rabbit repo
type RabbitRepo interface {
	GetRabbit() *amqp.Channel
	DeclareQueue(name string) error
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type rabbitRepo struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// NewRabbitRepository create a RabbitRepository, conn may be nil when the caller owns it
func NewRabbitRepository(conn *amqp.Connection, ch *amqp.Channel) RabbitRepo {
	return &rabbitRepo{conn: conn, channel: ch}
}

// ConnectRabbitMQWithRetry 嘗試連線到 RabbitMQ
func ConnectRabbitMQWithRetry(d Connection) (*amqp.Connection, error) {
	var conn *amqp.Connection
	var err error

	for attempt := 1; attempt <= d.RetryCount; attempt++ {
		conn, err = amqp.Dial(d.ConnectStr)
		if err == nil {
			logger.Log.Info("rabbitMQ connected", zap.Int("attempt", attempt))
			return conn, nil
		}

		logger.Log.Warn("rabbitMQ connect failed, retrying...",
			zap.Int("attempt", attempt),
			zap.Int("retry_count", d.RetryCount),
			zap.Error(err),
		)
		time.Sleep(d.RetryInterval)
	}

	return nil, fmt.Errorf("rabbitMQ: %d attempts: %w", d.RetryCount, err)
}

// GetRabbitMQChannelWithRetry 使用已有的 RabbitMQ 連線嘗試取得 Channel
func GetRabbitMQChannelWithRetry(conn *amqp.Connection, maxRetries int, baseDelay time.Duration) (*amqp.Channel, error) {
	var ch *amqp.Channel
	var err error

	for attempt := 1; attempt <= maxRetries; attempt++ {
		ch, err = conn.Channel()
		if err == nil {
			return ch, nil
		}

		logger.Log.Warn("rabbitMQ channel failed, retrying...", zap.Int("attempt", attempt), zap.Error(err))
		time.Sleep(baseDelay)
	}

	return nil, fmt.Errorf("rabbitMQ channel: %d attempts: %w", maxRetries, err)
}

func (r *rabbitRepo) GetRabbit() *amqp.Channel {
	return r.channel
}

// DeclareQueue declare a durable queue
func (r *rabbitRepo) DeclareQueue(name string) error {
	_, err := r.channel.QueueDeclare(name, true, false, false, false, nil)
	return err
}

func (r *rabbitRepo) Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	return r.channel.Publish(exchange, key, mandatory, immediate, msg)
}

func (r *rabbitRepo) Close() error {
	err := r.channel.Close()
	if r.conn != nil {
		if cerr := r.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
