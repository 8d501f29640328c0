package logsink

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"video_ingest_service/pkg/database"

	"github.com/segmentio/kafka-go"
	"github.com/streadway/amqp"
)

// HTTPDoer is satisfied by *http.Client
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPTransport POST each event as JSON
type HTTPTransport struct {
	url    string
	client HTTPDoer
}

// NewHTTPTransport create a http transport, client defaults to http.DefaultClient
func NewHTTPTransport(url string, client HTTPDoer) *HTTPTransport {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPTransport{url: url, client: client}
}

// Send post payload, non-2xx is an error
func (t *HTTPTransport) Send(ctx context.Context, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("log sink responded %d: %s", resp.StatusCode, body)
	}
	return nil
}

// Close do nothing
func (t *HTTPTransport) Close() error { return nil }

type kafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaTransport write each event to a kafka topic
type KafkaTransport struct {
	writer kafkaWriter
	key    []byte
}

// NewKafkaTransport create a kafka transport, key partitions events (usually the service name)
func NewKafkaTransport(writer kafkaWriter, key string) *KafkaTransport {
	return &KafkaTransport{writer: writer, key: []byte(key)}
}

// Send write payload
func (t *KafkaTransport) Send(ctx context.Context, payload []byte) error {
	return t.writer.WriteMessages(ctx, kafka.Message{Key: t.key, Value: payload})
}

// Close close the writer
func (t *KafkaTransport) Close() error { return t.writer.Close() }

// RedisTransport publish each event on a redis channel
type RedisTransport struct {
	publisher database.RedisPublisher
}

// NewRedisTransport create a redis transport
func NewRedisTransport(publisher database.RedisPublisher) *RedisTransport {
	return &RedisTransport{publisher: publisher}
}

// Send publish payload
func (t *RedisTransport) Send(ctx context.Context, payload []byte) error {
	return t.publisher.Publish(ctx, payload)
}

// Close close the redis client
func (t *RedisTransport) Close() error { return t.publisher.Close() }

// RabbitTransport publish each event to a rabbitmq queue
type RabbitTransport struct {
	repo  database.RabbitRepo
	queue string
}

// NewRabbitTransport create a rabbitmq transport and declare its queue
func NewRabbitTransport(repo database.RabbitRepo, queue string) (*RabbitTransport, error) {
	if err := repo.DeclareQueue(queue); err != nil {
		return nil, fmt.Errorf("declare queue [%s]: %w", queue, err)
	}
	return &RabbitTransport{repo: repo, queue: queue}, nil
}

// Send publish payload; amqp publish has no context, ctx is only checked up front
func (t *RabbitTransport) Send(ctx context.Context, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return t.repo.Publish("", t.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         payload,
	})
}

// Close close the channel and connection
func (t *RabbitTransport) Close() error { return t.repo.Close() }
