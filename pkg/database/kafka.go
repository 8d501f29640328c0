package database

import (
	"context"
	"fmt"
	"time"

	"video_ingest_service/pkg/logger"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// NewKafkaWriterWithRetry 嘗試連線 broker，成功後建立 Kafka Writer
func NewKafkaWriterWithRetry(k KafkaConnection) (*kafka.Writer, error) {
	if len(k.Brokers) == 0 {
		return nil, fmt.Errorf("kafka: no brokers configured")
	}

	var err error
	for attempt := 1; attempt <= k.RetryCount; attempt++ {
		var conn *kafka.Conn
		conn, err = kafka.DialContext(context.Background(), "tcp", k.Brokers[0])
		if err == nil {
			_ = conn.Close()
			logger.Log.Info("kafka writer ready", zap.Strings("brokers", k.Brokers), zap.String("topic", k.Topic), zap.Int("attempt", attempt))
			return &kafka.Writer{
				Addr:                   kafka.TCP(k.Brokers...),
				Topic:                  k.Topic,
				Balancer:               &kafka.LeastBytes{},
				AllowAutoTopicCreation: true,
			}, nil
		}

		logger.Log.Warn("kafka dial failed, retrying...",
			zap.Int("attempt", attempt),
			zap.Int("retry_count", k.RetryCount),
			zap.Error(err),
		)
		time.Sleep(k.RetryInterval)
	}

	return nil, fmt.Errorf("kafka writer: %d attempts: %w", k.RetryCount, err)
}
