package database

import (
	"testing"
	"time"

	"video_ingest_service/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKafkaWriterWithRetryUsesIntervalAsIs(t *testing.T) {
	logger.SetNewNop()

	start := time.Now()
	w, err := NewKafkaWriterWithRetry(KafkaConnection{
		Brokers:       []string{"127.0.0.1:1"},
		Topic:         "ingest-events",
		RetryCount:    3,
		RetryInterval: 20 * time.Millisecond,
	})
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.Nil(t, w)
	assert.Contains(t, err.Error(), "3 attempts")
	assert.GreaterOrEqual(t, elapsed, 60*time.Millisecond)
	assert.Less(t, elapsed, 5*time.Second, "retry interval must not be scaled by time.Second")
}

func TestNewKafkaWriterWithRetryNoBrokers(t *testing.T) {
	_, err := NewKafkaWriterWithRetry(KafkaConnection{RetryCount: 1})
	assert.Error(t, err)
}
