package database

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrObjectNotFound is returned by ObjectStore.Stat and Get for a missing key
var ErrObjectNotFound = errors.New("object not found")

// ObjectStore definition the object store gateway.
//
// Put must only be called after Exists returned false for the same key within one
// pipeline run. The check and the write are not atomic: two concurrent runs with the
// same key may both write. That is benign only while keys are content-derived (same
// key, same bytes); a key scheme that lets different content share a key breaks it.
type ObjectStore interface {
	Exists(ctx context.Context, key string) (bool, error)
	Stat(ctx context.Context, key string) (*ObjectInfo, error)
	Get(ctx context.Context, key string) (io.ReadCloser, *ObjectInfo, error)
	Put(ctx context.Context, key string, data []byte, contentType string, metadata map[string]string) error
}

// ObjectInfo describe a stored object
type ObjectInfo struct {
	Key          string
	Size         int64
	ContentType  string
	UserMetadata map[string]string
}

// Connection definition sql setting
type Connection struct {
	ConnectStr string

	RetryCount    int
	RetryInterval time.Duration
}

// ObjectStoreConnection definition minio / s3 connection
type ObjectStoreConnection struct {
	Endpoint   string
	Region     string
	User       string
	Password   string
	BucketName string
	UseSSL     bool

	RetryCount    int
	RetryInterval time.Duration
}

// KafkaConnection definition kafka
type KafkaConnection struct {
	Brokers       []string
	Topic         string
	RetryCount    int
	RetryInterval time.Duration
}

// RedisConnection definition redis, Sentinel is used when SentinelAddrs is set
type RedisConnection struct {
	Addr          string
	MasterName    string
	SentinelAddrs []string
	DB            int
}
