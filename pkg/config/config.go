package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"video_ingest_service/pkg"
)

// Driver names accepted by the ingest service
const (
	DriverMinIO    = "minio"
	DriverS3       = "s3"
	DriverHTTP     = "http"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverKafka    = "kafka"
	DriverRedis    = "redis"
	DriverRabbitMQ = "rabbitmq"
	DriverNone     = "none"

	CredentialFetch = "fetch"
	CredentialJWT   = "jwt"
)

// Ingest definition ingest_service YAML structure
type Ingest struct {
	Port           string        `mapstructure:"port"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	BodyLimitMB    int           `mapstructure:"body_limit_mb"`
	KeyPrefix      string        `mapstructure:"key_prefix"`
	PublicHost     string        `mapstructure:"public_host"`

	ObjectStore   ObjectStoreConfig   `mapstructure:"object_store"`
	Primary       PrimaryConfig       `mapstructure:"primary"`
	Mirror        MirrorConfig        `mapstructure:"mirror"`
	Transcription TranscriptionConfig `mapstructure:"transcription"`
	LogSink       LogSinkConfig       `mapstructure:"log_sink"`
	Auth          AuthConfig          `mapstructure:"auth"`
}

// ObjectStoreConfig definition object store setting
type ObjectStoreConfig struct {
	Driver        string `mapstructure:"driver"`
	Endpoint      string `mapstructure:"endpoint"`
	Region        string `mapstructure:"region"`
	User          string `mapstructure:"user"`
	Password      string `mapstructure:"password"`
	BucketName    string `mapstructure:"bucket_name"`
	UseSSL        bool   `mapstructure:"use_ssl"`
	RetryCount    int    `mapstructure:"retry_count"`
	RetryInterval int    `mapstructure:"retry_interval"` // seconds
}

// PrimaryConfig definition primary metadata store setting
type PrimaryConfig struct {
	Driver     string         `mapstructure:"driver"`
	URL        string         `mapstructure:"url"`
	Table      string         `mapstructure:"table"`
	PostgreSQL DatabaseConfig `mapstructure:"pg"`
}

// MirrorConfig definition secondary (mirror) metadata store setting
type MirrorConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Driver  string `mapstructure:"driver"`
	URL     string `mapstructure:"url"`
	Table   string `mapstructure:"table"`
	// Strict escalates a mirror failure to a run-fatal error
	Strict bool `mapstructure:"strict"`

	Credential CredentialConfig `mapstructure:"credential"`
	Mongo      DatabaseConfig   `mapstructure:"mongo"`
}

// CredentialConfig definition how the mirror bearer credential is obtained
type CredentialConfig struct {
	Source       string `mapstructure:"source"`
	TokenURL     string `mapstructure:"token_url"`
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	JWTSecret    string `mapstructure:"jwt_secret"`
	Issuer       string `mapstructure:"issuer"`
}

// TranscriptionConfig definition transcription service setting
type TranscriptionConfig struct {
	URL         string `mapstructure:"url"`
	APIKey      string `mapstructure:"api_key"`
	CallbackURL string `mapstructure:"callback_url"`
}

// LogSinkConfig definition remote log sink setting
type LogSinkConfig struct {
	Driver     string `mapstructure:"driver"`
	URL        string `mapstructure:"url"`
	Source     string `mapstructure:"source"`
	Service    string `mapstructure:"service"`
	BufferSize int    `mapstructure:"buffer_size"`

	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Redis    RedisConfig    `mapstructure:"redis"`
	RabbitMQ RabbitMQConfig `mapstructure:"rabbitmq"`
}

// AuthConfig definition upload API auth
type AuthConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	JWTSecret string `mapstructure:"jwt_secret"`
}

// KafkaConfig definition kafka setting
type KafkaConfig struct {
	Brokers       []string `mapstructure:"brokers"`
	Topic         string   `mapstructure:"topic"`
	RetryCount    int      `mapstructure:"retry_count"`
	RetryInterval int      `mapstructure:"retry_interval"` // seconds
}

// RedisConfig definition redis setting
type RedisConfig struct {
	Addr          string   `mapstructure:"addr"`
	MasterName    string   `mapstructure:"master_name"`
	SentinelAddrs []string `mapstructure:"sentinel_addrs"`
	RedisDB       int      `mapstructure:"redis_db"`
	Channel       string   `mapstructure:"channel"`
}

// RabbitMQConfig definition rabbitmq setting
type RabbitMQConfig struct {
	IP            string `mapstructure:"ip"`
	Port          string `mapstructure:"port"`
	User          string `mapstructure:"user"`
	Password      string `mapstructure:"password"`
	Queue         string `mapstructure:"queue"`
	RetryCount    int    `mapstructure:"retry_count"`
	RetryInterval int    `mapstructure:"retry_interval"` // seconds
}

// DatabaseConfig definition db setting
type DatabaseConfig struct {
	Host          string `mapstructure:"host"`
	Port          int    `mapstructure:"port"`
	User          string `mapstructure:"user"`
	Password      string `mapstructure:"password"`
	Database      string `mapstructure:"database"`
	Collection    string `mapstructure:"collection"`
	RetryInterval int    `mapstructure:"retry_interval"`
	RetryCount    int    `mapstructure:"retry_count"`
}

// Seconds convert a retry_interval setting (whole seconds) to a duration
func Seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

// Validate check the loaded config is usable before wiring collaborators
func (c *Ingest) Validate() error {
	var problems []string

	if c.Port == "" {
		problems = append(problems, "port is required")
	}
	if c.PublicHost == "" {
		problems = append(problems, "public_host is required")
	}
	if !pkg.Contains([]string{DriverMinIO, DriverS3}, c.ObjectStore.Driver) {
		problems = append(problems, fmt.Sprintf("object_store.driver %q is unknown", c.ObjectStore.Driver))
	}
	if c.ObjectStore.BucketName == "" {
		problems = append(problems, "object_store.bucket_name is required")
	}
	switch c.Primary.Driver {
	case DriverHTTP:
		if c.Primary.URL == "" {
			problems = append(problems, "primary.url is required for the http driver")
		}
	case DriverPostgres:
	default:
		problems = append(problems, fmt.Sprintf("primary.driver %q is unknown", c.Primary.Driver))
	}
	if c.Mirror.Enabled {
		switch c.Mirror.Driver {
		case DriverHTTP:
			if c.Mirror.URL == "" {
				problems = append(problems, "mirror.url is required for the http driver")
			}
			if !pkg.Contains([]string{CredentialFetch, CredentialJWT}, c.Mirror.Credential.Source) {
				problems = append(problems, fmt.Sprintf("mirror.credential.source %q is unknown", c.Mirror.Credential.Source))
			}
		case DriverMongo:
		default:
			problems = append(problems, fmt.Sprintf("mirror.driver %q is unknown", c.Mirror.Driver))
		}
	}
	if c.Transcription.URL == "" {
		problems = append(problems, "transcription.url is required")
	}
	if !pkg.Contains([]string{DriverHTTP, DriverKafka, DriverRedis, DriverRabbitMQ, DriverNone, ""}, c.LogSink.Driver) {
		problems = append(problems, fmt.Sprintf("log_sink.driver %q is unknown", c.LogSink.Driver))
	}
	if c.Auth.Enabled && c.Auth.JWTSecret == "" {
		problems = append(problems, "auth.jwt_secret is required when auth is enabled")
	}

	if len(problems) > 0 {
		return errors.New("invalid config: " + strings.Join(problems, "; "))
	}
	return nil
}
