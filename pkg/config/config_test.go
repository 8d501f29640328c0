package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testYAML = `
port: "9090"
request_timeout: 45s
public_host: ${TEST_PUBLIC_HOST}
object_store:
  driver: minio
  bucket_name: videos
  retry_count: 5
  retry_interval: 3
primary:
  driver: http
  url: http://primary/update
mirror:
  enabled: true
  driver: http
  url: http://mirror/upsert
  credential:
    source: jwt
    jwt_secret: s3cret
transcription:
  url: http://revai/jobs
log_sink:
  driver: kafka
  kafka:
    brokers: ["k1:9092", "k2:9092"]
    topic: events
`

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ingest_test.yaml"), []byte(testYAML), 0644))
	t.Setenv("TEST_PUBLIC_HOST", "cdn.example.com")

	cfg, err := LoadConfig[Ingest]("ingest_test", dir)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 45*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "cdn.example.com", cfg.PublicHost)
	assert.Equal(t, CredentialJWT, cfg.Mirror.Credential.Source)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.LogSink.Kafka.Brokers)
	assert.Equal(t, 3*time.Second, Seconds(cfg.ObjectStore.RetryInterval))
	assert.NoError(t, cfg.Validate())
}

func TestSeconds(t *testing.T) {
	assert.Equal(t, time.Duration(0), Seconds(0))
	assert.Equal(t, 3*time.Second, Seconds(3))
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig[Ingest]("does_not_exist", t.TempDir())
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Ingest {
		return Ingest{
			Port:          "8080",
			PublicHost:    "cdn.example.com",
			ObjectStore:   ObjectStoreConfig{Driver: DriverMinIO, BucketName: "videos"},
			Primary:       PrimaryConfig{Driver: DriverPostgres},
			Transcription: TranscriptionConfig{URL: "http://revai"},
		}
	}

	t.Run("valid", func(t *testing.T) {
		cfg := valid()
		assert.NoError(t, cfg.Validate())
	})

	t.Run("unknown object store driver", func(t *testing.T) {
		cfg := valid()
		cfg.ObjectStore.Driver = "gcs"
		assert.ErrorContains(t, cfg.Validate(), "object_store.driver")
	})

	t.Run("http primary without url", func(t *testing.T) {
		cfg := valid()
		cfg.Primary.Driver = DriverHTTP
		assert.ErrorContains(t, cfg.Validate(), "primary.url")
	})

	t.Run("mirror with unknown credential source", func(t *testing.T) {
		cfg := valid()
		cfg.Mirror = MirrorConfig{Enabled: true, Driver: DriverHTTP, URL: "http://mirror"}
		assert.ErrorContains(t, cfg.Validate(), "mirror.credential.source")
	})

	t.Run("disabled mirror is not checked", func(t *testing.T) {
		cfg := valid()
		cfg.Mirror = MirrorConfig{Enabled: false, Driver: "bogus"}
		assert.NoError(t, cfg.Validate())
	})

	t.Run("auth without secret", func(t *testing.T) {
		cfg := valid()
		cfg.Auth.Enabled = true
		assert.ErrorContains(t, cfg.Validate(), "auth.jwt_secret")
	})
}
