package logsink

import (
	"net/http"

	"video_ingest_service/pkg/config"
	"video_ingest_service/pkg/database"
)

// NewFromConfig build a Client with the transport selected by cfg.Driver
func NewFromConfig(cfg config.LogSinkConfig, httpClient *http.Client) (*Client, error) {
	transport, err := newTransport(cfg, httpClient)
	if err != nil {
		return nil, err
	}
	return New(transport,
		WithBufferSize(cfg.BufferSize),
		WithSource(cfg.Source),
		WithService(cfg.Service),
	), nil
}

func newTransport(cfg config.LogSinkConfig, httpClient *http.Client) (Transport, error) {
	switch cfg.Driver {
	case config.DriverHTTP:
		var doer HTTPDoer
		if httpClient != nil {
			doer = httpClient
		}
		return NewHTTPTransport(cfg.URL, doer), nil

	case config.DriverKafka:
		writer, err := database.NewKafkaWriterWithRetry(database.KafkaConnection{
			Brokers:       cfg.Kafka.Brokers,
			Topic:         cfg.Kafka.Topic,
			RetryCount:    cfg.Kafka.RetryCount,
			RetryInterval: config.Seconds(cfg.Kafka.RetryInterval),
		})
		if err != nil {
			return nil, err
		}
		return NewKafkaTransport(writer, cfg.Service), nil

	case config.DriverRedis:
		rdb, err := database.NewRedisClient(database.RedisConnection{
			Addr:          cfg.Redis.Addr,
			MasterName:    cfg.Redis.MasterName,
			SentinelAddrs: cfg.Redis.SentinelAddrs,
			DB:            cfg.Redis.RedisDB,
		})
		if err != nil {
			return nil, err
		}
		return NewRedisTransport(database.NewRedisPublisher(rdb, cfg.Redis.Channel)), nil

	case config.DriverRabbitMQ:
		r := cfg.RabbitMQ
		conn, err := database.ConnectRabbitMQWithRetry(database.Connection{
			ConnectStr:    database.RabbitURL(r.IP, r.Port, r.User, r.Password),
			RetryCount:    r.RetryCount,
			RetryInterval: config.Seconds(r.RetryInterval),
		})
		if err != nil {
			return nil, err
		}
		ch, err := database.GetRabbitMQChannelWithRetry(conn, r.RetryCount, config.Seconds(r.RetryInterval))
		if err != nil {
			conn.Close()
			return nil, err
		}
		return NewRabbitTransport(database.NewRabbitRepository(conn, ch), r.Queue)

	default:
		return NopTransport{}, nil
	}
}
