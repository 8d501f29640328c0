package database

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// NewRedisClient init redis connection, Sentinel failover is used when SentinelAddrs is set
func NewRedisClient(c RedisConnection) (*redis.Client, error) {
	var rdb *redis.Client
	if len(c.SentinelAddrs) > 0 {
		rdb = redis.NewFailoverClient(&redis.FailoverOptions{
			MasterName:    c.MasterName,    // 哨兵主节点名称
			SentinelAddrs: c.SentinelAddrs, // 哨兵地址列表
			DB:            c.DB,
		})
	} else {
		rdb = redis.NewClient(&redis.Options{
			Addr: c.Addr,
			DB:   c.DB,
		})
	}

	// 测试连接
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return rdb, nil
}

// RedisPublisher publish payloads to one redis pub/sub channel
type RedisPublisher interface {
	Publish(ctx context.Context, payload []byte) error
	Close() error
}

type redisPublisher struct {
	client  *redis.Client
	channel string
}

// NewRedisPublisher create a publisher bound to channel
func NewRedisPublisher(client *redis.Client, channel string) RedisPublisher {
	return &redisPublisher{client: client, channel: channel}
}

func (r *redisPublisher) Publish(ctx context.Context, payload []byte) error {
	if err := r.client.Publish(ctx, r.channel, payload).Err(); err != nil {
		return fmt.Errorf("redis publish [%s]: %w", r.channel, err)
	}
	return nil
}

func (r *redisPublisher) Close() error {
	return r.client.Close()
}
