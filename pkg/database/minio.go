package database

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"video_ingest_service/pkg/logger"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// MinIOClient definition minio client, implements ObjectStore
type MinIOClient struct {
	Client     *minio.Client
	BucketName string
}

var _ ObjectStore = (*MinIOClient)(nil)

// NewMinIOConnection create a new minio connection have retry
func NewMinIOConnection(d ObjectStoreConnection) (*MinIOClient, error) {
	var mc *MinIOClient
	var err error

	for i := 1; i <= d.RetryCount; i++ {
		mc, err = NewMinioClient(d.Endpoint, d.User, d.Password, d.BucketName, d.UseSSL)
		if err == nil {
			logger.Log.Info("minIO connected", zap.String("endpoint", d.Endpoint), zap.Int("attempt", i))
			return mc, nil
		}

		logger.Log.Warn("minIO connect failed, retrying...",
			zap.String("endpoint", d.Endpoint),
			zap.Int("attempt", i),
			zap.Int("retry_count", d.RetryCount),
			zap.Error(err),
		)
		time.Sleep(d.RetryInterval)
	}

	return mc, err
}

// NewMinioClient create a new minio client and make sure the bucket exists
func NewMinioClient(endpoint, accessKey, secretKey, bucketName string, useSSL bool) (*MinIOClient, error) {
	minioClient, err := minio.New(endpoint,
		&minio.Options{
			Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
			Secure: useSSL,
		})
	if err != nil {
		return nil, fmt.Errorf("init minio: %w", err)
	}

	ctx := context.Background()
	exists, err := minioClient.BucketExists(ctx, bucketName)
	if err != nil {
		return nil, fmt.Errorf("check bucket [%s]: %w", bucketName, err)
	}

	// bucket 不存在就建立
	if !exists {
		if err = minioClient.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("make bucket [%s]: %w", bucketName, err)
		}
		logger.Log.Info("bucket created", zap.String("bucket", bucketName))
	}

	return &MinIOClient{
		Client:     minioClient,
		BucketName: bucketName,
	}, nil
}

// Exists check whether key is stored
func (m *MinIOClient) Exists(ctx context.Context, key string) (bool, error) {
	_, err := m.Stat(ctx, key)
	if err == ErrObjectNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Stat return the stored object's info or ErrObjectNotFound
func (m *MinIOClient) Stat(ctx context.Context, key string) (*ObjectInfo, error) {
	info, err := m.Client.StatObject(ctx, m.BucketName, key, minio.StatObjectOptions{})
	if err != nil {
		if isMinIONotFound(err) {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("stat object [%s]: %w", key, err)
	}
	return &ObjectInfo{
		Key:          info.Key,
		Size:         info.Size,
		ContentType:  info.ContentType,
		UserMetadata: info.UserMetadata,
	}, nil
}

// Get open the stored object for reading; the caller closes the reader
func (m *MinIOClient) Get(ctx context.Context, key string) (io.ReadCloser, *ObjectInfo, error) {
	info, err := m.Stat(ctx, key)
	if err != nil {
		return nil, nil, err
	}
	obj, err := m.Client.GetObject(ctx, m.BucketName, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, nil, fmt.Errorf("get object [%s]: %w", key, err)
	}
	return obj, info, nil
}

// Put upload data under key with the given content type and custom metadata
func (m *MinIOClient) Put(ctx context.Context, key string, data []byte, contentType string, metadata map[string]string) error {
	_, err := m.Client.PutObject(ctx, m.BucketName, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: metadata,
	})
	if err != nil {
		return fmt.Errorf("put object [%s]: %w", key, err)
	}
	return nil
}

func isMinIONotFound(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound
}
