package main

import (
	"context"
	"fmt"
	"net/http"

	"video_ingest_service/internal/ingest/repository"
	"video_ingest_service/pkg/config"
	"video_ingest_service/pkg/database"
	"video_ingest_service/pkg/logger"

	"go.uber.org/zap"
)

const defaultTable = "Video posts"

func newObjectStore(ctx context.Context, c config.ObjectStoreConfig) (database.ObjectStore, error) {
	conn := database.ObjectStoreConnection{
		Endpoint:      c.Endpoint,
		Region:        c.Region,
		User:          c.User,
		Password:      c.Password,
		BucketName:    c.BucketName,
		UseSSL:        c.UseSSL,
		RetryCount:    c.RetryCount,
		RetryInterval: config.Seconds(c.RetryInterval),
	}

	if c.Driver == config.DriverS3 {
		client, err := database.NewS3Connection(ctx, conn)
		if err != nil {
			return nil, err
		}
		return client, nil
	}

	client, err := database.NewMinIOConnection(conn)
	if err != nil {
		return nil, err
	}
	return client, nil
}

func newPrimary(c config.PrimaryConfig, client *http.Client) (repository.RecordRepo, error) {
	table := tableName(c.Table)

	switch c.Driver {
	case config.DriverPostgres:
		pg := c.PostgreSQL
		db, err := database.NewPGConnection(database.Connection{
			ConnectStr:    database.PostgresDSN(pg.Host, pg.Port, pg.User, pg.Password, pg.Database),
			RetryCount:    pg.RetryCount,
			RetryInterval: config.Seconds(pg.RetryInterval),
		})
		if err != nil {
			return nil, err
		}

		// 自動遷移 record 資料表
		repo := repository.NewRecordPGRepo(db, table)
		if err := repo.AutoMigrate(); err != nil {
			return nil, fmt.Errorf("migrate video posts: %w", err)
		}
		return repo, nil

	default:
		return repository.NewRecordHTTPRepo(c.URL, table, client), nil
	}
}

// newMirror return a nil repo when the mirror is disabled; the returned close func is always callable
func newMirror(ctx context.Context, c config.MirrorConfig, client *http.Client) (repository.RecordRepo, func(), error) {
	noop := func() {}
	if !c.Enabled {
		logger.Log.Info("mirror metadata store disabled")
		return nil, noop, nil
	}
	table := tableName(c.Table)

	switch c.Driver {
	case config.DriverMongo:
		m := c.Mongo
		mdb, err := database.NewMongoDB(ctx, database.Connection{
			ConnectStr:    database.MongoURI(m.Host, m.Port, m.User, m.Password),
			RetryCount:    m.RetryCount,
			RetryInterval: config.Seconds(m.RetryInterval),
		}, m.Database)
		if err != nil {
			return nil, noop, err
		}
		closeFn := func() {
			if err := mdb.Close(context.Background()); err != nil {
				logger.Log.Warn("mongo close failed", zap.Error(err))
			}
		}
		return repository.NewMirrorMongoRepo(mdb.Database, m.Collection, table), closeFn, nil

	default:
		var fetch repository.CredentialFetcher
		switch c.Credential.Source {
		case config.CredentialJWT:
			fetch = repository.JWTCredentialFetcher(c.Credential.JWTSecret, c.Credential.ClientID, c.Credential.Issuer, 0)
		default:
			fetch = repository.HTTPCredentialFetcher(c.Credential.TokenURL, c.Credential.ClientID, c.Credential.ClientSecret, client)
		}
		return repository.NewMirrorHTTPRepo(c.URL, table, repository.NewCachedCredential(fetch), client), noop, nil
	}
}

func newTranscription(c config.TranscriptionConfig, client *http.Client) repository.TranscriptionRepo {
	return repository.NewTranscriptionRepo(c.URL, c.APIKey, client)
}

func tableName(t string) string {
	if t == "" {
		return defaultTable
	}
	return t
}
