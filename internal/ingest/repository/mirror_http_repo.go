package repository

import (
	"context"
	"fmt"

	"video_ingest_service/internal/ingest/domain"
)

// ServiceMirror names the mirror store in upstream errors
const ServiceMirror = "mirror"

type mirrorHTTPRepo struct {
	url        string
	table      string
	client     HTTPDoer
	credential CredentialProvider
}

// NewMirrorHTTPRepo create a mirror record store authenticated with a bearer credential
func NewMirrorHTTPRepo(url, table string, credential CredentialProvider, client HTTPDoer) RecordRepo {
	if client == nil {
		client = defaultHTTPClient()
	}
	return &mirrorHTTPRepo{url: url, table: table, client: client, credential: credential}
}

func (r *mirrorHTTPRepo) Upsert(ctx context.Context, title string, fields domain.MetadataRecord) (*domain.StoredRecord, error) {
	bearer, err := r.credential.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("mirror credential: %w", err)
	}

	status, body, err := postJSON(ctx, r.client, r.url, map[string]string{
		"Authorization": "Bearer " + bearer,
	}, upsertBody{
		Table:  r.table,
		Title:  title,
		Fields: fields.Normalize(),
	})
	if err != nil {
		return nil, fmt.Errorf("mirror upsert: %w", err)
	}
	if !isSuccess(status) {
		return nil, &domain.UpstreamError{Service: ServiceMirror, Status: status, Body: string(body)}
	}
	return parseStoredRecord(body), nil
}
