package repository

import (
	"context"
	"fmt"

	"video_ingest_service/internal/ingest/domain"
)

// ServicePrimary names the primary store in upstream errors
const ServicePrimary = "primary"

type recordHTTPRepo struct {
	url    string
	table  string
	client HTTPDoer
}

// NewRecordHTTPRepo create a primary record store talking to a REST upsert endpoint
func NewRecordHTTPRepo(url, table string, client HTTPDoer) RecordRepo {
	if client == nil {
		client = defaultHTTPClient()
	}
	return &recordHTTPRepo{url: url, table: table, client: client}
}

// Upsert non-2xx returns *domain.UpstreamError with the body verbatim
func (r *recordHTTPRepo) Upsert(ctx context.Context, title string, fields domain.MetadataRecord) (*domain.StoredRecord, error) {
	status, body, err := postJSON(ctx, r.client, r.url, nil, upsertBody{
		Table:  r.table,
		Title:  title,
		Fields: fields.Normalize(),
	})
	if err != nil {
		return nil, fmt.Errorf("primary upsert: %w", err)
	}
	if !isSuccess(status) {
		return nil, &domain.UpstreamError{Service: ServicePrimary, Status: status, Body: string(body)}
	}
	return parseStoredRecord(body), nil
}
