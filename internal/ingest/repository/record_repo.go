package repository

import (
	"context"

	"video_ingest_service/internal/ingest/domain"
)

// RecordRepo definition a metadata record store, upserting one record per title
type RecordRepo interface {
	Upsert(ctx context.Context, title string, fields domain.MetadataRecord) (*domain.StoredRecord, error)
}

// TranscriptionRepo definition the transcription service client
type TranscriptionRepo interface {
	Submit(ctx context.Context, req domain.TranscriptionReq) (*domain.TranscriptionJob, error)
}
