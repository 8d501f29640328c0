package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"video_ingest_service/internal/ingest/domain"
)

// ServiceTranscription names the transcription service in upstream errors
const ServiceTranscription = "transcription"

type transcriptionRepo struct {
	url    string
	apiKey string
	client HTTPDoer
}

// NewTranscriptionRepo create the transcription dispatcher client
func NewTranscriptionRepo(url, apiKey string, client HTTPDoer) TranscriptionRepo {
	if client == nil {
		client = defaultHTTPClient()
	}
	return &transcriptionRepo{url: url, apiKey: apiKey, client: client}
}

// Submit a job is accepted only on a 2xx status with a non-empty id;
// anything else is *domain.UpstreamError carrying status and body verbatim
func (r *transcriptionRepo) Submit(ctx context.Context, req domain.TranscriptionReq) (*domain.TranscriptionJob, error) {
	var headers map[string]string
	if r.apiKey != "" {
		headers = map[string]string{"Authorization": "Bearer " + r.apiKey}
	}

	status, body, err := postJSON(ctx, r.client, r.url, headers, req)
	if err != nil {
		return nil, fmt.Errorf("transcription submit: %w", err)
	}

	rejected := &domain.UpstreamError{Service: ServiceTranscription, Status: status, Body: string(body)}
	if !isSuccess(status) {
		return nil, rejected
	}

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, rejected
	}
	var id string
	switch v := raw["id"].(type) {
	case string:
		id = v
	case float64:
		id = strconv.FormatFloat(v, 'f', -1, 64)
	}
	if id == "" {
		// 2xx 但沒有 job id 視同失敗
		return nil, rejected
	}

	job := &domain.TranscriptionJob{ID: id, Raw: raw}
	if s, ok := raw["status"].(string); ok {
		job.Status = s
	}
	return job, nil
}
