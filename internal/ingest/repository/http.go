package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"video_ingest_service/internal/ingest/domain"
)

const (
	defaultHTTPTimeout = 30 * time.Second
	// 上游回應 body 最多保留的長度
	maxUpstreamBody = 64 << 10
)

// HTTPDoer is satisfied by *http.Client
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

func defaultHTTPClient() HTTPDoer {
	return &http.Client{Timeout: defaultHTTPTimeout}
}

// postJSON send body as JSON and return the status and the (bounded) response body
func postJSON(ctx context.Context, client HTTPDoer, url string, headers map[string]string, body any) (int, []byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxUpstreamBody))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, respBody, nil
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

// upsertBody is the upsert-by-title contract shared by the http record stores
type upsertBody struct {
	Table  string                `json:"table"`
	Title  string                `json:"title"`
	Fields domain.MetadataRecord `json:"fields"`
}

// parseStoredRecord accept `{"id":..,"fields":{..}}` or any JSON object;
// an empty or non-object body yields an empty record
func parseStoredRecord(body []byte) *domain.StoredRecord {
	rec := &domain.StoredRecord{}
	var raw map[string]any
	if len(bytes.TrimSpace(body)) == 0 || json.Unmarshal(body, &raw) != nil {
		return rec
	}

	if id, ok := raw["id"].(string); ok {
		rec.ID = id
	}
	if fields, ok := raw["fields"].(map[string]any); ok {
		rec.Fields = fields
	} else {
		rec.Fields = raw
	}
	return rec
}
