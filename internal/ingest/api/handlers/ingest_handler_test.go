package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"video_ingest_service/internal/ingest/api/handlers"
	"video_ingest_service/internal/ingest/api/router"
	"video_ingest_service/internal/ingest/app"
	"video_ingest_service/internal/ingest/domain"
	"video_ingest_service/pkg/database"
	"video_ingest_service/pkg/logger"
	"video_ingest_service/pkg/token"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestApp(uc app.IngestUseCase, secret []byte) *fiber.App {
	logger.SetNewNop()
	a := fiber.New()
	router.RegisterRoutes(a, handlers.NewIngestHandler(uc, time.Minute), secret)
	return a
}

func uploadRequest(t *testing.T, fields map[string]string, file []byte, query string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if file != nil {
		part, err := w.CreateFormFile("video", "Ep12.mp4")
		require.NoError(t, err)
		_, err = part.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload-video"+query, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func decodeJSON(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestUploadVideoSuccess(t *testing.T) {
	uc := new(app.MockIngestUseCase)
	uc.On("UploadVideo", mock.Anything, mock.MatchedBy(func(req domain.UploadVideoReq) bool {
		return req.Title == "Ep12" &&
			req.VideoType == "podcast" &&
			req.ScheduleDateTime == "2026-10-20T10:00:00Z" &&
			req.FileName == "Ep12.mp4" &&
			req.ContentType == "application/octet-stream" &&
			string(req.File) == "video-bytes" &&
			req.Prefix == "raw/"
	})).Return(&domain.UploadVideoRes{
		RunID:        "run-1",
		Key:          "raw/abc.mp4",
		TranscriptID: "job-1",
		States:       []domain.State{domain.StateReceived, domain.StateCompleted},
	}, nil)

	resp, err := newTestApp(uc, nil).Test(uploadRequest(t, map[string]string{
		"title":            "Ep12",
		"videoType":        "podcast",
		"scheduleDateTime": "2026-10-20T10:00:00Z",
	}, []byte("video-bytes"), "?prefix=raw/"))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeJSON(t, resp)
	assert.Equal(t, "job-1", body["transcriptId"])
	assert.Equal(t, "raw/abc.mp4", body["key"])
	uc.AssertExpectations(t)
}

func TestUploadVideoPreStoredIdentity(t *testing.T) {
	uc := new(app.MockIngestUseCase)
	uc.On("UploadVideo", mock.Anything, mock.MatchedBy(func(req domain.UploadVideoReq) bool {
		return req.Identity == "abc" && req.File == nil
	})).Return(&domain.UploadVideoRes{Key: "abc.mov", StoreSkipped: true}, nil)

	resp, err := newTestApp(uc, nil).Test(uploadRequest(t, map[string]string{
		"title":     "Ep12",
		"videoType": "podcast",
		"filename":  "abc",
	}, nil, ""))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, decodeJSON(t, resp)["store_skipped"])
	uc.AssertExpectations(t)
}

func TestUploadVideoErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		check  func(t *testing.T, body map[string]any)
	}{
		{
			name:   "client input",
			err:    fmt.Errorf("%w: title is required", domain.ErrClientInput),
			status: http.StatusBadRequest,
		},
		{
			name: "dependency rejection",
			err: &domain.PipelineError{
				RunID:          "run-1",
				State:          domain.StateMetadataRegistered,
				Kind:           domain.ErrDependencyRejection,
				UpstreamStatus: http.StatusUnprocessableEntity,
				UpstreamBody:   "INVALID_VALUE_FOR_COLUMN",
				Err:            errors.New("primary responded 422"),
			},
			status: http.StatusBadGateway,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, float64(http.StatusUnprocessableEntity), body["upstream_status"])
				assert.Equal(t, "INVALID_VALUE_FOR_COLUMN", body["upstream_body"])
			},
		},
		{
			name: "dependency exception",
			err: &domain.PipelineError{
				RunID: "run-2",
				State: domain.StateAddressed,
				Kind:  domain.ErrDependencyException,
				Err:   errors.New("connection refused"),
			},
			status: http.StatusInternalServerError,
			check: func(t *testing.T, body map[string]any) {
				diag := body["diagnostic"].(map[string]any)
				assert.Equal(t, "run-2", diag["run_id"])
				assert.Equal(t, "Addressed", diag["state"])
				assert.Contains(t, diag["error"], "connection refused")
			},
		},
		{
			name: "deadline",
			err: &domain.PipelineError{
				RunID: "run-3",
				State: domain.StateStored,
				Kind:  domain.ErrDependencyException,
				Err:   fmt.Errorf("primary: %w", context.DeadlineExceeded),
			},
			status: http.StatusGatewayTimeout,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			uc := new(app.MockIngestUseCase)
			uc.On("UploadVideo", mock.Anything, mock.Anything).Return(nil, tc.err)

			resp, err := newTestApp(uc, nil).Test(uploadRequest(t, map[string]string{"title": "Ep12"}, []byte("x"), ""))
			require.NoError(t, err)

			assert.Equal(t, tc.status, resp.StatusCode)
			body := decodeJSON(t, resp)
			assert.NotEmpty(t, body["error"])
			if tc.check != nil {
				tc.check(t, body)
			}
		})
	}
}

func TestGetVideo(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		uc := new(app.MockIngestUseCase)
		uc.On("GetVideo", mock.Anything, "raw/abc.mp4").Return(
			io.NopCloser(strings.NewReader("data")),
			&database.ObjectInfo{Key: "raw/abc.mp4", Size: 4, ContentType: "video/mp4"},
			nil,
		)

		resp, err := newTestApp(uc, nil).Test(httptest.NewRequest(http.MethodGet, "/video/raw/abc.mp4", nil))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "video/mp4", resp.Header.Get("Content-Type"))
		data, _ := io.ReadAll(resp.Body)
		assert.Equal(t, "data", string(data))
	})

	t.Run("not found", func(t *testing.T) {
		uc := new(app.MockIngestUseCase)
		uc.On("GetVideo", mock.Anything, "missing.mp4").Return(nil, nil, domain.ErrAssetNotFound)

		resp, err := newTestApp(uc, nil).Test(httptest.NewRequest(http.MethodGet, "/video/missing.mp4", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("invalid key", func(t *testing.T) {
		uc := new(app.MockIngestUseCase)
		uc.On("GetVideo", mock.Anything, mock.Anything).Return(nil, nil, fmt.Errorf("%w: invalid key", domain.ErrClientInput))

		resp, err := newTestApp(uc, nil).Test(httptest.NewRequest(http.MethodGet, "/video/a..b", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestUploadVideoRequiresTokenWhenAuthEnabled(t *testing.T) {
	secret := []byte("api-secret")
	uc := new(app.MockIngestUseCase)
	uc.On("UploadVideo", mock.Anything, mock.Anything).Return(&domain.UploadVideoRes{Key: "abc.mp4"}, nil)
	a := newTestApp(uc, secret)

	resp, err := a.Test(uploadRequest(t, map[string]string{"title": "Ep12", "videoType": "podcast"}, []byte("x"), ""))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	uc.AssertNotCalled(t, "UploadVideo", mock.Anything, mock.Anything)

	tok, _, err := token.GenerateJWT(secret, "ingestctl", "upload", "test", time.Minute)
	require.NoError(t, err)
	req := uploadRequest(t, map[string]string{"title": "Ep12", "videoType": "podcast"}, []byte("x"), "")
	req.Header.Set("Authorization", "Bearer "+tok)

	resp, err = a.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestConnectCheckAndDebug(t *testing.T) {
	a := newTestApp(new(app.MockIngestUseCase), nil)

	resp, err := a.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = a.Test(httptest.NewRequest(http.MethodPost, "/debug?service=ingest&status=nope", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = a.Test(httptest.NewRequest(http.MethodPost, "/debug?service=ingest&status=true", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, logger.Log.DebugMode())
	logger.Log.SetDebugMode(false)
}
