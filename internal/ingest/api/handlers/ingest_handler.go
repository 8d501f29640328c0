package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"video_ingest_service/internal/ingest/app"
	"video_ingest_service/internal/ingest/domain"
	"video_ingest_service/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// IngestHandler ingest http handler
type IngestHandler struct {
	IngestUseCase app.IngestUseCase
	// Timeout bounds one pipeline run, 0 means only the request context applies
	Timeout time.Duration
}

// NewIngestHandler create ingest handler
func NewIngestHandler(uc app.IngestUseCase, timeout time.Duration) *IngestHandler {
	return &IngestHandler{
		IngestUseCase: uc,
		Timeout:       timeout,
	}
}

// UploadVideo godoc
// @Summary Upload a video and run the ingest pipeline
// @Description Stores the video under its content key, registers metadata and submits it for transcription.
// @Description Either the video file or the filename of a pre-stored object is required.
// @Tags Ingest
// @Accept multipart/form-data
// @Produce json
// @Param video formData file false "Video File"
// @Param filename formData string false "Pre-stored object identity"
// @Param title formData string true "Video Title"
// @Param videoType formData string true "Video Type"
// @Param scheduleDateTime formData string false "Schedule Date-Time"
// @Param prefix query string false "Key prefix override"
// @Success 200 {object} domain.UploadVideoRes "Run summary"
// @Failure 400 {object} map[string]any "Client input error"
// @Failure 502 {object} map[string]any "Dependency rejection, upstream body attached"
// @Failure 500 {object} map[string]any "Dependency exception"
// @Failure 504 {object} map[string]any "Deadline exceeded"
// @Router /upload-video [post]
func (h *IngestHandler) UploadVideo(c *fiber.Ctx) error {
	req := domain.UploadVideoReq{
		Title:            c.FormValue("title"),
		VideoType:        c.FormValue("videoType"),
		ScheduleDateTime: c.FormValue("scheduleDateTime"),
		Identity:         c.FormValue("filename"),
		Prefix:           c.Query("prefix"),
	}

	// 有檔案才讀, 沒有就當作已存在的 identity
	if fileHeader, err := c.FormFile("video"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			logger.Log.Error("open upload failed", zap.Error(err))
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Failed to open file"})
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			logger.Log.Error("read upload failed", zap.Error(err))
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Failed to read file"})
		}
		req.File = data
		req.FileName = fileHeader.Filename
		req.ContentType = fileHeader.Header.Get(fiber.HeaderContentType)
	}

	ctx := c.UserContext()
	if h.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.Timeout)
		defer cancel()
	}

	res, err := h.IngestUseCase.UploadVideo(ctx, req)
	if err != nil {
		status, body := errorResponse(err)
		return c.Status(status).JSON(body)
	}
	return c.JSON(res)
}

// GetVideo godoc
// @Summary Stream a stored video object
// @Tags Ingest
// @Produce octet-stream
// @Param key path string true "Object key"
// @Success 200 {file} file "Object content"
// @Failure 400 {object} map[string]any "Invalid key"
// @Failure 404 {object} map[string]any "Object not found"
// @Router /video/{key} [get]
func (h *IngestHandler) GetVideo(c *fiber.Ctx) error {
	rc, info, err := h.IngestUseCase.GetVideo(c.UserContext(), c.Params("*"))
	switch {
	case errors.Is(err, domain.ErrClientInput):
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, domain.ErrAssetNotFound):
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "Video not found"})
	case err != nil:
		logger.Log.Error("get video failed", zap.Error(err))
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if info.ContentType != "" {
		c.Set(fiber.HeaderContentType, info.ContentType)
	}
	if info.Size > 0 {
		return c.SendStream(rc, int(info.Size))
	}
	return c.SendStream(rc)
}

// errorResponse map a pipeline error to its http status and json body
func errorResponse(err error) (int, fiber.Map) {
	body := fiber.Map{"error": err.Error()}

	var pe *domain.PipelineError
	if errors.As(err, &pe) {
		body["diagnostic"] = fiber.Map{
			"run_id": pe.RunID,
			"state":  string(pe.State),
			"error":  err.Error(),
		}
		if pe.UpstreamStatus != 0 {
			body["upstream_status"] = pe.UpstreamStatus
			body["upstream_body"] = pe.UpstreamBody
		}
	}

	switch {
	case errors.Is(err, domain.ErrClientInput):
		return http.StatusBadRequest, body
	case errors.Is(err, domain.ErrDependencyRejection):
		return http.StatusBadGateway, body
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, body
	default:
		return http.StatusInternalServerError, body
	}
}
