package domain

// UploadVideoReq usecase upload video request.
// Either File (raw bytes) or Identity (a pre-stored object name) must be set.
type UploadVideoReq struct {
	Title            string `validate:"required,max=512"`
	VideoType        string `validate:"required,max=128"`
	ScheduleDateTime string `validate:"omitempty,max=64"`

	// FileName is the uploaded file's name, used only as an extension hint
	FileName    string `validate:"omitempty,max=1024"`
	ContentType string `validate:"omitempty,max=255"`
	File        []byte

	// Identity is a caller-supplied durable identity; when set the digest is skipped
	Identity string `validate:"omitempty,max=1024"`

	// Prefix overrides the configured key prefix
	Prefix string `validate:"omitempty,max=256"`
}

// HasAsset report whether the request references an asset at all
func (r UploadVideoReq) HasAsset() bool {
	return len(r.File) > 0 || r.Identity != ""
}

// Asset 定義已寫入 object store 的影片
type Asset struct {
	Key              string
	Title            string
	VideoType        string
	ScheduleDateTime string
	ContentType      string
	Size             int64
	// FileName is the logical file name recorded in metadata: <title>.<ext>
	FileName  string
	PublicURL string
}

// UploadVideoRes usecase upload video response (final summary of a pipeline run)
type UploadVideoRes struct {
	RunID        string         `json:"run_id"`
	Key          string         `json:"key"`
	PublicURL    string         `json:"public_url"`
	Size         int64          `json:"size"`
	ContentType  string         `json:"content_type"`
	TranscriptID string         `json:"transcriptId"`
	StoreSkipped bool           `json:"store_skipped"`
	RecordID     string         `json:"record_id,omitempty"`
	Record       map[string]any `json:"record,omitempty"`
	States       []State        `json:"states"`
}
