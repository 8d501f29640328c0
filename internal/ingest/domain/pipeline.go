package domain

// State definition pipeline run state
type State string

const (
	StateReceived               State = "Received"
	StateAddressed              State = "Addressed"
	StateStored                 State = "Stored"
	StateStoreSkipped           State = "StoreSkipped"
	StateMetadataRegistered     State = "MetadataRegistered"
	StateTranscriptionSubmitted State = "TranscriptionSubmitted"
	StateMetadataFollowedUp     State = "MetadataFollowedUp"
	StateCompleted              State = "Completed"
	StateFailed                 State = "Failed"
)

// IsTerminal report whether no transition leaves s
func (s State) IsTerminal() bool {
	return s == StateCompleted || s == StateFailed
}

// TranscriptionReq 定義送往轉錄服務的工作
type TranscriptionReq struct {
	MediaURL    string `json:"mediaUrl"`
	Label       string `json:"label"`
	CallbackURL string `json:"callbackUrl,omitempty"`
}

// TranscriptionJob is an accepted transcription job
type TranscriptionJob struct {
	ID     string         `json:"id"`
	Status string         `json:"status,omitempty"`
	Raw    map[string]any `json:"-"`
}
