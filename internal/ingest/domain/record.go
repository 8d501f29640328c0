package domain

import (
	"fmt"
	"reflect"
	"time"

	"gorm.io/datatypes"
)

// Metadata record field names, as the record stores know them
const (
	FieldVideoURL         = "Video URL"
	FieldScheduleDateTime = "Schedule Date-Time"
	FieldVideoType        = "Video Type"
	FieldVideoFilename    = "Video Filename"
	FieldContentType      = "Content Type"
	FieldVideoFileSize    = "Video File Size"
	FieldVideoFileSizeNum = "Video File Size Number"
	FieldStatus           = "Status"
	FieldTranscriptID     = "Transcript ID"
)

// RecordStatus definition metadata processing status
type RecordStatus string

const (
	// RecordWorking set at intake
	RecordWorking RecordStatus = "Working"
	// RecordPendingTranscription set once the transcription job is accepted
	RecordPendingTranscription RecordStatus = "Pending Transcription"
)

// MetadataRecord maps field names to values describing an asset
type MetadataRecord map[string]any

// StoredRecord is what a primary store returns for an upsert
type StoredRecord struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

// Normalize return a copy without nil, empty-string, or nil-pointer values,
// so a store never receives a value it had no opinion about
func (r MetadataRecord) Normalize() MetadataRecord {
	out := make(MetadataRecord, len(r))
	for k, v := range r {
		if isEmpty(v) {
			continue
		}
		out[k] = v
	}
	return out
}

func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return s == ""
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.Len() == 0
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		if rv.IsNil() {
			return true
		}
		if rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
			return isEmpty(rv.Elem().Interface())
		}
	}
	return false
}

// InitialRecord build the intake record for a stored asset
func InitialRecord(a Asset) MetadataRecord {
	return MetadataRecord{
		FieldVideoURL:         a.PublicURL,
		FieldScheduleDateTime: a.ScheduleDateTime,
		FieldVideoType:        a.VideoType,
		FieldVideoFilename:    a.FileName,
		FieldContentType:      a.ContentType,
		FieldVideoFileSize:    FormatSizeMB(a.Size),
		FieldVideoFileSizeNum: a.Size,
		FieldStatus:           string(RecordWorking),
	}
}

// FollowUpRecord build the record pushed once the transcription job is known
func FollowUpRecord(transcriptID string) MetadataRecord {
	return MetadataRecord{
		FieldStatus:       string(RecordPendingTranscription),
		FieldTranscriptID: transcriptID,
	}
}

// FormatSizeMB render bytes as "x.xx MB" (1 MB = 1048576 bytes)
func FormatSizeMB(size int64) string {
	return fmt.Sprintf("%.2f MB", float64(size)/1048576)
}

// VideoPost is the relational form of a metadata record, one row per (table, title)
type VideoPost struct {
	ID          uint              `gorm:"primaryKey"`
	RecordTable string            `gorm:"column:table_name;size:128;not null;uniqueIndex:idx_video_posts_table_title"`
	Title       string            `gorm:"size:512;not null;uniqueIndex:idx_video_posts_table_title"`
	Fields      datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
