package app

import (
	"bytes"
	"context"
	"io"
	"sync"

	"video_ingest_service/internal/ingest/domain"
	"video_ingest_service/pkg/database"
	"video_ingest_service/pkg/logsink"

	"github.com/stretchr/testify/mock"
)

// MockObjectStore Mock database.ObjectStore
type MockObjectStore struct {
	mock.Mock
}

// Exists moke exists
func (m *MockObjectStore) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

// Stat moke stat
func (m *MockObjectStore) Stat(ctx context.Context, key string) (*database.ObjectInfo, error) {
	args := m.Called(ctx, key)
	if args.Get(0) != nil {
		return args.Get(0).(*database.ObjectInfo), args.Error(1)
	}
	return nil, args.Error(1)
}

// Get moke get
func (m *MockObjectStore) Get(ctx context.Context, key string) (io.ReadCloser, *database.ObjectInfo, error) {
	args := m.Called(ctx, key)
	var rc io.ReadCloser
	if args.Get(0) != nil {
		rc = args.Get(0).(io.ReadCloser)
	}
	var info *database.ObjectInfo
	if args.Get(1) != nil {
		info = args.Get(1).(*database.ObjectInfo)
	}
	return rc, info, args.Error(2)
}

// Put moke put
func (m *MockObjectStore) Put(ctx context.Context, key string, data []byte, contentType string, metadata map[string]string) error {
	args := m.Called(ctx, key, data, contentType, metadata)
	return args.Error(0)
}

// MockRecordRepo Mock repository.RecordRepo
type MockRecordRepo struct {
	mock.Mock
}

// Upsert moke upsert
func (m *MockRecordRepo) Upsert(ctx context.Context, title string, fields domain.MetadataRecord) (*domain.StoredRecord, error) {
	args := m.Called(ctx, title, fields)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.StoredRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockTranscriptionRepo Mock repository.TranscriptionRepo
type MockTranscriptionRepo struct {
	mock.Mock
}

// Submit moke submit
func (m *MockTranscriptionRepo) Submit(ctx context.Context, req domain.TranscriptionReq) (*domain.TranscriptionJob, error) {
	args := m.Called(ctx, req)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.TranscriptionJob), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockIngestUseCase Mock IngestUseCase
type MockIngestUseCase struct {
	mock.Mock
}

// UploadVideo moke upload video
func (m *MockIngestUseCase) UploadVideo(ctx context.Context, req domain.UploadVideoReq) (*domain.UploadVideoRes, error) {
	args := m.Called(ctx, req)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.UploadVideoRes), args.Error(1)
	}
	return nil, args.Error(1)
}

// GetVideo moke get video
func (m *MockIngestUseCase) GetVideo(ctx context.Context, key string) (io.ReadCloser, *database.ObjectInfo, error) {
	args := m.Called(ctx, key)
	var rc io.ReadCloser
	if args.Get(0) != nil {
		rc = args.Get(0).(io.ReadCloser)
	}
	var info *database.ObjectInfo
	if args.Get(1) != nil {
		info = args.Get(1).(*database.ObjectInfo)
	}
	return rc, info, args.Error(2)
}

// memObjectStore in-memory database.ObjectStore
type memObjectStore struct {
	mu      sync.Mutex
	objects map[string]memObject
	puts    int
}

type memObject struct {
	data        []byte
	contentType string
	metadata    map[string]string
}

func newMemObjectStore() *memObjectStore {
	return &memObjectStore{objects: map[string]memObject{}}
}

func (s *memObjectStore) Exists(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[key]
	return ok, nil
}

func (s *memObjectStore) Stat(_ context.Context, key string) (*database.ObjectInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.objects[key]
	if !ok {
		return nil, database.ErrObjectNotFound
	}
	return &database.ObjectInfo{Key: key, Size: int64(len(obj.data)), ContentType: obj.contentType, UserMetadata: obj.metadata}, nil
}

func (s *memObjectStore) Get(ctx context.Context, key string) (io.ReadCloser, *database.ObjectInfo, error) {
	info, err := s.Stat(ctx, key)
	if err != nil {
		return nil, nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return io.NopCloser(bytes.NewReader(s.objects[key].data)), info, nil
}

func (s *memObjectStore) Put(_ context.Context, key string, data []byte, contentType string, metadata map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.puts++
	s.objects[key] = memObject{data: append([]byte(nil), data...), contentType: contentType, metadata: metadata}
	return nil
}

// recordSink capture log sink events
type recordSink struct {
	mu     sync.Mutex
	events []logsink.Event
}

func (s *recordSink) Emit(level logsink.Level, message string, meta map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, logsink.Event{Level: level, Message: message, Meta: meta})
}

func (s *recordSink) states() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, ev := range s.events {
		if st, ok := ev.Meta["state"].(string); ok && ev.Level != logsink.LevelWarn {
			out = append(out, st)
		}
	}
	return out
}

func (s *recordSink) levels(level logsink.Level) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, ev := range s.events {
		if ev.Level == level {
			n++
		}
	}
	return n
}
