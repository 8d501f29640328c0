package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"video_ingest_service/internal/ingest/domain"
	"video_ingest_service/internal/ingest/repository"
	"video_ingest_service/pkg"
	"video_ingest_service/pkg/contentkey"
	"video_ingest_service/pkg/database"
	"video_ingest_service/pkg/logsink"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// IngestUseCase 這裡封裝了對外提供的應用服務
type IngestUseCase interface {
	UploadVideo(ctx context.Context, req domain.UploadVideoReq) (*domain.UploadVideoRes, error)
	GetVideo(ctx context.Context, key string) (io.ReadCloser, *database.ObjectInfo, error)
}

// Options ingest use case settings
type Options struct {
	// KeyPrefix default prefix of every content key, e.g. "uploads/"
	KeyPrefix string
	// PublicHost serves stored objects; a bare host gets https://
	PublicHost  string
	CallbackURL string
	// MirrorStrict turns a mirror store failure into a run failure
	MirrorStrict bool
}

type ingestUseCase struct {
	store         database.ObjectStore
	primary       repository.RecordRepo
	mirror        repository.RecordRepo
	transcription repository.TranscriptionRepo
	sink          logsink.Emitter
	opts          Options

	pipeline func(context.Context, *run, domain.UploadVideoReq) (*domain.UploadVideoRes, error)
}

// NewIngestUseCase 建立一個新的 IngestUseCase; mirror may be nil
func NewIngestUseCase(store database.ObjectStore,
	primary repository.RecordRepo,
	mirror repository.RecordRepo,
	transcription repository.TranscriptionRepo,
	sink logsink.Emitter,
	opts Options,
) IngestUseCase {
	if sink == nil {
		sink = logsink.Nop{}
	}
	u := &ingestUseCase{
		store:         store,
		primary:       primary,
		mirror:        mirror,
		transcription: transcription,
		sink:          sink,
		opts:          opts,
	}
	u.pipeline = thenLocal(then(then(then(then(
		u.address,
		u.storeAsset),
		u.registerMetadata),
		u.submitTranscription),
		u.followUpMetadata),
		u.complete)
	return u
}

// 讓 test 可以固定 run id
var newRunID = func() string {
	return uuid.NewString()
}

var validate = validator.New()

// UploadVideo run the ingest pipeline for one asset
func (u *ingestUseCase) UploadVideo(ctx context.Context, req domain.UploadVideoReq) (*domain.UploadVideoRes, error) {
	r := newRun(newRunID(), u.sink)
	r.with("title", req.Title)
	r.emit(logsink.LevelInfo, "ingest received", map[string]any{"state": string(domain.StateReceived)})
	return u.pipeline(ctx, r, req)
}

// GetVideo open a stored object by key
func (u *ingestUseCase) GetVideo(ctx context.Context, key string) (io.ReadCloser, *database.ObjectInfo, error) {
	key = strings.TrimLeft(key, "/")
	if key == "" || strings.Contains(key, "..") {
		return nil, nil, fmt.Errorf("%w: invalid key %q", domain.ErrClientInput, key)
	}
	rc, info, err := u.store.Get(ctx, key)
	if errors.Is(err, database.ErrObjectNotFound) {
		return nil, nil, domain.ErrAssetNotFound
	}
	return rc, info, err
}

type addressed struct {
	req domain.UploadVideoReq
	key string
}

type stored struct {
	asset   domain.Asset
	skipped bool
}

type registered struct {
	stored
	record *domain.StoredRecord
}

type submitted struct {
	registered
	job *domain.TranscriptionJob
}

type followedUp struct {
	submitted
	record *domain.StoredRecord
}

// Received -> Addressed
func (u *ingestUseCase) address(ctx context.Context, r *run, req domain.UploadVideoReq) (addressed, error) {
	if err := validateRequest(req); err != nil {
		return addressed{}, r.fail(domain.ErrClientInput, "validate", err)
	}

	prefix := u.opts.KeyPrefix
	if req.Prefix != "" {
		prefix = req.Prefix
	}

	var key contentkey.Key
	if req.Identity != "" {
		key = contentkey.FromIdentity(prefix, req.Identity)
	} else {
		key = contentkey.FromBytes(prefix, req.File, req.FileName)
	}

	out := addressed{req: req, key: key.String()}
	r.with("key", out.key)
	r.advance(domain.StateAddressed, "asset addressed", map[string]any{"digest_skipped": req.Identity != ""})
	return out, nil
}

// Addressed -> Stored | StoreSkipped
func (u *ingestUseCase) storeAsset(ctx context.Context, r *run, in addressed) (stored, error) {
	req := in.req
	exists, err := u.store.Exists(ctx, in.key)
	if err != nil {
		return stored{}, r.fail(domain.ErrDependencyException, "object store exists", err)
	}

	asset := domain.Asset{
		Key:              in.key,
		Title:            req.Title,
		VideoType:        req.VideoType,
		ScheduleDateTime: req.ScheduleDateTime,
		FileName:         req.Title + "." + contentkey.Extension(in.key),
		PublicURL:        u.publicURL(in.key),
	}

	if exists {
		info, err := u.store.Stat(ctx, in.key)
		if err != nil {
			return stored{}, r.fail(domain.ErrDependencyException, "object store stat", err)
		}
		asset.Size = info.Size
		asset.ContentType = pkg.FirstNonEmpty(req.ContentType, info.ContentType)
		r.advance(domain.StateStoreSkipped, "asset store skipped", map[string]any{"size": asset.Size})
		return stored{asset: asset, skipped: true}, nil
	}

	if len(req.File) == 0 {
		// 指定的 identity 在 object store 裡不存在，也沒有內容可上傳
		return stored{}, r.fail(domain.ErrClientInput, "object store exists",
			fmt.Errorf("%w: %s", domain.ErrAssetNotFound, in.key))
	}

	asset.Size = int64(len(req.File))
	asset.ContentType = pkg.FirstNonEmpty(req.ContentType, mimetype.Detect(req.File).String())

	if err := u.store.Put(ctx, in.key, req.File, asset.ContentType, objectMetadata(req)); err != nil {
		return stored{}, r.fail(domain.ErrDependencyException, "object store put", err)
	}

	r.advance(domain.StateStored, "asset stored", map[string]any{"size": asset.Size, "content_type": asset.ContentType})
	return stored{asset: asset}, nil
}

// Stored | StoreSkipped -> MetadataRegistered
func (u *ingestUseCase) registerMetadata(ctx context.Context, r *run, in stored) (registered, error) {
	fields := domain.InitialRecord(in.asset).Normalize()

	rec, err := u.primary.Upsert(ctx, in.asset.Title, fields)
	if err != nil {
		return registered{}, r.fail(classify(err), "primary initial record", err)
	}
	if err := u.pushMirror(ctx, r, in.asset.Title, fields); err != nil {
		return registered{}, err
	}

	r.advance(domain.StateMetadataRegistered, "metadata registered", map[string]any{"record_id": rec.ID})
	return registered{stored: in, record: rec}, nil
}

// MetadataRegistered -> TranscriptionSubmitted
func (u *ingestUseCase) submitTranscription(ctx context.Context, r *run, in registered) (submitted, error) {
	job, err := u.transcription.Submit(ctx, domain.TranscriptionReq{
		MediaURL:    in.asset.PublicURL,
		Label:       in.asset.Title,
		CallbackURL: u.opts.CallbackURL,
	})
	if err != nil {
		return submitted{}, r.fail(classify(err), "transcription submit", err)
	}
	if job == nil || job.ID == "" {
		return submitted{}, r.fail(domain.ErrDependencyRejection, "transcription submit",
			errors.New("transcription accepted without a job id"))
	}

	r.with("transcript_id", job.ID)
	r.advance(domain.StateTranscriptionSubmitted, "transcription submitted", nil)
	return submitted{registered: in, job: job}, nil
}

// TranscriptionSubmitted -> MetadataFollowedUp
func (u *ingestUseCase) followUpMetadata(ctx context.Context, r *run, in submitted) (followedUp, error) {
	fields := domain.FollowUpRecord(in.job.ID).Normalize()

	rec, err := u.primary.Upsert(ctx, in.asset.Title, fields)
	if err != nil {
		return followedUp{}, r.fail(classify(err), "primary follow-up record", err)
	}
	if err := u.pushMirror(ctx, r, in.asset.Title, fields); err != nil {
		return followedUp{}, err
	}

	r.advance(domain.StateMetadataFollowedUp, "metadata followed up", map[string]any{"record_id": rec.ID})
	return followedUp{submitted: in, record: rec}, nil
}

// MetadataFollowedUp -> Completed
func (u *ingestUseCase) complete(ctx context.Context, r *run, in followedUp) (*domain.UploadVideoRes, error) {
	r.advance(domain.StateCompleted, "ingest completed", nil)

	res := &domain.UploadVideoRes{
		RunID:        r.id,
		Key:          in.asset.Key,
		PublicURL:    in.asset.PublicURL,
		Size:         in.asset.Size,
		ContentType:  in.asset.ContentType,
		TranscriptID: in.job.ID,
		StoreSkipped: in.skipped,
		States:       append([]domain.State(nil), r.trace...),
	}
	if in.record != nil {
		res.RecordID = in.record.ID
		res.Record = in.record.Fields
	}
	return res, nil
}

// pushMirror is best-effort unless MirrorStrict is set
func (u *ingestUseCase) pushMirror(ctx context.Context, r *run, title string, fields domain.MetadataRecord) error {
	if u.mirror == nil {
		return nil
	}
	if _, err := u.mirror.Upsert(ctx, title, fields); err != nil {
		if u.opts.MirrorStrict {
			return r.fail(domain.ErrMirrorDegraded, "mirror record", err)
		}
		r.warn("mirror record push failed", err)
	}
	return nil
}

func (u *ingestUseCase) publicURL(key string) string {
	host := strings.TrimRight(u.opts.PublicHost, "/")
	if !strings.Contains(host, "://") {
		host = "https://" + host
	}
	return host + "/" + key
}

func validateRequest(req domain.UploadVideoReq) error {
	var problems []string
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			problems = append(problems, fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag()))
		}
	}
	if !req.HasAsset() {
		problems = append(problems, "video or filename is required")
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func objectMetadata(req domain.UploadVideoReq) map[string]string {
	md := map[string]string{
		"title":     req.Title,
		"videoType": req.VideoType,
	}
	if req.ScheduleDateTime != "" {
		md["scheduleDateTime"] = req.ScheduleDateTime
	}
	return md
}
