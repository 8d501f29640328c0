package app

import (
	"context"
	"errors"

	"video_ingest_service/internal/ingest/domain"
	errprocess "video_ingest_service/pkg/err"
	"video_ingest_service/pkg/logger"
	"video_ingest_service/pkg/logsink"

	"go.uber.org/zap"
)

// then compose two typed stages of a run, each a func(ctx, run, in) (out, error) consuming
// the previous stage's output; the second runs only if the first succeeded and ctx is still live
func then[A, B, C any](
	first func(context.Context, *run, A) (B, error),
	second func(context.Context, *run, B) (C, error),
) func(context.Context, *run, A) (C, error) {
	return func(ctx context.Context, r *run, a A) (C, error) {
		var zero C
		b, err := first(ctx, r, a)
		if err != nil {
			return zero, err
		}
		if err := ctx.Err(); err != nil {
			return zero, r.fail(domain.ErrDependencyException, "deadline", err)
		}
		return second(ctx, r, b)
	}
}

// thenLocal compose like then but without the ctx check, for a second stage that makes
// no collaborator call; once the first stage committed its work the run must not fail on a late deadline
func thenLocal[A, B, C any](
	first func(context.Context, *run, A) (B, error),
	second func(context.Context, *run, B) (C, error),
) func(context.Context, *run, A) (C, error) {
	return func(ctx context.Context, r *run, a A) (C, error) {
		var zero C
		b, err := first(ctx, r, a)
		if err != nil {
			return zero, err
		}
		return second(ctx, r, b)
	}
}

// run is the transient context of one pipeline execution
type run struct {
	id    string
	state domain.State
	trace []domain.State

	sink logsink.Emitter
	log  *logger.LogInfo
	meta map[string]any
}

func newRun(id string, sink logsink.Emitter) *run {
	r := &run{
		id:    id,
		state: domain.StateReceived,
		trace: []domain.State{domain.StateReceived},
		sink:  sink,
		log:   logger.Log.With(zap.String("run_id", id)),
		meta:  map[string]any{"run_id": id},
	}
	return r
}

// with attach a field to every later local log line and sink event of the run
func (r *run) with(key string, value any) {
	r.meta[key] = value
	r.log = r.log.With(zap.Any(key, value))
}

// advance emit the transition event, then move to next
func (r *run) advance(next domain.State, message string, meta map[string]any) {
	merged := map[string]any{"from": string(r.state), "state": string(next)}
	for k, v := range meta {
		merged[k] = v
	}
	r.emit(logsink.LevelInfo, message, merged)
	r.log.Info(message, zap.String("state", string(next)))

	r.state = next
	r.trace = append(r.trace, next)
}

// warn report a non-fatal problem without changing state
func (r *run) warn(message string, err error) {
	r.log.Warn(message, zap.String("state", string(r.state)), zap.Error(err))
	r.emit(logsink.LevelWarn, message, map[string]any{"state": string(r.state), "error": err.Error()})
}

// fail log err, emit the failure event and build the terminal error of the run
func (r *run) fail(kind error, stage string, err error) error {
	var already *domain.PipelineError
	if errors.As(err, &already) {
		return err
	}

	pe := &domain.PipelineError{
		RunID: r.id,
		State: r.state,
		Kind:  kind,
	}
	var up *domain.UpstreamError
	if errors.As(err, &up) {
		pe.UpstreamStatus = up.Status
		pe.UpstreamBody = up.Body
	}

	pe.Err = errprocess.Wrap(kind, stage, "run failed after "+string(r.state), err,
		zap.String("run_id", r.id),
		zap.String("state", string(r.state)),
	)

	meta := map[string]any{
		"from":  string(r.state),
		"state": string(domain.StateFailed),
		"stage": stage,
		"kind":  kind.Error(),
	}
	if err != nil {
		meta["error"] = err.Error()
	}
	if pe.UpstreamStatus != 0 {
		meta["upstream_status"] = pe.UpstreamStatus
	}
	r.emit(logsink.LevelError, "ingest failed", meta)

	r.trace = append(r.trace, domain.StateFailed)
	pe.Trace = append([]domain.State(nil), r.trace...)
	return pe
}

func (r *run) emit(level logsink.Level, message string, meta map[string]any) {
	merged := make(map[string]any, len(r.meta)+len(meta))
	for k, v := range r.meta {
		merged[k] = v
	}
	for k, v := range meta {
		merged[k] = v
	}
	r.sink.Emit(level, message, merged)
}

// classify map a collaborator error to its kind: an upstream response is a rejection,
// anything else (transport, deadline) is an exception
func classify(err error) error {
	var up *domain.UpstreamError
	if errors.As(err, &up) {
		return domain.ErrDependencyRejection
	}
	return domain.ErrDependencyException
}
