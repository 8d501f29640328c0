package domain

import (
	"errors"
	"fmt"

	errprocess "video_ingest_service/pkg/err"
)

// Error kinds, re-exported so callers of the ingest packages need not import pkg/err
var (
	ErrClientInput         = errprocess.ErrClientInput
	ErrDependencyRejection = errprocess.ErrDependencyRejection
	ErrDependencyException = errprocess.ErrDependencyException
	ErrMirrorDegraded      = errprocess.ErrMirrorDegraded

	// ErrAssetNotFound is returned when a pre-stored identity has no object behind it
	ErrAssetNotFound = errors.New("asset not found in object store")
)

// UpstreamError is a non-success response from a collaborator; Body is kept verbatim
type UpstreamError struct {
	Service string
	Status  int
	Body    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s responded %d: %s", e.Service, e.Status, e.Body)
}

// PipelineError is the terminal error of a failed run
type PipelineError struct {
	RunID string
	// State is the last state the run reached before failing
	State State
	Kind  error
	Trace []State

	UpstreamStatus int
	UpstreamBody   string

	Err error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("run[%s] failed after %s: %v", e.RunID, e.State, e.Err)
}

// Unwrap expose both the kind marker and the cause to errors.Is / errors.As
func (e *PipelineError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}
