package videogen

import (
	"errors"
	"fmt"
)

var (
	// ErrCredentialMissing is returned before any network call when no API
	// key is configured.
	ErrCredentialMissing = errors.New("videogen: api key missing")

	// ErrMissingResult is returned when a completed operation carries no
	// download location.
	ErrMissingResult = errors.New("videogen: completed job has no result uri")
)

// SubmissionError reports that the remote service rejected job creation.
// Code and Status carry the provider's error envelope when present.
type SubmissionError struct {
	Code    int
	Status  string
	Message string
}

func (e *SubmissionError) Error() string {
	if e.Code > 0 {
		return fmt.Sprintf("videogen: submission rejected (%d): %s", e.Code, e.Message)
	}
	return fmt.Sprintf("videogen: submission rejected: %s", e.Message)
}

// PollError reports that a status query failed or that the operation itself
// reported a terminal failure.
type PollError struct {
	JobName string
	Code    int
	Status  string
	Message string
	Err     error
}

func (e *PollError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("videogen: poll %s: %s", e.JobName, e.Message)
	}
	return fmt.Sprintf("videogen: poll %s: %v", e.JobName, e.Err)
}

func (e *PollError) Unwrap() error {
	return e.Err
}

// DownloadError reports a non-success response while fetching the produced
// video bytes. StatusText is the transport status line, e.g. "404 Not Found".
type DownloadError struct {
	StatusText string
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("videogen: download failed: %s", e.StatusText)
}
