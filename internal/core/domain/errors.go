package domain

import "fmt"

// ExtractionError marks a recoverable signal-extraction failure. The
// pipeline degrades to a weaker signal instead of aborting.
type ExtractionError struct {
	Stage string
	Err   error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed at %s: %v", e.Stage, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// TranscriptionError marks a recoverable transcription failure.
type TranscriptionError struct {
	Err error
}

func (e *TranscriptionError) Error() string {
	return fmt.Sprintf("transcription failed: %v", e.Err)
}

func (e *TranscriptionError) Unwrap() error { return e.Err }

// ModerationServiceError is fatal to the verification attempt. It is never
// interpreted as approval; the safe default on ambiguity is not publishing.
type ModerationServiceError struct {
	Err error
}

func (e *ModerationServiceError) Error() string {
	return fmt.Sprintf("moderation service failure: %v", e.Err)
}

func (e *ModerationServiceError) Unwrap() error { return e.Err }
