package domain

import "time"

// Progress stages in pipeline order. Complete, rejected and error are
// terminal; exactly one terminal event is published per session.
const (
	StageExtractingAudio  = "extracting_audio"
	StageTranscribing     = "transcribing"
	StageExtractingFrames = "extracting_frames"
	StageExtractingText   = "extracting_text"
	StageModerating       = "moderating"
	StageComplete         = "complete"
	StageRejected         = "rejected"
	StageError            = "error"
)

// ProgressEvent is one point-in-time status update streamed to the uploader.
type ProgressEvent struct {
	UploadID  string    `json:"upload_id"`
	OwnerID   string    `json:"owner_id"`
	Stage     string    `json:"stage"`
	Progress  int       `json:"progress"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// IsTerminal reports whether the event closes its session's stream.
func (e ProgressEvent) IsTerminal() bool {
	return e.Stage == StageComplete || e.Stage == StageRejected || e.Stage == StageError
}

// UploadSession tracks one in-flight verification attempt. Sessions never
// outlive the request that created them.
type UploadSession struct {
	ID           string    `json:"id"`
	OwnerID      string    `json:"owner_id"`
	RegisteredAt time.Time `json:"registered_at"`
}
