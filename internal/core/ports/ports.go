package ports

import (
	"context"

	"github.com/DonaldKnut/jevahapp-backend-sub012/internal/core/domain"
)

// UploadUseCase is the Inbound Port for the upload gate
type UploadUseCase interface {
	SubmitUpload(ctx context.Context, sub domain.UploadSubmission) (*domain.UploadResult, error)
	GetMedia(ctx context.Context, id string) (*domain.Media, error)
}

// ReviewUseCase is the Inbound Port for manual review resolution
type ReviewUseCase interface {
	ResolveReview(ctx context.Context, mediaID string, approved bool, note string) error
}

// ContentVerifier is the Outbound Port the gate drives; implemented by the
// verification orchestrator
type ContentVerifier interface {
	Verify(ctx context.Context, sub domain.UploadSubmission) (*domain.VerificationOutcome, error)
}

// AudioExtractor pulls the audio track out of a video container
type AudioExtractor interface {
	ExtractAudio(ctx context.Context, data []byte, mimeType string) ([]byte, error)
}

// FrameExtractor samples count still frames evenly across a video's duration
type FrameExtractor interface {
	ExtractFrames(ctx context.Context, data []byte, mimeType string, count int) ([][]byte, error)
}

// Transcriber converts audio bytes to text. An empty transcript for silent
// audio is success, not an error.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error)
}

// DocumentTextExtractor converts PDF/EPUB bytes to plain text. It never
// fails: total failure yields "", which callers treat as no signal.
type DocumentTextExtractor interface {
	ExtractText(ctx context.Context, data []byte, mimeType string) string
}

// ModerationClient is the narrow interface to the external decision service
type ModerationClient interface {
	Moderate(ctx context.Context, input domain.ModerationInput) (domain.ModerationVerdict, error)
}

// SessionStore is the Outbound Port for upload session bookkeeping
type SessionStore interface {
	Register(uploadID, ownerID string) *domain.UploadSession
	Clear(uploadID string)
}

// ProgressPublisher delivers progress events to the uploader, best-effort.
// Delivery failure never fails or blocks the pipeline.
type ProgressPublisher interface {
	Publish(event domain.ProgressEvent)
}

// Storage is the Outbound Port for object storage
type Storage interface {
	SaveMedia(ctx context.Context, filename string, data []byte) (string, error)
	SaveThumbnail(ctx context.Context, filename string, data []byte) (string, error)
	Delete(ctx context.Context, path string) error
}

// MediaRepository is the Outbound Port for media record persistence
type MediaRepository interface {
	Create(ctx context.Context, media *domain.Media) error
	Update(ctx context.Context, media *domain.Media) error
	GetByID(ctx context.Context, id string) (*domain.Media, error)
	GetUnderReview(ctx context.Context, olderThan int) ([]domain.Media, error)
}

// UserRepository is the Outbound Port for owner profile lookups
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}
