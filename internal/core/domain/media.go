package domain

import "time"

// Content types accepted by the verification pipeline.
const (
	ContentTypeVideo = "video"
	ContentTypeAudio = "audio"
	ContentTypeMusic = "music"
	ContentTypeBook  = "book"
	ContentTypeLive  = "live"
)

// Media record statuses.
const (
	StatusApproved    = "APPROVED"
	StatusUnderReview = "UNDER_REVIEW"
	StatusRejected    = "REJECTED"
	StatusPending     = "PENDING"
)

type Media struct {
	ID            string    `json:"id"`
	OwnerID       string    `json:"owner_id"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	ContentType   string    `json:"content_type"`
	MimeType      string    `json:"mime_type,omitempty"`
	Status        string    `json:"status"`
	ObjectPath    string    `json:"object_path,omitempty"`
	ThumbnailPath string    `json:"thumbnail_path,omitempty"`
	Transcript    string    `json:"transcript,omitempty"`
	Reason        string    `json:"reason,omitempty"`
	Flags         []string  `json:"flags,omitempty"`
	Confidence    float64   `json:"confidence"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// UploadSubmission is everything the client sends for one upload attempt.
// File and Thumbnail are raw bytes; File is empty for live announcements.
type UploadSubmission struct {
	UploadID    string
	OwnerID     string
	Title       string
	Description string
	ContentType string
	MimeType    string
	File        []byte
	Thumbnail   []byte
}

// UploadResult is what the upload gate returns to the transport layer.
type UploadResult struct {
	Media   *Media             `json:"media"`
	Status  string             `json:"status"`
	Verdict *ModerationVerdict `json:"verdict,omitempty"`
}

// IsPlayableContentType reports whether the content type carries a file
// payload that the pipeline can extract signal from.
func IsPlayableContentType(contentType string) bool {
	switch contentType {
	case ContentTypeVideo, ContentTypeAudio, ContentTypeMusic, ContentTypeBook:
		return true
	}
	return false
}
