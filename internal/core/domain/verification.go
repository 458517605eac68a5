package domain

// ExtractionArtifacts is the signal bundle gathered before moderation.
// A nil field means the extraction was not attempted or failed safely;
// it never means the content passed any check.
type ExtractionArtifacts struct {
	Transcript  *string
	VideoFrames [][]byte
}

// ModerationInput is the single payload handed to the moderation service.
type ModerationInput struct {
	Transcript  *string
	VideoFrames [][]byte
	Title       string
	Description string
	ContentType string
	Thumbnail   []byte
}

// ModerationVerdict is the decision returned by the moderation service.
// IsApproved and RequiresReview are mutually exclusive; Normalize enforces
// that before the verdict reaches any caller.
type ModerationVerdict struct {
	IsApproved     bool     `json:"is_approved"`
	RequiresReview bool     `json:"requires_review"`
	Reason         string   `json:"reason"`
	Flags          []string `json:"flags,omitempty"`
	Confidence     float64  `json:"confidence"`
}

// Normalize resolves contradictory provider output. Approval wins over
// review, and confidence is clamped into [0,1].
func (v *ModerationVerdict) Normalize() {
	if v.IsApproved {
		v.RequiresReview = false
	}
	if v.Confidence < 0 {
		v.Confidence = 0
	}
	if v.Confidence > 1 {
		v.Confidence = 1
	}
}

// VerificationOutcome is the orchestrator's return value, owned by the
// caller for the duration of one request.
type VerificationOutcome struct {
	IsApproved       bool
	RequiresReview   bool
	ModerationResult ModerationVerdict
	Transcript       *string
	VideoFrames      [][]byte
}
