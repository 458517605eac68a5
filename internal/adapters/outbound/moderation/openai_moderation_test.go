package moderation

import (
	"testing"

	"github.com/DonaldKnut/jevahapp-backend-sub012/internal/core/domain"

	"github.com/stretchr/testify/assert"
)

func TestParseVerdict(t *testing.T) {
	t.Run("plain json object", func(t *testing.T) {
		verdict, err := parseVerdict(`{"is_approved": true, "requires_review": false, "reason": "clean", "flags": [], "confidence": 0.92}`)

		assert.NoError(t, err)
		assert.True(t, verdict.IsApproved)
		assert.False(t, verdict.RequiresReview)
		assert.Equal(t, "clean", verdict.Reason)
		assert.InDelta(t, 0.92, verdict.Confidence, 0.001)
	})

	t.Run("json wrapped in a markdown fence", func(t *testing.T) {
		content := "```json\n{\"is_approved\": false, \"requires_review\": true, \"reason\": \"unclear audio\", \"flags\": [\"profanity\"], \"confidence\": 0.4}\n```"

		verdict, err := parseVerdict(content)

		assert.NoError(t, err)
		assert.False(t, verdict.IsApproved)
		assert.True(t, verdict.RequiresReview)
		assert.Equal(t, []string{"profanity"}, verdict.Flags)
	})

	t.Run("json surrounded by prose", func(t *testing.T) {
		content := `Here is my assessment: {"is_approved": false, "requires_review": false, "reason": "graphic violence", "flags": ["violence"], "confidence": 0.97} Let me know if you need more.`

		verdict, err := parseVerdict(content)

		assert.NoError(t, err)
		assert.False(t, verdict.IsApproved)
		assert.False(t, verdict.RequiresReview)
		assert.Equal(t, "graphic violence", verdict.Reason)
	})

	t.Run("contradictory verdict is normalized in favor of approval", func(t *testing.T) {
		verdict, err := parseVerdict(`{"is_approved": true, "requires_review": true, "reason": "", "flags": [], "confidence": 0.8}`)

		assert.NoError(t, err)
		assert.True(t, verdict.IsApproved)
		assert.False(t, verdict.RequiresReview)
	})

	t.Run("confidence is clamped into range", func(t *testing.T) {
		verdict, err := parseVerdict(`{"is_approved": true, "requires_review": false, "reason": "", "flags": [], "confidence": 1.7}`)

		assert.NoError(t, err)
		assert.Equal(t, 1.0, verdict.Confidence)
	})

	t.Run("response without a json object is an error", func(t *testing.T) {
		_, err := parseVerdict("I cannot help with that.")
		assert.Error(t, err)
	})

	t.Run("invalid json is an error", func(t *testing.T) {
		_, err := parseVerdict(`{"is_approved": maybe}`)
		assert.Error(t, err)
	})
}

func TestBuildPrompt(t *testing.T) {
	t.Run("absent signal is stated as reduced confidence", func(t *testing.T) {
		prompt := buildPrompt(domain.ModerationInput{
			Title:       "My video",
			ContentType: domain.ContentTypeVideo,
		})

		assert.Contains(t, prompt, "My video")
		assert.Contains(t, prompt, "reduced-confidence")
	})

	t.Run("transcript is inlined when present", func(t *testing.T) {
		transcript := "hello world"
		prompt := buildPrompt(domain.ModerationInput{
			Title:       "My video",
			ContentType: domain.ContentTypeVideo,
			Transcript:  &transcript,
			VideoFrames: [][]byte{[]byte("f1"), []byte("f2")},
			Thumbnail:   []byte("thumb"),
		})

		assert.Contains(t, prompt, "hello world")
		assert.Contains(t, prompt, "2 sampled video frames")
	})
}
