package moderation

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/DonaldKnut/jevahapp-backend-sub012/internal/core/domain"

	"github.com/sashabaranov/go-openai"
	"github.com/sethvargo/go-retry"
)

const systemPrompt = `You are a content moderator for a social media platform.
Decide whether the submitted content may be published. Respond with a single
JSON object and nothing else, using exactly these keys:
{"is_approved": bool, "requires_review": bool, "reason": string,
"flags": [string], "confidence": number between 0 and 1}.
Approve clearly safe content. Flag content for review when you are unsure.
Reject content that violates policy on violence, sexual content, hate speech,
harassment, self-harm or illegal activity. is_approved and requires_review
must never both be true.`

// OpenAIModerationClient asks a multimodal chat model for a structured
// verdict. Transient API errors are retried with backoff before the attempt
// is declared a fatal moderation-service failure.
type OpenAIModerationClient struct {
	client     *openai.Client
	model      string
	maxRetries uint64
}

func NewOpenAIModerationClient(apiKey, model string) *OpenAIModerationClient {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIModerationClient{
		client:     openai.NewClient(apiKey),
		model:      model,
		maxRetries: 3,
	}
}

// Moderate is called exactly once per verification attempt. It tolerates
// all-absent optional signal: with no transcript and no frames the verdict
// rests on title, description and thumbnail alone.
func (c *OpenAIModerationClient) Moderate(ctx context.Context, input domain.ModerationInput) (domain.ModerationVerdict, error) {
	parts := []openai.ChatMessagePart{{
		Type: openai.ChatMessagePartTypeText,
		Text: buildPrompt(input),
	}}
	if len(input.Thumbnail) > 0 {
		parts = append(parts, imagePart(input.Thumbnail))
	}
	for _, frame := range input.VideoFrames {
		parts = append(parts, imagePart(frame))
	}

	var verdict domain.ModerationVerdict
	backoff := retry.WithMaxRetries(c.maxRetries, retry.NewFibonacci(500*time.Millisecond))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: c.model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
				{Role: openai.ChatMessageRoleUser, MultiContent: parts},
			},
		})
		if err != nil {
			if isTransient(err) {
				return retry.RetryableError(err)
			}
			return err
		}
		if len(resp.Choices) == 0 {
			return errors.New("no response from moderation model")
		}

		parsed, err := parseVerdict(resp.Choices[0].Message.Content)
		if err != nil {
			return err
		}
		verdict = parsed
		return nil
	})
	if err != nil {
		return domain.ModerationVerdict{}, &domain.ModerationServiceError{Err: err}
	}

	verdict.Normalize()
	return verdict, nil
}

func buildPrompt(input domain.ModerationInput) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Content type: %s\n", input.ContentType)
	fmt.Fprintf(&sb, "Title: %s\n", input.Title)
	if input.Description != "" {
		fmt.Fprintf(&sb, "Description: %s\n", input.Description)
	}
	if input.Transcript != nil {
		fmt.Fprintf(&sb, "Transcript/extracted text:\n%s\n", *input.Transcript)
	} else {
		sb.WriteString("No transcript or extracted text is available; treat this as reduced-confidence input, not as a passing signal.\n")
	}
	if len(input.VideoFrames) > 0 {
		fmt.Fprintf(&sb, "Attached: %d sampled video frames plus the thumbnail.\n", len(input.VideoFrames))
	} else if len(input.Thumbnail) > 0 {
		sb.WriteString("Attached: the thumbnail image.\n")
	}
	return sb.String()
}

func imagePart(data []byte) openai.ChatMessagePart {
	encoded := base64.StdEncoding.EncodeToString(data)
	return openai.ChatMessagePart{
		Type: openai.ChatMessagePartTypeImageURL,
		ImageURL: &openai.ChatMessageImageURL{
			URL:    "data:image/jpeg;base64," + encoded,
			Detail: openai.ImageURLDetailAuto,
		},
	}
}

// parseVerdict extracts the JSON object from the model's reply, tolerating
// surrounding prose and markdown code fences.
func parseVerdict(content string) (domain.ModerationVerdict, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return domain.ModerationVerdict{}, fmt.Errorf("malformed moderation response: %q", content)
	}

	var verdict domain.ModerationVerdict
	if err := json.Unmarshal([]byte(content[start:end+1]), &verdict); err != nil {
		return domain.ModerationVerdict{}, fmt.Errorf("malformed moderation response: %w", err)
	}

	verdict.Normalize()
	return verdict, nil
}

func isTransient(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == 429 || apiErr.HTTPStatusCode >= 500
	}
	// Connection-level failures arrive as request errors.
	var reqErr *openai.RequestError
	return errors.As(err, &reqErr)
}
