package services

import (
	"context"
	"log"
	"time"

	"github.com/DonaldKnut/jevahapp-backend-sub012/internal/core/domain"
	"github.com/DonaldKnut/jevahapp-backend-sub012/internal/core/ports"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	verificationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "verifier_attempt_duration_seconds",
		Help:    "Duration of content verification attempts in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})

	verificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "verifier_attempts_total",
		Help: "Total number of content verification attempts",
	}, []string{"content_type", "outcome"})

	extractorFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "verifier_extractor_failures_total",
		Help: "Total number of recoverable signal extraction failures",
	}, []string{"stage"})
)

const defaultFrameCount = 3

// Document mime types the text extractor understands. Anything else degrades
// to title/description-only moderation.
var supportedDocumentMimes = map[string]bool{
	"application/pdf":      true,
	"application/epub+zip": true,
}

type verificationService struct {
	sessions    ports.SessionStore
	progress    ports.ProgressPublisher
	audio       ports.AudioExtractor
	frames      ports.FrameExtractor
	transcriber ports.Transcriber
	documents   ports.DocumentTextExtractor
	moderation  ports.ModerationClient
	frameCount  int
	timeout     time.Duration
}

func NewVerificationService(
	sessions ports.SessionStore,
	progress ports.ProgressPublisher,
	audio ports.AudioExtractor,
	frames ports.FrameExtractor,
	transcriber ports.Transcriber,
	documents ports.DocumentTextExtractor,
	moderation ports.ModerationClient,
	timeout time.Duration,
) *verificationService {
	return &verificationService{
		sessions:    sessions,
		progress:    progress,
		audio:       audio,
		frames:      frames,
		transcriber: transcriber,
		documents:   documents,
		moderation:  moderation,
		frameCount:  defaultFrameCount,
		timeout:     timeout,
	}
}

// Verify runs the pre-publication pipeline for one upload: register a
// session, extract whatever signal the content type allows, moderate once,
// map the verdict. The session is cleared on every exit path, and exactly
// one terminal progress event is published per attempt.
func (s *verificationService) Verify(ctx context.Context, sub domain.UploadSubmission) (*domain.VerificationOutcome, error) {
	// Live announcements carry no file payload: nothing to extract or
	// moderate, the item goes straight to the out-of-band review queue.
	if sub.ContentType == domain.ContentTypeLive {
		verificationsTotal.WithLabelValues(sub.ContentType, "pending").Inc()
		return &domain.VerificationOutcome{
			RequiresReview: true,
			ModerationResult: domain.ModerationVerdict{
				RequiresReview: true,
				Reason:         "live streams are reviewed before going live",
			},
		}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	outcomeLabel := "error"
	defer func() {
		verificationDuration.WithLabelValues(outcomeLabel).Observe(time.Since(start).Seconds())
		verificationsTotal.WithLabelValues(sub.ContentType, outcomeLabel).Inc()
	}()

	session := s.sessions.Register(sub.UploadID, sub.OwnerID)
	defer s.sessions.Clear(sub.UploadID)

	log.Printf("🔎 Verifying upload %s (type=%s, owner=%s)", sub.UploadID, sub.ContentType, sub.OwnerID)

	artifacts := s.collectSignal(ctx, session, sub)

	s.publish(session, domain.StageModerating, 75, "Checking content against community guidelines...")

	verdict, err := s.moderation.Moderate(ctx, domain.ModerationInput{
		Transcript:  artifacts.Transcript,
		VideoFrames: artifacts.VideoFrames,
		Title:       sub.Title,
		Description: sub.Description,
		ContentType: sub.ContentType,
		Thumbnail:   sub.Thumbnail,
	})
	if err != nil {
		// Fatal: there is no weaker fallback below title-only moderation,
		// and a moderation failure must never read as approval.
		log.Printf("❌ Moderation service failure for upload %s: %v", sub.UploadID, err)
		s.publish(session, domain.StageError, 0, "Verification failed: "+err.Error())
		return nil, err
	}

	verdict.Normalize()

	switch {
	case verdict.IsApproved:
		outcomeLabel = "approved"
		s.publish(session, domain.StageComplete, 100, "Verification complete. Your upload is approved.")
		log.Printf("✅ Upload %s approved (confidence %.2f)", sub.UploadID, verdict.Confidence)
	case verdict.RequiresReview:
		outcomeLabel = "under_review"
		s.publish(session, domain.StageRejected, 0, "Your upload needs a manual review before it can be published.")
		log.Printf("🕵️ Upload %s queued for manual review: %s", sub.UploadID, verdict.Reason)
	default:
		outcomeLabel = "rejected"
		s.publish(session, domain.StageRejected, 0, "Your upload was rejected: "+verdict.Reason)
		log.Printf("🚫 Upload %s rejected: %s", sub.UploadID, verdict.Reason)
	}

	return &domain.VerificationOutcome{
		IsApproved:       verdict.IsApproved,
		RequiresReview:   verdict.RequiresReview,
		ModerationResult: verdict,
		Transcript:       artifacts.Transcript,
		VideoFrames:      artifacts.VideoFrames,
	}, nil
}

// collectSignal runs the content-type-specific extractors. Extractor
// failures are recoverable: each one is logged, counted and swallowed so the
// remaining lanes still feed the single moderation call.
func (s *verificationService) collectSignal(ctx context.Context, session *domain.UploadSession, sub domain.UploadSubmission) domain.ExtractionArtifacts {
	switch sub.ContentType {
	case domain.ContentTypeVideo:
		return s.collectVideoSignal(ctx, session, sub)
	case domain.ContentTypeAudio, domain.ContentTypeMusic:
		return s.collectAudioSignal(ctx, session, sub)
	case domain.ContentTypeBook:
		return s.collectDocumentSignal(ctx, session, sub)
	}
	return domain.ExtractionArtifacts{}
}

func (s *verificationService) collectVideoSignal(ctx context.Context, session *domain.UploadSession, sub domain.UploadSubmission) domain.ExtractionArtifacts {
	var artifacts domain.ExtractionArtifacts

	// Audio lane: container -> audio track -> transcript.
	s.publish(session, domain.StageExtractingAudio, 10, "Extracting audio track...")
	audio, err := s.audio.ExtractAudio(ctx, sub.File, sub.MimeType)
	if err != nil {
		extractorFailuresTotal.WithLabelValues(domain.StageExtractingAudio).Inc()
		log.Printf("⚠️ Audio extraction failed for upload %s (%s), continuing without transcript: %v", sub.UploadID, sub.ContentType, err)
	} else {
		s.publish(session, domain.StageTranscribing, 30, "Transcribing audio...")
		transcript, err := s.transcriber.Transcribe(ctx, audio, "audio/mpeg")
		if err != nil {
			extractorFailuresTotal.WithLabelValues(domain.StageTranscribing).Inc()
			log.Printf("⚠️ Transcription failed for upload %s (%s), continuing without transcript: %v", sub.UploadID, sub.ContentType, err)
		} else {
			artifacts.Transcript = &transcript
		}
	}

	// Frame lane: independent of the audio lane, its failure never skips
	// or aborts the other.
	s.publish(session, domain.StageExtractingFrames, 55, "Sampling video frames...")
	frames, err := s.frames.ExtractFrames(ctx, sub.File, sub.MimeType, s.frameCount)
	if err != nil {
		extractorFailuresTotal.WithLabelValues(domain.StageExtractingFrames).Inc()
		log.Printf("⚠️ Frame extraction failed for upload %s (%s), continuing without frames: %v", sub.UploadID, sub.ContentType, err)
	} else {
		artifacts.VideoFrames = frames
	}

	return artifacts
}

func (s *verificationService) collectAudioSignal(ctx context.Context, session *domain.UploadSession, sub domain.UploadSubmission) domain.ExtractionArtifacts {
	var artifacts domain.ExtractionArtifacts

	s.publish(session, domain.StageTranscribing, 25, "Transcribing audio...")
	transcript, err := s.transcriber.Transcribe(ctx, sub.File, sub.MimeType)
	if err != nil {
		extractorFailuresTotal.WithLabelValues(domain.StageTranscribing).Inc()
		log.Printf("⚠️ Transcription failed for upload %s (%s), continuing without transcript: %v", sub.UploadID, sub.ContentType, err)
		return artifacts
	}

	artifacts.Transcript = &transcript
	return artifacts
}

func (s *verificationService) collectDocumentSignal(ctx context.Context, session *domain.UploadSession, sub domain.UploadSubmission) domain.ExtractionArtifacts {
	var artifacts domain.ExtractionArtifacts

	if !supportedDocumentMimes[sub.MimeType] {
		log.Printf("⚠️ Unsupported document mime %q for upload %s, moderating on title/description only", sub.MimeType, sub.UploadID)
		return artifacts
	}

	s.publish(session, domain.StageExtractingText, 30, "Extracting document text...")
	text := s.documents.ExtractText(ctx, sub.File, sub.MimeType)
	if text == "" {
		// Empty text is "no signal", not an error.
		log.Printf("⚠️ No text extracted from document upload %s, moderating on title/description only", sub.UploadID)
		return artifacts
	}

	artifacts.Transcript = &text
	return artifacts
}

func (s *verificationService) publish(session *domain.UploadSession, stage string, progress int, message string) {
	s.progress.Publish(domain.ProgressEvent{
		UploadID:  session.ID,
		OwnerID:   session.OwnerID,
		Stage:     stage,
		Progress:  progress,
		Message:   message,
		Timestamp: time.Now(),
	})
}
