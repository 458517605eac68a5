package services

import (
	"context"
	"fmt"
	"log"

	"github.com/DonaldKnut/jevahapp-backend-sub012/internal/core/domain"
	"github.com/DonaldKnut/jevahapp-backend-sub012/internal/core/ports"
)

var mimeExtensions = map[string]string{
	"video/mp4":            ".mp4",
	"video/quicktime":      ".mov",
	"video/webm":           ".webm",
	"audio/mpeg":           ".mp3",
	"audio/mp4":            ".m4a",
	"audio/wav":            ".wav",
	"application/pdf":      ".pdf",
	"application/epub+zip": ".epub",
}

type uploadService struct {
	verifier ports.ContentVerifier
	storage  ports.Storage
	repo     ports.MediaRepository
	userRepo ports.UserRepository
	notifier ports.Notifier
}

func NewUploadService(v ports.ContentVerifier, s ports.Storage, r ports.MediaRepository, ur ports.UserRepository, n ports.Notifier) *uploadService {
	return &uploadService{
		verifier: v,
		storage:  s,
		repo:     r,
		userRepo: ur,
		notifier: n,
	}
}

// SubmitUpload is the upload gate: it drives verification and only persists
// the submitted bytes when the verdict is an approval. Non-approved uploads
// leave a metadata-only record behind so the review queue and the owner's
// history stay consistent.
func (s *uploadService) SubmitUpload(ctx context.Context, sub domain.UploadSubmission) (*domain.UploadResult, error) {
	outcome, err := s.verifier.Verify(ctx, sub)
	if err != nil {
		return nil, fmt.Errorf("verification failed for upload %s: %w", sub.UploadID, err)
	}

	media := &domain.Media{
		ID:          sub.UploadID,
		OwnerID:     sub.OwnerID,
		Title:       sub.Title,
		Description: sub.Description,
		ContentType: sub.ContentType,
		MimeType:    sub.MimeType,
		Reason:      outcome.ModerationResult.Reason,
		Flags:       outcome.ModerationResult.Flags,
		Confidence:  outcome.ModerationResult.Confidence,
	}

	switch {
	case sub.ContentType == domain.ContentTypeLive:
		media.Status = domain.StatusPending
	case outcome.IsApproved:
		media.Status = domain.StatusApproved
		if outcome.Transcript != nil {
			media.Transcript = *outcome.Transcript
		}
		if err := s.persistApproved(ctx, media, sub); err != nil {
			return nil, err
		}
	case outcome.RequiresReview:
		media.Status = domain.StatusUnderReview
	default:
		media.Status = domain.StatusRejected
	}

	if err := s.repo.Create(ctx, media); err != nil {
		return nil, fmt.Errorf("error saving media record %s: %w", media.ID, err)
	}

	switch media.Status {
	case domain.StatusUnderReview:
		s.notifyOwner(ctx, media,
			fmt.Sprintf("Your upload %q is under review", media.Title),
			fmt.Sprintf("Your upload %q was flagged for a manual review before it can be published. Reason: %s", media.Title, media.Reason))
	case domain.StatusRejected:
		s.notifyOwner(ctx, media,
			fmt.Sprintf("Your upload %q was rejected", media.Title),
			fmt.Sprintf("Your upload %q did not pass content verification. Reason: %s", media.Title, media.Reason))
	}

	return &domain.UploadResult{
		Media:   media,
		Status:  media.Status,
		Verdict: &outcome.ModerationResult,
	}, nil
}

// persistApproved writes the original bytes and the thumbnail to object
// storage. Only approved uploads ever reach this point.
func (s *uploadService) persistApproved(ctx context.Context, media *domain.Media, sub domain.UploadSubmission) error {
	ext := mimeExtensions[sub.MimeType]
	if ext == "" {
		ext = ".bin"
	}

	objectPath, err := s.storage.SaveMedia(ctx, media.ID+ext, sub.File)
	if err != nil {
		return fmt.Errorf("error storing media %s: %w", media.ID, err)
	}
	media.ObjectPath = objectPath

	thumbPath, err := s.storage.SaveThumbnail(ctx, media.ID+".jpg", sub.Thumbnail)
	if err != nil {
		// Keep storage consistent: an approved record either has both
		// objects or neither.
		s.storage.Delete(ctx, objectPath)
		return fmt.Errorf("error storing thumbnail for media %s: %w", media.ID, err)
	}
	media.ThumbnailPath = thumbPath

	return nil
}

// GetMedia returns (nil, nil) when the record does not exist.
func (s *uploadService) GetMedia(ctx context.Context, id string) (*domain.Media, error) {
	media, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error fetching media %s: %w", id, err)
	}
	return media, nil
}

// ResolveReview applies a moderator's decision to an item in the manual
// queue. Items already resolved are skipped, so redelivered decision events
// are harmless.
func (s *uploadService) ResolveReview(ctx context.Context, mediaID string, approved bool, note string) error {
	media, err := s.repo.GetByID(ctx, mediaID)
	if err != nil {
		return fmt.Errorf("error fetching media %s: %w", mediaID, err)
	}
	if media == nil {
		return fmt.Errorf("media %s not found", mediaID)
	}

	if media.Status != domain.StatusUnderReview && media.Status != domain.StatusPending {
		log.Printf("ℹ️ Media %s already in status %s, skipping review decision", mediaID, media.Status)
		return nil
	}

	if approved {
		media.Status = domain.StatusApproved
	} else {
		media.Status = domain.StatusRejected
	}
	if note != "" {
		media.Reason = note
	}

	if err := s.repo.Update(ctx, media); err != nil {
		return fmt.Errorf("error updating media %s after review: %w", mediaID, err)
	}

	log.Printf("⚖️ Review decision applied to media %s: %s", mediaID, media.Status)

	if approved {
		s.notifyOwner(ctx, media,
			fmt.Sprintf("Your upload %q was approved", media.Title),
			fmt.Sprintf("Good news! Your upload %q passed manual review and is now published.", media.Title))
	} else {
		s.notifyOwner(ctx, media,
			fmt.Sprintf("Your upload %q was rejected", media.Title),
			fmt.Sprintf("Your upload %q was rejected after manual review. Reason: %s", media.Title, media.Reason))
	}

	return nil
}

func (s *uploadService) notifyOwner(ctx context.Context, media *domain.Media, subject, body string) {
	user, err := s.userRepo.GetByID(ctx, media.OwnerID)
	if err != nil {
		log.Printf("⚠️ Error fetching owner %s for notification: %v", media.OwnerID, err)
		return
	}

	if user == nil || user.Email == "" {
		log.Printf("⚠️ Owner %s not found or has no email for notification", media.OwnerID)
		return
	}

	if err := s.notifier.Notify(user.Email, subject, body); err != nil {
		log.Printf("❌ Failed to send notification to %s: %v", user.Email, err)
	}
}
