package polling

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/DonaldKnut/jevahapp-backend-sub012/internal/core/ports"
)

// ReviewReminder periodically scans for uploads stuck in the manual review
// queue and nudges the moderation team.
type ReviewReminder struct {
	repo      ports.MediaRepository
	notifier  ports.Notifier
	teamEmail string
	interval  time.Duration
	staleMins int
}

func NewReviewReminder(repo ports.MediaRepository, notifier ports.Notifier, teamEmail string, interval time.Duration, staleMins int) *ReviewReminder {
	return &ReviewReminder{
		repo:      repo,
		notifier:  notifier,
		teamEmail: teamEmail,
		interval:  interval,
		staleMins: staleMins,
	}
}

func (r *ReviewReminder) Start(ctx context.Context) {
	log.Println("🚀 Review reminder started, monitoring for stale review items...")
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("👋 Stopping review reminder...")
			return
		case <-ticker.C:
			items, err := r.repo.GetUnderReview(ctx, r.staleMins)
			if err != nil {
				log.Printf("❌ Error polling review queue: %v", err)
				continue
			}

			if len(items) == 0 {
				continue
			}

			log.Printf("🕵️ %d uploads waiting in the review queue longer than %dm", len(items), r.staleMins)
			body := fmt.Sprintf("%d uploads have been waiting for manual review for more than %d minutes. Oldest: %q (submitted %s).",
				len(items), r.staleMins, items[0].Title, items[0].CreatedAt.Format(time.RFC3339))
			if err := r.notifier.Notify(r.teamEmail, "Review queue backlog", body); err != nil {
				log.Printf("❌ Error sending review reminder: %v", err)
			}
		}
	}
}
