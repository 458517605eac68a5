package repository

import (
	"context"

	"github.com/DonaldKnut/jevahapp-backend-sub012/internal/core/domain"
	"github.com/DonaldKnut/jevahapp-backend-sub012/internal/core/ports"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresMediaRepository struct {
	db *pgxpool.Pool
}

func NewPostgresMediaRepository(db *pgxpool.Pool) ports.MediaRepository {
	return &postgresMediaRepository{
		db: db,
	}
}

func (r *postgresMediaRepository) Create(ctx context.Context, media *domain.Media) error {
	query := `
		INSERT INTO media (id, owner_id, title, description, content_type, mime_type, status, object_path, thumbnail_path, transcript, reason, flags, confidence, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		media.ID, media.OwnerID, media.Title, media.Description, media.ContentType, media.MimeType,
		media.Status, media.ObjectPath, media.ThumbnailPath, media.Transcript, media.Reason,
		media.Flags, media.Confidence).
		Scan(&media.CreatedAt, &media.UpdatedAt)
	return err
}

func (r *postgresMediaRepository) Update(ctx context.Context, media *domain.Media) error {
	query := `
		UPDATE media
		SET status = $1, object_path = $2, thumbnail_path = $3, reason = $4, flags = $5, confidence = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query,
		media.Status, media.ObjectPath, media.ThumbnailPath, media.Reason, media.Flags,
		media.Confidence, media.ID).
		Scan(&media.UpdatedAt)
	return err
}

func (r *postgresMediaRepository) GetByID(ctx context.Context, id string) (*domain.Media, error) {
	query := `
		SELECT id, owner_id, title, COALESCE(description, ''), content_type, COALESCE(mime_type, ''), status,
		       COALESCE(object_path, ''), COALESCE(thumbnail_path, ''), COALESCE(transcript, ''),
		       COALESCE(reason, ''), flags, confidence, created_at, updated_at
		FROM media WHERE id = $1
	`
	media := &domain.Media{}
	err := r.db.QueryRow(ctx, query, id).
		Scan(&media.ID, &media.OwnerID, &media.Title, &media.Description, &media.ContentType,
			&media.MimeType, &media.Status, &media.ObjectPath, &media.ThumbnailPath,
			&media.Transcript, &media.Reason, &media.Flags, &media.Confidence,
			&media.CreatedAt, &media.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return media, err
}

func (r *postgresMediaRepository) GetUnderReview(ctx context.Context, olderThanMinutes int) ([]domain.Media, error) {
	query := `
		SELECT id, owner_id, title, COALESCE(description, ''), content_type, COALESCE(mime_type, ''), status,
		       COALESCE(object_path, ''), COALESCE(thumbnail_path, ''), COALESCE(transcript, ''),
		       COALESCE(reason, ''), flags, confidence, created_at, updated_at
		FROM media
		WHERE status = 'UNDER_REVIEW' AND created_at < NOW() - make_interval(mins => $1)
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(ctx, query, olderThanMinutes)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Media
	for rows.Next() {
		var m domain.Media
		err := rows.Scan(&m.ID, &m.OwnerID, &m.Title, &m.Description, &m.ContentType,
			&m.MimeType, &m.Status, &m.ObjectPath, &m.ThumbnailPath, &m.Transcript,
			&m.Reason, &m.Flags, &m.Confidence, &m.CreatedAt, &m.UpdatedAt)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}
