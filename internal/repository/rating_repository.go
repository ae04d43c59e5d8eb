package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ehub-epfl/founders-explorer-api/internal/models"
)

// RatingRepository persists per-user course ratings.
type RatingRepository struct {
	db *sqlx.DB
}

// NewRatingRepository creates a new repository instance.
func NewRatingRepository(db *sqlx.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

// Upsert writes the rating, overwriting any previous submission by the same
// user for the same course.
func (r *RatingRepository) Upsert(ctx context.Context, rating *models.Rating) error {
	if rating.ID == "" {
		rating.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if rating.CreatedAt.IsZero() {
		rating.CreatedAt = now
	}
	rating.UpdatedAt = now

	const query = `INSERT INTO coursebook_ratings (id, course_key, user_id, relevance, discovery, building, venture, intro, created_at, updated_at)
		VALUES (:id, :course_key, :user_id, :relevance, :discovery, :building, :venture, :intro, :created_at, :updated_at)
		ON CONFLICT (course_key, user_id) DO UPDATE SET
			relevance = EXCLUDED.relevance,
			discovery = EXCLUDED.discovery,
			building = EXCLUDED.building,
			venture = EXCLUDED.venture,
			intro = EXCLUDED.intro,
			updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, rating); err != nil {
		return fmt.Errorf("upsert rating: %w", err)
	}
	return nil
}

// FindByCourseAndUser returns the user's rating for a course.
func (r *RatingRepository) FindByCourseAndUser(ctx context.Context, courseKey, userID string) (*models.Rating, error) {
	const query = `SELECT id, course_key, user_id, relevance, discovery, building, venture, intro, created_at, updated_at
		FROM coursebook_ratings WHERE course_key = $1 AND user_id = $2`
	var rating models.Rating
	if err := r.db.GetContext(ctx, &rating, query, courseKey, userID); err != nil {
		return nil, err
	}
	return &rating, nil
}
