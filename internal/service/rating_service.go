package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/ehub-epfl/founders-explorer-api/internal/catalog"
	"github.com/ehub-epfl/founders-explorer-api/internal/models"
	"github.com/ehub-epfl/founders-explorer-api/pkg/config"
	appErrors "github.com/ehub-epfl/founders-explorer-api/pkg/errors"
)

type ratingRepository interface {
	Upsert(ctx context.Context, rating *models.Rating) error
	FindByCourseAndUser(ctx context.Context, courseKey, userID string) (*models.Rating, error)
}

type ratingCourseFinder interface {
	FindByKey(ctx context.Context, courseKey string) (*models.Course, error)
}

// SubmitRatingRequest carries one rating submission. Values are on the
// canonical 0-100 scale; fractional values are accepted as-is.
type SubmitRatingRequest struct {
	Relevance float64 `json:"relevance" binding:"min=0,max=100"`
	Discovery float64 `json:"discovery" binding:"min=0,max=100"`
	Building  float64 `json:"building" binding:"min=0,max=100"`
	Venture   float64 `json:"venture" binding:"min=0,max=100"`
	Intro     float64 `json:"intro" binding:"min=0,max=100"`
}

// RatingService validates and persists per-user course ratings. Resubmission
// overwrites: the last rating wins.
type RatingService struct {
	repo    ratingRepository
	courses ratingCourseFinder
	logger  *zap.Logger
	config  config.RatingsConfig
}

// NewRatingService creates a new rating service.
func NewRatingService(repo ratingRepository, courses ratingCourseFinder, logger *zap.Logger, cfg config.RatingsConfig) *RatingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RatingService{repo: repo, courses: courses, logger: logger, config: cfg}
}

// Submit stores the user's rating for a course.
func (s *RatingService) Submit(ctx context.Context, courseKey, userID string, req SubmitRatingRequest) (*models.Rating, error) {
	if !s.config.Enabled {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "ratings are disabled")
	}
	if err := validateScores(req); err != nil {
		return nil, err
	}

	if _, err := s.courses.FindByKey(ctx, courseKey); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	rating := &models.Rating{
		CourseKey: courseKey,
		UserID:    userID,
		Relevance: req.Relevance,
		Discovery: req.Discovery,
		Building:  req.Building,
		Venture:   req.Venture,
		Intro:     req.Intro,
	}
	if err := s.repo.Upsert(ctx, rating); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save rating")
	}

	s.logger.Info("rating saved", zap.String("course_key", courseKey), zap.String("user_id", userID))
	return rating, nil
}

// Get returns the user's existing rating for a course.
func (s *RatingService) Get(ctx context.Context, courseKey, userID string) (*models.Rating, error) {
	rating, err := s.repo.FindByCourseAndUser(ctx, courseKey, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "rating not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rating")
	}
	return rating, nil
}

func validateScores(req SubmitRatingRequest) error {
	values := map[string]float64{
		"relevance": req.Relevance,
		"discovery": req.Discovery,
		"building":  req.Building,
		"venture":   req.Venture,
		"intro":     req.Intro,
	}
	for name, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < catalog.ScoreMin || v > catalog.ScoreMax {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s must be between %.0f and %.0f", name, catalog.ScoreMin, catalog.ScoreMax))
		}
	}
	return nil
}
