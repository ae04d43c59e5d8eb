package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ehub-epfl/founders-explorer-api/internal/middleware"
	"github.com/ehub-epfl/founders-explorer-api/internal/models"
	"github.com/ehub-epfl/founders-explorer-api/internal/service"
	"github.com/ehub-epfl/founders-explorer-api/pkg/config"
)

type ratingRepoStub struct {
	saved   *models.Rating
	rating  *models.Rating
	findErr error
}

func (s *ratingRepoStub) Upsert(ctx context.Context, rating *models.Rating) error {
	s.saved = rating
	return nil
}

func (s *ratingRepoStub) FindByCourseAndUser(ctx context.Context, courseKey, userID string) (*models.Rating, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.rating, nil
}

func newRatingHandler(repo *ratingRepoStub, courses *courseRepoStub) *RatingHandler {
	svc := service.NewRatingService(repo, courses, nil, config.RatingsConfig{Enabled: true})
	return NewRatingHandler(svc)
}

func submitContext(t *testing.T, w *httptest.ResponseRecorder, payload interface{}, claims *models.JWTClaims) *gin.Context {
	c, _ := gin.CreateTestContext(w)
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	c.Request = httptest.NewRequest(http.MethodPut, "/courses/CS-101/rating", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "key", Value: "CS-101"}}
	if claims != nil {
		c.Set(middleware.ContextUserKey, claims)
	}
	return c
}

func TestRatingHandlerSubmit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &ratingRepoStub{}
	handler := newRatingHandler(repo, &courseRepoStub{course: &models.Course{CourseKey: "CS-101"}})

	w := httptest.NewRecorder()
	c := submitContext(t, w, service.SubmitRatingRequest{Relevance: 80, Discovery: 60}, &models.JWTClaims{UserID: "u1"})

	handler.Submit(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, repo.saved)
	assert.Equal(t, "u1", repo.saved.UserID)
	assert.Equal(t, 80.0, repo.saved.Relevance)
}

func TestRatingHandlerSubmitUnauthenticated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newRatingHandler(&ratingRepoStub{}, &courseRepoStub{})

	w := httptest.NewRecorder()
	c := submitContext(t, w, service.SubmitRatingRequest{Relevance: 80}, nil)

	handler.Submit(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRatingHandlerSubmitOutOfRange(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newRatingHandler(&ratingRepoStub{}, &courseRepoStub{course: &models.Course{}})

	w := httptest.NewRecorder()
	c := submitContext(t, w, map[string]float64{"relevance": 150}, &models.JWTClaims{UserID: "u1"})

	handler.Submit(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRatingHandlerGetNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newRatingHandler(&ratingRepoStub{findErr: sql.ErrNoRows}, &courseRepoStub{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/courses/CS-101/rating", nil)
	c.Params = gin.Params{{Key: "key", Value: "CS-101"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u1"})

	handler.Get(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
