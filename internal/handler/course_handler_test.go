package handler

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ehub-epfl/founders-explorer-api/internal/catalog"
	"github.com/ehub-epfl/founders-explorer-api/internal/middleware"
	"github.com/ehub-epfl/founders-explorer-api/internal/models"
	"github.com/ehub-epfl/founders-explorer-api/internal/service"
	"github.com/ehub-epfl/founders-explorer-api/pkg/config"
)

type courseRepoStub struct {
	courses []models.Course
	total   int
	course  *models.Course
	findErr error

	lastFilter catalog.FilterSet
	lastSort   catalog.SortSpec
}

func (s *courseRepoStub) Search(ctx context.Context, filter catalog.FilterSet, sort catalog.SortSpec, page, pageSize int) ([]models.Course, int, error) {
	s.lastFilter = filter
	s.lastSort = sort
	return s.courses, s.total, nil
}

func (s *courseRepoStub) FindByKey(ctx context.Context, courseKey string) (*models.Course, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.course, nil
}

func newCourseHandler(repo *courseRepoStub) *CourseHandler {
	catalogSvc := service.NewCatalogService(repo, nil, nil, config.CatalogConfig{})
	exportSvc := service.NewExportService(repo, nil, config.ExportConfig{Enabled: true})
	ratingSvc := service.NewRatingService(&ratingRepoStub{}, repo, nil, config.RatingsConfig{Enabled: true})
	return NewCourseHandler(catalogSvc, exportSvc, ratingSvc)
}

func TestCourseHandlerList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &courseRepoStub{
		courses: []models.Course{{CourseKey: "CS-101", Name: "Algorithms"}},
		total:   1,
	}
	handler := newCourseHandler(repo)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/courses?q=algo&semester=Fall&page=2&limit=10", nil)

	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "CS-101")
	assert.Contains(t, w.Body.String(), `"total_count":1`)
	assert.Equal(t, "algo", repo.lastFilter.Query)
	assert.Equal(t, catalog.SemesterFall, repo.lastFilter.Semester)
}

func TestCourseHandlerListGridView(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &courseRepoStub{
		courses: []models.Course{{CourseKey: "CS-101", Name: "Algorithms"}},
		total:   1,
	}
	handler := newCourseHandler(repo)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/courses?view=grid", nil)

	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"rank":0`)
}

func TestCourseHandlerGetAttachesOwnRating(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &courseRepoStub{course: &models.Course{CourseKey: "CS-101", Name: "Algorithms"}}
	catalogSvc := service.NewCatalogService(repo, nil, nil, config.CatalogConfig{})
	exportSvc := service.NewExportService(repo, nil, config.ExportConfig{Enabled: true})
	ratingSvc := service.NewRatingService(&ratingRepoStub{
		rating: &models.Rating{CourseKey: "CS-101", UserID: "u1", Relevance: 75},
	}, repo, nil, config.RatingsConfig{Enabled: true})
	handler := NewCourseHandler(catalogSvc, exportSvc, ratingSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/courses/CS-101", nil)
	c.Params = gin.Params{{Key: "key", Value: "CS-101"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u1"})

	handler.Get(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_rating"`)
	assert.Contains(t, w.Body.String(), `"relevance":75`)
}

func TestCourseHandlerGetNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newCourseHandler(&courseRepoStub{findErr: sql.ErrNoRows})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/courses/missing", nil)
	c.Params = gin.Params{{Key: "key", Value: "missing"}}

	handler.Get(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCourseHandlerExportCSV(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &courseRepoStub{
		courses: []models.Course{{CourseKey: "CS-101", Name: "Algorithms"}},
		total:   1,
	}
	handler := newCourseHandler(repo)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/courses/export?format=csv", nil)

	handler.Export(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, w.Body.String(), "Algorithms")
}
