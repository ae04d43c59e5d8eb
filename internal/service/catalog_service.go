package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/ehub-epfl/founders-explorer-api/internal/catalog"
	"github.com/ehub-epfl/founders-explorer-api/internal/models"
	"github.com/ehub-epfl/founders-explorer-api/pkg/config"
	appErrors "github.com/ehub-epfl/founders-explorer-api/pkg/errors"
)

type courseRepository interface {
	Search(ctx context.Context, filter catalog.FilterSet, sort catalog.SortSpec, page, pageSize int) ([]models.Course, int, error)
	FindByKey(ctx context.Context, courseKey string) (*models.Course, error)
}

// SearchParams carries one listing request.
type SearchParams struct {
	Filter     catalog.FilterSet
	Sort       catalog.SortSpec
	Page       int
	PageSize   int
	View       catalog.ViewMode
	Preference catalog.Preference
}

// CatalogService orchestrates course search: the repository narrows the
// candidate set, then the in-memory engines order the page for the active
// view (multi-key sort in list view, Pareto ranks in grid view).
type CatalogService struct {
	repo    courseRepository
	metrics *MetricsService
	logger  *zap.Logger
	config  config.CatalogConfig
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(repo courseRepository, metrics *MetricsService, logger *zap.Logger, cfg config.CatalogConfig) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.DefaultPageSize <= 0 {
		cfg.DefaultPageSize = 20
	}
	if cfg.MaxPageSize <= 0 {
		cfg.MaxPageSize = 100
	}
	return &CatalogService{repo: repo, metrics: metrics, logger: logger, config: cfg}
}

// Search returns one ordered page of courses. A backend "no rows" outcome is
// an empty result, not an error.
func (s *CatalogService) Search(ctx context.Context, params SearchParams) ([]models.Course, *models.Pagination, error) {
	page := params.Page
	if page < 1 {
		page = 1
	}
	size := params.PageSize
	if size <= 0 {
		size = s.config.DefaultPageSize
	}
	if size > s.config.MaxPageSize {
		size = s.config.MaxPageSize
	}

	sort := params.Sort
	if sort.Field != "" && !catalog.IsSortableField(sort.Field) {
		sort = catalog.SortSpec{}
	}

	start := time.Now()
	items, total, err := s.repo.Search(ctx, params.Filter, sort, page, size)
	if s.metrics != nil {
		s.metrics.ObserveDBQuery("course_search", time.Since(start))
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			items, total = nil, 0
		} else {
			return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to search courses")
		}
	}

	if params.View == catalog.ViewGrid {
		pref := params.Preference
		if pref.Credits == "" || pref.Workload == "" {
			pref = catalog.DefaultPreference
		}
		items = catalog.RankCourses(items, pref)
	} else {
		catalog.SortCourses(items, sort)
	}

	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return items, pagination, nil
}

// Get returns one course by its coursebook key.
func (s *CatalogService) Get(ctx context.Context, courseKey string) (*models.Course, error) {
	start := time.Now()
	course, err := s.repo.FindByKey(ctx, courseKey)
	if s.metrics != nil {
		s.metrics.ObserveDBQuery("course_detail", time.Since(start))
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}

// Source adapts the service to the catalog.CourseSource collaborator used by
// view sessions.
func (s *CatalogService) Source() catalog.CourseSource {
	return &catalogSource{service: s}
}

type catalogSource struct {
	service *CatalogService
}

func (c *catalogSource) Search(ctx context.Context, filter catalog.FilterSet, sort catalog.SortSpec, page, pageSize int) (catalog.SearchResult, error) {
	items, total, err := c.service.repo.Search(ctx, filter, sort, page, pageSize)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return catalog.SearchResult{}, nil
		}
		return catalog.SearchResult{}, err
	}
	return catalog.SearchResult{Items: items, Total: total}, nil
}
