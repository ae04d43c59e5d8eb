package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/ehub-epfl/founders-explorer-api/internal/catalog"
	"github.com/ehub-epfl/founders-explorer-api/internal/models"
	"github.com/ehub-epfl/founders-explorer-api/pkg/config"
	appErrors "github.com/ehub-epfl/founders-explorer-api/pkg/errors"
)

const (
	cacheKeyProgramTree    = "catalog:program_tree"
	cacheKeyLevelsByDegree = "catalog:levels_by_degree"
)

type programRepository interface {
	ListMemberships(ctx context.Context) ([]models.ProgramMembership, error)
	ListLevelLabels(ctx context.Context) ([]string, error)
}

type programCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// ProgramService derives the program tree and the levels-by-degree map from
// raw membership rows, with a Redis cache in front. A failed backend read
// degrades to empty structures so dropdowns render without options instead
// of erroring.
type ProgramService struct {
	repo    programRepository
	cache   programCache
	metrics *MetricsService
	logger  *zap.Logger
	config  config.CatalogConfig
}

// NewProgramService creates a new program service.
func NewProgramService(repo programRepository, cache programCache, metrics *MetricsService, logger *zap.Logger, cfg config.CatalogConfig) *ProgramService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProgramService{repo: repo, cache: cache, metrics: metrics, logger: logger, config: cfg}
}

// Tree returns the degree -> level -> programs structure.
func (s *ProgramService) Tree(ctx context.Context) models.ProgramTree {
	var cached models.ProgramTree
	if err := s.cacheGet(ctx, cacheKeyProgramTree, &cached); err == nil {
		return cached
	}

	rows, err := s.repo.ListMemberships(ctx)
	if err != nil {
		s.logger.Warn("program tree unavailable, serving empty", zap.Error(err))
		return models.ProgramTree{}
	}

	tree := catalog.BuildProgramTree(rows)
	s.cacheSet(ctx, cacheKeyProgramTree, tree, s.config.TreeCacheTTL)
	return tree
}

// Levels returns the degree -> raw level labels map used to override the
// tree-derived level options.
func (s *ProgramService) Levels(ctx context.Context) models.LevelsByDegree {
	var cached models.LevelsByDegree
	if err := s.cacheGet(ctx, cacheKeyLevelsByDegree, &cached); err == nil {
		return cached
	}

	labels, err := s.repo.ListLevelLabels(ctx)
	if err != nil {
		s.logger.Warn("level labels unavailable, serving empty", zap.Error(err))
		return models.LevelsByDegree{}
	}

	levels := catalog.GroupLevelsByDegree(labels)
	s.cacheSet(ctx, cacheKeyLevelsByDegree, levels, s.config.LevelsCacheTTL)
	return levels
}

// OptionSet is one snapshot of the four dependent dropdowns.
type OptionSet struct {
	Degrees       []string `json:"degrees"`
	Levels        []string `json:"levels"`
	Majors        []string `json:"majors"`
	Minors        []string `json:"minors"`
	LevelDisabled bool     `json:"level_disabled"`
	MajorDisabled bool     `json:"major_disabled"`
	MinorDisabled bool     `json:"minor_disabled"`
}

// Options derives the dropdown contents for the given selection. Selected
// values are retained in their lists even when the data no longer offers
// them.
func (s *ProgramService) Options(ctx context.Context, degree, level, major, minor string) OptionSet {
	tree := s.Tree(ctx)
	levels := s.Levels(ctx)

	return OptionSet{
		Degrees:       catalog.DegreeOptions(tree, degree),
		Levels:        catalog.LevelOptions(tree, levels, degree, level),
		Majors:        catalog.MajorOptions(tree, degree, level, major),
		Minors:        catalog.MinorOptions(tree, degree, level, minor),
		LevelDisabled: catalog.LevelDisabled(tree, levels, degree),
		MajorDisabled: catalog.MajorDisabled(tree, degree, level),
		MinorDisabled: catalog.MinorDisabled(tree, degree, level),
	}
}

// Invalidate drops the cached tree and level map, for use after a catalog
// reload.
func (s *ProgramService) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	type patternDeleter interface {
		DeleteByPattern(ctx context.Context, pattern string) error
	}
	if d, ok := s.cache.(patternDeleter); ok {
		return d.DeleteByPattern(ctx, "catalog:*")
	}
	return nil
}

func (s *ProgramService) cacheGet(ctx context.Context, key string, dest interface{}) error {
	if s.cache == nil {
		return appErrors.ErrCacheMiss
	}
	start := time.Now()
	err := s.cache.Get(ctx, key, dest)
	if s.metrics != nil {
		s.metrics.RecordCacheOperation(err == nil, time.Since(start))
	}
	if err != nil && !errors.Is(err, appErrors.ErrCacheMiss) {
		s.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
	}
	return err
}

func (s *ProgramService) cacheSet(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if s.cache == nil {
		return
	}
	start := time.Now()
	err := s.cache.Set(ctx, key, value, ttl)
	if s.metrics != nil {
		s.metrics.ObserveCacheWrite(time.Since(start))
	}
	if err != nil {
		s.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}
