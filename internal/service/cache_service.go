package service

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/qualityeducation/eduplatform-api/internal/models"
	apperrors "github.com/qualityeducation/eduplatform-api/pkg/errors"
)

const catalogKeyPrefix = "catalog:courses:"

type cacheStore interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// CacheService fronts the published-course catalog with Redis. A nil or
// disabled service degrades to pass-through.
type CacheService struct {
	cache   cacheStore
	enabled bool
	ttl     time.Duration
	metrics *MetricsService
	logger  *zap.Logger
}

func NewCacheService(cache cacheStore, enabled bool, ttl time.Duration, metrics *MetricsService, logger *zap.Logger) *CacheService {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &CacheService{
		cache:   cache,
		enabled: enabled && cache != nil,
		ttl:     ttl,
		metrics: metrics,
		logger:  logger,
	}
}

// GetCatalog returns the cached catalog page for a filter, reporting whether
// it was present. Cache errors are treated as misses.
func (s *CacheService) GetCatalog(ctx context.Context, filter models.CourseFilter) ([]models.Course, bool) {
	if !s.enabled {
		return nil, false
	}

	courses := []models.Course{}
	err := s.cache.Get(ctx, catalogKey(filter), &courses)
	if err != nil {
		if !errors.Is(err, apperrors.ErrCacheMiss) {
			s.logger.Warn("catalog cache read failed", zap.Error(err))
		}
		if s.metrics != nil {
			s.metrics.CacheMiss()
		}
		return nil, false
	}

	if s.metrics != nil {
		s.metrics.CacheHit()
	}
	return courses, true
}

func (s *CacheService) SetCatalog(ctx context.Context, filter models.CourseFilter, courses []models.Course) {
	if !s.enabled {
		return
	}

	if err := s.cache.Set(ctx, catalogKey(filter), courses, s.ttl); err != nil {
		s.logger.Warn("catalog cache write failed", zap.Error(err))
	}
}

// InvalidateCatalog drops every cached catalog page.
func (s *CacheService) InvalidateCatalog(ctx context.Context) {
	if !s.enabled {
		return
	}

	if err := s.cache.DeleteByPattern(ctx, catalogKeyPrefix+"*"); err != nil {
		s.logger.Warn("catalog cache invalidation failed", zap.Error(err))
	}
}

func catalogKey(filter models.CourseFilter) string {
	if filter.IsZero() {
		return catalogKeyPrefix + "all"
	}

	sum := sha1.Sum([]byte(fmt.Sprintf("%s|%s|%s", filter.Term, filter.Category, filter.Level)))
	return catalogKeyPrefix + hex.EncodeToString(sum[:])
}
