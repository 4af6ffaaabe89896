package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/course-catalog-api/internal/dto"
	"github.com/noah-isme/course-catalog-api/internal/models"
	appErrors "github.com/noah-isme/course-catalog-api/pkg/errors"
)

const (
	catalogFeedCacheKey     = "catalog:feed"
	catalogFeedCachePattern = "catalog:*"

	feedCategoryLimit         = 9
	feedCoursesPerCategoryCap = 4
)

type catalogCategoryLister interface {
	ListWithActiveCourses(ctx context.Context, limit int) ([]models.Category, error)
}

type catalogCourseLister interface {
	ListActive(ctx context.Context) ([]models.Course, error)
}

// CatalogService composes the landing-page feed.
type CatalogService struct {
	categories catalogCategoryLister
	courses    catalogCourseLister
	cache      *CacheService
	cacheTTL   time.Duration
	logger     *zap.Logger
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(categories catalogCategoryLister, courses catalogCourseLister, cache *CacheService, cacheTTL time.Duration, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &CatalogService{categories: categories, courses: courses, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

// ComposeFeed joins the top categories that have active courses with up to
// four active courses each, plus the system-wide active course count. The
// per-category filter matches category names exactly, while the category
// query itself matched case-insensitively; the two paths differ on purpose.
// It returns true when the payload came from cache.
func (s *CatalogService) ComposeFeed(ctx context.Context) (*dto.CatalogFeed, bool, error) {
	var cached dto.CatalogFeed
	if hit, err := s.cache.Get(ctx, catalogFeedCacheKey, &cached); err == nil && hit {
		return &cached, true, nil
	}

	categories, err := s.categories.ListWithActiveCourses(ctx, feedCategoryLimit)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load feed categories")
	}
	activeCourses, err := s.courses.ListActive(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load active courses")
	}

	// Absent upstream collections become empty slices, never a fault.
	feed := &dto.CatalogFeed{
		Categories:         make([]dto.CategoryWithCourses, 0, len(categories)),
		TotalActiveCourses: len(activeCourses),
	}

	for _, category := range categories {
		courses := make([]models.Course, 0, feedCoursesPerCategoryCap)
		for _, course := range activeCourses {
			if course.Category != category.Name {
				continue
			}
			courses = append(courses, course)
			if len(courses) == feedCoursesPerCategoryCap {
				break
			}
		}
		feed.Categories = append(feed.Categories, dto.CategoryWithCourses{Category: category, Courses: courses})
	}

	if err := s.cache.Set(ctx, catalogFeedCacheKey, feed, s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache catalog feed", zap.Error(err))
	}
	return feed, false, nil
}
