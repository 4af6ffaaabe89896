package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-catalog-api/internal/models"
	appErrors "github.com/noah-isme/course-catalog-api/pkg/errors"
)

type mockCategoryLister struct {
	categories []models.Category
}

func (m *mockCategoryLister) ListWithActiveCourses(ctx context.Context, limit int) ([]models.Category, error) {
	if len(m.categories) > limit {
		return m.categories[:limit], nil
	}
	return m.categories, nil
}

type mockCourseLister struct {
	courses []models.Course
}

func (m *mockCourseLister) ListActive(ctx context.Context) ([]models.Course, error) {
	return m.courses, nil
}

type fakeCacheRepo struct {
	data map[string][]byte
}

func newFakeCacheRepo() *fakeCacheRepo {
	return &fakeCacheRepo{data: make(map[string][]byte)}
}

func (f *fakeCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	payload, ok := f.data[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(payload, dest)
}

func (f *fakeCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.data[key] = payload
	return nil
}

func (f *fakeCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range f.data {
		if strings.HasPrefix(key, prefix) {
			delete(f.data, key)
		}
	}
	return nil
}

func feedCourse(id, category string) models.Course {
	return models.Course{
		ID: id, Name: "Course " + id, Code: "course-" + id, Instructor: "Paulo",
		Category: category, Status: models.CourseStatusActive,
	}
}

func TestComposeFeedCapsCoursesPerCategory(t *testing.T) {
	categories := &mockCategoryLister{categories: []models.Category{
		{ID: "1", Name: "Programming", Code: "prog", SortOrder: 1},
	}}
	var courses []models.Course
	for i := 0; i < 6; i++ {
		courses = append(courses, feedCourse(fmt.Sprintf("p%d", i), "Programming"))
	}
	courses = append(courses, feedCourse("d1", "DevOps"))
	lister := &mockCourseLister{courses: courses}

	svc := NewCatalogService(categories, lister, nil, time.Minute, nil)
	feed, cached, err := svc.ComposeFeed(context.Background())
	require.NoError(t, err)
	assert.False(t, cached)
	require.Len(t, feed.Categories, 1)
	assert.Len(t, feed.Categories[0].Courses, 4)
	assert.Equal(t, 7, feed.TotalActiveCourses, "the total ignores the per-category cap")
}

func TestComposeFeedMatchesCategoryNameExactly(t *testing.T) {
	categories := &mockCategoryLister{categories: []models.Category{
		{ID: "1", Name: "Programming", Code: "prog", SortOrder: 1},
	}}
	lister := &mockCourseLister{courses: []models.Course{
		feedCourse("p1", "Programming"),
		feedCourse("p2", "programming"),
	}}

	svc := NewCatalogService(categories, lister, nil, time.Minute, nil)
	feed, _, err := svc.ComposeFeed(context.Background())
	require.NoError(t, err)
	require.Len(t, feed.Categories, 1)
	require.Len(t, feed.Categories[0].Courses, 1)
	assert.Equal(t, "p1", feed.Categories[0].Courses[0].ID)
	assert.Equal(t, 2, feed.TotalActiveCourses)
}

func TestComposeFeedEmptyCatalog(t *testing.T) {
	svc := NewCatalogService(&mockCategoryLister{}, &mockCourseLister{}, nil, time.Minute, nil)

	feed, _, err := svc.ComposeFeed(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, feed.Categories)
	assert.Empty(t, feed.Categories)
	assert.Zero(t, feed.TotalActiveCourses)
}

func TestComposeFeedUsesCache(t *testing.T) {
	categories := &mockCategoryLister{categories: []models.Category{
		{ID: "1", Name: "Programming", Code: "prog", SortOrder: 1},
	}}
	lister := &mockCourseLister{courses: []models.Course{feedCourse("p1", "Programming")}}
	cache := NewCacheService(newFakeCacheRepo(), nil, time.Minute, nil, true)

	svc := NewCatalogService(categories, lister, cache, time.Minute, nil)

	first, cached, err := svc.ComposeFeed(context.Background())
	require.NoError(t, err)
	assert.False(t, cached)

	// Mutate the source; the cached payload must win until invalidated.
	lister.courses = nil
	second, cached, err := svc.ComposeFeed(context.Background())
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, first.TotalActiveCourses, second.TotalActiveCourses)

	require.NoError(t, cache.Invalidate(context.Background(), catalogFeedCachePattern))
	third, cached, err := svc.ComposeFeed(context.Background())
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Zero(t, third.TotalActiveCourses)
}
