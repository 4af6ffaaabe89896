package service

import (
	"context"
	"database/sql"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/course-catalog-api/internal/models"
	appErrors "github.com/noah-isme/course-catalog-api/pkg/errors"
)

type categoryRepository interface {
	List(ctx context.Context, filter models.CategoryFilter) ([]models.Category, int, error)
	ListOrdered(ctx context.Context) ([]models.Category, error)
	ListWithActiveCourses(ctx context.Context, limit int) ([]models.Category, error)
	FindByID(ctx context.Context, id string) (*models.Category, error)
	ExistsByCode(ctx context.Context, code string, excludeID string) (bool, error)
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, category *models.Category) error
}

// CreateCategoryRequest captures fields for creating categories.
type CreateCategoryRequest struct {
	Name  string `json:"name" validate:"required"`
	Code  string `json:"code" validate:"required,min=4,max=15,catalogcode"`
	Color string `json:"color" validate:"required"`
	Order int    `json:"order" validate:"gte=1"`
}

// UpdateCategoryRequest modifies category fields.
type UpdateCategoryRequest struct {
	Name  string `json:"name" validate:"required"`
	Code  string `json:"code" validate:"required,min=4,max=15,catalogcode"`
	Color string `json:"color" validate:"required"`
	Order int    `json:"order" validate:"gte=1"`
}

// CategoryService handles category domain workflows.
type CategoryService struct {
	repo      categoryRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCategoryService creates a new category service.
func NewCategoryService(repo categoryRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *CategoryService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CategoryService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// List returns paginated categories for the admin grid.
func (s *CategoryService) List(ctx context.Context, filter models.CategoryFilter) ([]models.Category, *models.Pagination, error) {
	categories, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list categories")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return categories, pagination, nil
}

// ListOrdered returns all categories ascending by display order.
func (s *CategoryService) ListOrdered(ctx context.Context) ([]models.Category, error) {
	categories, err := s.repo.ListOrdered(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list categories")
	}
	return categories, nil
}

// ListWithActiveCourses returns up to nine categories that have at least one
// active course.
func (s *CategoryService) ListWithActiveCourses(ctx context.Context) ([]models.Category, error) {
	categories, err := s.repo.ListWithActiveCourses(ctx, 9)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list categories with active courses")
	}
	return categories, nil
}

// Get returns a category by identifier.
func (s *CategoryService) Get(ctx context.Context, id string) (*models.Category, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "category not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load category")
	}
	return category, nil
}

// Create adds a new category ensuring code uniqueness.
func (s *CategoryService) Create(ctx context.Context, req CreateCategoryRequest) (*models.Category, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid category payload")
	}

	req.Code = strings.TrimSpace(req.Code)

	exists, err := s.repo.ExistsByCode(ctx, req.Code, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check category code")
	}
	if exists {
		return nil, appErrors.WithField(appErrors.ErrConflict, "code", "code already exists")
	}

	category := &models.Category{
		Name:      req.Name,
		Code:      req.Code,
		Color:     req.Color,
		SortOrder: req.Order,
	}

	if err := s.repo.Create(ctx, category); err != nil {
		return nil, s.mutationError(err, "failed to create category")
	}
	s.invalidateFeed(ctx)
	return category, nil
}

// Update modifies an existing category. Code uniqueness is re-checked only
// when the code actually changed, so a self-update always passes.
func (s *CategoryService) Update(ctx context.Context, id string, req UpdateCategoryRequest) (*models.Category, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid category payload")
	}

	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "category not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load category")
	}

	req.Code = strings.TrimSpace(req.Code)

	if req.Code != category.Code {
		exists, err := s.repo.ExistsByCode(ctx, req.Code, id)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check category code")
		}
		if exists {
			return nil, appErrors.WithField(appErrors.ErrConflict, "code", "code already exists")
		}
	}

	category.Name = req.Name
	category.Code = req.Code
	category.Color = req.Color
	category.SortOrder = req.Order

	if err := s.repo.Update(ctx, category); err != nil {
		return nil, s.mutationError(err, "failed to update category")
	}
	s.invalidateFeed(ctx)
	return category, nil
}

// mutationError passes through conflicts raised by the storage constraint
// and wraps everything else as internal.
func (s *CategoryService) mutationError(err error, message string) error {
	if appErr := appErrors.FromError(err); appErr.Code == appErrors.ErrConflict.Code {
		return appErr
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}

func (s *CategoryService) invalidateFeed(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, catalogFeedCachePattern); err != nil {
		s.logger.Warn("failed to invalidate catalog feed cache", zap.Error(err))
	}
}
