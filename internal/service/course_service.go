package service

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/course-catalog-api/internal/models"
	appErrors "github.com/noah-isme/course-catalog-api/pkg/errors"
)

type courseRepository interface {
	List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error)
	ListActive(ctx context.Context) ([]models.Course, error)
	ListActiveByCategory(ctx context.Context, categoryName string) ([]models.Course, error)
	CountActive(ctx context.Context) (int, error)
	FindByID(ctx context.Context, id string) (*models.Course, error)
	FindByCode(ctx context.Context, code string) (*models.Course, error)
	ExistsByCode(ctx context.Context, code string, excludeID string) (bool, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
}

// CreateCourseRequest captures fields for creating courses.
type CreateCourseRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Code        string `json:"code" validate:"required,min=4,max=15,catalogcode"`
	Instructor  string `json:"instructor" validate:"required,max=100"`
	Category    string `json:"category" validate:"required,max=50"`
	Description string `json:"description" validate:"omitempty,max=500"`
}

// UpdateCourseRequest modifies course fields. Status goes through the state
// machine, never straight into the column.
type UpdateCourseRequest struct {
	Name        string              `json:"name" validate:"required,max=100"`
	Code        string              `json:"code" validate:"required,min=4,max=15,catalogcode"`
	Instructor  string              `json:"instructor" validate:"required,max=100"`
	Category    string              `json:"category" validate:"required,max=50"`
	Description string              `json:"description" validate:"omitempty,max=500"`
	Status      models.CourseStatus `json:"status" validate:"required,oneof=ACTIVE INACTIVE"`
}

// CourseService handles course domain workflows, including the
// ACTIVE/INACTIVE state machine.
type CourseService struct {
	repo      courseRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewCourseService creates a new course service.
func NewCourseService(repo courseRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, cache: cache, validator: validate, logger: logger, now: time.Now}
}

// List returns paginated courses for the admin grid.
func (s *CourseService) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, *models.Pagination, error) {
	courses, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
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
	return courses, pagination, nil
}

// ListActive returns every active course.
func (s *CourseService) ListActive(ctx context.Context) ([]models.Course, error) {
	courses, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list active courses")
	}
	return courses, nil
}

// ListActiveByCategory returns active courses whose category name matches
// exactly.
func (s *CourseService) ListActiveByCategory(ctx context.Context, categoryName string) ([]models.Course, error) {
	courses, err := s.repo.ListActiveByCategory(ctx, categoryName)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list active courses by category")
	}
	return courses, nil
}

// Get returns a course by identifier.
func (s *CourseService) Get(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}

// FindByCode returns a course by its unique code.
func (s *CourseService) FindByCode(ctx context.Context, code string) (*models.Course, error) {
	course, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.WithField(appErrors.ErrNotFound, "courseCode", "course not found: "+code)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}

// Create adds a new course, active by default.
func (s *CourseService) Create(ctx context.Context, req CreateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid course payload")
	}

	req.Code = strings.TrimSpace(req.Code)

	exists, err := s.repo.ExistsByCode(ctx, req.Code, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check course code")
	}
	if exists {
		return nil, appErrors.WithField(appErrors.ErrConflict, "code", "code already exists")
	}

	course := &models.Course{
		Name:        req.Name,
		Code:        req.Code,
		Instructor:  req.Instructor,
		Category:    req.Category,
		Description: req.Description,
		Status:      models.CourseStatusActive,
	}

	if err := s.repo.Create(ctx, course); err != nil {
		return nil, s.mutationError(err, "failed to create course")
	}
	s.invalidateFeed(ctx)
	return course, nil
}

// Update modifies an existing course. The submitted status drives the state
// machine: resubmitting the current status is a no-op success, a changed
// status transitions and stamps or clears the inactivation date.
func (s *CourseService) Update(ctx context.Context, id string, req UpdateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid course payload")
	}

	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	req.Code = strings.TrimSpace(req.Code)

	if req.Code != course.Code {
		exists, err := s.repo.ExistsByCode(ctx, req.Code, id)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check course code")
		}
		if exists {
			return nil, appErrors.WithField(appErrors.ErrConflict, "code", "code already exists")
		}
	}

	course.Name = req.Name
	course.Code = req.Code
	course.Instructor = req.Instructor
	course.Category = req.Category
	course.Description = req.Description
	course.ApplyStatus(req.Status, s.now().UTC())

	if err := s.repo.Update(ctx, course); err != nil {
		return nil, s.mutationError(err, "failed to update course")
	}
	s.invalidateFeed(ctx)
	return course, nil
}

// Inactivate transitions an ACTIVE course to INACTIVE. Unlike the edit
// path, calling it on an already inactive course is rejected, callers are
// expected to check state first.
func (s *CourseService) Inactivate(ctx context.Context, code string) error {
	course, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.WithField(appErrors.ErrNotFound, "code", "course not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	if course.Status == models.CourseStatusInactive {
		return appErrors.WithField(appErrors.ErrAlreadyInactive, "status", "course is already inactive")
	}

	course.Inactivate(s.now().UTC())
	if err := s.repo.Update(ctx, course); err != nil {
		return s.mutationError(err, "failed to inactivate course")
	}
	s.invalidateFeed(ctx)
	return nil
}

func (s *CourseService) mutationError(err error, message string) error {
	if appErr := appErrors.FromError(err); appErr.Code == appErrors.ErrConflict.Code {
		return appErr
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}

func (s *CourseService) invalidateFeed(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, catalogFeedCachePattern); err != nil {
		s.logger.Warn("failed to invalidate catalog feed cache", zap.Error(err))
	}
}
