package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/course-catalog-api/internal/models"
	appErrors "github.com/noah-isme/course-catalog-api/pkg/errors"
)

type registrationRepository interface {
	Exists(ctx context.Context, userID, courseID string) (bool, error)
	Create(ctx context.Context, registration *models.Registration) error
	ListByUserEmail(ctx context.Context, email string) ([]models.RegistrationDetail, error)
	ListByCourseCode(ctx context.Context, code string) ([]models.RegistrationDetail, error)
}

type userReader interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

type courseReader interface {
	FindByCode(ctx context.Context, code string) (*models.Course, error)
}

// RegisterRequest describes an enrollment request.
type RegisterRequest struct {
	StudentEmail string `json:"studentEmail" validate:"required,email"`
	CourseCode   string `json:"courseCode" validate:"required"`
}

// RegistrationService orchestrates enrollment into courses.
type RegistrationService struct {
	repo      registrationRepository
	users     userReader
	courses   courseReader
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewRegistrationService constructs RegistrationService.
func NewRegistrationService(repo registrationRepository, users userReader, courses courseReader, validate *validator.Validate, logger *zap.Logger) *RegistrationService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RegistrationService{repo: repo, users: users, courses: courses, validator: validate, logger: logger, now: time.Now}
}

// Register enrolls a user into a course. Check order is fixed for error
// precedence: user existence, course existence, course activity, duplicate.
// The duplicate pre-check gives the common case a clean answer; the unique
// constraint on (user_id, course_id) settles concurrent races.
func (s *RegistrationService) Register(ctx context.Context, req RegisterRequest) (*models.Registration, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid registration payload")
	}

	user, err := s.users.FindByEmail(ctx, req.StudentEmail)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.WithField(appErrors.ErrNotFound, "studentEmail", "user not found with email: "+req.StudentEmail)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}

	course, err := s.courses.FindByCode(ctx, req.CourseCode)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.WithField(appErrors.ErrNotFound, "courseCode", "course not found: "+req.CourseCode)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	if !course.IsActive() {
		return nil, appErrors.WithField(appErrors.ErrCourseInactive, "courseCode", "cannot register into inactive course: "+course.Code)
	}

	exists, err := s.repo.Exists(ctx, user.ID, course.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate registration")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "user is already registered in this course")
	}

	registration := &models.Registration{
		UserID:           user.ID,
		CourseID:         course.ID,
		RegistrationDate: s.now().UTC(),
	}
	if err := s.repo.Create(ctx, registration); err != nil {
		if appErr := appErrors.FromError(err); appErr.Code == appErrors.ErrConflict.Code {
			return nil, appErr
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create registration")
	}
	return registration, nil
}

// ListByUserEmail returns one user's registrations with course context.
func (s *RegistrationService) ListByUserEmail(ctx context.Context, email string) ([]models.RegistrationDetail, error) {
	registrations, err := s.repo.ListByUserEmail(ctx, email)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list registrations")
	}
	return registrations, nil
}

// ListByCourseCode returns one course's registrations with user context.
func (s *RegistrationService) ListByCourseCode(ctx context.Context, code string) ([]models.RegistrationDetail, error) {
	registrations, err := s.repo.ListByCourseCode(ctx, code)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list registrations")
	}
	return registrations, nil
}
