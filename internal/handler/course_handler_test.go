package handler

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-catalog-api/internal/models"
	"github.com/noah-isme/course-catalog-api/internal/service"
)

type courseRepoStub struct {
	course *models.Course
	saved  *models.Course
}

func (s *courseRepoStub) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error) {
	return nil, 0, nil
}

func (s *courseRepoStub) ListActive(ctx context.Context) ([]models.Course, error) {
	return nil, nil
}

func (s *courseRepoStub) ListActiveByCategory(ctx context.Context, categoryName string) ([]models.Course, error) {
	return nil, nil
}

func (s *courseRepoStub) CountActive(ctx context.Context) (int, error) {
	return 0, nil
}

func (s *courseRepoStub) FindByID(ctx context.Context, id string) (*models.Course, error) {
	if s.course != nil && s.course.ID == id {
		cp := *s.course
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (s *courseRepoStub) FindByCode(ctx context.Context, code string) (*models.Course, error) {
	if s.course != nil && s.course.Code == code {
		cp := *s.course
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (s *courseRepoStub) ExistsByCode(ctx context.Context, code, excludeID string) (bool, error) {
	return false, nil
}

func (s *courseRepoStub) Create(ctx context.Context, course *models.Course) error {
	s.saved = course
	return nil
}

func (s *courseRepoStub) Update(ctx context.Context, course *models.Course) error {
	s.saved = course
	return nil
}

func TestCourseHandlerInactivate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &courseRepoStub{course: &models.Course{ID: "c1", Code: "go-basics", Status: models.CourseStatusActive}}
	handler := NewCourseHandler(service.NewCourseService(repo, nil, nil, nil))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/courses/code/go-basics/inactivate", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "code", Value: "go-basics"}}

	handler.Inactivate(c)
	c.Writer.WriteHeaderNow()
	require.Equal(t, http.StatusNoContent, w.Code)
	require.NotNil(t, repo.saved)
	require.Equal(t, models.CourseStatusInactive, repo.saved.Status)
	require.NotNil(t, repo.saved.InactivationDate)
}

func TestCourseHandlerInactivateAlreadyInactive(t *testing.T) {
	gin.SetMode(gin.TestMode)
	now := time.Now().UTC()
	repo := &courseRepoStub{course: &models.Course{ID: "c1", Code: "go-basics", Status: models.CourseStatusInactive, InactivationDate: &now}}
	handler := NewCourseHandler(service.NewCourseService(repo, nil, nil, nil))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/courses/code/go-basics/inactivate", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "code", Value: "go-basics"}}

	handler.Inactivate(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCourseHandlerInactivateNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewCourseHandler(service.NewCourseService(&courseRepoStub{}, nil, nil, nil))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/courses/code/missing/inactivate", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "code", Value: "missing"}}

	handler.Inactivate(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}
