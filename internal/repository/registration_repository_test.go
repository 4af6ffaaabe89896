package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-catalog-api/internal/models"
	appErrors "github.com/noah-isme/course-catalog-api/pkg/errors"
)

func TestRegistrationExists(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewRegistrationRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM registrations WHERE user_id = $1 AND course_id = $2 LIMIT 1")).
		WithArgs("u1", "c1").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	exists, err := repo.Exists(context.Background(), "u1", "c1")
	require.NoError(t, err)
	assert.True(t, exists)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM registrations WHERE user_id = $1 AND course_id = $2 LIMIT 1")).
		WithArgs("u1", "c2").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

	exists, err = repo.Exists(context.Background(), "u1", "c2")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrationCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewRegistrationRepository(db)

	mock.ExpectExec("INSERT INTO registrations").WillReturnResult(sqlmock.NewResult(1, 1))

	registration := &models.Registration{UserID: "u1", CourseID: "c1"}
	err := repo.Create(context.Background(), registration)
	require.NoError(t, err)
	assert.NotEmpty(t, registration.ID)
	assert.False(t, registration.RegistrationDate.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrationCreateDuplicate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewRegistrationRepository(db)

	mock.ExpectExec("INSERT INTO registrations").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "registrations_user_id_course_id_key"})

	err := repo.Create(context.Background(), &models.Registration{UserID: "u1", CourseID: "c1"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Equal(t, "user is already registered in this course", appErr.Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrationListByUserEmail(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewRegistrationRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "user_id", "course_id", "registration_date", "user_name", "user_email", "course_name", "course_code"}).
		AddRow("r1", "u1", "c1", now, "Ana", "ana@example.com", "Go Basics", "go-basics")
	mock.ExpectQuery("SELECT r.id, r.user_id, r.course_id, r.registration_date").
		WithArgs("ana@example.com").
		WillReturnRows(rows)

	registrations, err := repo.ListByUserEmail(context.Background(), "ana@example.com")
	require.NoError(t, err)
	require.Len(t, registrations, 1)
	assert.Equal(t, "go-basics", registrations[0].CourseCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRegistrationReport(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewRegistrationRepository(db)

	rows := sqlmock.NewRows([]string{"course_name", "course_code", "instructor_name", "instructor_contact", "total_registrations"}).
		AddRow("Go Basics", "go-basics", "Paulo", "Paulo", 12).
		AddRow("Docker", "docker", "Ana", "Ana", 5)
	mock.ExpectQuery("SELECT c.name AS course_name").
		WithArgs(models.CourseStatusActive).
		WillReturnRows(rows)

	report, err := repo.CourseRegistrationReport(context.Background())
	require.NoError(t, err)
	require.Len(t, report, 2)
	assert.Equal(t, int64(12), report[0].TotalRegistrations)
	assert.Equal(t, report[0].InstructorName, report[0].InstructorContact)
	assert.NoError(t, mock.ExpectationsWereMet())
}
