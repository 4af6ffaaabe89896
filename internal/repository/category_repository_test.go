package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-catalog-api/internal/models"
	appErrors "github.com/noah-isme/course-catalog-api/pkg/errors"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	return sqlxdb, mock, func() {
		db.Close()
	}
}

func TestCategoryList(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCategoryRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "name", "code", "color", "sort_order", "created_at"}).
		AddRow("1", "Programming", "prog", "#00C86F", 1, now).
		AddRow("2", "DevOps", "devops", "#F16165", 2, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, code, color, sort_order, created_at FROM categories WHERE 1=1 ORDER BY sort_order ASC, id ASC LIMIT 20 OFFSET 0")).
		WillReturnRows(rows)

	countRows := sqlmock.NewRows([]string{"count"}).AddRow(2)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM categories WHERE 1=1")).WillReturnRows(countRows)

	categories, total, err := repo.List(context.Background(), models.CategoryFilter{})
	require.NoError(t, err)
	assert.Len(t, categories, 2)
	assert.Equal(t, 2, total)
	assert.Equal(t, "Programming", categories[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryListWithActiveCourses(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCategoryRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "name", "code", "color", "sort_order", "created_at"}).
		AddRow("1", "Programming", "prog", "#00C86F", 1, now)
	mock.ExpectQuery("SELECT DISTINCT c.id, c.name, c.code, c.color, c.sort_order, c.created_at").
		WithArgs(models.CourseStatusActive, 9).
		WillReturnRows(rows)

	categories, err := repo.ListWithActiveCourses(context.Background(), 9)
	require.NoError(t, err)
	assert.Len(t, categories, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryExistsByCode(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCategoryRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM categories WHERE code = $1 LIMIT 1")).
		WithArgs("prog").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	exists, err := repo.ExistsByCode(context.Background(), "prog", "")
	require.NoError(t, err)
	assert.True(t, exists)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM categories WHERE code = $1 AND id <> $2 LIMIT 1")).
		WithArgs("prog", "1").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

	exists, err = repo.ExistsByCode(context.Background(), "prog", "1")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCategoryRepository(db)

	mock.ExpectExec("INSERT INTO categories").WillReturnResult(sqlmock.NewResult(1, 1))

	category := &models.Category{Name: "Programming", Code: "prog", Color: "#00C86F", SortOrder: 1}
	err := repo.Create(context.Background(), category)
	require.NoError(t, err)
	assert.NotEmpty(t, category.ID)
	assert.False(t, category.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryCreateCodeConflict(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCategoryRepository(db)

	mock.ExpectExec("INSERT INTO categories").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "categories_code_key"})

	err := repo.Create(context.Background(), &models.Category{Name: "Programming", Code: "prog", Color: "#00C86F", SortOrder: 1})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	require.Len(t, appErr.Fields, 1)
	assert.Equal(t, "code", appErr.Fields[0].Field)
	assert.NoError(t, mock.ExpectationsWereMet())
}
