package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-catalog-api/internal/models"
	appErrors "github.com/noah-isme/course-catalog-api/pkg/errors"
)

type mockCategoryRepo struct {
	items        map[string]*models.Category
	codeIndex    map[string]string
	listResult   []models.Category
	listTotal    int
	existsCalled bool
}

func (m *mockCategoryRepo) List(ctx context.Context, filter models.CategoryFilter) ([]models.Category, int, error) {
	return m.listResult, m.listTotal, nil
}

func (m *mockCategoryRepo) ListOrdered(ctx context.Context) ([]models.Category, error) {
	return m.listResult, nil
}

func (m *mockCategoryRepo) ListWithActiveCourses(ctx context.Context, limit int) ([]models.Category, error) {
	if len(m.listResult) > limit {
		return m.listResult[:limit], nil
	}
	return m.listResult, nil
}

func (m *mockCategoryRepo) FindByID(ctx context.Context, id string) (*models.Category, error) {
	if category, ok := m.items[id]; ok {
		cp := *category
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockCategoryRepo) ExistsByCode(ctx context.Context, code, excludeID string) (bool, error) {
	m.existsCalled = true
	if owner, ok := m.codeIndex[code]; ok {
		if excludeID == "" || owner != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockCategoryRepo) Create(ctx context.Context, category *models.Category) error {
	if m.items == nil {
		m.items = make(map[string]*models.Category)
	}
	if category.ID == "" {
		category.ID = "generated"
	}
	cp := *category
	m.items[category.ID] = &cp
	return nil
}

func (m *mockCategoryRepo) Update(ctx context.Context, category *models.Category) error {
	if m.items == nil {
		m.items = make(map[string]*models.Category)
	}
	cp := *category
	m.items[category.ID] = &cp
	return nil
}

func TestCategoryCreate(t *testing.T) {
	repo := &mockCategoryRepo{}
	svc := NewCategoryService(repo, nil, nil, nil)

	category, err := svc.Create(context.Background(), CreateCategoryRequest{
		Name: "Programming", Code: "prog-basics", Color: "#00C86F", Order: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, "prog-basics", category.Code)
	assert.Equal(t, 1, category.SortOrder)
}

func TestCategoryCreateRejectsBadCode(t *testing.T) {
	repo := &mockCategoryRepo{}
	svc := NewCategoryService(repo, nil, nil, nil)

	cases := []string{"pr", "prog 1", "prog1", "-prog", "prog-", "código", "this-code-is-way-too-long"}
	for _, code := range cases {
		_, err := svc.Create(context.Background(), CreateCategoryRequest{
			Name: "Programming", Code: code, Color: "#00C86F", Order: 1,
		})
		require.Error(t, err, "code %q should be rejected", code)
		appErr := appErrors.FromError(err)
		assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code, "code %q", code)
	}
}

func TestCategoryCreateDuplicateCode(t *testing.T) {
	repo := &mockCategoryRepo{codeIndex: map[string]string{"prog": "1"}}
	svc := NewCategoryService(repo, nil, nil, nil)

	_, err := svc.Create(context.Background(), CreateCategoryRequest{
		Name: "Programming", Code: "prog", Color: "#00C86F", Order: 1,
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	require.Len(t, appErr.Fields, 1)
	assert.Equal(t, "code", appErr.Fields[0].Field)
}

func TestCategoryUpdateKeepingOwnCode(t *testing.T) {
	repo := &mockCategoryRepo{
		items:     map[string]*models.Category{"1": {ID: "1", Name: "Programming", Code: "prog", Color: "#00C86F", SortOrder: 1}},
		codeIndex: map[string]string{"prog": "1"},
	}
	svc := NewCategoryService(repo, nil, nil, nil)

	category, err := svc.Update(context.Background(), "1", UpdateCategoryRequest{
		Name: "Programming & Dev", Code: "prog", Color: "#00C86F", Order: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, "Programming & Dev", category.Name)
	assert.Equal(t, 2, category.SortOrder)
	assert.False(t, repo.existsCalled, "uniqueness check should be skipped when code is unchanged")
}

func TestCategoryUpdateToTakenCode(t *testing.T) {
	repo := &mockCategoryRepo{
		items:     map[string]*models.Category{"1": {ID: "1", Name: "Programming", Code: "prog", Color: "#00C86F", SortOrder: 1}},
		codeIndex: map[string]string{"prog": "1", "devops": "2"},
	}
	svc := NewCategoryService(repo, nil, nil, nil)

	_, err := svc.Update(context.Background(), "1", UpdateCategoryRequest{
		Name: "Programming", Code: "devops", Color: "#00C86F", Order: 1,
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestCategoryGetNotFound(t *testing.T) {
	repo := &mockCategoryRepo{}
	svc := NewCategoryService(repo, nil, nil, nil)

	_, err := svc.Get(context.Background(), "missing")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
