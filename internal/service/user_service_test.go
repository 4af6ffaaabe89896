package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/course-catalog-api/internal/models"
	appErrors "github.com/noah-isme/course-catalog-api/pkg/errors"
)

type mockUserRepo struct {
	listResult []models.UserListItem
	listTotal  int
	created    []*models.User
	createErr  error
}

func (m *mockUserRepo) List(ctx context.Context, filter models.UserFilter) ([]models.UserListItem, int, error) {
	return m.listResult, m.listTotal, nil
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, user)
	return nil
}

func TestUserCreateHashesPassword(t *testing.T) {
	repo := &mockUserRepo{}
	svc := NewUserService(repo, nil, nil)

	user, err := svc.Create(context.Background(), CreateUserRequest{
		Name: "Ana", Email: "ana@example.com", Role: models.RoleStudent, Password: "secret-pass",
	})
	require.NoError(t, err)
	assert.NotEqual(t, "secret-pass", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret-pass")))
}

func TestUserCreateRejectsShortPassword(t *testing.T) {
	repo := &mockUserRepo{}
	svc := NewUserService(repo, nil, nil)

	_, err := svc.Create(context.Background(), CreateUserRequest{
		Name: "Ana", Email: "ana@example.com", Role: models.RoleStudent, Password: "short",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	require.Len(t, appErr.Fields, 1)
	assert.Equal(t, "password", appErr.Fields[0].Field)
}

func TestUserCreateRejectsUnknownRole(t *testing.T) {
	repo := &mockUserRepo{}
	svc := NewUserService(repo, nil, nil)

	_, err := svc.Create(context.Background(), CreateUserRequest{
		Name: "Ana", Email: "ana@example.com", Role: "SUPERUSER", Password: "secret-pass",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestUserCreateEmailConflictPassthrough(t *testing.T) {
	repo := &mockUserRepo{createErr: appErrors.WithField(appErrors.ErrConflict, "email", "email already exists")}
	svc := NewUserService(repo, nil, nil)

	_, err := svc.Create(context.Background(), CreateUserRequest{
		Name: "Ana", Email: "ana@example.com", Role: models.RoleStudent, Password: "secret-pass",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	require.Len(t, appErr.Fields, 1)
	assert.Equal(t, "email", appErr.Fields[0].Field)
}
