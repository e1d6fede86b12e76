package service

import (
	"context"
	"errors"
	"testing"

	"anyrite/internal/models"
	"anyrite/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockUserRepository is a mock of the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func assertErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, code, appErr.Code)
}

func TestGetProfileBundlesUserAndArticles(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockArticles := new(MockArticleRepository)
	svc := NewUserService(mockUsers, mockArticles)
	ctx := context.Background()

	mockUsers.On("GetByUsername", mock.Anything, "alice").
		Return(&models.User{ID: 1, Username: "alice", Email: "alice@example.com", Bio: "hi"}, nil)
	mockArticles.On("List", mock.Anything, repository.ArticleFilter{Author: "alice"}, uint(7)).
		Return([]models.Article{{ID: 3, Title: "T"}}, nil)

	profile, err := svc.GetProfile(ctx, "alice", 7)
	require.NoError(t, err)
	assert.Equal(t, "alice", profile.User.Username)
	assert.Len(t, profile.Articles, 1)
	mockArticles.AssertExpectations(t)
}

func TestGetProfileUnknownUser(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockArticles := new(MockArticleRepository)
	svc := NewUserService(mockUsers, mockArticles)

	mockUsers.On("GetByUsername", mock.Anything, "nobody").
		Return(nil, models.NewNotFoundError("User", "nobody"))

	_, err := svc.GetProfile(context.Background(), "nobody", 0)
	assertErrorCode(t, err, models.CodeNotFound)
	mockArticles.AssertNotCalled(t, "List")
}

func TestUpdateProfileLeavesUsernameAlone(t *testing.T) {
	mockUsers := new(MockUserRepository)
	svc := NewUserService(mockUsers, new(MockArticleRepository))
	ctx := context.Background()

	mockUsers.On("GetByID", mock.Anything, uint(1)).
		Return(&models.User{ID: 1, Username: "alice"}, nil)
	mockUsers.On("Update", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.Username == "alice" && u.Bio == "new bio" && u.Avatar == "https://img.example/a.png"
	})).Return(nil)

	user, err := svc.UpdateProfile(ctx, UpdateProfileInput{
		UserID: 1,
		Bio:    "new bio",
		Avatar: "https://img.example/a.png",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	mockUsers.AssertExpectations(t)
}

func TestUpdateProfileBioTooLong(t *testing.T) {
	mockUsers := new(MockUserRepository)
	svc := NewUserService(mockUsers, new(MockArticleRepository))

	mockUsers.On("GetByID", mock.Anything, uint(1)).
		Return(&models.User{ID: 1, Username: "alice"}, nil)

	long := make([]byte, 501)
	for i := range long {
		long[i] = 'a'
	}
	_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{UserID: 1, Bio: string(long)})
	assertErrorCode(t, err, models.CodeValidation)
	mockUsers.AssertNotCalled(t, "Update")
}
