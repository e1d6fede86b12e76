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

// MockArticleRepository is a mock of the ArticleRepository interface
type MockArticleRepository struct {
	mock.Mock
}

func (m *MockArticleRepository) Create(ctx context.Context, article *models.Article) error {
	args := m.Called(ctx, article)
	return args.Error(0)
}

func (m *MockArticleRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Article, error) {
	args := m.Called(ctx, id, currentUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Article), args.Error(1)
}

func (m *MockArticleRepository) List(ctx context.Context, filter repository.ArticleFilter, currentUserID uint) ([]models.Article, error) {
	args := m.Called(ctx, filter, currentUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Article), args.Error(1)
}

func (m *MockArticleRepository) Update(ctx context.Context, article *models.Article) error {
	args := m.Called(ctx, article)
	return args.Error(0)
}

func (m *MockArticleRepository) DeleteCascade(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, models.CodeValidation, appErr.Code)
}

func TestCreateArticleValidation(t *testing.T) {
	mockRepo := new(MockArticleRepository)
	svc := NewArticleService(mockRepo)
	ctx := context.Background()

	_, err := svc.CreateArticle(ctx, CreateArticleInput{AuthorID: 1, Title: "   ", Content: "body"})
	assertValidationError(t, err)

	_, err = svc.CreateArticle(ctx, CreateArticleInput{AuthorID: 1, Title: "title", Content: "\n\t "})
	assertValidationError(t, err)

	longTag := make([]byte, maxTagLen+1)
	for i := range longTag {
		longTag[i] = 'a'
	}
	_, err = svc.CreateArticle(ctx, CreateArticleInput{
		AuthorID: 1, Title: "t", Content: "c", Tags: []string{string(longTag)},
	})
	assertValidationError(t, err)

	mockRepo.AssertNotCalled(t, "Create")
}

func TestCreateArticleNormalizesTags(t *testing.T) {
	mockRepo := new(MockArticleRepository)
	svc := NewArticleService(mockRepo)
	ctx := context.Background()

	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(a *models.Article) bool {
		return len(a.Tags) == 2 && a.Tags[0] == "go" && a.Tags[1] == "web"
	})).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Article).ID = 7
	})
	mockRepo.On("GetByID", mock.Anything, uint(7), uint(1)).
		Return(&models.Article{ID: 7, Title: "t"}, nil)

	article, err := svc.CreateArticle(ctx, CreateArticleInput{
		AuthorID: 1,
		Title:    "  t  ",
		Content:  "c",
		Tags:     []string{" go ", "", "web"},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 7, article.ID)
	mockRepo.AssertExpectations(t)
}

func TestUpdateArticleOwnershipEnforced(t *testing.T) {
	mockRepo := new(MockArticleRepository)
	svc := NewArticleService(mockRepo)
	ctx := context.Background()

	mockRepo.On("GetByID", mock.Anything, uint(5), uint(2)).
		Return(&models.Article{ID: 5, AuthorID: 1, Title: "t", Content: "c"}, nil)

	title := "new"
	_, err := svc.UpdateArticle(ctx, UpdateArticleInput{UserID: 2, ArticleID: 5, Title: &title})
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, models.CodeForbidden, appErr.Code)
	mockRepo.AssertNotCalled(t, "Update")
}

func TestUpdateArticlePartialFields(t *testing.T) {
	mockRepo := new(MockArticleRepository)
	svc := NewArticleService(mockRepo)
	ctx := context.Background()

	existing := &models.Article{ID: 5, AuthorID: 1, Title: "old", Content: "keep"}
	mockRepo.On("GetByID", mock.Anything, uint(5), uint(1)).Return(existing, nil)
	mockRepo.On("Update", mock.Anything, mock.MatchedBy(func(a *models.Article) bool {
		return a.Title == "new" && a.Content == "keep"
	})).Return(nil)

	title := "new"
	_, err := svc.UpdateArticle(ctx, UpdateArticleInput{UserID: 1, ArticleID: 5, Title: &title})
	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestDeleteArticleOwnershipEnforced(t *testing.T) {
	mockRepo := new(MockArticleRepository)
	svc := NewArticleService(mockRepo)
	ctx := context.Background()

	mockRepo.On("GetByID", mock.Anything, uint(5), uint(9)).
		Return(&models.Article{ID: 5, AuthorID: 1}, nil)

	err := svc.DeleteArticle(ctx, DeleteArticleInput{UserID: 9, ArticleID: 5})
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, models.CodeForbidden, appErr.Code)
	mockRepo.AssertNotCalled(t, "DeleteCascade")
}

func TestDeleteArticleByOwner(t *testing.T) {
	mockRepo := new(MockArticleRepository)
	svc := NewArticleService(mockRepo)
	ctx := context.Background()

	mockRepo.On("GetByID", mock.Anything, uint(5), uint(1)).
		Return(&models.Article{ID: 5, AuthorID: 1}, nil)
	mockRepo.On("DeleteCascade", mock.Anything, uint(5)).Return(nil)

	require.NoError(t, svc.DeleteArticle(ctx, DeleteArticleInput{UserID: 1, ArticleID: 5}))
	mockRepo.AssertExpectations(t)
}
