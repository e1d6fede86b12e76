package service

import (
	"context"

	"anyrite/internal/models"
	"anyrite/internal/repository"
)

type UserService struct {
	userRepo    repository.UserRepository
	articleRepo repository.ArticleRepository
}

type UpdateProfileInput struct {
	UserID uint
	Bio    string
	Avatar string
}

// Profile is a public user page: the account plus everything it published.
type Profile struct {
	User     models.PublicProfile `json:"user"`
	Articles []models.Article     `json:"articles"`
}

func NewUserService(userRepo repository.UserRepository, articleRepo repository.ArticleRepository) *UserService {
	return &UserService{userRepo: userRepo, articleRepo: articleRepo}
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// GetProfile returns the public view of a user and their articles,
// newest first, as seen by currentUserID (0 for anonymous).
func (s *UserService) GetProfile(ctx context.Context, username string, currentUserID uint) (*Profile, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	articles, err := s.articleRepo.List(ctx, repository.ArticleFilter{Author: username}, currentUserID)
	if err != nil {
		return nil, err
	}
	return &Profile{User: user.Public(), Articles: articles}, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	const maxBioLen = 500

	// Usernames are immutable once registered; only bio and avatar may change.
	if in.Bio != "" {
		if len(in.Bio) > maxBioLen {
			return nil, models.NewValidationError("Bio too long (max 500 characters)")
		}
		user.Bio = in.Bio
	}
	if in.Avatar != "" {
		user.Avatar = in.Avatar
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
