package usecase

import (
	"context"
	"strings"
	"time"

	"adstream/internal/domain/entity"
	"adstream/internal/domain/repository"
	"adstream/pkg/errors"
)

type UserUseCase struct {
	userRepo repository.UserRepository
}

func NewUserUseCase(userRepo repository.UserRepository) *UserUseCase {
	return &UserUseCase{userRepo: userRepo}
}

// SyncUser ensures a profile document exists for an authenticated
// identity. Called on first API contact after sign-in; repeat calls
// return the existing profile untouched.
func (uc *UserUseCase) SyncUser(ctx context.Context, uid, email string) (*entity.User, error) {
	if user, err := uc.userRepo.GetByID(ctx, uid); err == nil {
		return user, nil
	}

	username := email
	if at := strings.Index(email, "@"); at > 0 {
		username = email[:at]
	}

	now := time.Now()
	user := &entity.User{
		ID:        uid,
		Email:     email,
		Username:  username,
		Role:      "user",
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (uc *UserUseCase) GetProfile(ctx context.Context, uid string) (*entity.User, error) {
	return uc.userRepo.GetByID(ctx, uid)
}

type UpdateProfileInput struct {
	Username  string
	Phone     string
	AvatarURL string
}

func (uc *UserUseCase) UpdateProfile(ctx context.Context, uid string, input UpdateProfileInput) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, uid)
	if err != nil {
		return nil, err
	}

	if input.Username != "" {
		if len(input.Username) < 3 {
			return nil, errors.BadRequest("Username must be at least 3 characters", nil)
		}
		user.Username = input.Username
	}
	if input.Phone != "" {
		user.Phone = input.Phone
	}
	if input.AvatarURL != "" {
		user.AvatarURL = input.AvatarURL
	}
	user.UpdatedAt = time.Now()

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}
