package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adstream/internal/domain/entity"
	"adstream/pkg/errors"
)

func TestSyncUserCreatesProfileOnFirstContact(t *testing.T) {
	repo := newMemUserRepo()
	uc := NewUserUseCase(repo)

	user, err := uc.SyncUser(context.Background(), "uid-1", "jess@example.com")
	require.NoError(t, err)
	assert.Equal(t, "jess", user.Username)
	assert.Equal(t, "user", user.Role)
	assert.Equal(t, "active", user.Status)
}

func TestSyncUserIsIdempotent(t *testing.T) {
	repo := newMemUserRepo(&entity.User{ID: "uid-1", Email: "jess@example.com", Username: "custom-name"})
	uc := NewUserUseCase(repo)

	user, err := uc.SyncUser(context.Background(), "uid-1", "jess@example.com")
	require.NoError(t, err)
	assert.Equal(t, "custom-name", user.Username)
	assert.Len(t, repo.users, 1)
}

func TestUpdateProfileValidatesUsername(t *testing.T) {
	repo := newMemUserRepo(&entity.User{ID: "uid-1", Email: "jess@example.com"})
	uc := NewUserUseCase(repo)

	_, err := uc.UpdateProfile(context.Background(), "uid-1", UpdateProfileInput{Username: "ab"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "BAD_REQUEST"))

	user, err := uc.UpdateProfile(context.Background(), "uid-1", UpdateProfileInput{Username: "jessie", Phone: "555-0100"})
	require.NoError(t, err)
	assert.Equal(t, "jessie", user.Username)
	assert.Equal(t, "555-0100", user.Phone)
}
