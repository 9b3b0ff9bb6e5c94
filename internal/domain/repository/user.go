package repository

import (
	"context"

	"github.com/hszk-dev/nextup/internal/domain/model"
)

// UserRepository defines read access to app user data.
// Implementations should be provided by the infrastructure layer (e.g., PostgreSQL).
type UserRepository interface {
	// GetByID retrieves a user profile.
	// Returns nil and ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, userID string) (*model.User, error)

	// GetFollowedShows returns at most limit followed shows, most recently viewed first.
	GetFollowedShows(ctx context.Context, userID string, limit int) ([]*model.FollowedShow, error)

	// GetStats returns aggregate watch statistics for a user.
	// A user with no recorded activity has zero stats.
	GetStats(ctx context.Context, userID string) (*model.UserStats, error)
}
