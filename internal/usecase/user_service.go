package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hszk-dev/nextup/internal/domain/model"
	"github.com/hszk-dev/nextup/internal/domain/repository"
)

const (
	// DefaultFollowedShowsLimit caps the followed shows rendered on a profile.
	DefaultFollowedShowsLimit = 50
	// DefaultAvatarURLExpiry is the lifetime of presigned avatar URLs.
	DefaultAvatarURLExpiry = time.Hour
)

// UserServiceConfig holds configuration for UserService.
type UserServiceConfig struct {
	FollowedShowsLimit int
	AvatarURLExpiry    time.Duration
}

// DefaultUserServiceConfig returns the default configuration.
func DefaultUserServiceConfig() UserServiceConfig {
	return UserServiceConfig{
		FollowedShowsLimit: DefaultFollowedShowsLimit,
		AvatarURLExpiry:    DefaultAvatarURLExpiry,
	}
}

// UserProfile is everything the public profile page shows.
// Shows and Stats are empty when CanViewShows is false.
type UserProfile struct {
	User         *model.User
	CanViewShows bool
	Shows        []*model.FollowedShow
	Stats        model.UserStats
}

// UserService defines read operations on public user profiles.
type UserService interface {
	// GetProfile returns the user or ErrUserNotFound.
	// Store failures are reported as ErrUserNotFound as well.
	GetProfile(ctx context.Context, userID string) (*model.User, error)

	// GetFollowedShows returns the user's most recently viewed shows.
	// Failures are logged and yield an empty list.
	GetFollowedShows(ctx context.Context, userID string) []*model.FollowedShow

	// GetStats returns watch statistics. Failures are logged and yield zero stats.
	GetStats(ctx context.Context, userID string) model.UserStats

	// GetPublicProfile assembles a profile page, loading shows and stats only when visible.
	GetPublicProfile(ctx context.Context, userID string) (*UserProfile, error)
}

type userService struct {
	repo    repository.UserRepository
	storage repository.ObjectStorage

	followedLimit int
	avatarExpiry  time.Duration
}

// NewUserService creates a new UserService.
// storage may be nil, in which case only absolute avatar URLs are shown.
func NewUserService(
	repo repository.UserRepository,
	storage repository.ObjectStorage,
	cfg UserServiceConfig,
) UserService {
	limit := cfg.FollowedShowsLimit
	if limit <= 0 {
		limit = DefaultFollowedShowsLimit
	}
	expiry := cfg.AvatarURLExpiry
	if expiry <= 0 {
		expiry = DefaultAvatarURLExpiry
	}
	return &userService{
		repo:          repo,
		storage:       storage,
		followedLimit: limit,
		avatarExpiry:  expiry,
	}
}

func (s *userService) GetProfile(ctx context.Context, userID string) (*model.User, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, repository.ErrUserNotFound
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			slog.Error("failed to load user profile",
				"user_id", userID,
				"error", err,
			)
		}
		return nil, fmt.Errorf("get profile %s: %w", userID, repository.ErrUserNotFound)
	}

	user.AvatarURL = s.resolveAvatarURL(ctx, user.ID, user.AvatarURL)
	return user, nil
}

func (s *userService) GetFollowedShows(ctx context.Context, userID string) []*model.FollowedShow {
	shows, err := s.repo.GetFollowedShows(ctx, userID, s.followedLimit)
	if err != nil {
		slog.Warn("failed to load followed shows",
			"user_id", userID,
			"error", err,
		)
		return []*model.FollowedShow{}
	}
	if shows == nil {
		return []*model.FollowedShow{}
	}
	return shows
}

func (s *userService) GetStats(ctx context.Context, userID string) model.UserStats {
	stats, err := s.repo.GetStats(ctx, userID)
	if err != nil {
		slog.Warn("failed to load user stats",
			"user_id", userID,
			"error", err,
		)
		return model.UserStats{}
	}
	if stats == nil {
		return model.UserStats{}
	}
	return *stats
}

func (s *userService) GetPublicProfile(ctx context.Context, userID string) (*UserProfile, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile := &UserProfile{
		User:         user,
		CanViewShows: user.CanViewShows(),
		Shows:        []*model.FollowedShow{},
	}
	if !profile.CanViewShows {
		return profile, nil
	}

	// Both loaders swallow their own errors, so Wait never fails.
	var g errgroup.Group
	g.Go(func() error {
		profile.Shows = s.GetFollowedShows(ctx, user.ID)
		return nil
	})
	g.Go(func() error {
		profile.Stats = s.GetStats(ctx, user.ID)
		return nil
	})
	_ = g.Wait()

	return profile, nil
}

// resolveAvatarURL returns an absolute URL as-is and presigns anything else as
// an object key in the avatar bucket. Failures drop the avatar.
func (s *userService) resolveAvatarURL(ctx context.Context, userID, raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	if u, err := url.Parse(raw); err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != "" {
		return raw
	}

	if s.storage == nil {
		return ""
	}

	signed, err := s.storage.GeneratePresignedDownloadURL(ctx, strings.TrimPrefix(raw, "/"), s.avatarExpiry)
	if err != nil {
		slog.Warn("failed to presign avatar",
			"user_id", userID,
			"key", raw,
			"error", err,
		)
		return ""
	}
	return signed
}
