package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/hszk-dev/nextup/internal/domain/model"
	"github.com/hszk-dev/nextup/internal/domain/repository"
	"github.com/hszk-dev/nextup/internal/infrastructure/metrics"
)

//go:embed schema.sql
var schemaSQL string

// DBTX is an interface that abstracts pgxpool.Pool and pgx.Tx for testability.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// EnsureSchema creates the user tables if they do not exist.
func EnsureSchema(ctx context.Context, db DBTX) error {
	if _, err := db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// UserRepository implements repository.UserRepository using PostgreSQL.
type UserRepository struct {
	db DBTX
}

// Compile-time verification that UserRepository implements repository.UserRepository.
var _ repository.UserRepository = (*UserRepository)(nil)

// NewUserRepository creates a new UserRepository instance.
func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

// GetByID retrieves a user profile by ID.
func (r *UserRepository) GetByID(ctx context.Context, userID string) (*model.User, error) {
	const query = `
		SELECT id, email, username, full_name, avatar_url, is_private,
		       watch_history_visibility, follower_count, following_count, created_at
		FROM users
		WHERE id = $1
	`

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQuerySelect, metrics.TableUsers).Inc()

	var (
		user       model.User
		email      *string
		username   *string
		fullName   *string
		avatarURL  *string
		visibility string
		followers  int32
		following  int32
	)

	err := r.db.QueryRow(ctx, query, userID).Scan(
		&user.ID,
		&email,
		&username,
		&fullName,
		&avatarURL,
		&user.IsPrivate,
		&visibility,
		&followers,
		&following,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}

	user.Email = deref(email)
	user.Username = deref(username)
	user.FullName = deref(fullName)
	user.AvatarURL = deref(avatarURL)
	user.WatchHistoryVisibility = model.ParseWatchHistoryVisibility(visibility)
	user.FollowerCount = int(followers)
	user.FollowingCount = int(following)

	return &user, nil
}

// GetFollowedShows returns at most limit followed shows, most recently viewed first.
func (r *UserRepository) GetFollowedShows(ctx context.Context, userID string, limit int) ([]*model.FollowedShow, error) {
	const query = `
		SELECT show_id, name, poster_path, backdrop_path, status, in_production, type,
		       total_seasons, total_episodes, followed_date, last_viewed_date,
		       notifications_enabled, next_air_date, next_season_number,
		       next_episode_number, next_episode_name, genre_ids, watch_provider_ids
		FROM followed_shows
		WHERE user_id = $1
		ORDER BY last_viewed_date DESC NULLS LAST
		LIMIT $2
	`

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQuerySelect, metrics.TableFollowedShows).Inc()

	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query followed shows: %w", err)
	}
	defer rows.Close()

	shows := make([]*model.FollowedShow, 0)
	for rows.Next() {
		show, err := r.scanFollowedShow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan followed show: %w", err)
		}
		shows = append(shows, show)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating followed shows: %w", err)
	}

	return shows, nil
}

// GetStats returns aggregate watch statistics for a user.
func (r *UserRepository) GetStats(ctx context.Context, userID string) (*model.UserStats, error) {
	const query = `
		SELECT total_episodes_watched
		FROM user_stats
		WHERE user_id = $1
	`

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQuerySelect, metrics.TableUserStats).Inc()

	var total int32
	if err := r.db.QueryRow(ctx, query, userID).Scan(&total); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &model.UserStats{}, nil
		}
		return nil, fmt.Errorf("failed to get user stats: %w", err)
	}

	return &model.UserStats{TotalEpisodesWatched: int(total)}, nil
}

// scanFollowedShow scans from pgx.Rows into a FollowedShow model.
func (r *UserRepository) scanFollowedShow(rows pgx.Rows) (*model.FollowedShow, error) {
	var (
		show          model.FollowedShow
		showID        int32
		posterPath    *string
		backdropPath  *string
		status        *string
		showType      *string
		totalSeasons  int32
		totalEpisodes int32
		followedDate  *time.Time
		lastViewed    *time.Time
		nextAirDate   *string
		nextSeason    *int32
		nextEpisode   *int32
		nextName      *string
		genreIDs      []int32
		providerIDs   []int32
	)

	err := rows.Scan(
		&showID,
		&show.Name,
		&posterPath,
		&backdropPath,
		&status,
		&show.InProduction,
		&showType,
		&totalSeasons,
		&totalEpisodes,
		&followedDate,
		&lastViewed,
		&show.NotificationsEnabled,
		&nextAirDate,
		&nextSeason,
		&nextEpisode,
		&nextName,
		&genreIDs,
		&providerIDs,
	)
	if err != nil {
		return nil, err
	}

	show.ShowID = int(showID)
	show.PosterPath = deref(posterPath)
	show.BackdropPath = deref(backdropPath)
	show.Status = deref(status)
	show.Type = deref(showType)
	show.TotalSeasons = int(totalSeasons)
	show.TotalEpisodes = int(totalEpisodes)
	show.FollowedDate = followedDate
	show.LastViewedDate = lastViewed
	show.GenreIDs = toInts(genreIDs)
	show.WatchProviderIDs = toInts(providerIDs)

	if nextSeason != nil && nextEpisode != nil {
		show.NextEpisodeToAir = &model.NextEpisode{
			AirDate:       deref(nextAirDate),
			SeasonNumber:  int(*nextSeason),
			EpisodeNumber: int(*nextEpisode),
			Name:          deref(nextName),
		}
	}

	return &show, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func toInts(in []int32) []int {
	out := make([]int, len(in))
	for i, v := range in {
		out[i] = int(v)
	}
	return out
}
