package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"

	"github.com/hszk-dev/nextup/internal/domain/model"
	"github.com/hszk-dev/nextup/internal/domain/repository"
)

var userColumns = []string{
	"id", "email", "username", "full_name", "avatar_url", "is_private",
	"watch_history_visibility", "follower_count", "following_count", "created_at",
}

var followedShowColumns = []string{
	"show_id", "name", "poster_path", "backdrop_path", "status", "in_production", "type",
	"total_seasons", "total_episodes", "followed_date", "last_viewed_date",
	"notifications_enabled", "next_air_date", "next_season_number",
	"next_episode_number", "next_episode_name", "genre_ids", "watch_provider_ids",
}

func strPtr(s string) *string { return &s }
func int32Ptr(i int32) *int32 { return &i }

func TestUserRepository_GetByID(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		userID  string
		mockFn  func(mock pgxmock.PgxPoolIface)
		want    *model.User
		wantErr error
	}{
		{
			name:   "successful retrieval",
			userID: "u1",
			mockFn: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows(userColumns).AddRow(
					"u1", strPtr("walt@example.com"), strPtr("heisenberg"), strPtr("Walter White"),
					strPtr("avatars/u1.jpg"), true, "everyone", int32(12), int32(3), now,
				)
				mock.ExpectQuery("SELECT .* FROM users WHERE id").
					WithArgs("u1").
					WillReturnRows(rows)
			},
			want: &model.User{
				ID:                     "u1",
				Email:                  "walt@example.com",
				Username:               "heisenberg",
				FullName:               "Walter White",
				AvatarURL:              "avatars/u1.jpg",
				IsPrivate:              true,
				WatchHistoryVisibility: model.VisibilityEveryone,
				FollowerCount:          12,
				FollowingCount:         3,
			},
		},
		{
			name:   "null optional columns and unknown visibility",
			userID: "u2",
			mockFn: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows(userColumns).AddRow(
					"u2", nil, nil, nil, nil, false, "", int32(0), int32(0), now,
				)
				mock.ExpectQuery("SELECT .* FROM users WHERE id").
					WithArgs("u2").
					WillReturnRows(rows)
			},
			want: &model.User{
				ID:                     "u2",
				WatchHistoryVisibility: model.VisibilityPrivate,
			},
		},
		{
			name:   "user not found",
			userID: "missing",
			mockFn: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery("SELECT .* FROM users WHERE id").
					WithArgs("missing").
					WillReturnError(pgx.ErrNoRows)
			},
			wantErr: repository.ErrUserNotFound,
		},
		{
			name:   "database error",
			userID: "u3",
			mockFn: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery("SELECT .* FROM users WHERE id").
					WithArgs("u3").
					WillReturnError(errors.New("connection refused"))
			},
			wantErr: errors.New("failed to get user by ID"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			if err != nil {
				t.Fatalf("failed to create mock: %v", err)
			}
			defer mock.Close()

			tt.mockFn(mock)

			repo := NewUserRepository(mock)
			got, err := repo.GetByID(context.Background(), tt.userID)

			if tt.wantErr != nil {
				if err == nil {
					t.Fatalf("GetByID() expected error, got nil")
				}
				if !errors.Is(err, tt.wantErr) && !containsError(err, tt.wantErr) {
					t.Errorf("GetByID() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("GetByID() unexpected error = %v", err)
			}

			if got.ID != tt.want.ID ||
				got.Email != tt.want.Email ||
				got.Username != tt.want.Username ||
				got.FullName != tt.want.FullName ||
				got.AvatarURL != tt.want.AvatarURL ||
				got.IsPrivate != tt.want.IsPrivate ||
				got.WatchHistoryVisibility != tt.want.WatchHistoryVisibility ||
				got.FollowerCount != tt.want.FollowerCount ||
				got.FollowingCount != tt.want.FollowingCount {
				t.Errorf("GetByID() = %+v, want %+v", got, tt.want)
			}

			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unfulfilled expectations: %v", err)
			}
		})
	}
}

func TestUserRepository_GetFollowedShows(t *testing.T) {
	now := time.Now()
	earlier := now.Add(-time.Hour)

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer mock.Close()

	rows := pgxmock.NewRows(followedShowColumns).
		AddRow(
			int32(1396), "Breaking Bad", strPtr("/bb.jpg"), nil, strPtr("Ended"), false, strPtr("Scripted"),
			int32(5), int32(62), &earlier, &now,
			true, nil, nil,
			nil, nil, []int32{18, 80}, []int32{8},
		).
		AddRow(
			int32(94605), "Arcane", nil, nil, nil, true, nil,
			int32(2), int32(18), nil, nil,
			false, strPtr("2026-11-01"), int32Ptr(3),
			int32Ptr(1), strPtr("Return"), []int32{}, []int32{},
		)
	mock.ExpectQuery("SELECT .* FROM followed_shows WHERE user_id .* ORDER BY last_viewed_date DESC .* LIMIT").
		WithArgs("u1", 50).
		WillReturnRows(rows)

	repo := NewUserRepository(mock)
	got, err := repo.GetFollowedShows(context.Background(), "u1", 50)
	if err != nil {
		t.Fatalf("GetFollowedShows() unexpected error = %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("GetFollowedShows() returned %d shows, want 2", len(got))
	}

	first := got[0]
	if first.ShowID != 1396 || first.Name != "Breaking Bad" || first.PosterPath != "/bb.jpg" {
		t.Errorf("first = %+v", first)
	}
	if first.LastViewedDate == nil || !first.LastViewedDate.Equal(now) {
		t.Errorf("LastViewedDate = %v, want %v", first.LastViewedDate, now)
	}
	if len(first.GenreIDs) != 2 || first.GenreIDs[1] != 80 {
		t.Errorf("GenreIDs = %v", first.GenreIDs)
	}
	if first.NextEpisodeToAir != nil {
		t.Errorf("NextEpisodeToAir = %+v, want nil", first.NextEpisodeToAir)
	}

	second := got[1]
	if second.NextEpisodeToAir == nil ||
		second.NextEpisodeToAir.SeasonNumber != 3 ||
		second.NextEpisodeToAir.EpisodeNumber != 1 ||
		second.NextEpisodeToAir.AirDate != "2026-11-01" {
		t.Errorf("NextEpisodeToAir = %+v", second.NextEpisodeToAir)
	}
	if second.Slug() != "94605-arcane" {
		t.Errorf("Slug() = %q, want 94605-arcane", second.Slug())
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestUserRepository_GetFollowedShows_Empty(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery("SELECT .* FROM followed_shows").
		WithArgs("u1", 50).
		WillReturnRows(pgxmock.NewRows(followedShowColumns))

	repo := NewUserRepository(mock)
	got, err := repo.GetFollowedShows(context.Background(), "u1", 50)
	if err != nil {
		t.Fatalf("GetFollowedShows() unexpected error = %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("GetFollowedShows() = %v, want empty non-nil slice", got)
	}
}

func TestUserRepository_GetFollowedShows_QueryError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery("SELECT .* FROM followed_shows").
		WithArgs("u1", 50).
		WillReturnError(errors.New("connection reset"))

	repo := NewUserRepository(mock)
	if _, err := repo.GetFollowedShows(context.Background(), "u1", 50); err == nil {
		t.Fatal("GetFollowedShows() expected error, got nil")
	}
}

func TestUserRepository_GetStats(t *testing.T) {
	tests := []struct {
		name    string
		mockFn  func(mock pgxmock.PgxPoolIface)
		want    int
		wantErr bool
	}{
		{
			name: "stats present",
			mockFn: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery("SELECT total_episodes_watched FROM user_stats").
					WithArgs("u1").
					WillReturnRows(pgxmock.NewRows([]string{"total_episodes_watched"}).AddRow(int32(421)))
			},
			want: 421,
		},
		{
			name: "no stats row",
			mockFn: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery("SELECT total_episodes_watched FROM user_stats").
					WithArgs("u1").
					WillReturnError(pgx.ErrNoRows)
			},
			want: 0,
		},
		{
			name: "database error",
			mockFn: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery("SELECT total_episodes_watched FROM user_stats").
					WithArgs("u1").
					WillReturnError(errors.New("timeout"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			if err != nil {
				t.Fatalf("failed to create mock: %v", err)
			}
			defer mock.Close()

			tt.mockFn(mock)

			repo := NewUserRepository(mock)
			got, err := repo.GetStats(context.Background(), "u1")

			if tt.wantErr {
				if err == nil {
					t.Fatal("GetStats() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("GetStats() unexpected error = %v", err)
			}
			if got.TotalEpisodesWatched != tt.want {
				t.Errorf("TotalEpisodesWatched = %d, want %d", got.TotalEpisodesWatched, tt.want)
			}
		})
	}
}

func TestEnsureSchema(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer mock.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS users").
		WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))

	if err := EnsureSchema(context.Background(), mock); err != nil {
		t.Fatalf("EnsureSchema() unexpected error = %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

// containsError checks if the error message starts with the expected message.
func containsError(err, expected error) bool {
	if err == nil || expected == nil {
		return false
	}
	return err.Error() != "" && expected.Error() != "" &&
		len(err.Error()) >= len(expected.Error()) &&
		err.Error()[:len(expected.Error())] == expected.Error()[:len(expected.Error())]
}
