package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
	"github.com/rocketscienceinc/tictactoe-hotseat/testing/suite"
)

func newSession(id string) *entity.Session {
	return &entity.Session{
		ID: id,
		Board: [3][3]string{
			{"O", "", ""},
			{"", "X", ""},
			{"", "", ""},
		},
		Players: [2]entity.Player{{Name: "Subodh", Mark: "O"}, {Name: "Samit", Mark: "X"}},
		Status:  entity.StatusOngoing,
		Message: "Subodh's turn",
	}
}

// repositories runs every case against the memory store and, when docker is reachable, redis.
func repositories(t *testing.T, run func(t *testing.T, ctx context.Context, repo SessionRepository)) {
	t.Helper()

	repositoriesWithTTL(t, time.Minute, run)
}

func repositoriesWithTTL(t *testing.T, ttl time.Duration, run func(t *testing.T, ctx context.Context, repo SessionRepository)) {
	t.Helper()

	t.Run("memory", func(t *testing.T) {
		run(t, context.Background(), NewMemorySessionRepository(ttl))
	})

	t.Run("redis", func(t *testing.T) {
		ctx, st := suite.New(t)
		run(t, ctx, NewSessionRepository(st.Storage, ttl))
	})
}

func TestSessionRepository_CreateOrUpdate(t *testing.T) {
	repositories(t, func(t *testing.T, ctx context.Context, repo SessionRepository) {
		// Given: a session
		session := newSession("123")

		// When: CreateOrUpdate is called twice with a changed status
		require.NoError(t, repo.CreateOrUpdate(ctx, session))
		session.Status = entity.StatusFinished
		require.NoError(t, repo.CreateOrUpdate(ctx, session))

		// Then: the latest version is stored
		stored, err := repo.GetByID(ctx, "123")
		require.NoError(t, err)
		assert.Equal(t, entity.StatusFinished, stored.Status)
	})
}

func TestSessionRepository_GetByID(t *testing.T) {
	repositories(t, func(t *testing.T, ctx context.Context, repo SessionRepository) {
		t.Run("GetByID_Success", func(t *testing.T) {
			// Given: a stored session
			session := newSession("get-1")
			require.NoError(t, repo.CreateOrUpdate(ctx, session))

			// When: GetByID is called with existing ID
			retrieved, err := repo.GetByID(ctx, session.ID)

			// Then: the retrieved session should match the saved one
			require.NoError(t, err)
			assert.Equal(t, session, retrieved)
		})

		t.Run("GetByID_NotFound", func(t *testing.T) {
			// When: GetByID is called with non-existent ID
			retrieved, err := repo.GetByID(ctx, "9999999")

			// Then: an ErrSessionNotFound error should be returned
			require.ErrorIs(t, err, apperror.ErrSessionNotFound)
			assert.Nil(t, retrieved)
		})

		t.Run("GetByID_ReturnsCopy", func(t *testing.T) {
			// Given: a stored session
			require.NoError(t, repo.CreateOrUpdate(ctx, newSession("copy-1")))

			// When: the retrieved value is changed without saving
			retrieved, err := repo.GetByID(ctx, "copy-1")
			require.NoError(t, err)
			retrieved.Board[2][2] = "O"

			// Then: the stored session is untouched
			again, err := repo.GetByID(ctx, "copy-1")
			require.NoError(t, err)
			assert.Equal(t, entity.EmptyCell, again.Board[2][2])
		})
	})
}

func TestSessionRepository_DeleteByID(t *testing.T) {
	repositories(t, func(t *testing.T, ctx context.Context, repo SessionRepository) {
		t.Run("DeleteByID_Success", func(t *testing.T) {
			// Given: a stored session
			require.NoError(t, repo.CreateOrUpdate(ctx, newSession("del-1")))

			// When: DeleteByID is called with existing ID
			err := repo.DeleteByID(ctx, "del-1")

			// Then: no error should be returned and the session is gone
			require.NoError(t, err)
			_, err = repo.GetByID(ctx, "del-1")
			require.ErrorIs(t, err, apperror.ErrSessionNotFound)
		})

		t.Run("DeleteByID_NotFound", func(t *testing.T) {
			// When: DeleteByID is called with non-existent ID
			err := repo.DeleteByID(ctx, "9999999")

			// Then: an ErrSessionNotFound error should be returned
			require.ErrorIs(t, err, apperror.ErrSessionNotFound)
		})
	})
}

func TestSessionRepository_TTL(t *testing.T) {
	t.Run("Redis key carries the ttl", func(t *testing.T) {
		ctx, st := suite.New(t)

		// Given: a repository with a ttl
		repo := NewSessionRepository(st.Storage, time.Minute)

		// When: a session is stored
		require.NoError(t, repo.CreateOrUpdate(ctx, newSession("ttl-1")))

		// Then: the key expires
		ttl, err := st.Storage.TTL(ctx, sessionKeyPrefix+"ttl-1").Result()
		require.NoError(t, err)
		assert.Greater(t, ttl, time.Duration(0))
		assert.LessOrEqual(t, ttl, time.Minute)
	})

	t.Run("Session expires after ttl", func(t *testing.T) {
		repositoriesWithTTL(t, 100*time.Millisecond, func(t *testing.T, ctx context.Context, repo SessionRepository) {
			// Given: a stored session
			require.NoError(t, repo.CreateOrUpdate(ctx, newSession("ttl-2")))

			_, err := repo.GetByID(ctx, "ttl-2")
			require.NoError(t, err)

			// When: the ttl passes
			time.Sleep(300 * time.Millisecond)

			// Then: the session is gone for reads and deletes
			_, err = repo.GetByID(ctx, "ttl-2")
			require.ErrorIs(t, err, apperror.ErrSessionNotFound)
			require.ErrorIs(t, repo.DeleteByID(ctx, "ttl-2"), apperror.ErrSessionNotFound)
		})
	})

	t.Run("Zero ttl keeps sessions", func(t *testing.T) {
		repositoriesWithTTL(t, 0, func(t *testing.T, ctx context.Context, repo SessionRepository) {
			require.NoError(t, repo.CreateOrUpdate(ctx, newSession("ttl-3")))

			time.Sleep(50 * time.Millisecond)

			_, err := repo.GetByID(ctx, "ttl-3")
			require.NoError(t, err)
		})
	})
}

func TestMemorySessionRepository_Sweep(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

	// Given: a memory store on a controlled clock
	repo := &memorySession{
		ttl:      time.Hour,
		now:      func() time.Time { return clock },
		sessions: make(map[string]memoryEntry),
	}
	require.NoError(t, repo.CreateOrUpdate(ctx, newSession("old")))

	// When: the ttl passes and another session is written
	clock = clock.Add(time.Hour)
	require.NoError(t, repo.CreateOrUpdate(ctx, newSession("new")))

	// Then: the abandoned session was swept without being read
	assert.NotContains(t, repo.sessions, "old")
	assert.Contains(t, repo.sessions, "new")

	// When: an update arrives before expiry
	clock = clock.Add(59 * time.Minute)
	require.NoError(t, repo.CreateOrUpdate(ctx, newSession("new")))
	clock = clock.Add(59 * time.Minute)

	// Then: the write refreshed the ttl
	_, err := repo.GetByID(ctx, "new")
	require.NoError(t, err)
}
