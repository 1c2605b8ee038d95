package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/config"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/tictactoe"
)

func TestDefaultPlayers(t *testing.T) {
	t.Run("Blank config keeps the built-in players", func(t *testing.T) {
		one, two := defaultPlayers(&config.Config{})

		assert.Equal(t, tictactoe.Player{Name: "Subodh", Mark: "O"}, one)
		assert.Equal(t, tictactoe.Player{Name: "Samit", Mark: "X"}, two)
	})

	t.Run("Configured fields override", func(t *testing.T) {
		conf := &config.Config{Players: config.Players{
			One: config.Player{Name: "Ann"},
			Two: config.Player{Mark: "#"},
		}}

		one, two := defaultPlayers(conf)

		assert.Equal(t, tictactoe.Player{Name: "Ann", Mark: "O"}, one)
		assert.Equal(t, tictactoe.Player{Name: "Samit", Mark: "#"}, two)
	})
}

func TestNewSessionRepository(t *testing.T) {
	t.Run("Memory storage", func(t *testing.T) {
		repo, closeRepo, err := newSessionRepository(context.Background(), &config.Config{Storage: config.StorageMemory})

		require.NoError(t, err)
		assert.NotNil(t, repo)
		assert.NoError(t, closeRepo())
	})

	t.Run("Memory storage honours the session ttl", func(t *testing.T) {
		ctx := context.Background()

		// Given: the memory backend with a short ttl
		repo, _, err := newSessionRepository(ctx, &config.Config{Storage: config.StorageMemory, SessionTTL: 10 * time.Millisecond})
		require.NoError(t, err)
		require.NoError(t, repo.CreateOrUpdate(ctx, &entity.Session{ID: "a"}))

		// When: the ttl passes
		time.Sleep(50 * time.Millisecond)

		// Then: the session is gone
		_, err = repo.GetByID(ctx, "a")
		require.ErrorIs(t, err, apperror.ErrSessionNotFound)
	})

	t.Run("Unknown storage", func(t *testing.T) {
		_, _, err := newSessionRepository(context.Background(), &config.Config{Storage: "sqlite"})

		require.ErrorIs(t, err, ErrUnknownStorage)
	})
}
