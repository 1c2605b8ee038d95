package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/tictactoe"
)

type sessionRepo interface {
	CreateOrUpdate(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	DeleteByID(ctx context.Context, id string) error
}

type sessionLock struct {
	sync.Mutex
	refs int
}

// SessionManager - owns the lifecycle of hot-seat sessions.
// Operations on one session are serialized; different sessions never share state.
type SessionManager struct {
	logger   *slog.Logger
	repo     sessionRepo
	defaults [2]tictactoe.Player
	now      func() time.Time

	mu    sync.Mutex
	locks map[string]*sessionLock
}

// NewSessionManager - defaults are used for sessions opened without players and must be valid.
func NewSessionManager(logger *slog.Logger, repo sessionRepo, one, two tictactoe.Player) (*SessionManager, error) {
	if err := tictactoe.ValidatePlayers(one, two); err != nil {
		return nil, fmt.Errorf("invalid default players: %w", err)
	}

	return &SessionManager{
		logger:   logger.With("component", "session_manager"),
		repo:     repo,
		defaults: [2]tictactoe.Player{one, two},
		now:      time.Now,
		locks:    make(map[string]*sessionLock),
	}, nil
}

// Create - opens a session. With no players the defaults are used, otherwise exactly two are required.
func (that *SessionManager) Create(ctx context.Context, players ...entity.Player) (*entity.Session, error) {
	one, two := that.defaults[0], that.defaults[1]

	switch len(players) {
	case 0:
	case 2:
		one = tictactoe.Player{Name: players[0].Name, Mark: tictactoe.Mark(players[0].Mark)}
		two = tictactoe.Player{Name: players[1].Name, Mark: tictactoe.Mark(players[1].Mark)}
	default:
		return nil, fmt.Errorf("%w: expected 2 players, got %d", apperror.ErrInvalidPlayers, len(players))
	}

	game, err := tictactoe.NewGame(one, two)
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	session := game.Export(uuid.NewString(), that.now().UTC())
	if err = that.repo.CreateOrUpdate(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	that.logger.Info("session created", "sessionID", session.ID, "playerOne", one.Name, "playerTwo", two.Name)

	return session, nil
}

func (that *SessionManager) Get(ctx context.Context, id string) (*entity.Session, error) {
	session, err := that.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return session, nil
}

// PlayRound - plays (row, column) for the active player of the session.
// The bool reports whether the move was accepted; a rejected move returns the unchanged session.
func (that *SessionManager) PlayRound(ctx context.Context, id string, row, column int) (*entity.Session, bool, error) {
	log := that.logger.With("method", "PlayRound", "sessionID", id)

	unlock := that.lock(id)
	defer unlock()

	session, game, err := that.load(ctx, id)
	if err != nil {
		return nil, false, err
	}

	mover := game.ActivePlayer()

	moved, err := game.PlayRound(row, column)
	if err != nil {
		return session, false, fmt.Errorf("failed to play round: %w", err)
	}

	if !moved {
		log.Debug("cell already claimed", "row", row, "column", column)
		return session, false, nil
	}

	updated := game.Export(session.ID, session.CreatedAt)
	if err = that.repo.CreateOrUpdate(ctx, updated); err != nil {
		return nil, false, fmt.Errorf("failed to update session: %w", err)
	}

	log.Debug("round played", "player", mover.Name, "row", row, "column", column)

	if game.IsOver() {
		log.Info("game finished", "outcome", game.Outcome().Result.String(), "message", updated.Message)
	}

	return updated, true, nil
}

// ResetRound - clears the board of the session, keeping its players.
func (that *SessionManager) ResetRound(ctx context.Context, id string) (*entity.Session, error) {
	unlock := that.lock(id)
	defer unlock()

	session, game, err := that.load(ctx, id)
	if err != nil {
		return nil, err
	}

	game.ResetRound()

	updated := game.Export(session.ID, session.CreatedAt)
	if err = that.repo.CreateOrUpdate(ctx, updated); err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	that.logger.Info("round reset", "sessionID", id)

	return updated, nil
}

// Destroy - removes the session.
func (that *SessionManager) Destroy(ctx context.Context, id string) error {
	unlock := that.lock(id)
	defer unlock()

	if err := that.repo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	that.logger.Info("session destroyed", "sessionID", id)

	return nil
}

func (that *SessionManager) load(ctx context.Context, id string) (*entity.Session, *tictactoe.Game, error) {
	session, err := that.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get session: %w", err)
	}

	game, err := tictactoe.Restore(session)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to restore session %s: %w", id, err)
	}

	return session, game, nil
}

func (that *SessionManager) lock(id string) func() {
	that.mu.Lock()
	l, ok := that.locks[id]
	if !ok {
		l = &sessionLock{}
		that.locks[id] = l
	}
	l.refs++
	that.mu.Unlock()

	l.Lock()

	return func() {
		l.Unlock()

		that.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(that.locks, id)
		}
		that.mu.Unlock()
	}
}
