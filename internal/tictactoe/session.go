package tictactoe

import (
	"errors"
	"fmt"
	"time"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
)

var ErrCorruptSession = errors.New("session state is corrupt")

// Export - converts the game into its stored form.
func (that *Game) Export(id string, createdAt time.Time) *entity.Session {
	session := &entity.Session{
		ID:        id,
		Active:    that.active,
		Status:    entity.StatusOngoing,
		Message:   that.StatusMessage(),
		CreatedAt: createdAt,
	}

	for i, player := range that.players {
		session.Players[i] = entity.Player{Name: player.Name, Mark: string(player.Mark)}
	}

	snapshot := that.board.Snapshot()
	for row := range snapshot {
		for column := range snapshot[row] {
			session.Board[row][column] = string(snapshot[row][column])
		}
	}

	if that.IsOver() {
		session.Status = entity.StatusFinished
		session.Winner = string(that.outcome.Mark)
	}

	return session
}

// Restore - rebuilds a game from its stored form.
// Mark counts must match the active player, and only the player who moved last may hold a line.
func Restore(session *entity.Session) (*Game, error) {
	one := Player{Name: session.Players[0].Name, Mark: Mark(session.Players[0].Mark)}
	two := Player{Name: session.Players[1].Name, Mark: Mark(session.Players[1].Mark)}

	game, err := NewGame(one, two)
	if err != nil {
		return nil, fmt.Errorf("failed to restore players: %w", err)
	}

	if session.Active != 0 && session.Active != 1 {
		return nil, fmt.Errorf("%w: active player %d", ErrCorruptSession, session.Active)
	}

	var counts [2]int

	for row := range session.Board {
		for column, value := range session.Board[row] {
			mark := Mark(value)

			switch mark {
			case EmptyMark:
				continue
			case one.Mark:
				counts[0]++
			case two.Mark:
				counts[1]++
			default:
				return nil, fmt.Errorf("%w: unknown mark %q at (%d, %d)", ErrCorruptSession, value, row, column)
			}

			game.board.cells[row][column].mark = mark
		}
	}

	// player one moves first, so it is one mark ahead exactly when player two is to move
	if counts[0]-counts[1] != session.Active {
		return nil, fmt.Errorf("%w: %d and %d marks with player %d to move",
			ErrCorruptSession, counts[0], counts[1], session.Active)
	}

	game.active = session.Active
	snapshot := game.board.Snapshot()

	if CheckWin(snapshot, game.ActivePlayer().Mark) {
		return nil, fmt.Errorf("%w: player to move already holds a line", ErrCorruptSession)
	}

	lastMover := game.players[1-game.active]
	game.outcome = Evaluate(snapshot, lastMover.Mark)

	return game, nil
}
