package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/apperror"
)

const tieMessage = "It's a Tie"

// Game - the turn engine. It owns the board, both players and the active-player pointer.
type Game struct {
	board   *Board
	players [2]Player
	active  int
	outcome Outcome
}

// NewGame - creates a game with an empty board and player one to move.
func NewGame(one, two Player) (*Game, error) {
	if err := ValidatePlayers(one, two); err != nil {
		return nil, err
	}

	return &Game{
		board:   NewBoard(),
		players: [2]Player{one, two},
	}, nil
}

func NewDefaultGame() *Game {
	one, two := DefaultPlayers()

	return &Game{
		board:   NewBoard(),
		players: [2]Player{one, two},
	}
}

func (that *Game) Players() [2]Player {
	return that.players
}

func (that *Game) ActivePlayer() Player {
	return that.players[that.active]
}

// ActiveIndex - index of the active player in Players.
func (that *Game) ActiveIndex() int {
	return that.active
}

func (that *Game) Board() *Board {
	return that.board
}

func (that *Game) Snapshot() Snapshot {
	return that.board.Snapshot()
}

func (that *Game) Outcome() Outcome {
	return that.outcome
}

func (that *Game) IsOver() bool {
	return that.outcome.IsOver()
}

// Winner - returns the winning player once the game ended in a win.
func (that *Game) Winner() (Player, bool) {
	if that.outcome.Result != Win {
		return Player{}, false
	}

	for _, player := range that.players {
		if player.Mark == that.outcome.Mark {
			return player, true
		}
	}

	return Player{}, false
}

// PlayRound - claims (row, column) for the active player.
// An occupied cell returns false and leaves the game untouched.
func (that *Game) PlayRound(row, column int) (bool, error) {
	if that.IsOver() {
		return false, apperror.ErrGameFinished
	}

	mover := that.ActivePlayer()

	claimed, err := that.board.Claim(mover.Mark, row, column)
	if err != nil {
		return false, fmt.Errorf("invalid turn: %w", err)
	}

	if !claimed {
		return false, nil
	}

	that.outcome = Evaluate(that.board.Snapshot(), mover.Mark)
	that.switchPlayer()

	return true, nil
}

// ResetRound - clears the board and gives the first move back to player one.
func (that *Game) ResetRound() {
	that.board.Reset()
	that.active = 0
	that.outcome = Outcome{Result: InProgress}
}

// StatusMessage - the line a collaborator shows above the board.
func (that *Game) StatusMessage() string {
	if winner, ok := that.Winner(); ok {
		return winner.Name + " Wins"
	}

	if that.outcome.Result == Tie {
		return tieMessage
	}

	return that.ActivePlayer().Name + "'s turn"
}

func (that *Game) switchPlayer() {
	that.active = 1 - that.active
}
