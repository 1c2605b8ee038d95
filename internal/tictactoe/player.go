package tictactoe

import (
	"fmt"
	"strings"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/apperror"
)

const (
	DefaultPlayerOneName = "Subodh"
	DefaultPlayerOneMark = Mark("O")
	DefaultPlayerTwoName = "Samit"
	DefaultPlayerTwoMark = Mark("X")
)

// Player - a named participant and the mark they place.
type Player struct {
	Name string
	Mark Mark
}

// DefaultPlayers - the players used when none are configured.
func DefaultPlayers() (Player, Player) {
	return Player{Name: DefaultPlayerOneName, Mark: DefaultPlayerOneMark},
		Player{Name: DefaultPlayerTwoName, Mark: DefaultPlayerTwoMark}
}

// ValidatePlayers - checks that names and marks are non-empty and pairwise distinct.
func ValidatePlayers(one, two Player) error {
	switch {
	case isBlank(one.Name) || isBlank(two.Name):
		return fmt.Errorf("%w: player names must not be empty", apperror.ErrInvalidPlayers)
	case isBlank(string(one.Mark)) || isBlank(string(two.Mark)):
		return fmt.Errorf("%w: player marks must not be empty", apperror.ErrInvalidPlayers)
	case one.Name == two.Name:
		return fmt.Errorf("%w: names should be unique, got %q twice", apperror.ErrInvalidPlayers, one.Name)
	case one.Mark == two.Mark:
		return fmt.Errorf("%w: marks should be unique, got %q twice", apperror.ErrInvalidPlayers, one.Mark)
	}

	return nil
}

func isBlank(value string) bool {
	return strings.TrimSpace(value) == ""
}
