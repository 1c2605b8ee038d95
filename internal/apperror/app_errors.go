package apperror

import "errors"

var (
	ErrGameFinished    = errors.New("game is already finished")
	ErrCellOccupied    = errors.New("cell is already occupied")
	ErrOutOfRange      = errors.New("cell index out of range")
	ErrInvalidPlayers  = errors.New("invalid players configuration")
	ErrSessionNotFound = errors.New("session not found")
)
