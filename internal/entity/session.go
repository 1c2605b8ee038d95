package entity

import "time"

const (
	StatusFinished = "finished"
	StatusOngoing  = "ongoing"

	EmptyCell = ""
)

// Session is the stored and transmitted state of one hot-seat game.
type Session struct {
	ID        string       `json:"id"`
	Board     [3][3]string `json:"board"`
	Players   [2]Player    `json:"players"`
	Active    int          `json:"active_player"`
	Status    string       `json:"status"`
	Winner    string       `json:"winner,omitempty"`
	Message   string       `json:"message"`
	CreatedAt time.Time    `json:"created_at"`
}

func (that *Session) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Session) IsOngoing() bool {
	return that.Status == StatusOngoing
}

// IsTie - a finished session without a winner.
func (that *Session) IsTie() bool {
	return that.IsFinished() && that.Winner == ""
}

// ActivePlayer - the player entitled to move next.
func (that *Session) ActivePlayer() Player {
	if that.Active < 0 || that.Active >= len(that.Players) {
		return Player{}
	}

	return that.Players[that.Active]
}
