package models

import (
	"time"
)

type Round struct {
	ID         int64     `json:"id"`
	RoundID    int16     `json:"round_id"`
	Peer       string    `json:"peer"`
	Definition string    `json:"definition"`
	Hint       string    `json:"hint"`
	Outcome    string    `json:"outcome"`
	Score      int       `json:"score"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Guesses    []*Guess  `json:"guesses,omitempty"`
}

type Guess struct {
	ID        int64     `json:"-"`
	Guess     string    `json:"guess"`
	Correct   bool      `json:"correct"`
	CreatedAt time.Time `json:"created_at"`
}

// Finished reports whether the round has an outcome.
func (r *Round) Finished() bool {
	return !r.FinishedAt.IsZero()
}
