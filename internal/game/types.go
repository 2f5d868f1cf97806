package game

import (
	"fmt"
	"unicode/utf16"
)

type State int

const (
	StateIdle State = iota
	StateAwaitingGameDef
	StateActive
	StateAwaitingAnswer
	StateAwaitingHint
	StateFinished
)

var stateNames = map[State]string{
	StateIdle:            "idle",
	StateAwaitingGameDef: "awaiting-gameDef",
	StateActive:          "active",
	StateAwaitingAnswer:  "awaiting-answer",
	StateAwaitingHint:    "awaiting-hint",
	StateFinished:        "finished",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// InRound reports whether a round has been defined and not yet finished.
func (s State) InRound() bool {
	return s == StateActive || s == StateAwaitingAnswer || s == StateAwaitingHint
}

// MarshalText implements the encoding.TextMarshaler interface.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

type Outcome string

const (
	OutcomeNone      Outcome = ""
	OutcomeWon       Outcome = "won"
	OutcomeAbandoned Outcome = "abandoned"
	// OutcomeEnded is a round the server closed with an ack.
	OutcomeEnded Outcome = "ended"
)

// Values of the answer message's result byte.
const (
	ResultIncorrect uint8 = 0
	ResultCorrect   uint8 = 1
)

// Player is the identity sent with startGame.
type Player struct {
	ANum      string
	LastName  string
	FirstName string
	Alias     string
}

type Round struct {
	ID         int16    `json:"id"`
	Definition string   `json:"definition"`
	Hint       string   `json:"hint"`
	Score      int16    `json:"score"`
	Guesses    []string `json:"guesses"`
	Outcome    Outcome  `json:"outcome"`
}

// HintLength is the number of characters in the hint as counted on the wire.
func (r *Round) HintLength() int {
	return len(utf16.Encode([]rune(r.Hint)))
}

func (r *Round) clone() Round {
	res := *r
	res.Guesses = append([]string(nil), r.Guesses...)
	return res
}

type EventType int

const (
	EventRoundStarted EventType = iota + 1
	EventCorrect
	EventIncorrect
	EventHint
	EventServerError
	EventRoundExited
	EventExitAcknowledged
	EventRoundEnded
)

var eventNames = map[EventType]string{
	EventRoundStarted:     "round_started",
	EventCorrect:          "correct",
	EventIncorrect:        "incorrect",
	EventHint:             "hint",
	EventServerError:      "server_error",
	EventRoundExited:      "round_exited",
	EventExitAcknowledged: "exit_acknowledged",
	EventRoundEnded:       "round_ended",
}

func (t EventType) String() string {
	if name, ok := eventNames[t]; ok {
		return name
	}
	return fmt.Sprintf("event(%d)", int(t))
}

// Event describes a change of the round state. Round is a snapshot taken
// when the event was produced.
type Event struct {
	Type  EventType
	State State
	Round Round
	// Guess is the guess an answer refers to.
	Guess string
	// Message carries the text of a server error.
	Message string
}
