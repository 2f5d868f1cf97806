// Package game tracks the state of a round and reacts to the messages the
// server sends while one is being played.
package game

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/wordgame/wordclient/internal/dispatch"
	"github.com/wordgame/wordclient/internal/wire"
)

var (
	ErrNoRound    = errors.New("no round in progress")
	ErrBusy       = errors.New("still waiting for the server")
	ErrEmptyGuess = errors.New("guess is empty")
)

type Sender interface {
	Send(kind wire.Kind, fields wire.Fields) error
}

type Router interface {
	Handle(kind wire.Kind, h dispatch.Handler)
}

type Machine struct {
	logger *slog.Logger
	sender Sender
	player Player

	m           sync.Mutex
	state       State
	round       *Round
	exitPending bool
	observers   []func(Event)
}

func New(sender Sender, player Player, logger *slog.Logger) *Machine {
	if logger == nil {
		logger = slog.Default()
	}

	return &Machine{
		logger: logger,
		sender: sender,
		player: player,
	}
}

// Register installs the machine's handlers for every server to client kind.
func (g *Machine) Register(r Router) {
	r.Handle(wire.KindGameDef, g.handleGameDef)
	r.Handle(wire.KindAnswer, g.handleAnswer)
	r.Handle(wire.KindHint, g.handleHint)
	r.Handle(wire.KindAck, g.handleAck)
	r.Handle(wire.KindError, g.handleError)
	r.Handle(wire.KindHeartbeat, g.handleHeartbeat)
}

// Subscribe adds fn to the functions called for every event. fn runs on the
// goroutine that caused the event and must not block.
func (g *Machine) Subscribe(fn func(Event)) {
	g.m.Lock()
	defer g.m.Unlock()
	g.observers = append(g.observers, fn)
}

func (g *Machine) State() State {
	g.m.Lock()
	defer g.m.Unlock()
	return g.state
}

// Round returns a snapshot of the current or last round.
func (g *Machine) Round() (Round, bool) {
	g.m.Lock()
	defer g.m.Unlock()

	if g.round == nil {
		return Round{}, false
	}
	return g.round.clone(), true
}

// Start asks the server for a new round. An unfinished round is abandoned
// without notifying the server.
func (g *Machine) Start() error {
	g.m.Lock()
	err := g.sender.Send(wire.KindStartGame, wire.Fields{
		wire.FieldANum:      g.player.ANum,
		wire.FieldLastName:  g.player.LastName,
		wire.FieldFirstName: g.player.FirstName,
		wire.FieldAlias:     g.player.Alias,
	})
	if err != nil {
		g.m.Unlock()
		return err
	}

	var events []Event
	if g.round != nil && g.state.InRound() {
		g.round.Outcome = OutcomeAbandoned
		events = append(events, g.eventLocked(EventRoundEnded))
	}

	g.state = StateAwaitingGameDef
	g.round = nil
	g.exitPending = false
	observers := g.observers
	g.m.Unlock()

	notify(observers, events)
	return nil
}

// Guess submits a guess for the current round.
func (g *Machine) Guess(word string) error {
	word = strings.TrimSpace(word)
	if word == "" {
		return ErrEmptyGuess
	}

	g.m.Lock()
	defer g.m.Unlock()

	if err := g.checkActiveLocked(); err != nil {
		return err
	}

	if err := g.sender.Send(wire.KindGuess, wire.Fields{
		wire.FieldID:    g.round.ID,
		wire.FieldGuess: word,
	}); err != nil {
		return err
	}

	g.round.Guesses = append(g.round.Guesses, word)
	g.state = StateAwaitingAnswer
	return nil
}

// GetHint asks the server for another hint for the current round.
func (g *Machine) GetHint() error {
	g.m.Lock()
	defer g.m.Unlock()

	if err := g.checkActiveLocked(); err != nil {
		return err
	}

	if err := g.sender.Send(wire.KindGetHint, wire.Fields{wire.FieldID: g.round.ID}); err != nil {
		return err
	}

	g.state = StateAwaitingHint
	return nil
}

// Exit tells the server the current round is abandoned. The server confirms
// with an ack.
func (g *Machine) Exit() error {
	g.m.Lock()
	if g.round == nil || !g.state.InRound() {
		g.m.Unlock()
		return ErrNoRound
	}

	if err := g.sender.Send(wire.KindExit, wire.Fields{wire.FieldID: g.round.ID}); err != nil {
		g.m.Unlock()
		return err
	}

	g.round.Outcome = OutcomeAbandoned
	g.state = StateFinished
	g.exitPending = true
	ev := g.eventLocked(EventRoundExited)
	observers := g.observers
	g.m.Unlock()

	notify(observers, []Event{ev})
	return nil
}

func (g *Machine) checkActiveLocked() error {
	switch {
	case g.round == nil || !g.state.InRound():
		return ErrNoRound
	case g.state != StateActive:
		return fmt.Errorf("%w (%s)", ErrBusy, g.state)
	}
	return nil
}

func (g *Machine) eventLocked(t EventType) Event {
	ev := Event{Type: t, State: g.state}
	if g.round != nil {
		ev.Round = g.round.clone()
	}
	return ev
}

// update runs fn with the lock held and notifies observers of the events it
// returns once the lock is released.
func (g *Machine) update(fn func() []Event) {
	g.m.Lock()
	events := fn()
	observers := g.observers
	g.m.Unlock()

	notify(observers, events)
}

func notify(observers []func(Event), events []Event) {
	for _, ev := range events {
		for _, fn := range observers {
			fn(ev)
		}
	}
}
