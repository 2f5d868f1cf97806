package game

import (
	"log/slog"

	"github.com/wordgame/wordclient/internal/wire"
)

func (g *Machine) handleGameDef(msg *wire.Message) error {
	g.update(func() []Event {
		var events []Event
		if g.round != nil && g.state.InRound() {
			g.round.Outcome = OutcomeAbandoned
			events = append(events, g.eventLocked(EventRoundEnded))
		}

		g.round = &Round{
			ID:         msg.Fields.Int16(wire.FieldID),
			Hint:       msg.Fields.Text(wire.FieldHint),
			Definition: msg.Fields.Text(wire.FieldDefinition),
		}
		g.state = StateActive
		g.exitPending = false
		return append(events, g.eventLocked(EventRoundStarted))
	})
	return nil
}

func (g *Machine) handleAnswer(msg *wire.Message) error {
	g.update(func() []Event {
		if !g.matchLocked(msg) || !g.state.InRound() {
			return nil
		}

		var guess string
		if n := len(g.round.Guesses); n > 0 {
			guess = g.round.Guesses[n-1]
		}

		if msg.Fields.Byte(wire.FieldResult) == ResultCorrect {
			g.round.Score = msg.Fields.Int16(wire.FieldScore)
			g.round.Outcome = OutcomeWon
			g.state = StateFinished
			ev := g.eventLocked(EventCorrect)
			ev.Guess = guess
			return []Event{ev}
		}

		g.round.Hint = msg.Fields.Text(wire.FieldHint)
		g.state = StateActive
		ev := g.eventLocked(EventIncorrect)
		ev.Guess = guess
		return []Event{ev}
	})
	return nil
}

func (g *Machine) handleHint(msg *wire.Message) error {
	g.update(func() []Event {
		if !g.matchLocked(msg) || !g.state.InRound() {
			return nil
		}

		g.round.Hint = msg.Fields.Text(wire.FieldHint)
		g.state = StateActive
		return []Event{g.eventLocked(EventHint)}
	})
	return nil
}

func (g *Machine) handleAck(msg *wire.Message) error {
	g.update(func() []Event {
		if !g.matchLocked(msg) {
			return nil
		}

		switch {
		case g.exitPending:
			g.exitPending = false
			return []Event{g.eventLocked(EventExitAcknowledged)}
		case g.state.InRound():
			g.round.Outcome = OutcomeEnded
			g.state = StateFinished
			return []Event{g.eventLocked(EventRoundEnded)}
		}
		return nil
	})
	return nil
}

func (g *Machine) handleError(msg *wire.Message) error {
	g.update(func() []Event {
		switch g.state {
		case StateAwaitingGameDef:
			g.state = StateIdle
		case StateAwaitingAnswer, StateAwaitingHint:
			g.state = StateActive
		}

		ev := g.eventLocked(EventServerError)
		ev.Message = msg.Fields.Text(wire.FieldErrorText)
		return []Event{ev}
	})
	return nil
}

// handleHeartbeat acknowledges a heartbeat regardless of the round state.
func (g *Machine) handleHeartbeat(msg *wire.Message) error {
	return g.sender.Send(wire.KindAck, wire.Fields{wire.FieldID: msg.Fields.Int16(wire.FieldID)})
}

func (g *Machine) matchLocked(msg *wire.Message) bool {
	id := msg.Fields.Int16(wire.FieldID)
	if g.round == nil || g.round.ID != id {
		g.logger.Debug("Ignoring message for another round",
			slog.String("kind", msg.Kind.String()),
			slog.Int("id", int(id)))
		return false
	}
	return true
}
