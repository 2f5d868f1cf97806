package game

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/wordgame/wordclient/internal/dispatch"
	"github.com/wordgame/wordclient/internal/wire"
)

type sentMessage struct {
	Kind   wire.Kind
	Fields wire.Fields
}

type fakeSender struct {
	sent []sentMessage
	err  error
}

func (s *fakeSender) Send(kind wire.Kind, fields wire.Fields) error {
	if s.err != nil {
		return s.err
	}
	// round-trip through the codec so schema mistakes surface here
	if _, err := wire.Encode(kind, fields); err != nil {
		return err
	}
	s.sent = append(s.sent, sentMessage{kind, fields})
	return nil
}

func (s *fakeSender) last() sentMessage {
	if len(s.sent) == 0 {
		return sentMessage{}
	}
	return s.sent[len(s.sent)-1]
}

type fakeRouter map[wire.Kind]dispatch.Handler

func (r fakeRouter) Handle(kind wire.Kind, h dispatch.Handler) {
	r[kind] = h
}

func (r fakeRouter) deliver(t *testing.T, kind wire.Kind, fields wire.Fields) {
	data, err := wire.Encode(kind, fields)
	if err != nil {
		t.Fatal(err)
	}

	var msg wire.Message
	if err := msg.UnmarshalBinary(data); err != nil {
		t.Fatal(err)
	}

	h, ok := r[msg.Kind]
	if !ok {
		t.Fatalf("no handler for %s", msg.Kind)
	}
	if err := h(&msg); err != nil {
		t.Fatal(err)
	}
}

var testPlayer = Player{ANum: "A01234567", LastName: "Doe", FirstName: "Jane", Alias: "jd"}

func initMachine(t *testing.T) (*Machine, *fakeSender, fakeRouter, *[]Event) {
	sender := &fakeSender{}
	router := fakeRouter{}
	g := New(sender, testPlayer, slog.New(slog.NewTextHandler(io.Discard, nil)))
	g.Register(router)

	var events []Event
	g.Subscribe(func(ev Event) {
		events = append(events, ev)
	})
	return g, sender, router, &events
}

func startRound(t *testing.T, g *Machine, router fakeRouter, id int16) {
	if err := g.Start(); err != nil {
		t.Fatal(err)
	}
	if g.State() != StateAwaitingGameDef {
		t.Fatalf("expected state %s, got %s", StateAwaitingGameDef, g.State())
	}

	router.deliver(t, wire.KindGameDef, wire.Fields{
		wire.FieldID:         id,
		wire.FieldHint:       "_____",
		wire.FieldDefinition: "a greeting",
	})
	if g.State() != StateActive {
		t.Fatalf("expected state %s, got %s", StateActive, g.State())
	}
}

func TestRegister(t *testing.T) {
	_, _, router, _ := initMachine(t)

	for _, kind := range []wire.Kind{wire.KindGameDef, wire.KindAnswer, wire.KindHint, wire.KindAck, wire.KindError, wire.KindHeartbeat} {
		if _, ok := router[kind]; !ok {
			t.Fatalf("no handler registered for %s", kind)
		}
	}
	if len(router) != 6 {
		t.Fatalf("expected 6 handlers, got %d", len(router))
	}
}

func TestStartSendsPlayer(t *testing.T) {
	g, sender, _, _ := initMachine(t)

	if err := g.Start(); err != nil {
		t.Fatal(err)
	}

	msg := sender.last()
	if msg.Kind != wire.KindStartGame {
		t.Fatalf("expected startGame, got %s", msg.Kind)
	}
	if msg.Fields.Text(wire.FieldANum) != testPlayer.ANum || msg.Fields.Text(wire.FieldAlias) != testPlayer.Alias {
		t.Fatalf("unexpected startGame fields: %v", msg.Fields)
	}
}

func TestCorrectGuess(t *testing.T) {
	g, sender, router, events := initMachine(t)
	startRound(t, g, router, 42)

	if err := g.Guess(" hello "); err != nil {
		t.Fatal(err)
	}
	msg := sender.last()
	if msg.Kind != wire.KindGuess || msg.Fields.Int16(wire.FieldID) != 42 || msg.Fields.Text(wire.FieldGuess) != "hello" {
		t.Fatalf("unexpected guess message: %s %v", msg.Kind, msg.Fields)
	}
	if g.State() != StateAwaitingAnswer {
		t.Fatalf("expected state %s, got %s", StateAwaitingAnswer, g.State())
	}

	router.deliver(t, wire.KindAnswer, wire.Fields{
		wire.FieldID:     int16(42),
		wire.FieldResult: ResultCorrect,
		wire.FieldScore:  int16(90),
		wire.FieldHint:   "hello",
	})

	if g.State() != StateFinished {
		t.Fatalf("expected state %s, got %s", StateFinished, g.State())
	}
	round, _ := g.Round()
	if round.Score != 90 || round.Outcome != OutcomeWon {
		t.Fatalf("unexpected round: %+v", round)
	}

	last := (*events)[len(*events)-1]
	if last.Type != EventCorrect || last.Guess != "hello" {
		t.Fatalf("unexpected event: %+v", last)
	}
}

func TestIncorrectGuess(t *testing.T) {
	g, _, router, events := initMachine(t)
	startRound(t, g, router, 7)

	if err := g.Guess("world"); err != nil {
		t.Fatal(err)
	}
	if err := g.Guess("again"); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected error: '%v', got: %v", ErrBusy, err)
	}

	router.deliver(t, wire.KindAnswer, wire.Fields{
		wire.FieldID:     int16(7),
		wire.FieldResult: ResultIncorrect,
		wire.FieldScore:  int16(0),
		wire.FieldHint:   "h____",
	})

	if g.State() != StateActive {
		t.Fatalf("expected state %s, got %s", StateActive, g.State())
	}
	round, _ := g.Round()
	if round.Hint != "h____" || len(round.Guesses) != 1 {
		t.Fatalf("unexpected round: %+v", round)
	}
	if last := (*events)[len(*events)-1]; last.Type != EventIncorrect || last.Guess != "world" {
		t.Fatalf("unexpected event: %+v", last)
	}
}

func TestHint(t *testing.T) {
	g, sender, router, _ := initMachine(t)
	startRound(t, g, router, 3)

	if err := g.GetHint(); err != nil {
		t.Fatal(err)
	}
	if msg := sender.last(); msg.Kind != wire.KindGetHint || msg.Fields.Int16(wire.FieldID) != 3 {
		t.Fatalf("unexpected message: %s %v", msg.Kind, msg.Fields)
	}
	if g.State() != StateAwaitingHint {
		t.Fatalf("expected state %s, got %s", StateAwaitingHint, g.State())
	}

	// hints for other rounds are ignored
	router.deliver(t, wire.KindHint, wire.Fields{wire.FieldID: int16(4), wire.FieldHint: "x____"})
	if g.State() != StateAwaitingHint {
		t.Fatalf("expected state %s, got %s", StateAwaitingHint, g.State())
	}

	router.deliver(t, wire.KindHint, wire.Fields{wire.FieldID: int16(3), wire.FieldHint: "h___o"})
	round, _ := g.Round()
	if g.State() != StateActive || round.Hint != "h___o" || round.HintLength() != 5 {
		t.Fatalf("unexpected state %s with round %+v", g.State(), round)
	}
}

func TestExit(t *testing.T) {
	g, sender, router, events := initMachine(t)

	if err := g.Exit(); !errors.Is(err, ErrNoRound) {
		t.Fatalf("expected error: '%v', got: %v", ErrNoRound, err)
	}

	startRound(t, g, router, 11)
	if err := g.Exit(); err != nil {
		t.Fatal(err)
	}
	if msg := sender.last(); msg.Kind != wire.KindExit || msg.Fields.Int16(wire.FieldID) != 11 {
		t.Fatalf("unexpected message: %s %v", msg.Kind, msg.Fields)
	}
	if g.State() != StateFinished {
		t.Fatalf("expected state %s, got %s", StateFinished, g.State())
	}

	router.deliver(t, wire.KindAck, wire.Fields{wire.FieldID: int16(11)})
	if last := (*events)[len(*events)-1]; last.Type != EventExitAcknowledged {
		t.Fatalf("unexpected event: %+v", last)
	}
}

func TestAckEndsRound(t *testing.T) {
	g, _, router, _ := initMachine(t)
	startRound(t, g, router, 2)

	router.deliver(t, wire.KindAck, wire.Fields{wire.FieldID: int16(9)})
	if g.State() != StateActive {
		t.Fatalf("expected state %s, got %s", StateActive, g.State())
	}

	router.deliver(t, wire.KindAck, wire.Fields{wire.FieldID: int16(2)})
	round, _ := g.Round()
	if g.State() != StateFinished || round.Outcome != OutcomeEnded {
		t.Fatalf("unexpected state %s with round %+v", g.State(), round)
	}
}

func TestServerError(t *testing.T) {
	g, _, router, events := initMachine(t)

	if err := g.Start(); err != nil {
		t.Fatal(err)
	}
	router.deliver(t, wire.KindError, wire.Fields{wire.FieldID: int16(0), wire.FieldErrorText: "server full"})
	if g.State() != StateIdle {
		t.Fatalf("expected state %s, got %s", StateIdle, g.State())
	}
	if last := (*events)[len(*events)-1]; last.Type != EventServerError || last.Message != "server full" {
		t.Fatalf("unexpected event: %+v", last)
	}

	startRound(t, g, router, 5)
	if err := g.GetHint(); err != nil {
		t.Fatal(err)
	}
	router.deliver(t, wire.KindError, wire.Fields{wire.FieldID: int16(5), wire.FieldErrorText: "no hints left"})
	if g.State() != StateActive {
		t.Fatalf("expected state %s, got %s", StateActive, g.State())
	}
}

func TestHeartbeat(t *testing.T) {
	g, sender, router, _ := initMachine(t)

	router.deliver(t, wire.KindHeartbeat, wire.Fields{wire.FieldID: int16(5)})
	if len(sender.sent) != 1 {
		t.Fatalf("expected exactly 1 message, got %d", len(sender.sent))
	}
	if msg := sender.last(); msg.Kind != wire.KindAck || msg.Fields.Int16(wire.FieldID) != 5 {
		t.Fatalf("unexpected message: %s %v", msg.Kind, msg.Fields)
	}
	if g.State() != StateIdle {
		t.Fatalf("heartbeat changed state to %s", g.State())
	}
}

func TestNewGameAbandonsRound(t *testing.T) {
	g, _, router, events := initMachine(t)
	startRound(t, g, router, 1)

	if err := g.Start(); err != nil {
		t.Fatal(err)
	}
	if _, ok := g.Round(); ok {
		t.Fatal("expected no round while awaiting a game definition")
	}

	last := (*events)[len(*events)-1]
	if last.Type != EventRoundEnded || last.Round.ID != 1 || last.Round.Outcome != OutcomeAbandoned {
		t.Fatalf("unexpected event: %+v", last)
	}
}

func TestSendFailure(t *testing.T) {
	g, sender, router, _ := initMachine(t)
	startRound(t, g, router, 1)

	sendErr := errors.New("network unreachable")
	sender.err = sendErr
	if err := g.Guess("hello"); !errors.Is(err, sendErr) {
		t.Fatalf("expected error: '%v', got: %v", sendErr, err)
	}
	if g.State() != StateActive {
		t.Fatalf("expected state %s, got %s", StateActive, g.State())
	}
	if err := g.Start(); !errors.Is(err, sendErr) {
		t.Fatalf("expected error: '%v', got: %v", sendErr, err)
	}
	if g.State() != StateActive {
		t.Fatalf("expected state %s, got %s", StateActive, g.State())
	}
}

func TestGuessWithoutRound(t *testing.T) {
	g, _, _, _ := initMachine(t)

	if err := g.Guess("hello"); !errors.Is(err, ErrNoRound) {
		t.Fatalf("expected error: '%v', got: %v", ErrNoRound, err)
	}
	if err := g.GetHint(); !errors.Is(err, ErrNoRound) {
		t.Fatalf("expected error: '%v', got: %v", ErrNoRound, err)
	}
	if err := g.Guess("  "); !errors.Is(err, ErrEmptyGuess) {
		t.Fatalf("expected error: '%v', got: %v", ErrEmptyGuess, err)
	}
}
