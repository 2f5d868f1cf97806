// Package console is the interactive front end of the client: a numbered
// menu read from a terminal, and a running log of what the server answered.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/wordgame/wordclient/internal/dispatch"
	"github.com/wordgame/wordclient/internal/game"
)

const (
	eventQueueSize     = 32
	defaultExitTimeout = 3 * time.Second
)

type Game interface {
	State() game.State
	Round() (game.Round, bool)
	Start() error
	Guess(word string) error
	GetHint() error
	Exit() error
}

type Reconfigurer interface {
	Peer() dispatch.Peer
	Reconfigure(ctx context.Context, peer dispatch.Peer) error
}

type Options struct {
	In     io.Reader
	Out    io.Writer
	Logger *slog.Logger
	Game   Game
	Config Reconfigurer
	// ExitTimeout bounds how long Quit waits for the server to acknowledge
	// the exit of a round in progress.
	ExitTimeout time.Duration
}

type mode int

const (
	modeMenu mode = iota
	modeGuess
	modeHost
	modePort
	modeQuit
)

type Console struct {
	opts   Options
	out    io.Writer
	logger *slog.Logger
	events chan game.Event

	mode mode
	host string
}

type command struct {
	label   string
	aliases []string
	run     func(c *Console, ctx context.Context) (done bool)
}

var (
	cmdGetHint   = command{"Get Hint", []string{"hint"}, (*Console).getHint}
	cmdGuess     = command{"Guess", []string{"guess"}, (*Console).startGuess}
	cmdNewGame   = command{"New Game", []string{"new", "start"}, (*Console).newGame}
	cmdSetConfig = command{"Set Config", []string{"config"}, (*Console).startConfig}
	cmdQuit      = command{"Quit", []string{"quit", "exit", "q"}, (*Console).quit}

	idleMenu  = []command{cmdNewGame, cmdSetConfig, cmdQuit}
	roundMenu = []command{cmdGetHint, cmdGuess, cmdNewGame, cmdSetConfig, cmdQuit}
)

func New(opts Options) *Console {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.ExitTimeout == 0 {
		opts.ExitTimeout = defaultExitTimeout
	}

	return &Console{
		opts:   opts,
		out:    opts.Out,
		logger: opts.Logger,
		events: make(chan game.Event, eventQueueSize),
	}
}

// Notify queues an event for display. It never blocks, so it can be passed
// to game.Machine.Subscribe directly.
func (c *Console) Notify(ev game.Event) {
	select {
	case c.events <- ev:
	default:
		c.logger.Warn("Console event queue full, dropping event", slog.String("event", ev.Type.String()))
	}
}

// Run reads commands until the user quits, the input ends or ctx is
// canceled.
func (c *Console) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	scanErrChan := make(chan error, 1)
	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(c.opts.In)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErrChan <- scanner.Err()
	}()

	var quitTimeout <-chan time.Time
	c.showMenu()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-c.events:
			c.render(ev)
			if c.mode == modeQuit {
				if ev.Type == game.EventExitAcknowledged {
					return c.bye()
				}
				continue
			}
			if c.mode == modeMenu {
				c.showMenu()
			}
		case line, ok := <-lines:
			if !ok {
				if err := <-scanErrChan; err != nil {
					return fmt.Errorf("read input: %w", err)
				}
				if c.mode == modeQuit {
					lines = nil
					continue
				}
				if c.quit(ctx) {
					return c.bye()
				}
				lines = nil
				quitTimeout = time.After(c.opts.ExitTimeout)
				continue
			}

			if c.handleLine(ctx, strings.TrimSpace(line)) {
				return c.bye()
			}
			if c.mode == modeQuit && quitTimeout == nil {
				quitTimeout = time.After(c.opts.ExitTimeout)
			}
		case <-quitTimeout:
			c.printf("No exit acknowledgement from the server\n")
			return c.bye()
		}
	}
}

// handleLine processes one line of input and reports whether the console
// should stop.
func (c *Console) handleLine(ctx context.Context, line string) bool {
	switch c.mode {
	case modeGuess:
		c.mode = modeMenu
		if err := c.opts.Game.Guess(line); err != nil {
			c.printf("Unable to guess: %s\n", err)
		}
	case modeHost:
		c.host = line
		if c.host == "" {
			c.host = c.opts.Config.Peer().Host
		}
		c.mode = modePort
		c.printf("Port [%d]: ", c.opts.Config.Peer().Port)
		return false
	case modePort:
		c.mode = modeMenu
		peer := dispatch.Peer{Host: c.host, Port: c.opts.Config.Peer().Port}
		if line != "" {
			port, err := strconv.Atoi(line)
			if err != nil {
				c.printf("Bad port: %q\n", line)
				break
			}
			peer.Port = port
		}
		if err := c.opts.Config.Reconfigure(ctx, peer); err != nil {
			c.printf("Unable to change server: %s\n", err)
			break
		}
		c.printf("Server set to %s\n", peer)
	case modeQuit:
		return false
	default:
		cmd, ok := c.lookup(line)
		if !ok {
			if line != "" {
				c.printf("Invalid command: %q\n", line)
			}
			break
		}
		if cmd.run(c, ctx) {
			return true
		}
	}

	if c.mode == modeMenu {
		c.showMenu()
	}
	return false
}

func (c *Console) lookup(input string) (command, bool) {
	menu := c.menu()
	if n, err := strconv.Atoi(input); err == nil {
		if n < 1 || n > len(menu) {
			return command{}, false
		}
		return menu[n-1], true
	}

	input = strings.ToLower(input)
	for _, cmd := range menu {
		if strings.ToLower(cmd.label) == input {
			return cmd, true
		}
		for _, alias := range cmd.aliases {
			if alias == input {
				return cmd, true
			}
		}
	}
	return command{}, false
}

func (c *Console) menu() []command {
	if c.opts.Game.State().InRound() {
		return roundMenu
	}
	return idleMenu
}

func (c *Console) getHint(ctx context.Context) bool {
	if err := c.opts.Game.GetHint(); err != nil {
		c.printf("Unable to get a hint: %s\n", err)
	}
	return false
}

func (c *Console) startGuess(ctx context.Context) bool {
	c.mode = modeGuess
	c.printf("Guess: ")
	return false
}

func (c *Console) newGame(ctx context.Context) bool {
	if err := c.opts.Game.Start(); err != nil {
		c.printf("Unable to start a game: %s\n", err)
	}
	return false
}

func (c *Console) startConfig(ctx context.Context) bool {
	c.mode = modeHost
	c.printf("Host Address [%s]: ", c.opts.Config.Peer().Host)
	return false
}

// quit exits the round in progress, if any. It reports whether the console
// can stop right away.
func (c *Console) quit(ctx context.Context) bool {
	if !c.opts.Game.State().InRound() {
		return true
	}

	if err := c.opts.Game.Exit(); err != nil {
		if !errors.Is(err, game.ErrNoRound) {
			c.printf("Unable to exit round: %s\n", err)
		}
		return true
	}

	c.mode = modeQuit
	c.printf("Waiting for the server to acknowledge the exit...\n")
	return false
}

func (c *Console) bye() error {
	// show what arrived while the last command was processed
	for {
		select {
		case ev := <-c.events:
			c.render(ev)
		default:
			c.printf("Bye!\n")
			return nil
		}
	}
}

func (c *Console) showMenu() {
	state := c.opts.Game.State()
	switch {
	case state.InRound():
		round, _ := c.opts.Game.Round()
		c.printf("\nDefinition: %s\nHint: %s (%d characters)\n", round.Definition, round.Hint, round.HintLength())
		if state != game.StateActive {
			c.printf("Waiting for the server...\n")
		}
	case state == game.StateAwaitingGameDef:
		c.printf("\nWaiting for the server to start the round...\n")
	}

	c.printf("Choose a command:\n")
	for i, cmd := range c.menu() {
		c.printf("  %d) %s\n", i+1, cmd.label)
	}
	c.printf("> ")
}

func (c *Console) render(ev game.Event) {
	switch ev.Type {
	case game.EventRoundStarted:
		c.printf("\nRound %d started\n", ev.Round.ID)
	case game.EventCorrect:
		c.printf("\nCorrect! %q was the word\nScore: %d\n", ev.Guess, ev.Round.Score)
	case game.EventIncorrect:
		c.printf("\nIncorrect! %q is not the word\n", ev.Guess)
	case game.EventHint:
		c.printf("\nNew hint: %s\n", ev.Round.Hint)
	case game.EventServerError:
		c.printf("\nServer error: %s\n", ev.Message)
	case game.EventRoundExited:
		c.printf("\nLeft round %d\n", ev.Round.ID)
	case game.EventExitAcknowledged:
		c.printf("Server acknowledged the exit of round %d\n", ev.Round.ID)
	case game.EventRoundEnded:
		c.printf("\nRound %d ended (%s)\n", ev.Round.ID, ev.Round.Outcome)
	}
}

func (c *Console) printf(format string, args ...any) {
	if _, err := fmt.Fprintf(c.out, format, args...); err != nil {
		c.logger.Debug("Unable to write to console", slog.Any("err", err))
	}
}
