// Package client wires the dispatcher, the round state machine and the
// optional round journal into a single instance.
package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/wordgame/wordclient/internal/config"
	"github.com/wordgame/wordclient/internal/dispatch"
	"github.com/wordgame/wordclient/internal/game"
	"github.com/wordgame/wordclient/internal/models"
)

const journalQueueSize = 64

// Journal records rounds as they are played. *repo.RoundsRepo satisfies it.
type Journal interface {
	StartRound(ctx context.Context, roundID int16, peer string, definition string, hint string) (*models.Round, error)
	UpdateHint(ctx context.Context, id int64, hint string) error
	AddGuess(ctx context.Context, id int64, guess string, correct bool) (*models.Guess, error)
	FinishRound(ctx context.Context, id int64, outcome string, score int, winningGuess string) (*models.Round, error)
}

type Options struct {
	Logger *slog.Logger
	Config *config.Config
	// Journal is optional.
	Journal Journal
}

type Client struct {
	logger  *slog.Logger
	journal Journal

	m   sync.Mutex
	cfg *config.Config

	disp *dispatch.Dispatcher
	game *game.Machine

	started      atomic.Bool
	journalChan  chan game.Event
	droppedCount atomic.Uint64
}

func New(opts Options) (*Client, error) {
	if opts.Config == nil {
		return nil, errors.New("no config")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	cfg := opts.Config
	disp, err := dispatch.New(dispatch.Options{
		Logger:     opts.Logger.With(slog.String("component", "dispatch")),
		ListenAddr: cfg.Client.ListenAddr,
		Peer:       dispatch.Peer{Host: cfg.Server.Host, Port: cfg.Server.Port},
	})
	if err != nil {
		return nil, fmt.Errorf("dispatcher: %w", err)
	}

	machine := game.New(disp, game.Player{
		ANum:      cfg.Player.ANum,
		LastName:  cfg.Player.LastName,
		FirstName: cfg.Player.FirstName,
		Alias:     cfg.Player.Alias,
	}, opts.Logger.With(slog.String("component", "game")))
	machine.Register(disp)

	c := &Client{
		logger:  opts.Logger,
		journal: opts.Journal,
		cfg:     cfg,
		disp:    disp,
		game:    machine,
	}

	if c.journal != nil {
		c.journalChan = make(chan game.Event, journalQueueSize)
		machine.Subscribe(c.enqueue)
	}

	return c, nil
}

func (c *Client) Game() *game.Machine {
	return c.game
}

func (c *Client) Peer() dispatch.Peer {
	return c.disp.Peer()
}

// Run listens for datagrams from the server until ctx is canceled.
func (c *Client) Run(ctx context.Context) error {
	if !c.started.CompareAndSwap(false, true) {
		return errors.New("attempt to start client twice")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	if c.journal != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.runJournal(ctx)
		}()
	}

	err := c.disp.Run(ctx)
	cancel()
	wg.Wait()
	return err
}

// Reconfigure switches to a different server. A round in progress is
// exited first, and the new address is written to the config file.
func (c *Client) Reconfigure(ctx context.Context, peer dispatch.Peer) error {
	server := config.ServerConfig{Host: peer.Host, Port: peer.Port}
	if err := server.Validate(); err != nil {
		return err
	}

	if c.game.State().InRound() {
		if err := c.game.Exit(); err != nil && !errors.Is(err, game.ErrNoRound) {
			return fmt.Errorf("exit round: %w", err)
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	c.m.Lock()
	defer c.m.Unlock()

	prev := c.disp.Peer()
	if err := c.disp.SetPeer(peer); err != nil {
		return err
	}

	path := c.cfg.File
	if path == "" {
		path = config.DefaultFile
	}
	if err := config.Save(path, server); err != nil {
		if restoreErr := c.disp.SetPeer(prev); restoreErr != nil {
			c.logger.Error("Unable to restore previous peer",
				slog.String("peer", prev.String()),
				slog.Any("err", restoreErr))
		}
		return fmt.Errorf("save config: %w", err)
	}

	c.cfg.Server = server
	c.cfg.File = path
	c.logger.Info("Switched game server", slog.String("peer", peer.String()), slog.String("config", path))
	return nil
}

// Close releases the socket. It is only needed when Run was never called.
func (c *Client) Close() {
	c.disp.Close()
}

func (c *Client) enqueue(ev game.Event) {
	select {
	case c.journalChan <- ev:
	default:
		c.logger.Warn("Journal queue full, dropping event",
			slog.String("event", ev.Type.String()),
			slog.Uint64("dropped", c.droppedCount.Add(1)))
	}
}
