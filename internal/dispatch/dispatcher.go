// Package dispatch owns the client's UDP socket. It accepts datagrams from
// the configured peer only, decodes them and routes them to the handler
// registered for their kind.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/alexbakker/tox4go/transport"
	"github.com/wordgame/wordclient/internal/wire"
	"golang.org/x/exp/maps"
)

// Handler is invoked with every accepted message of the kind it was
// registered for. Returned errors are logged.
type Handler func(msg *wire.Message) error

type Dispatcher struct {
	logger *slog.Logger
	tp     transport.Transport

	m        sync.RWMutex
	handlers map[wire.Kind]Handler
	peer     Peer
	peerAddr *net.UDPAddr

	started   atomic.Bool
	closeOnce sync.Once
}

type Options struct {
	Logger *slog.Logger
	// ListenAddr is the local UDP address to bind, ":0" picks a free port.
	ListenAddr string
	Peer       Peer
}

func New(opts Options) (*Dispatcher, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	peerAddr, err := opts.Peer.resolve()
	if err != nil {
		return nil, err
	}

	d := &Dispatcher{
		logger:   logger,
		handlers: make(map[wire.Kind]Handler),
		peer:     opts.Peer,
		peerAddr: peerAddr,
	}

	listenAddr := opts.ListenAddr
	if listenAddr == "" {
		listenAddr = ":0"
	}

	d.tp, err = transport.NewUDPTransport("udp", listenAddr, d.receive)
	if err != nil {
		return nil, fmt.Errorf("udp transport: %w", err)
	}

	return d, nil
}

// Handle registers h for kind, replacing any handler registered before.
// Unknown kinds are never decoded, so registering one has no effect.
func (d *Dispatcher) Handle(kind wire.Kind, h Handler) {
	if !kind.Valid() {
		d.logger.Warn("Ignoring handler for unknown kind", slog.String("kind", kind.String()))
		return
	}

	d.m.Lock()
	defer d.m.Unlock()
	d.handlers[kind] = h
}

// Kinds returns the kinds that currently have a handler, in tag order.
func (d *Dispatcher) Kinds() []wire.Kind {
	d.m.RLock()
	kinds := maps.Keys(d.handlers)
	d.m.RUnlock()

	slices.Sort(kinds)
	return kinds
}

// Peer returns the currently configured peer.
func (d *Dispatcher) Peer() Peer {
	d.m.RLock()
	defer d.m.RUnlock()
	return d.peer
}

// SetPeer switches the peer used for subsequent sends and filtering. Callers
// are responsible for tearing down any round in progress first.
func (d *Dispatcher) SetPeer(peer Peer) error {
	addr, err := peer.resolve()
	if err != nil {
		return err
	}

	d.m.Lock()
	d.peer = peer
	d.peerAddr = addr
	d.m.Unlock()

	d.logger.Info("Peer changed", slog.String("peer", peer.String()))
	return nil
}

// Send encodes a message and transmits it to the peer as a single datagram.
// It does not wait for a response.
func (d *Dispatcher) Send(kind wire.Kind, fields wire.Fields) error {
	msg := &wire.Message{Kind: kind, Fields: fields}
	data, err := msg.MarshalBinary()
	if err != nil {
		d.logger.Error("Unable to encode message", slog.String("kind", kind.String()), slog.Any("err", err))
		return err
	}

	d.m.RLock()
	addr := d.peerAddr
	d.m.RUnlock()

	d.logger.Debug("Sending message",
		slog.String("kind", kind.String()),
		slog.String("addr", addr.String()),
		slog.Int("size", len(data)))

	if err := d.tp.SendPacket(data, addr); err != nil {
		d.logger.Error("Unable to send message",
			slog.String("kind", kind.String()),
			slog.String("addr", addr.String()),
			slog.Any("err", err))
		return fmt.Errorf("send %s: %w", kind, err)
	}

	return nil
}

// Run receives datagrams until ctx is canceled or the socket fails. Handlers
// are invoked one at a time on the receiving goroutine. The socket is closed
// when Run returns.
func (d *Dispatcher) Run(ctx context.Context) error {
	if !d.started.CompareAndSwap(false, true) {
		return errors.New("attempt to start dispatcher twice")
	}

	d.logger.Info("Listening for messages",
		slog.String("peer", d.Peer().String()),
		slog.Any("handlers", d.Kinds()))

	listenErrChan := make(chan error, 1)
	go func() {
		defer close(listenErrChan)

		if err := d.tp.Listen(); err != nil {
			listenErrChan <- err
		}
	}()

	var err error
	select {
	case err = <-listenErrChan:
	case <-ctx.Done():
		err = ctx.Err()
	}

	d.Close()
	<-listenErrChan
	return err
}

// Close releases the socket. It's safe to call more than once.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		d.tp.Close()
	})
}

// receive is called by the transport for every inbound datagram. The data
// slice is reused once it returns.
func (d *Dispatcher) receive(data []byte, addr *net.UDPAddr) {
	d.m.RLock()
	peerAddr := d.peerAddr
	d.m.RUnlock()

	if !sameAddr(addr, peerAddr) {
		d.logger.Debug("Ignoring datagram from foreign sender", slog.String("addr", addr.String()))
		return
	}

	kind, fields, err := wire.Decode(data)
	if err != nil {
		d.logger.Warn("Dropping undecodable message",
			slog.String("addr", addr.String()),
			slog.Int("size", len(data)),
			slog.Any("err", err))
		return
	}

	logger := d.logger.With(slog.String("kind", kind.String()))

	d.m.RLock()
	h := d.handlers[kind]
	d.m.RUnlock()
	if h == nil {
		logger.Warn("No handler for message")
		return
	}

	logger.Debug("Handling message", slog.Any("fields", fields))
	if err := h(&wire.Message{Kind: kind, Fields: fields}); err != nil {
		logger.Error("Unable to handle message", slog.Any("err", err))
	}
}
