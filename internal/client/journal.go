package client

import (
	"context"
	"log/slog"

	"github.com/wordgame/wordclient/internal/game"
)

func (c *Client) runJournal(ctx context.Context) {
	var total uint64
	logger := c.logger.With(slog.String("component", "journal"))
	defer func() {
		logger.Debug("Stopping journal", slog.Uint64("events", total))
	}()

	var rec journalRecorder
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-c.journalChan:
			if err := rec.record(ctx, c.journal, c.disp.Peer().String(), ev); err != nil {
				logger.Error("Unable to record round event",
					slog.String("event", ev.Type.String()),
					slog.Int("round", int(ev.Round.ID)),
					slog.Any("err", err))
			}
		}

		total++
	}
}

// journalRecorder maps game events onto journal writes. It remembers the
// journal id of the round being played.
type journalRecorder struct {
	id int64
}

func (r *journalRecorder) record(ctx context.Context, j Journal, peer string, ev game.Event) error {
	if ev.Type == game.EventRoundStarted {
		round, err := j.StartRound(ctx, ev.Round.ID, peer, ev.Round.Definition, ev.Round.Hint)
		if err != nil {
			r.id = 0
			return err
		}
		r.id = round.ID
		return nil
	}

	if r.id == 0 {
		return nil
	}

	switch ev.Type {
	case game.EventIncorrect:
		if _, err := j.AddGuess(ctx, r.id, ev.Guess, false); err != nil {
			return err
		}
		return j.UpdateHint(ctx, r.id, ev.Round.Hint)
	case game.EventHint:
		return j.UpdateHint(ctx, r.id, ev.Round.Hint)
	case game.EventCorrect:
		return r.finish(ctx, j, ev, ev.Guess)
	case game.EventRoundExited, game.EventRoundEnded:
		return r.finish(ctx, j, ev, "")
	}
	return nil
}

func (r *journalRecorder) finish(ctx context.Context, j Journal, ev game.Event, winningGuess string) error {
	id := r.id
	r.id = 0
	_, err := j.FinishRound(ctx, id, string(ev.Round.Outcome), int(ev.Round.Score), winningGuess)
	return err
}
