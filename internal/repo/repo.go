package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/wordgame/wordclient/internal/db"
	"github.com/wordgame/wordclient/internal/models"
)

var ErrNotFound = fmt.Errorf("not found: %w", sql.ErrNoRows)

type RoundsRepo struct {
	db  *sql.DB
	q   *db.Queries
	now func() time.Time
}

func New(sqldb *sql.DB) *RoundsRepo {
	return &RoundsRepo{
		db:  sqldb,
		q:   db.New(sqldb),
		now: time.Now,
	}
}

func (r *RoundsRepo) StartRound(ctx context.Context, roundID int16, peer string, definition string, hint string) (*models.Round, error) {
	dbRound, err := r.q.InsertRound(ctx, &db.InsertRoundParams{
		RoundID:    int64(roundID),
		Peer:       peer,
		Definition: definition,
		Hint:       hint,
		StartedAt:  db.Time(r.now()),
	})
	if err != nil {
		return nil, fmt.Errorf("insert round: %w", err)
	}

	return convertRound(dbRound), nil
}

func (r *RoundsRepo) UpdateHint(ctx context.Context, id int64, hint string) error {
	n, err := r.q.UpdateRoundHint(ctx, &db.UpdateRoundHintParams{Hint: hint, ID: id})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *RoundsRepo) AddGuess(ctx context.Context, id int64, guess string, correct bool) (*models.Guess, error) {
	dbGuess, err := r.q.InsertGuess(ctx, &db.InsertGuessParams{
		RoundRef:  id,
		Guess:     guess,
		Correct:   correct,
		CreatedAt: db.Time(r.now()),
	})
	if err != nil {
		return nil, fmt.Errorf("insert guess: %w", err)
	}

	return convertGuess(dbGuess), nil
}

// FinishRound records the outcome of a round together with the winning guess,
// if any.
func (r *RoundsRepo) FinishRound(ctx context.Context, id int64, outcome string, score int, winningGuess string) (*models.Round, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	q := r.q.WithTx(tx)
	now := r.now()
	if winningGuess != "" {
		if _, err := q.InsertGuess(ctx, &db.InsertGuessParams{
			RoundRef:  id,
			Guess:     winningGuess,
			Correct:   true,
			CreatedAt: db.Time(now),
		}); err != nil {
			return nil, fmt.Errorf("insert guess: %w", err)
		}
	}

	dbRound, err := q.FinishRound(ctx, &db.FinishRoundParams{
		Outcome:    outcome,
		Score:      int64(score),
		FinishedAt: db.Time(now),
		ID:         id,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("finish round: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return convertRound(dbRound), nil
}

// GetRound returns a round with all of its guesses.
func (r *RoundsRepo) GetRound(ctx context.Context, id int64) (*models.Round, error) {
	dbRound, err := r.q.GetRound(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	dbGuesses, err := r.q.ListGuessesByRound(ctx, id)
	if err != nil {
		return nil, err
	}

	round := convertRound(dbRound)
	for _, dbGuess := range dbGuesses {
		round.Guesses = append(round.Guesses, convertGuess(dbGuess))
	}
	return round, nil
}

// ListRounds returns the most recent rounds first, without their guesses.
func (r *RoundsRepo) ListRounds(ctx context.Context, limit int) ([]*models.Round, error) {
	dbRounds, err := r.q.ListRounds(ctx, int64(limit))
	if err != nil {
		return nil, err
	}

	rounds := make([]*models.Round, 0, len(dbRounds))
	for _, dbRound := range dbRounds {
		rounds = append(rounds, convertRound(dbRound))
	}
	return rounds, nil
}

func convertRound(dbRound *db.Round) *models.Round {
	return &models.Round{
		ID:         dbRound.ID,
		RoundID:    int16(dbRound.RoundID),
		Peer:       dbRound.Peer,
		Definition: dbRound.Definition,
		Hint:       dbRound.Hint,
		Outcome:    dbRound.Outcome,
		Score:      int(dbRound.Score),
		StartedAt:  time.Time(dbRound.StartedAt),
		FinishedAt: time.Time(dbRound.FinishedAt),
	}
}

func convertGuess(dbGuess *db.Guess) *models.Guess {
	return &models.Guess{
		ID:        dbGuess.ID,
		Guess:     dbGuess.Guess,
		Correct:   dbGuess.Correct,
		CreatedAt: time.Time(dbGuess.CreatedAt),
	}
}
