package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/seabattle/internal/game/battle"
)

var (
	// ErrResultNotFound is returned when no match result matches the query.
	ErrResultNotFound = errors.New("match result not found")
	// ErrResultExists is returned when a result with the same game ID was already saved.
	ErrResultExists = errors.New("match result already exists")
	// ErrNotFinished is returned when converting stats of a game that has no winner.
	ErrNotFinished = errors.New("game is not finished")
)

// MatchResult is the persisted record of one finished game.
type MatchResult struct {
	ID            uuid.UUID
	Winner        string
	Rounds        int
	PlayerName    string
	CPUName       string
	PlayerGuesses int
	PlayerHits    int
	CPUGuesses    int
	CPUHits       int
	Duration      time.Duration
	StartedAt     time.Time
	FinishedAt    time.Time
}

// ResultFromStats converts a final stats snapshot into a MatchResult.
//
// Precondition: s.Status must be StatusGameOver with a winner.
// Postcondition: Returns ErrNotFinished otherwise.
func ResultFromStats(s battle.Stats) (MatchResult, error) {
	if s.Status != battle.StatusGameOver || s.Winner == battle.SideNone {
		return MatchResult{}, fmt.Errorf("%w: status %s", ErrNotFinished, s.Status)
	}
	return MatchResult{
		ID:            s.GameID,
		Winner:        s.Winner.String(),
		Rounds:        s.Rounds,
		PlayerName:    s.PlayerName,
		CPUName:       s.CPUName,
		PlayerGuesses: s.PlayerGuesses,
		PlayerHits:    s.PlayerHits,
		CPUGuesses:    s.CPUGuesses,
		CPUHits:       s.CPUHits,
		Duration:      s.Elapsed,
		StartedAt:     s.StartedAt,
		FinishedAt:    s.EndedAt,
	}, nil
}

// Tally summarises every saved match.
type Tally struct {
	Played     int
	PlayerWins int
	CPUWins    int
}

// ResultRepository provides match result persistence operations.
type ResultRepository struct {
	db *pgxpool.Pool
}

// NewResultRepository creates a ResultRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewResultRepository(db *pgxpool.Pool) *ResultRepository {
	return &ResultRepository{db: db}
}

// Save inserts a match result.
//
// Precondition: r.ID must not be uuid.Nil.
// Postcondition: Returns ErrResultExists if the ID was already saved.
func (repo *ResultRepository) Save(ctx context.Context, r MatchResult) error {
	if r.ID == uuid.Nil {
		return fmt.Errorf("saving match result: nil id")
	}
	_, err := repo.db.Exec(ctx, `
		INSERT INTO match_results (
			id, winner, rounds, player_name, cpu_name,
			player_guesses, player_hits, cpu_guesses, cpu_hits,
			duration_ms, started_at, finished_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		r.ID, r.Winner, r.Rounds, r.PlayerName, r.CPUName,
		r.PlayerGuesses, r.PlayerHits, r.CPUGuesses, r.CPUHits,
		r.Duration.Milliseconds(), r.StartedAt, r.FinishedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrResultExists
		}
		return fmt.Errorf("saving match result: %w", err)
	}
	return nil
}

const selectResult = `
	SELECT id, winner, rounds, player_name, cpu_name,
	       player_guesses, player_hits, cpu_guesses, cpu_hits,
	       duration_ms, started_at, finished_at
	FROM match_results`

// Get retrieves a match result by game ID.
//
// Postcondition: Returns ErrResultNotFound if no row matches.
func (repo *ResultRepository) Get(ctx context.Context, id uuid.UUID) (MatchResult, error) {
	row := repo.db.QueryRow(ctx, selectResult+` WHERE id = $1`, id)
	r, err := scanResult(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return MatchResult{}, ErrResultNotFound
		}
		return MatchResult{}, fmt.Errorf("querying match result: %w", err)
	}
	return r, nil
}

// Recent returns up to limit results, most recently finished first.
//
// Precondition: limit must be > 0.
func (repo *ResultRepository) Recent(ctx context.Context, limit int) ([]MatchResult, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("listing match results: limit must be > 0, got %d", limit)
	}
	rows, err := repo.db.Query(ctx, selectResult+` ORDER BY finished_at DESC, id LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing match results: %w", err)
	}
	defer rows.Close()

	var out []MatchResult
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning match result: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing match results: %w", err)
	}
	return out, nil
}

// Tally counts saved matches by winner.
func (repo *ResultRepository) Tally(ctx context.Context) (Tally, error) {
	var t Tally
	err := repo.db.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE winner = 'player'),
		       COUNT(*) FILTER (WHERE winner = 'cpu')
		FROM match_results`,
	).Scan(&t.Played, &t.PlayerWins, &t.CPUWins)
	if err != nil {
		return Tally{}, fmt.Errorf("tallying match results: %w", err)
	}
	return t, nil
}

func scanResult(row pgx.Row) (MatchResult, error) {
	var r MatchResult
	var durationMS int64
	err := row.Scan(
		&r.ID, &r.Winner, &r.Rounds, &r.PlayerName, &r.CPUName,
		&r.PlayerGuesses, &r.PlayerHits, &r.CPUGuesses, &r.CPUHits,
		&durationMS, &r.StartedAt, &r.FinishedAt,
	)
	if err != nil {
		return MatchResult{}, err
	}
	r.Duration = time.Duration(durationMS) * time.Millisecond
	return r, nil
}
