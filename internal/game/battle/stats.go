package battle

import (
	"time"

	"github.com/google/uuid"

	"github.com/cory-johannsen/seabattle/internal/game/ai"
)

// Stats is a read-only snapshot of a match.
type Stats struct {
	GameID     uuid.UUID
	Status     Status
	Winner     Side
	Rounds     int
	Rejections int

	PlayerName           string
	PlayerShipsRemaining int
	PlayerGuesses        int
	PlayerHits           int
	PlayerHitRate        float64

	CPUName           string
	CPUShipsRemaining int
	CPUGuesses        int
	CPUHits           int
	CPUHitRate        float64
	CPUMode           ai.Mode

	StartedAt time.Time
	EndedAt   time.Time
	// Elapsed runs from a successful Setup to the end of the game, or to now
	// while the game is in progress. Zero before Setup.
	Elapsed time.Duration
}

// Stats returns the current statistics snapshot.
func (g *Game) Stats() Stats {
	playerGuesses := g.player.GuessCount()
	playerHits := g.cpuBoard.HitCount()
	return Stats{
		GameID:               g.id,
		Status:               g.status,
		Winner:               g.winner,
		Rounds:               g.round,
		Rejections:           g.rejections,
		PlayerName:           g.player.Name(),
		PlayerShipsRemaining: g.playerBoard.RemainingShipCount(),
		PlayerGuesses:        playerGuesses,
		PlayerHits:           playerHits,
		PlayerHitRate:        percent(playerHits, playerGuesses),
		CPUName:              g.cpu.Name(),
		CPUShipsRemaining:    g.cpuBoard.RemainingShipCount(),
		CPUGuesses:           g.cpu.GuessCount(),
		CPUHits:              g.cpu.HitCount(),
		CPUHitRate:           g.cpu.HitRate(),
		CPUMode:              g.cpu.Mode(),
		StartedAt:            g.startedAt,
		EndedAt:              g.endedAt,
		Elapsed:              g.elapsed(),
	}
}

func (g *Game) elapsed() time.Duration {
	switch {
	case g.startedAt.IsZero():
		return 0
	case g.endedAt.IsZero():
		return g.now().Sub(g.startedAt)
	default:
		return g.endedAt.Sub(g.startedAt)
	}
}

func percent(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d) * 100
}
