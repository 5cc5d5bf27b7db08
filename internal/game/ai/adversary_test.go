package ai_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cory-johannsen/seabattle/internal/game/ai"
	"github.com/cory-johannsen/seabattle/internal/game/board"
	"github.com/cory-johannsen/seabattle/internal/game/dice"
)

// shipAt22 returns a revealed board holding one horizontal ship on 22, 23, 24.
func shipAt22(t *testing.T) *board.Board {
	t.Helper()
	b := board.NewBoard(dice.NewScriptedSource([]int{2, 2}, []bool{true}), true)
	p := b.PlaceShipsRandomly(1)
	require.True(t, p.Complete())
	return b
}

// fire selects a guess, resolves it on b and feeds the result back.
func fire(t *testing.T, a *ai.Adversary, b *board.Board) board.GuessResult {
	t.Helper()
	c, err := a.SelectGuess(b.Guessed())
	require.NoError(t, err)
	res := b.ProcessGuess(c)
	require.True(t, res.Resolved(), "adversary fired at a guessed cell %s", c)
	a.RecordResult(c, res.IsHit(), res.Sunk)
	return res
}

func TestAdversary_HuntTargetSinkSequence(t *testing.T) {
	b := shipAt22(t)
	a := ai.New("", dice.NewScriptedSource([]int{2, 2}, nil), nil)
	assert.Equal(t, ai.DefaultName, a.Name())
	assert.Equal(t, ai.ModeHunt, a.Mode())

	res := fire(t, a, b)
	assert.Equal(t, board.GuessHit, res.Kind)
	assert.Equal(t, ai.ModeTarget, a.Mode())
	assert.Equal(t, coords("12", "32", "21", "23"), a.Queue())

	for _, want := range []string{"12", "32", "21"} {
		res = fire(t, a, b)
		assert.Equal(t, board.MustParse(want), res.Coordinate)
		assert.Equal(t, board.GuessMiss, res.Kind)
		assert.Equal(t, ai.ModeTarget, a.Mode())
	}

	res = fire(t, a, b)
	assert.Equal(t, board.MustParse("23"), res.Coordinate)
	assert.True(t, res.IsHit())
	assert.False(t, res.Sunk)
	assert.Equal(t, coords("13", "33", "24"), a.Queue())

	fire(t, a, b)
	fire(t, a, b)
	res = fire(t, a, b)
	assert.Equal(t, board.MustParse("24"), res.Coordinate)
	assert.True(t, res.Sunk)
	assert.Equal(t, ai.ModeHunt, a.Mode())
	assert.Empty(t, a.Queue())
	assert.True(t, b.AllSunk())

	assert.Equal(t, 8, a.GuessCount())
	assert.Equal(t, 3, a.HitCount())
	assert.InDelta(t, 37.5, a.HitRate(), 1e-9)
}

func TestAdversary_PreGuessedNeighborsAreNotQueued(t *testing.T) {
	pre := ai.State{Mode: ai.ModeHunt, Guesses: guesses("12", "21")}
	a := ai.NewFromState("Bot", pre, dice.NewScriptedSource([]int{2, 2}, nil), nil)

	c, err := a.SelectGuess(board.NewCoordinateSet(coords("12", "21")...))
	require.NoError(t, err)
	assert.Equal(t, board.MustParse("22"), c)
	a.RecordResult(c, true, false)
	assert.Equal(t, coords("32", "23"), a.Queue())
	assert.Len(t, pre.Guesses, 2, "NewFromState must not alias its argument")
}

func TestAdversary_NoCandidatesIsWrapped(t *testing.T) {
	a := ai.New("CPU", dice.NewScriptedSource(zeros(2*ai.MaxSelectAttempts), nil), nil)
	_, err := a.SelectGuess(allExcept())
	require.Error(t, err)
	assert.ErrorIs(t, err, ai.ErrNoCandidates)
	assert.Equal(t, 0, a.GuessCount())
}

func TestAdversary_StatsAndString(t *testing.T) {
	a := ai.New("CPU", dice.NewScriptedSource([]int{5, 5}, nil), nil)
	assert.Zero(t, a.HitRate())

	c, err := a.SelectGuess(nil)
	require.NoError(t, err)
	a.RecordResult(c, true, false)

	st := a.Stats()
	assert.Equal(t, ai.Stats{Name: "CPU", Mode: ai.ModeTarget, Guesses: 1, Hits: 1, HitRate: 100, QueueLength: 4}, st)
	assert.Equal(t, "CPU: CPU (Mode: target, Guesses: 1, Hits: 1)", a.String())
	assert.True(t, a.HasGuessed(board.MustParse("55")))
	require.Len(t, a.Hits(), 1)
	assert.Equal(t, ai.ModeHunt, a.Guesses()[0].Mode)
}

func TestAdversary_LogsTransitions(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	a := ai.New("CPU", dice.NewScriptedSource([]int{3, 4}, nil), zap.New(core))

	c, err := a.SelectGuess(nil)
	require.NoError(t, err)
	a.RecordResult(c, false, false)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "adversary selected guess", entries[0].Message)
	assert.Equal(t, "34", entries[0].ContextMap()["coord"])
	assert.Equal(t, "adversary recorded result", entries[1].Message)
	assert.Equal(t, false, entries[1].ContextMap()["hit"])
}
