package battle_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cory-johannsen/seabattle/internal/game/battle"
	"github.com/cory-johannsen/seabattle/internal/game/board"
	"github.com/cory-johannsen/seabattle/internal/game/dice"
	"github.com/cory-johannsen/seabattle/internal/game/player"
)

type sliceInput struct {
	guesses []string
	err     error
}

func (s *sliceInput) NextGuess(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(s.guesses) == 0 {
		if s.err != nil {
			return "", s.err
		}
		return "", io.EOF
	}
	g := s.guesses[0]
	s.guesses = s.guesses[1:]
	return g, nil
}

type recordingView struct {
	boards     int
	turns      []battle.TurnReport
	rejections []*battle.Rejection
	final      []battle.Stats
}

func (v *recordingView) ShowBoards(opponent, own board.Grid) { v.boards++ }
func (v *recordingView) ShowTurn(r battle.TurnReport) { v.turns = append(v.turns, r) }
func (v *recordingView) ShowRejection(r *battle.Rejection) { v.rejections = append(v.rejections, r) }
func (v *recordingView) ShowGameOver(s battle.Stats) { v.final = append(v.final, s) }

// stepClock advances one second per call.
func stepClock() func() time.Time {
	t := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

// rowsFleet places three horizontal ships on rows 0, 1 and 2 starting at
// column 0, for the player board and then for the cpu board.
func rowsFleet() (ints []int, bools []bool) {
	ints = []int{0, 0, 1, 0, 2, 0, 0, 0, 1, 0, 2, 0}
	bools = []bool{true, true, true, true, true, true}
	return ints, bools
}

func newRowsGame(t *testing.T, cpuDraws []int, opts battle.Options) (*battle.Game, *dice.ScriptedSource) {
	t.Helper()
	ints, bools := rowsFleet()
	src := dice.NewScriptedSource(append(ints, cpuDraws...), bools)
	g := battle.New(src, opts)
	require.NoError(t, g.Setup())
	return g, src
}

func TestSetup_PlacesBothFleets(t *testing.T) {
	g, _ := newRowsGame(t, nil, battle.Options{})
	assert.Equal(t, battle.StatusInProgress, g.Status())
	assert.Equal(t, board.CellShipVisible, g.PlayerGrid().At(board.MustParse("00")))
	assert.Equal(t, board.CellShipHidden, g.OpponentGrid().At(board.MustParse("22")))
	assert.Equal(t, board.CellWater, g.OpponentGrid().At(board.MustParse("23")))

	err := g.Setup()
	assert.ErrorIs(t, err, battle.ErrAlreadyStarted)
}

func TestNew_Defaults(t *testing.T) {
	g := battle.New(dice.NewSeededSource(1), battle.Options{})
	assert.Equal(t, battle.StatusSetup, g.Status())
	assert.Equal(t, battle.SideNone, g.Winner())
	assert.Equal(t, player.DefaultName, g.Player().Name())
	assert.Equal(t, "CPU", g.Adversary().Name())
	assert.NotEqual(t, g.ID(), battle.New(dice.NewSeededSource(1), battle.Options{}).ID())
	assert.Zero(t, g.Stats().Elapsed)

	_, err := g.PlayerTurn("00")
	assert.ErrorIs(t, err, battle.ErrNotInProgress)
	_, err = g.AdversaryTurn()
	assert.ErrorIs(t, err, battle.ErrNotInProgress)
}

func TestPlayerTurn_RejectionsDoNotConsumeTurn(t *testing.T) {
	g, _ := newRowsGame(t, nil, battle.Options{})

	cases := []struct {
		raw    string
		reason battle.Reason
		cause  error
	}{
		{"ab", battle.ReasonMalformed, player.ErrMalformedInput},
		{"123", battle.ReasonMalformed, player.ErrMalformedInput},
		{"", battle.ReasonMalformed, player.ErrMalformedInput},
	}
	for _, tc := range cases {
		_, err := g.PlayerTurn(tc.raw)
		var rej *battle.Rejection
		require.ErrorAs(t, err, &rej, "input %q", tc.raw)
		assert.Equal(t, tc.reason, rej.Reason)
		assert.ErrorIs(t, err, tc.cause)
	}
	assert.Equal(t, 0, g.Round())

	report, err := g.PlayerTurn("05")
	require.NoError(t, err)
	assert.Equal(t, board.GuessMiss, report.Result.Kind)
	assert.Equal(t, 1, report.Round)

	_, err = g.PlayerTurn("05")
	var rej *battle.Rejection
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, battle.ReasonDuplicate, rej.Reason)
	assert.ErrorIs(t, err, player.ErrDuplicateGuess)
	assert.Equal(t, 1, g.Round())
	assert.Equal(t, 1, g.Player().GuessCount())
	assert.Equal(t, 4, g.Stats().Rejections)
}

func TestRun_PlayerWinsMidRoundSkipsAdversary(t *testing.T) {
	var cpuDraws []int
	for col := 0; col < 8; col++ {
		cpuDraws = append(cpuDraws, 9, col)
	}
	g, src := newRowsGame(t, cpuDraws, battle.Options{PlayerName: "Ada", CPUName: "Bot", Clock: stepClock()})

	in := &sliceInput{guesses: []string{"ab", "00", "00", "01", "02", "10", "11", "12", "20", "21", "22"}}
	view := &recordingView{}
	require.NoError(t, g.Run(context.Background(), in, view))

	assert.Equal(t, battle.StatusGameOver, g.Status())
	assert.Equal(t, battle.SidePlayer, g.Winner())
	require.Len(t, view.final, 1)
	st := view.final[0]
	assert.Equal(t, g.ID(), st.GameID)
	assert.Equal(t, 9, st.Rounds)
	assert.Equal(t, 9, st.PlayerGuesses)
	assert.Equal(t, 9, st.PlayerHits)
	assert.InDelta(t, 100, st.PlayerHitRate, 1e-9)
	assert.Equal(t, 8, st.CPUGuesses, "the adversary must not fire after the player sinks the last ship")
	assert.Zero(t, st.CPUHits)
	assert.Zero(t, st.CPUShipsRemaining)
	assert.Equal(t, 3, st.PlayerShipsRemaining)
	assert.Equal(t, 2, st.Rejections)
	assert.Equal(t, time.Second, st.Elapsed)
	assert.Equal(t, "Ada", st.PlayerName)
	assert.Equal(t, "Bot", st.CPUName)

	require.Len(t, view.rejections, 2)
	assert.Equal(t, battle.ReasonMalformed, view.rejections[0].Reason)
	assert.Equal(t, battle.ReasonDuplicate, view.rejections[1].Reason)
	assert.Len(t, view.turns, 17)
	last := view.turns[len(view.turns)-1]
	assert.Equal(t, battle.SidePlayer, last.Side)
	assert.True(t, last.Result.Sunk)

	ints, _ := src.Remaining()
	assert.Zero(t, ints)
	assert.Empty(t, in.guesses)

	_, err := g.PlayerTurn("33")
	assert.ErrorIs(t, err, battle.ErrNotInProgress)
}

func TestRun_TurnOrderAlternates(t *testing.T) {
	g, _ := newRowsGame(t, []int{9, 9, 9, 8}, battle.Options{})
	in := &sliceInput{guesses: []string{"55", "66"}}
	view := &recordingView{}

	err := g.Run(context.Background(), in, view)
	require.ErrorIs(t, err, io.EOF)
	assert.Equal(t, battle.StatusAborted, g.Status())
	assert.Equal(t, battle.SideNone, g.Winner())
	require.Len(t, view.turns, 4)
	for i, r := range view.turns {
		want := battle.SidePlayer
		if i%2 == 1 {
			want = battle.SideCPU
		}
		assert.Equal(t, want, r.Side, "turn %d", i)
		assert.Equal(t, i/2+1, r.Round)
	}
	assert.Equal(t, board.MustParse("99"), view.turns[1].Result.Coordinate)
	assert.Equal(t, board.MustParse("98"), view.turns[3].Result.Coordinate)
	assert.Empty(t, view.final)
	assert.Equal(t, 3, view.boards)
}

func TestRun_InputErrorAborts(t *testing.T) {
	boom := errors.New("stdin closed")
	g, _ := newRowsGame(t, nil, battle.Options{})
	err := g.Run(context.Background(), &sliceInput{err: boom}, &recordingView{})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, battle.StatusAborted, g.Status())

	err = g.Run(context.Background(), &sliceInput{}, &recordingView{})
	assert.ErrorIs(t, err, battle.ErrNotInProgress)
}

func TestRun_CancelledContextAborts(t *testing.T) {
	g, _ := newRowsGame(t, nil, battle.Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := g.Run(ctx, &sliceInput{guesses: []string{"00"}}, &recordingView{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, battle.StatusAborted, g.Status())
}

func TestRun_RequiresSetup(t *testing.T) {
	g := battle.New(dice.NewSeededSource(3), battle.Options{})
	err := g.Run(context.Background(), &sliceInput{}, &recordingView{})
	assert.ErrorIs(t, err, battle.ErrNotInProgress)
	assert.Equal(t, battle.StatusSetup, g.Status())
}

func TestGame_LogsWithGameID(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	ints, bools := rowsFleet()
	g := battle.New(dice.NewScriptedSource(ints, bools), battle.Options{Logger: zap.New(core)})
	require.NoError(t, g.Setup())
	_, err := g.PlayerTurn("00")
	require.NoError(t, err)

	setup := logs.FilterMessage("game set up").All()
	require.Len(t, setup, 1)
	assert.Equal(t, g.ID().String(), setup[0].ContextMap()["game_id"])

	turns := logs.FilterMessage("turn resolved").All()
	require.Len(t, turns, 1)
	fields := turns[0].ContextMap()
	assert.Equal(t, "00", fields["coord"])
	assert.Equal(t, "hit", fields["outcome"])
}

func TestViews_FansOutInOrder(t *testing.T) {
	a, b := &recordingView{}, &recordingView{}
	vs := battle.Views{a, b}
	vs.ShowBoards(board.Grid{}, board.Grid{})
	vs.ShowTurn(battle.TurnReport{Round: 1})
	vs.ShowRejection(&battle.Rejection{Input: "x"})
	vs.ShowGameOver(battle.Stats{Rounds: 1})
	for _, v := range []*recordingView{a, b} {
		assert.Equal(t, 1, v.boards)
		assert.Len(t, v.turns, 1)
		assert.Len(t, v.rejections, 1)
		assert.Len(t, v.final, 1)
	}
}
