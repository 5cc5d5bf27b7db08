package scripting

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/seabattle/internal/game/battle"
	"github.com/cory-johannsen/seabattle/internal/game/board"
	"github.com/cory-johannsen/seabattle/internal/game/dice"
)

// GuessHook is the Lua global a script must define.
const GuessHook = "next_guess"

// ErrScript wraps every failure raised by the script itself.
var ErrScript = errors.New("script error")

// Result labels passed to the script in each history entry.
const (
	ResultPending  = "pending"
	ResultHit      = "hit"
	ResultMiss     = "miss"
	ResultRejected = "rejected"
)

type entry struct {
	guess  string
	result string
	sunk   bool
}

// ScriptedInput asks a sandboxed Lua script for each guess.
//
// The script is called as next_guess(history), where history is an array of
// {guess=string, result=string, sunk=bool} tables in guess order. It must
// return a guess string, or nil to stop playing. ScriptedInput also
// implements battle.View so it can learn the result of each of its guesses.
type ScriptedInput struct {
	mu      sync.Mutex
	L       *lua.LState
	cancel  context.CancelFunc
	limit   int
	name    string
	logger  *zap.Logger
	history []entry
}

// Options configures a ScriptedInput.
type Options struct {
	// InstructionLimit bounds the loading chunk and each next_guess call.
	// 0 uses DefaultInstructionLimit.
	InstructionLimit int
	// Source backs engine.random. Defaults to dice.NewCryptoSource().
	Source dice.Source
	Logger *zap.Logger
}

// LoadFile creates a ScriptedInput from the Lua file at path.
//
// Postcondition: On success the script defines next_guess and
// the caller must Close the input when done.
func LoadFile(path string, opts Options) (*ScriptedInput, error) {
	return load(path, opts, func(L *lua.LState) error { return L.DoFile(path) })
}

// LoadString creates a ScriptedInput from Lua source; name is used in errors and logs.
func LoadString(name, source string, opts Options) (*ScriptedInput, error) {
	return load(name, opts, func(L *lua.LState) error { return L.DoString(source) })
}

func load(name string, opts Options, run func(*lua.LState) error) (*ScriptedInput, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	src := opts.Source
	if src == nil {
		src = dice.NewCryptoSource()
	}

	L, cancel := NewSandboxedState(opts.InstructionLimit)
	RegisterModules(L, src, logger)
	if err := run(L); err != nil {
		cancel()
		L.Close()
		return nil, fmt.Errorf("scripting: loading %q: %w: %v", name, ErrScript, err)
	}
	if fn := L.GetGlobal(GuessHook); fn.Type() != lua.LTFunction {
		cancel()
		L.Close()
		return nil, fmt.Errorf("scripting: %q does not define function %s: %w", name, GuessHook, ErrScript)
	}
	logger.Info("script loaded", zap.String("script", name))
	return &ScriptedInput{
		L:      L,
		cancel: cancel,
		limit:  opts.InstructionLimit,
		name:   name,
		logger: logger,
	}, nil
}

// NextGuess calls next_guess with the guess history.
//
// Postcondition: Returns io.EOF when the script returns nil, ctx.Err() when
// ctx ends the call, and an error wrapping ErrScript for runtime errors,
// exhausted instruction budgets and non-string results.
func (s *ScriptedInput) NextGuess(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.L == nil {
		return "", fmt.Errorf("scripting: %q: %w: input closed", s.name, ErrScript)
	}

	s.cancel()
	s.cancel = resetInstructionLimit(ctx, s.L, s.limit)

	err := s.L.CallByParam(lua.P{
		Fn:      s.L.GetGlobal(GuessHook),
		NRet:    1,
		Protect: true,
	}, s.historyTable())
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		s.logger.Warn("scripting: Lua runtime error", zap.String("script", s.name), zap.Error(err))
		return "", fmt.Errorf("scripting: %q: %w: %v", s.name, ErrScript, err)
	}
	ret := s.L.Get(-1)
	s.L.Pop(1)

	switch v := ret.(type) {
	case lua.LString:
		guess := string(v)
		s.history = append(s.history, entry{guess: guess, result: ResultPending})
		s.logger.Debug("script guess", zap.String("script", s.name), zap.String("guess", guess))
		return guess, nil
	default:
		if ret == lua.LNil {
			return "", io.EOF
		}
		return "", fmt.Errorf("scripting: %q: %w: %s returned %s, want string", s.name, ErrScript, GuessHook, ret.Type())
	}
}

func (s *ScriptedInput) historyTable() *lua.LTable {
	tbl := s.L.CreateTable(len(s.history), 0)
	for _, h := range s.history {
		e := s.L.CreateTable(0, 3)
		s.L.SetField(e, "guess", lua.LString(h.guess))
		s.L.SetField(e, "result", lua.LString(h.result))
		s.L.SetField(e, "sunk", lua.LBool(h.sunk))
		tbl.Append(e)
	}
	return tbl
}

// settle marks the most recent pending entry.
func (s *ScriptedInput) settle(result string, sunk bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n := len(s.history); n > 0 && s.history[n-1].result == ResultPending {
		s.history[n-1].result = result
		s.history[n-1].sunk = sunk
	}
}

// ShowTurn records the result of the script's own guesses.
func (s *ScriptedInput) ShowTurn(r battle.TurnReport) {
	if r.Side != battle.SidePlayer {
		return
	}
	result := ResultMiss
	if r.Result.IsHit() {
		result = ResultHit
	}
	s.settle(result, r.Result.Sunk)
}

// ShowRejection marks the last guess as rejected.
func (s *ScriptedInput) ShowRejection(*battle.Rejection) {
	s.settle(ResultRejected, false)
}

// ShowBoards is a no-op.
func (s *ScriptedInput) ShowBoards(board.Grid, board.Grid) {}

// ShowGameOver is a no-op.
func (s *ScriptedInput) ShowGameOver(battle.Stats) {}

// Close releases the Lua VM. It is safe to call more than once.
func (s *ScriptedInput) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.L == nil {
		return
	}
	s.cancel()
	s.L.Close()
	s.L = nil
}

var (
	_ battle.Input = (*ScriptedInput)(nil)
	_ battle.View  = (*ScriptedInput)(nil)
)
