package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/seabattle/internal/game/board"
	"github.com/cory-johannsen/seabattle/internal/game/dice"
)

// RegisterModules defines the engine global in L:
//
//	engine.log.debug(msg), engine.log.info(msg), engine.log.warn(msg)
//	engine.random(n)           -- uniform integer in [0, n)
//	engine.board.size          -- edge length of the grid
//	engine.board.coord(r, c)   -- "RC" text form, or nil when out of bounds
//
// Precondition: L must be from NewSandboxedState; src and logger must be non-nil.
func RegisterModules(L *lua.LState, src dice.Source, logger *zap.Logger) {
	engine := L.NewTable()

	log := L.NewTable()
	for name, fn := range map[string]func(string, ...zap.Field){
		"debug": logger.Debug,
		"info":  logger.Info,
		"warn":  logger.Warn,
	} {
		L.SetField(log, name, L.NewFunction(func(L *lua.LState) int {
			fn(L.CheckString(1), zap.String("source", "lua"))
			return 0
		}))
	}
	L.SetField(engine, "log", log)

	L.SetField(engine, "random", L.NewFunction(func(L *lua.LState) int {
		n := L.CheckInt(1)
		if n <= 0 {
			L.ArgError(1, "n must be positive")
			return 0
		}
		L.Push(lua.LNumber(src.Intn(n)))
		return 1
	}))

	b := L.NewTable()
	L.SetField(b, "size", lua.LNumber(board.Size))
	L.SetField(b, "coord", L.NewFunction(func(L *lua.LState) int {
		c := board.Coordinate{Row: L.CheckInt(1), Col: L.CheckInt(2)}
		if !c.InBounds() {
			L.Push(lua.LNil)
			return 1
		}
		L.Push(lua.LString(c.String()))
		return 1
	}))
	L.SetField(engine, "board", b)

	L.SetGlobal("engine", engine)
}
