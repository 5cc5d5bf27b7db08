package dice

import (
	"fmt"
	"sync"
)

// ScriptedSource replays fixed sequences of draws. Tests use it to force exact
// ship placements and adversary picks.
//
// Invariant: draws are consumed strictly in order; a sequence is never rewound.
type ScriptedSource struct {
	mu      sync.Mutex
	ints    []int
	bools   []bool
	nextInt int
	nextB   int
}

// NewScriptedSource returns a Source that yields ints for Intn and bools for Bool.
//
// Precondition: every value in ints must be valid for the n it will be drawn against.
func NewScriptedSource(ints []int, bools []bool) *ScriptedSource {
	return &ScriptedSource{
		ints:  append([]int(nil), ints...),
		bools: append([]bool(nil), bools...),
	}
}

// Intn returns the next scripted int.
//
// Precondition: n > 0 and the next scripted value is in [0, n).
// Panics when the int sequence is exhausted or the scripted value is out of range.
func (s *ScriptedSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.nextInt >= len(s.ints) {
		panic(fmt.Sprintf("dice: scripted int sequence exhausted after %d draws", len(s.ints)))
	}
	v := s.ints[s.nextInt]
	if v < 0 || v >= n {
		panic(fmt.Sprintf("dice: scripted int %d at draw %d is outside [0, %d)", v, s.nextInt, n))
	}
	s.nextInt++
	return v
}

// Bool returns the next scripted bool.
//
// Panics when the bool sequence is exhausted.
func (s *ScriptedSource) Bool() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.nextB >= len(s.bools) {
		panic(fmt.Sprintf("dice: scripted bool sequence exhausted after %d draws", len(s.bools)))
	}
	v := s.bools[s.nextB]
	s.nextB++
	return v
}

// Remaining reports how many scripted ints and bools have not been drawn yet.
func (s *ScriptedSource) Remaining() (ints, bools int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ints) - s.nextInt, len(s.bools) - s.nextB
}
