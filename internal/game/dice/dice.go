// Package dice provides the randomness abstraction shared by fleet placement
// and the adversary's hunt phase.
package dice

// Source is the randomness provider for the game core.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
	// Bool returns true or false with equal probability.
	Bool() bool
}
