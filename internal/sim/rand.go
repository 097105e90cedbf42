package sim

import "math/rand/v2"

// Rand is the randomness the simulator consumes. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
	Shuffle(n int, swap func(i, j int))
}

// RandSource builds the generator used for one turn
type RandSource func(seed int64, turn int) Rand

// TurnRand derives a PCG generator from the game seed and turn number, so
// any turn can be replayed from a save without the earlier draws
func TurnRand(seed int64, turn int) Rand {
	return rand.New(rand.NewPCG(uint64(seed), uint64(turn)))
}
