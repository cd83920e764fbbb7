package randomizer

import "math/rand"

// Source is the pseudo-random source the illustrative diagrams draw from.
// *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// New creates a deterministic source for the given seed
func New(seed int64) Source {
	return rand.New(rand.NewSource(seed))
}

// Uniform returns a value in [min, max)
func Uniform(src Source, min, max float64) float64 {
	return min + src.Float64()*(max-min)
}

// Scatter spreads synthetic points around a centre in unit space
type Scatter interface {
	Around(cx, cy float64) (float64, float64)
}

// clampUnit keeps a coordinate inside the unit square
func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
