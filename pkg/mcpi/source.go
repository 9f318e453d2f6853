package mcpi

import "math/rand"

// SourceFunc builds a fresh PRNG source from a 64-bit seed. The
// algorithm behind a SourceFunc is an implementation parameter of the
// protocol: any algorithm works, but one deployment must use the same
// SourceFunc throughout for its results to be reproducible.
type SourceFunc func(seed uint64) rand.Source64

// StdSource builds a math/rand source. This is the default.
func StdSource(seed uint64) rand.Source64 {
	// rand.NewSource values implement Source64 since Go 1.8
	return rand.NewSource(int64(seed)).(rand.Source64)
}

// SplitSource builds a splitmix64 source. State is a single uint64, so
// per-worker construction is effectively free, and every 64-bit seed
// yields a distinct stream.
func SplitSource(seed uint64) rand.Source64 {
	s := splitmix64(seed)
	return &s
}

type splitmix64 uint64

var _ rand.Source64 = (*splitmix64)(nil)

func (s *splitmix64) Seed(seed int64) {
	*s = splitmix64(seed)
}

func (s *splitmix64) Int63() int64 {
	return int64(s.Uint64() >> 1)
}

func (s *splitmix64) Uint64() uint64 {
	*s += 0x9e3779b97f4a7c15
	x := uint64(*s)
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
