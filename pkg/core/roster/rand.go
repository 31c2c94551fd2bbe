package roster

// tieBreakSeed is the fixed seed every schedule generation starts from.
// Identical input must produce an identical schedule, so tie-breaking
// runs on this generator rather than math/rand. The seed must be
// non-zero or xorshift degenerates to a constant stream.
const tieBreakSeed uint32 = 1

// xorshift32 is a tiny deterministic PRNG. One value is created per
// schedule-generation run and threaded through the engine; it advances
// monotonically for the whole run and is never shared across runs.
type xorshift32 struct {
	state uint32
}

func newTieBreaker() *xorshift32 {
	return &xorshift32{state: tieBreakSeed}
}

// next returns a uniform value in [0, 1) with 1/1000 resolution.
func (x *xorshift32) next() float64 {
	x.state ^= x.state << 13
	x.state ^= x.state >> 17
	x.state ^= x.state << 5
	return float64(x.state%1000) / 1000
}

// shuffle permutes names in place using Fisher-Yates driven by next.
func (x *xorshift32) shuffle(names []string) {
	for m := len(names); m > 0; {
		i := int(x.next() * float64(m))
		m--
		names[m], names[i] = names[i], names[m]
	}
}
