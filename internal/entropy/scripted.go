package entropy

// Scripted replays queued values in order. Tests use it to force a specific
// outcome from a probability check or weighted draw. When a queue runs dry the
// zero value is returned, which lands on the first weighted option and passes
// any probability check with a positive threshold, so tests that must fail a
// check have to queue a large float explicitly.
type Scripted struct {
	Floats []float64
	Ints   []int
}

// Float pops the next queued float, or 0.
func (s *Scripted) Float() float64 {
	if len(s.Floats) == 0 {
		return 0
	}
	v := s.Floats[0]
	s.Floats = s.Floats[1:]
	return v
}

// IntBetween pops the next queued int clamped to [min, max], or min.
func (s *Scripted) IntBetween(min, max int) int {
	if len(s.Ints) == 0 {
		return min
	}
	v := s.Ints[0]
	s.Ints = s.Ints[1:]
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
