package core

// SequenceSource is a scripted RandomSource for tests. Float64 and Intn each
// replay their own list of values and wrap around at the end.
type SequenceSource struct {
	Floats []float64
	Ints   []int

	fi int
	ii int
}

func (s *SequenceSource) Float64() float64 {
	if len(s.Floats) == 0 {
		return 0
	}
	v := s.Floats[s.fi%len(s.Floats)]
	s.fi++
	return v
}

func (s *SequenceSource) Intn(n int) int {
	if n <= 0 {
		panic("Intn: n <= 0")
	}
	if len(s.Ints) == 0 {
		return 0
	}
	v := s.Ints[s.ii%len(s.Ints)] % n
	s.ii++
	return v
}
