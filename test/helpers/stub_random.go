package helpers

// StubRandom returns a fixed fraction for every draw
type StubRandom struct {
	Value float64
}

func (s StubRandom) Float64() float64 { return s.Value }
func (s StubRandom) Intn(n int) int   { return int(s.Value * float64(n)) }
