package sim

import "testing"

// script replays a fixed sequence of IntN results.
type script struct {
	values []int
	i      int
}

func (s *script) IntN(n int) int {
	v := s.values[s.i%len(s.values)]
	s.i++
	return v % n
}

func TestNewSeededIsDeterministic(t *testing.T) {
	a := NewSeeded(42)
	b := NewSeeded(42)
	for i := 0; i < 100; i++ {
		if x, y := a.IntN(1000), b.IntN(1000); x != y {
			t.Fatalf("draw %d diverged: %d vs %d", i, x, y)
		}
	}
}

func TestChance(t *testing.T) {
	if Chance(&script{values: []int{2}}, 3, 4) != true {
		t.Fatalf("draw 2 of 4 should pass a 3/4 chance")
	}
	if Chance(&script{values: []int{3}}, 3, 4) != false {
		t.Fatalf("draw 3 of 4 should fail a 3/4 chance")
	}
	if Chance(&script{values: []int{0}}, 1, 0) {
		t.Fatalf("zero denominator must be false")
	}
}

func TestBetweenBounds(t *testing.T) {
	r := NewSeeded(7)
	for i := 0; i < 1000; i++ {
		v := Between(r, 10000, 99999)
		if v < 10000 || v > 99999 {
			t.Fatalf("out of range: %d", v)
		}
	}
	if got := Between(r, 5, 5); got != 5 {
		t.Fatalf("degenerate range should return lo, got %d", got)
	}
}

func TestPick(t *testing.T) {
	got := Pick(&script{values: []int{1}}, []string{"a", "b", "c"})
	if got != "b" {
		t.Fatalf("expected b, got %s", got)
	}
	if got := Pick(NewSeeded(1), []string(nil)); got != "" {
		t.Fatalf("empty choices should return zero value, got %q", got)
	}
}
