package core

import "testing"

func TestRNGDeterministic(t *testing.T) {
	a := NewRNG(12345)
	b := NewRNG(12345)

	for i := 0; i < 32; i++ {
		if got, want := a.Float64(), b.Float64(); got != want {
			t.Fatalf("draw %d diverged: %v != %v", i, got, want)
		}
	}
}

func TestRNGReseedReplays(t *testing.T) {
	r := NewRNG(7)
	first := []float64{r.Float64(), r.Float64(), r.Float64()}
	r.Reseed(7)
	for i, want := range first {
		if got := r.Float64(); got != want {
			t.Fatalf("replayed draw %d = %v, expected %v", i, got, want)
		}
	}
}

func TestRNGRangeBounds(t *testing.T) {
	r := NewRNG(99)
	for i := 0; i < 1000; i++ {
		v := r.Range(3, 6)
		if v < 3 || v >= 6 {
			t.Fatalf("Range(3, 6) produced %v", v)
		}
	}
	if got := r.Range(5, 5); got != 5 {
		t.Fatalf("degenerate range should return min, got %v", got)
	}
	if got := r.Range(8, 2); got != 8 {
		t.Fatalf("inverted range should return min, got %v", got)
	}
}

func TestRNGIntNAndChanceEdges(t *testing.T) {
	r := NewRNG(1)
	if got := r.IntN(0); got != 0 {
		t.Fatalf("IntN(0) = %d, expected 0", got)
	}
	if got := r.IntN(-4); got != 0 {
		t.Fatalf("IntN(-4) = %d, expected 0", got)
	}
	for i := 0; i < 100; i++ {
		if r.Chance(0) {
			t.Fatal("Chance(0) must never succeed")
		}
		if !r.Chance(1) {
			t.Fatal("Chance(1) must always succeed")
		}
	}
}

func TestRNGSignBalanced(t *testing.T) {
	r := NewRNG(2024)
	pos := 0
	for i := 0; i < 2000; i++ {
		s := r.Sign()
		if s != 1 && s != -1 {
			t.Fatalf("Sign produced %v", s)
		}
		if s > 0 {
			pos++
		}
	}
	if pos < 800 || pos > 1200 {
		t.Fatalf("Sign badly skewed: %d positives out of 2000", pos)
	}
}
