package geom

import (
	"math"
	"testing"
)

func TestWrapPi(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{0, 0},
		{math.Pi / 2, math.Pi / 2},
		{math.Pi, -math.Pi},
		{-math.Pi, -math.Pi},
		{3 * math.Pi, -math.Pi},
		{2 * math.Pi, 0},
		{-3 * math.Pi / 2, math.Pi / 2},
	}

	for _, c := range cases {
		got := WrapPi(c.in)
		if math.Abs(got-c.want) > 1e-12 {
			t.Errorf("WrapPi(%f) = %f, want %f", c.in, got, c.want)
		}
	}
}

func TestDiff(t *testing.T) {
	// 350° to 10° should be a +20° rotation, not -340°
	got := Diff(DegToRad(10), DegToRad(350))
	if math.Abs(got-DegToRad(20)) > 1e-12 {
		t.Errorf("expected 20 deg, got %f deg", RadToDeg(got))
	}

	got = Diff(DegToRad(170), 0)
	if math.Abs(got-DegToRad(170)) > 1e-12 {
		t.Errorf("expected 170 deg, got %f deg", RadToDeg(got))
	}
}

func TestDiffBounded(t *testing.T) {
	for target := -7.0; target < 7.0; target += 0.37 {
		for current := -7.0; current < 7.0; current += 0.41 {
			d := Diff(target, current)
			if d < -math.Pi || d >= math.Pi {
				t.Fatalf("Diff(%f, %f) = %f out of [-pi, pi)", target, current, d)
			}
		}
	}
}
