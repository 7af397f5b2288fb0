package swerve

import (
	"math"
	"testing"

	"github.com/mkrett/swervesim/internal/geom"
)

func TestOptimizeKeepsShortTurn(t *testing.T) {
	angle, speed := Optimize(geom.DegToRad(45), 1.0, 0)
	if math.Abs(angle-geom.DegToRad(45)) > 1e-9 || speed != 1.0 {
		t.Errorf("45° from 0 should be kept, got %f°, %f", geom.RadToDeg(angle), speed)
	}
}

func TestOptimizeFlipsLongTurn(t *testing.T) {
	// 170° away: flip to -10° and drive backwards.
	angle, speed := Optimize(geom.DegToRad(170), 1.0, 0)
	if math.Abs(angle-geom.DegToRad(-10)) > 1e-9 {
		t.Errorf("expected -10°, got %f°", geom.RadToDeg(angle))
	}
	if speed != -1.0 {
		t.Errorf("expected speed -1.0, got %f", speed)
	}
}

func TestOptimizeNeverPicksLongRotation(t *testing.T) {
	for target := -math.Pi; target < math.Pi; target += 0.1 {
		for current := -math.Pi; current < math.Pi; current += 0.13 {
			angle, _ := Optimize(target, 1.0, current)
			if d := math.Abs(geom.Diff(angle, current)); d > math.Pi/2+1e-9 {
				t.Fatalf("Optimize(%f, %f) turns %f rad, more than π/2", target, current, d)
			}
		}
	}
}

func TestOptimizeBoundary(t *testing.T) {
	// Exactly 90° off: keep the requested angle, don't flip.
	angle, speed := Optimize(math.Pi/2, 2.0, 0)
	if math.Abs(angle-math.Pi/2) > 1e-9 || speed != 2.0 {
		t.Errorf("90° should not flip, got %f, %f", angle, speed)
	}
}

func TestSetpointVariant(t *testing.T) {
	sp := Disabled()
	if _, ok := sp.Angle(); ok {
		t.Error("disabled setpoint has no angle")
	}
	if _, ok := sp.Speed(); ok {
		t.Error("disabled setpoint has no speed")
	}

	sp = AngleOnly(1.0)
	if a, ok := sp.Angle(); !ok || a != 1.0 {
		t.Errorf("angle-only: got %f, %v", a, ok)
	}
	if _, ok := sp.Speed(); ok {
		t.Error("angle-only setpoint has no speed")
	}

	sp = AngleSpeed(1.0, 2.0)
	if v, ok := sp.Speed(); !ok || v != 2.0 {
		t.Errorf("angle+speed: got %f, %v", v, ok)
	}
}
