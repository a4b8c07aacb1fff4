package layout

import (
	"math"
	"testing"
)

func TestWaveFloorAndCeiling(t *testing.T) {
	p := testParams()

	// Sweep a range of times; no slot may ever leave the height band.
	for _, tm := range []float64{0, 0.37, 1.0, 5.5, 17.3, 123.456, 10000} {
		state, err := Wave{}.Generate(60, tm, p)
		if err != nil {
			t.Fatalf("Generate failed at t=%f: %v", tm, err)
		}
		for i, pos := range state.Positions {
			if pos.Y() < p.MinHoverHeight {
				t.Fatalf("t=%f slot %d sank to %f, floor is %f", tm, i, pos.Y(), p.MinHoverHeight)
			}
			if pos.Y() > p.CeilingHeight {
				t.Fatalf("t=%f slot %d rose to %f, ceiling is %f", tm, i, pos.Y(), p.CeilingHeight)
			}
		}
	}
}

func TestWaveSlotsOutOfLockstep(t *testing.T) {
	p := testParams()

	a, _ := Wave{}.Generate(30, 2.0, p)
	b, _ := Wave{}.Generate(30, 2.5, p)

	// Collect per-slot height deltas; the per-slot phase term must keep them
	// from all being equal.
	deltas := map[float64]bool{}
	for i := range a.Positions {
		d := math.Round((b.Positions[i].Y()-a.Positions[i].Y())*1e9) / 1e9
		deltas[d] = true
	}
	if len(deltas) < 5 {
		t.Errorf("Only %d distinct height deltas across 30 slots, wave is in lockstep", len(deltas))
	}
}

func TestWaveTiltTracksHeight(t *testing.T) {
	p := testParams()
	state, _ := Wave{}.Generate(40, 3.3, p)

	mid := (p.MinHoverHeight + p.CeilingHeight) / 2
	for i, pos := range state.Positions {
		rot := state.Rotations[i]
		if math.Abs(rot.X()) > waveTiltMax+1e-9 || math.Abs(rot.Z()) > waveTiltMax+1e-9 {
			t.Errorf("Slot %d tilt %v exceeds limit", i, rot)
		}
		// Above the midline the x-tilt leans negative, below it positive.
		if pos.Y() > mid+1e-6 && rot.X() > 1e-9 {
			t.Errorf("Slot %d above midline but tilted %f", i, rot.X())
		}
		if pos.Y() < mid-1e-6 && rot.X() < -1e-9 {
			t.Errorf("Slot %d below midline but tilted %f", i, rot.X())
		}
	}

	p.AnimationEnabled = false
	state, _ = Wave{}.Generate(40, 3.3, p)
	for i, rot := range state.Rotations {
		if rot.Len() != 0 {
			t.Errorf("Slot %d rotated with animation disabled: %v", i, rot)
		}
	}
}

func TestWaveStaticWhenDisabled(t *testing.T) {
	p := testParams()
	p.AnimationEnabled = false

	a, _ := Wave{}.Generate(25, 1.0, p)
	b, _ := Wave{}.Generate(25, 77.7, p)
	for i := range a.Positions {
		if a.Positions[i] != b.Positions[i] {
			t.Errorf("Slot %d moved with animation disabled", i)
		}
	}
}
