package layout

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Wave spreads slots over a coarse floor-plan grid and drives each one's
// height with a stack of independent sine terms. The per-slot phase keeps
// neighbours out of lockstep, and the summed height is clamped into the
// hover/ceiling band so nothing ever dips into the floor.
type Wave struct{}

// Amplitudes of the superposed terms. Their sum stays below half the default
// band so the clamp is a guard rail, not the shape.
const (
	wavePrimaryAmp = 0.60
	waveCrossAmp   = 0.45
	waveRadialAmp  = 0.50
	waveBreatheAmp = 0.25
	wavePhaseAmp   = 0.20
	waveTiltMax    = 0.15
)

func (Wave) Generate(totalSlots int, t float64, p Params) (PatternState, error) {
	n := clampCount(totalSlots)
	size := positive(p.PhotoSize, 1)
	aspect := positive(p.PhotoAspect, 16.0/9.0)

	floor := positive(p.MinHoverHeight, 0.6)
	ceiling := p.CeilingHeight
	if ceiling <= floor {
		ceiling = floor + 4
	}
	mid := (floor + ceiling) / 2

	cols := int(math.Ceil(math.Sqrt(float64(n))))
	if cols < 1 {
		cols = 1
	}
	rows := (n + cols - 1) / cols
	pitch := size*aspect*1.35 + p.Spacing*size*2

	tw := animTime(t, p)

	state := PatternState{
		Positions: make([]mgl64.Vec3, n),
		Rotations: make([]mgl64.Vec3, n),
	}
	for i := 0; i < n; i++ {
		row := i / cols
		col := i % cols
		x := (float64(col) - float64(cols-1)/2) * pitch
		z := (float64(row) - float64(rows-1)/2) * pitch
		fi := float64(i)

		r := math.Sqrt(x*x + z*z)
		h := mid +
			wavePrimaryAmp*math.Sin(x*0.55+tw*0.9) +
			waveCrossAmp*math.Sin(z*0.62-tw*0.7) +
			waveRadialAmp*math.Sin(r*0.48-tw*1.1) +
			waveBreatheAmp*math.Sin(tw*0.23) +
			wavePhaseAmp*math.Sin(tw*1.3+fi*2.39996)

		if h < floor {
			h = floor
		}
		if h > ceiling {
			h = ceiling
		}

		var rot mgl64.Vec3
		if p.AnimationEnabled {
			// Tilt follows the wave: displacement from the band midline sets
			// the lean so a crest pitches one way and a trough the other.
			lean := (h - mid) / (ceiling - mid)
			rot = mgl64.Vec3{
				clampF(-waveTiltMax*lean, -waveTiltMax, waveTiltMax),
				0,
				clampF(waveTiltMax*lean*0.6, -waveTiltMax, waveTiltMax),
			}
		}

		state.Positions[i] = mgl64.Vec3{x, h, z}
		state.Rotations[i] = rot
	}
	return state, nil
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
