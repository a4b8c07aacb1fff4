package layout

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Spiral arranges slots as a rotating funnel. Every slot draws a fixed
// four-value seed from its index, which decides whether it rides the funnel
// wall or drifts on an outer orbit, how high it sits, and how far it strays
// from the ideal spiral line. Nothing here reads a clock or an RNG, so the
// same index always lands in the same place.
type Spiral struct{}

const (
	spiralGoldenAngle  = 2.399963229728653 // pi * (3 - sqrt(5))
	spiralOrbitalFrac  = 0.18
	spiralHeightBias   = 1.6
	spiralBaseRadius   = 2.2
	spiralMaxRadius    = 9.0
	spiralAngularBase  = 0.22
	spiralOrbitalExtra = 1.8
)

func (Spiral) Generate(totalSlots int, t float64, p Params) (PatternState, error) {
	n := clampCount(totalSlots)

	floor := positive(p.MinHoverHeight, 0.6)
	ceiling := p.CeilingHeight
	if ceiling <= floor {
		ceiling = floor + 4
	}

	tw := animTime(t, p)

	state := PatternState{
		Positions: make([]mgl64.Vec3, n),
		Rotations: make([]mgl64.Vec3, n),
	}
	for i := 0; i < n; i++ {
		s0, s1, s2, s3 := spiralSeed(i)

		orbital := s2 < spiralOrbitalFrac
		height := math.Pow(s1, spiralHeightBias)

		radius := spiralBaseRadius + (spiralMaxRadius-spiralBaseRadius)*height
		radius += s0 * 0.5 // seed jitter, zero for slot 0
		if orbital {
			radius += spiralOrbitalExtra + s1*1.2
		}

		// Lower layers turn slower, so the funnel shears into a vortex.
		layerRate := 0.35 + 0.65*height
		angle := float64(i)*spiralGoldenAngle + s3*0.8 + tw*spiralAngularBase*layerRate

		y := floor + height*(ceiling-floor)
		if orbital {
			y += 0.25 * math.Sin(tw*0.9+float64(i)*1.7)
			y = clampF(y, floor, ceiling)
		}

		x := radius * math.Cos(angle)
		z := radius * math.Sin(angle)

		// Face the funnel axis, with a touch of outward lean on orbitals.
		rot := mgl64.Vec3{0, -angle, 0}
		if orbital {
			rot[0] = 0.08 * math.Sin(tw*0.6+float64(i))
		}

		state.Positions[i] = mgl64.Vec3{x, y, z}
		state.Rotations[i] = rot
	}
	return state, nil
}

// spiralSeed hashes a slot index into four floats in [0,1). The shape follows
// the classic fract(sin(i*k)*M) shader hash; index 0 pins the sin-derived
// members to zero, which keeps the first slot on the spiral's zero angle.
func spiralSeed(i int) (s0, s1, s2, s3 float64) {
	fi := float64(i)
	s0 = fract(math.Sin(fi*12.9898) * 43758.5453)
	s1 = fract(math.Sin(fi*78.2330) * 43758.5453)
	s2 = fract(math.Cos(fi*37.7190) * 24634.6345)
	s3 = fract(math.Sin(fi*93.9890) * 47453.5453)
	return s0, s1, s2, s3
}

func fract(x float64) float64 {
	return x - math.Floor(x)
}
