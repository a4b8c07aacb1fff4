package layout

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Grid lays slots out as a vertical photo wall facing the viewer: x across,
// y up, z = 0. Column count follows the photo aspect so the wall itself comes
// out roughly screen-shaped.
type Grid struct{}

func (Grid) Generate(totalSlots int, t float64, p Params) (PatternState, error) {
	n := clampCount(totalSlots)
	size := positive(p.PhotoSize, 1)
	aspect := positive(p.PhotoAspect, 16.0/9.0)

	cols := int(math.Ceil(math.Sqrt(float64(n) * aspect)))
	if cols < 1 {
		cols = 1
	}
	rows := (n + cols - 1) / cols

	// spacing==0 is the solid-wall mode: pitch is exactly one photo footprint
	// on each axis, no motion, no rotation. Any positive spacing opens an
	// identical gap on both axes and unlocks the idle bobbing.
	pitchX := size * aspect
	pitchY := size
	if p.Spacing > 0 {
		gap := p.Spacing * size * 2
		pitchX += gap
		pitchY += gap
	}

	wallHeight := positive(p.WallHeight, float64(rows)*pitchY/2)
	tw := animTime(t, p)
	animated := p.Spacing > 0 && p.AnimationEnabled

	state := PatternState{
		Positions: make([]mgl64.Vec3, n),
		Rotations: make([]mgl64.Vec3, n),
	}
	for i := 0; i < n; i++ {
		row := i / cols
		col := i % cols
		x := (float64(col) - float64(cols-1)/2) * pitchX
		y := wallHeight + (float64(rows-1)/2-float64(row))*pitchY
		z := 0.0

		var rot mgl64.Vec3
		if animated {
			fi := float64(i)
			y += 0.08 * size * math.Sin(tw*0.8+fi*0.97)
			z += 0.05 * size * math.Sin(tw*0.5+fi*1.53)
			rot = mgl64.Vec3{
				0.03 * math.Sin(tw*0.7+fi*1.31),
				0,
				0.04 * math.Sin(tw*0.6+fi*0.83),
			}
		}

		state.Positions[i] = mgl64.Vec3{x, y, z}
		state.Rotations[i] = rot
	}
	return state, nil
}

// GridDims reports the column/row split Grid uses for a slot count and aspect.
func GridDims(totalSlots int, aspect float64) (cols, rows int) {
	n := clampCount(totalSlots)
	aspect = positive(aspect, 16.0/9.0)
	cols = int(math.Ceil(math.Sqrt(float64(n) * aspect)))
	if cols < 1 {
		cols = 1
	}
	rows = (n + cols - 1) / cols
	return cols, rows
}

func positive(v, fallback float64) float64 {
	if v <= 0 {
		return fallback
	}
	return v
}
