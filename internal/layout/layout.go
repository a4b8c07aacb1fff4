package layout

import (
	"fmt"
	"log"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"photodrift/internal/config"
)

// Params carries everything a pattern needs beyond slot count and time.
// Positions derive only from these values, so identical params at identical
// time always reproduce the same state.
type Params struct {
	PhotoSize        float64
	PhotoAspect      float64
	Spacing          float64
	AnimationEnabled bool
	AnimationSpeed   float64
	WallHeight       float64
	MinHoverHeight   float64
	CeilingHeight    float64
}

// ParamsFromSettings fills a Params from gallery settings plus the documented
// scene constants.
func ParamsFromSettings(g config.GallerySettings) Params {
	return Params{
		PhotoSize:        g.PhotoSize,
		PhotoAspect:      g.PhotoAspect,
		Spacing:          g.Spacing,
		AnimationEnabled: g.AnimationEnabled,
		AnimationSpeed:   g.AnimationSpeed,
		WallHeight:       config.DefaultWallHeight,
		MinHoverHeight:   config.DefaultMinHoverHeight,
		CeilingHeight:    config.DefaultCeilingHeight,
	}
}

// PatternState is one frame of layout: a pose per slot. Rotations are Euler
// angles in radians. Treated as an immutable snapshot once produced.
type PatternState struct {
	Positions []mgl64.Vec3 `json:"positions"`
	Rotations []mgl64.Vec3 `json:"rotations"`
}

// Generator computes the pose of every slot at animation time t (seconds).
// Implementations are pure: no clocks, no randomness, no retained state.
type Generator interface {
	Generate(totalSlots int, t float64, p Params) (PatternState, error)
}

// ForPattern returns the generator for a pattern name. Unknown names and the
// externally-animated float pattern fall back to the uniform lattice so the
// camera layer always has positions to work from.
func ForPattern(pat config.Pattern) Generator {
	switch pat {
	case config.PatternGrid:
		return Grid{}
	case config.PatternWave:
		return Wave{}
	case config.PatternSpiral:
		return Spiral{}
	}
	return Float{}
}

// SafeGenerate runs g and substitutes the fallback lattice when the generator
// panics, errors, or comes back short. The frame always has a usable pose for
// every slot.
func SafeGenerate(g Generator, totalSlots int, t float64, p Params) PatternState {
	n := clampCount(totalSlots)
	state, err := generate(g, n, t, p)
	if err != nil {
		log.Printf("[!] Pattern failed (%v), using fallback grid", err)
		return FallbackGrid(n, p)
	}
	if len(state.Positions) < n || len(state.Rotations) < n {
		log.Printf("[!] Pattern produced %d/%d poses, using fallback grid", len(state.Positions), n)
		return FallbackGrid(n, p)
	}
	return state
}

func generate(g Generator, n int, t float64, p Params) (state PatternState, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pattern panic: %v", r)
		}
	}()
	return g.Generate(n, t, p)
}

// FallbackGrid is the deterministic last-resort lattice: a static centered
// wall with uniform spacing and zero rotation.
func FallbackGrid(totalSlots int, p Params) PatternState {
	n := clampCount(totalSlots)
	cols := int(math.Ceil(math.Sqrt(float64(n))))
	rows := (n + cols - 1) / cols

	size := p.PhotoSize
	if size <= 0 {
		size = config.DefaultPhotoSize
	}
	aspect := p.PhotoAspect
	if aspect <= 0 {
		aspect = config.DefaultPhotoAspect
	}
	pitchX := size*aspect + size*0.5
	pitchY := size + size*0.5

	height := p.WallHeight
	if height <= 0 {
		height = config.DefaultWallHeight
	}

	state := PatternState{
		Positions: make([]mgl64.Vec3, n),
		Rotations: make([]mgl64.Vec3, n),
	}
	for i := 0; i < n; i++ {
		row := i / cols
		col := i % cols
		x := (float64(col) - float64(cols-1)/2) * pitchX
		y := height + (float64(rows-1)/2-float64(row))*pitchY
		state.Positions[i] = mgl64.Vec3{x, y, 0}
	}
	return state
}

func clampCount(n int) int {
	if n < config.MinTotalSlots {
		return config.MinTotalSlots
	}
	if n > config.MaxTotalSlots {
		return config.MaxTotalSlots
	}
	return n
}

// animTime collapses time to zero when animation is off, freezing every
// motion term while keeping the static shape intact.
func animTime(t float64, p Params) float64 {
	if !p.AnimationEnabled {
		return 0
	}
	speed := p.AnimationSpeed
	if speed <= 0 {
		speed = 1
	}
	return t * speed
}
