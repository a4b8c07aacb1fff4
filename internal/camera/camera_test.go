package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"photodrift/internal/config"
	"photodrift/internal/layout"
)

func testScene(t *testing.T, pat config.Pattern, slots int) layout.PatternState {
	t.Helper()
	p := layout.ParamsFromSettings(config.Default().Gallery)
	state := layout.SafeGenerate(layout.ForPattern(pat), slots, 0, p)
	if len(state.Positions) != slots {
		t.Fatalf("Scene setup produced %d positions, expected %d", len(state.Positions), slots)
	}
	return state
}

func allTourTypes() []config.AnimationType {
	return []config.AnimationType{
		config.AnimationShowcase,
		config.AnimationGalleryWalk,
		config.AnimationSpiralTour,
		config.AnimationWaveFollow,
		config.AnimationGridSweep,
		config.AnimationPhotoFocus,
	}
}

func TestBuildPathAllTypes(t *testing.T) {
	state := testScene(t, config.PatternWave, 40)
	occupied := []int{0, 3, 7, 12, 19, 25, 33}
	cam := config.Default().Camera

	for _, typ := range allTourTypes() {
		t.Run(string(typ), func(t *testing.T) {
			path, err := BuildPath(typ, state, occupied, cam)
			if err != nil {
				t.Fatalf("BuildPath failed: %v", err)
			}
			pos, look := path.ControlPoints()
			if len(pos) < 6 || len(pos) != len(look) {
				t.Fatalf("Expected matched control curves, got %d/%d points", len(pos), len(look))
			}
			// Two intermediates per waypoint pair: 3x the seed count.
			if len(pos)%3 != 0 {
				t.Errorf("Control count %d not a multiple of 3", len(pos))
			}
		})
	}
}

func TestPathLoopSeam(t *testing.T) {
	state := testScene(t, config.PatternSpiral, 60)
	occupied := []int{1, 5, 9, 14, 22, 40}
	cam := config.Default().Camera

	for _, typ := range allTourTypes() {
		t.Run(string(typ), func(t *testing.T) {
			path, err := BuildPath(typ, state, occupied, cam)
			if err != nil {
				t.Fatalf("BuildPath failed: %v", err)
			}
			gap := path.PositionAt(0).Sub(path.PositionAt(0.999999)).Len()
			if gap > 1e-3 {
				t.Errorf("Loop seam gap %g, expected < 1e-3", gap)
			}
		})
	}
}

func TestPathAntiFloorLook(t *testing.T) {
	scenes := map[config.Pattern]int{
		config.PatternGrid:   50,
		config.PatternWave:   50,
		config.PatternSpiral: 50,
	}
	occupied := []int{0, 2, 4, 8, 16, 32, 48}
	cam := config.Default().Camera

	for pat, slots := range scenes {
		state := testScene(t, pat, slots)
		for _, typ := range allTourTypes() {
			path, err := BuildPath(typ, state, occupied, cam)
			if err != nil {
				t.Fatalf("%s/%s: BuildPath failed: %v", pat, typ, err)
			}
			for i := 0; i <= 1000; i++ {
				u := float64(i) / 1000
				pos := path.PositionAt(u)
				look := path.LookAtAt(u)
				if look.Y() < pos.Y()-lookAtDrop-1e-9 {
					t.Fatalf("%s/%s t=%f: look height %f below camera %f - %v",
						pat, typ, u, look.Y(), pos.Y(), lookAtDrop)
				}
			}
		}
	}
}

func TestPathWrapUnbounded(t *testing.T) {
	state := testScene(t, config.PatternGrid, 24)
	path, err := BuildPath(config.AnimationShowcase, state, nil, config.Default().Camera)
	if err != nil {
		t.Fatalf("BuildPath failed: %v", err)
	}

	// Binary-exact parameters: wrapped sampling must agree bit for bit.
	for _, u := range []float64{0.25, 0.5, 0.75} {
		base := path.PositionAt(u)
		for _, shifted := range []float64{u + 1, u + 42, u - 3} {
			if got := path.PositionAt(shifted); got != base {
				t.Errorf("PositionAt(%f) = %v, expected PositionAt(%f) = %v", shifted, got, u, base)
			}
		}
	}
}

func TestBuildPathDeterminism(t *testing.T) {
	state := testScene(t, config.PatternWave, 30)
	occupied := []int{0, 1, 2, 3, 4}
	cam := config.Default().Camera

	a, err := BuildPath(config.AnimationPhotoFocus, state, occupied, cam)
	if err != nil {
		t.Fatalf("BuildPath failed: %v", err)
	}
	b, _ := BuildPath(config.AnimationPhotoFocus, state, occupied, cam)

	for i := 0; i <= 50; i++ {
		u := float64(i) / 50
		if a.PositionAt(u) != b.PositionAt(u) {
			t.Fatalf("Positions diverge at t=%f", u)
		}
		if a.LookAtAt(u) != b.LookAtAt(u) {
			t.Fatalf("Look targets diverge at t=%f", u)
		}
	}
}

func TestBuildPathFailures(t *testing.T) {
	state := testScene(t, config.PatternGrid, 10)
	cam := config.Default().Camera

	if _, err := BuildPath(config.AnimationNone, state, nil, cam); err == nil {
		t.Error("Expected error for animation type none")
	}
	if _, err := BuildPath(config.AnimationShowcase, layout.PatternState{}, nil, cam); err == nil {
		t.Error("Expected error for empty pattern state")
	}
	if _, err := BuildPath(config.AnimationPhotoFocus, state, nil, cam); err == nil {
		t.Error("Expected error for photo focus with no occupied slots")
	}
}

func TestPhotoFocusVisitsEveryStop(t *testing.T) {
	state := testScene(t, config.PatternWave, 30)
	occupied := []int{2, 11, 17, 28}
	cam := config.Default().Camera

	path, err := BuildPath(config.AnimationPhotoFocus, state, occupied, cam)
	if err != nil {
		t.Fatalf("BuildPath failed: %v", err)
	}

	// Every occupied photo must have some sample standing within reach.
	reach := cam.FocusDistance + 2.5
	for _, slot := range occupied {
		photo := state.Positions[slot]
		closest := math.Inf(1)
		for i := 0; i <= 600; i++ {
			d := path.PositionAt(float64(i) / 600).Sub(photo).Len()
			if d < closest {
				closest = d
			}
		}
		if closest > reach {
			t.Errorf("Slot %d: closest approach %f, expected within %f", slot, closest, reach)
		}
	}
}

func TestShowcaseLooksAlongTravel(t *testing.T) {
	state := testScene(t, config.PatternGrid, 36)
	path, err := BuildPath(config.AnimationShowcase, state, nil, config.Default().Camera)
	if err != nil {
		t.Fatalf("BuildPath failed: %v", err)
	}

	for i := 0; i < 20; i++ {
		u := float64(i) / 20
		pos := path.PositionAt(u)
		look := path.LookAtAt(u)

		// Horizontal gaze: the synthetic target rides at camera height.
		if math.Abs(look.Y()-pos.Y()) > 1e-9 {
			t.Errorf("t=%f: look height %f differs from camera height %f", u, look.Y(), pos.Y())
		}

		// And it points the way the camera is moving.
		dir, ok := path.travelDir(u)
		if !ok {
			continue
		}
		gaze := mgl64.Vec3{look.X() - pos.X(), 0, look.Z() - pos.Z()}
		if gaze.Len() < 1e-9 {
			t.Fatalf("t=%f: degenerate gaze", u)
		}
		if dot := gaze.Normalize().Dot(dir); dot < 0.99 {
			t.Errorf("t=%f: gaze deviates from travel direction (dot %f)", u, dot)
		}
	}
}

func TestGalleryWalkStaysAtEyeLevel(t *testing.T) {
	state := testScene(t, config.PatternGrid, 50)
	cam := config.Default().Camera
	path, err := BuildPath(config.AnimationGalleryWalk, state, nil, cam)
	if err != nil {
		t.Fatalf("BuildPath failed: %v", err)
	}

	lo := cam.BaseHeight - 1
	hi := cam.BaseHeight + cam.HeightVariation*2 + 1
	for i := 0; i <= 200; i++ {
		y := path.PositionAt(float64(i) / 200).Y()
		if y < lo || y > hi {
			t.Errorf("t=%f: walk height %f outside [%f, %f]", float64(i)/200, y, lo, hi)
		}
	}
}
