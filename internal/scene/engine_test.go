package scene

import (
	"testing"
	"time"

	"photodrift/internal/cinematic"
	"photodrift/internal/config"
	"photodrift/internal/gallery"
)

func testPhotos(n int) []gallery.Photo {
	photos := make([]gallery.Photo, n)
	for i := range photos {
		photos[i] = gallery.Photo{
			ID:        string(rune('a' + i)),
			URL:       "/photos/" + string(rune('a'+i)),
			Width:     1600,
			Height:    900,
			CreatedAt: time.Unix(int64(i+1), 0),
		}
	}
	return photos
}

// ticker steps an engine with a deterministic clock.
type ticker struct {
	e   *Engine
	now time.Time
}

func newTicker(e *Engine) *ticker {
	return &ticker{e: e, now: time.Unix(1000, 0)}
}

func (tk *ticker) tick() FrameState {
	tk.now = tk.now.Add(33 * time.Millisecond)
	return tk.e.Tick(tk.now)
}

func (tk *ticker) run(n int) FrameState {
	var f FrameState
	for i := 0; i < n; i++ {
		f = tk.tick()
	}
	return f
}

func TestEngineFrame(t *testing.T) {
	cfg := config.Default()
	cfg.Gallery.TotalSlots = 12
	e := NewEngine(cfg)
	e.SetPhotos(testPhotos(5))
	tk := newTicker(e)

	frame := tk.run(3)
	if len(frame.Positions) != 12 || len(frame.Rotations) != 12 {
		t.Fatalf("Expected 12 poses, got %d/%d", len(frame.Positions), len(frame.Rotations))
	}
	if len(frame.Slots) != 12 {
		t.Fatalf("Expected 12 display slots, got %d", len(frame.Slots))
	}
	if frame.PhotoCount != 5 {
		t.Errorf("PhotoCount = %d, expected 5", frame.PhotoCount)
	}
	for i := 0; i < 5; i++ {
		if frame.Slots[i].Placeholder {
			t.Errorf("Slot %d should hold a photo", i)
		}
	}
	for i := 5; i < 12; i++ {
		if !frame.Slots[i].Placeholder {
			t.Errorf("Slot %d should be a placeholder", i)
		}
	}
	if frame.CameraState != cinematic.StateAutonomous {
		t.Errorf("Expected autonomous camera, got %s", frame.CameraState)
	}
	if frame.Time <= 0 {
		t.Errorf("Clock did not advance: %f", frame.Time)
	}
}

func TestEnginePatternChangeBlends(t *testing.T) {
	cfg := config.Default()
	cfg.Gallery.TotalSlots = 16
	e := NewEngine(cfg)
	e.SetPhotos(testPhotos(6))
	tk := newTicker(e)
	tk.run(5)

	next := e.Settings()
	next.Gallery.Pattern = config.PatternSpiral
	e.SetSettings(next)

	frame := tk.tick()
	if frame.Pattern != config.PatternSpiral {
		t.Fatalf("Pattern = %s, expected spiral", frame.Pattern)
	}
	if frame.CameraState != cinematic.StatePatternTransitioning {
		t.Errorf("Expected pattern transition, got %s", frame.CameraState)
	}
}

func TestEngineTourTypeChangeBlends(t *testing.T) {
	cfg := config.Default()
	e := NewEngine(cfg)
	e.SetPhotos(testPhotos(6))
	tk := newTicker(e)
	tk.run(5)

	next := e.Settings()
	next.Camera.Type = config.AnimationGridSweep
	e.SetSettings(next)

	frame := tk.tick()
	if frame.CameraState != cinematic.StatePatternTransitioning {
		t.Errorf("Expected pattern transition on tour change, got %s", frame.CameraState)
	}
	if frame.BlendFactor < 0 || frame.BlendFactor > 1 {
		t.Errorf("Blend factor %f outside [0,1]", frame.BlendFactor)
	}
}

func TestEngineOccupancyRebuildIsSilent(t *testing.T) {
	cfg := config.Default()
	cfg.Gallery.TotalSlots = 10
	e := NewEngine(cfg)
	e.SetPhotos(testPhotos(3))
	tk := newTicker(e)
	tk.run(5)

	// New photo changes occupancy: path rebuilds without a camera blend.
	e.SetPhotos(testPhotos(4))
	frame := tk.tick()
	if frame.CameraState != cinematic.StateAutonomous {
		t.Errorf("Expected silent rebuild, got %s", frame.CameraState)
	}
	if frame.PhotoCount != 4 {
		t.Errorf("PhotoCount = %d, expected 4", frame.PhotoCount)
	}
}

func TestEngineInputTakesControl(t *testing.T) {
	e := NewEngine(config.Default())
	e.SetPhotos(testPhotos(4))
	tk := newTicker(e)
	tk.run(3)

	e.PushInput(cinematic.InputEvent{Kind: cinematic.PointerDown})
	frame := tk.tick()
	if frame.CameraState != cinematic.StateUserControlled {
		t.Errorf("Expected user control after input, got %s", frame.CameraState)
	}
}

func TestEngineCameraDisabled(t *testing.T) {
	cfg := config.Default()
	cfg.Camera.Enabled = false
	e := NewEngine(cfg)
	e.SetPhotos(testPhotos(4))
	tk := newTicker(e)

	frame := tk.run(3)
	if frame.CameraState != cinematic.StateUserControlled {
		t.Errorf("Expected user control when disabled, got %s", frame.CameraState)
	}
}

func TestEnginePhotoFocusNeedsPhotos(t *testing.T) {
	cfg := config.Default()
	cfg.Camera.Type = config.AnimationPhotoFocus
	e := NewEngine(cfg)
	tk := newTicker(e)

	// No photos at all: no tour can be built, user keeps the camera.
	frame := tk.run(3)
	if frame.CameraState != cinematic.StateUserControlled {
		t.Errorf("Expected user control with no photos, got %s", frame.CameraState)
	}

	// Photos arriving bring the tour up once the resume cooldown passes.
	e.SetPhotos(testPhotos(5))
	frame = tk.run(40)
	if frame.CameraState == cinematic.StateUserControlled {
		t.Errorf("Expected tour to start once photos exist, got %s", frame.CameraState)
	}
}

func TestEngineSlotCountSettings(t *testing.T) {
	cfg := config.Default()
	cfg.Gallery.TotalSlots = 8
	e := NewEngine(cfg)
	e.SetPhotos(testPhotos(3))
	tk := newTicker(e)
	tk.run(2)

	next := e.Settings()
	next.Gallery.TotalSlots = 20
	e.SetSettings(next)
	frame := tk.tick()
	if len(frame.Slots) != 20 {
		t.Errorf("Expected 20 slots after resize, got %d", len(frame.Slots))
	}

	// Out-of-range request is clamped, not rejected.
	next.Gallery.TotalSlots = 9999
	e.SetSettings(next)
	frame = tk.tick()
	if len(frame.Slots) != config.MaxTotalSlots {
		t.Errorf("Expected clamp to %d slots, got %d", config.MaxTotalSlots, len(frame.Slots))
	}
}

func TestEngineFloatPatternExternal(t *testing.T) {
	cfg := config.Default()
	cfg.Gallery.Pattern = config.PatternFloat
	e := NewEngine(cfg)
	e.SetPhotos(testPhotos(4))
	tk := newTicker(e)

	frame := tk.run(2)
	if !frame.PatternExternal {
		t.Error("Float pattern should flag the frame as externally animated")
	}
	if len(frame.Positions) != cfg.Gallery.TotalSlots {
		t.Errorf("Float still anchors %d positions, got %d", cfg.Gallery.TotalSlots, len(frame.Positions))
	}
}

func TestEngineClockClampsStalls(t *testing.T) {
	e := NewEngine(config.Default())
	e.SetPhotos(testPhotos(4))
	tk := newTicker(e)
	before := tk.run(2).Time

	// A 10 second host stall advances the scene clock by the bounded step.
	tk.now = tk.now.Add(10 * time.Second)
	after := tk.tick().Time
	if gap := after - before; gap > maxTickDelta+0.034 {
		t.Errorf("Stall leaked into the clock: %f", gap)
	}
}

func TestEngineSnapshotMatchesTick(t *testing.T) {
	e := NewEngine(config.Default())
	e.SetPhotos(testPhotos(4))
	tk := newTicker(e)

	frame := tk.run(4)
	snap := e.Snapshot()
	if snap.Tick != frame.Tick {
		t.Errorf("Snapshot tick %d, expected %d", snap.Tick, frame.Tick)
	}
	if snap.Camera != frame.Camera {
		t.Errorf("Snapshot camera differs from returned frame")
	}
}

func TestEngineDeterministicReplay(t *testing.T) {
	build := func() FrameState {
		cfg := config.Default()
		cfg.Gallery.TotalSlots = 30
		e := NewEngine(cfg)
		e.SetPhotos(testPhotos(8))
		tk := newTicker(e)
		return tk.run(20)
	}

	a, b := build(), build()
	if a.Tick != b.Tick || a.Time != b.Time {
		t.Fatalf("Replays diverged: tick %d/%d time %f/%f", a.Tick, b.Tick, a.Time, b.Time)
	}
	for i := range a.Positions {
		if a.Positions[i] != b.Positions[i] {
			t.Fatalf("Slot %d positions diverge across replays", i)
		}
	}
	if a.Camera != b.Camera {
		t.Errorf("Camera poses diverge across replays")
	}
}
