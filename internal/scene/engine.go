package scene

import (
	"log"
	"sort"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"photodrift/internal/camera"
	"photodrift/internal/cinematic"
	"photodrift/internal/config"
	"photodrift/internal/gallery"
	"photodrift/internal/layout"
)

// maxTickDelta absorbs host stalls: a frozen tab or paused process resumes
// with one bounded step instead of a giant jump.
const maxTickDelta = 0.25

// FrameState is the engine's output for one tick: everything a display layer
// needs to draw the scene and place the camera.
type FrameState struct {
	Tick            uint64                `json:"tick"`
	Time            float64               `json:"time"`
	Pattern         config.Pattern        `json:"pattern"`
	PatternExternal bool                  `json:"patternExternal"`
	Positions       []mgl64.Vec3          `json:"positions"`
	Rotations       []mgl64.Vec3          `json:"rotations"`
	Slots           []gallery.DisplayItem `json:"slots"`
	PhotoCount      int                   `json:"photoCount"`
	Camera          cinematic.Pose        `json:"camera"`
	CameraState     cinematic.State       `json:"cameraState"`
	BlendFactor     float64               `json:"blendFactor"`
	PathParam       float64               `json:"pathParam"`
}

// Engine runs the per-frame pipeline: photo intake, slot assignment, pattern
// evaluation, path upkeep, camera update, snapshot. Tick runs on exactly one
// goroutine; SetPhotos, SetSettings and PushInput may be called from any.
type Engine struct {
	mu              sync.Mutex
	pendingPhotos   []gallery.Photo
	photosPending   bool
	pendingSettings *config.Settings
	snapshot        FrameState
	liveSettings    config.Settings

	settings config.Settings
	slots    *gallery.SlotManager
	photos   []gallery.Photo
	ctrl     *cinematic.Controller

	path         *camera.Path
	pathType     config.AnimationType
	pathPattern  config.Pattern
	pathSlots    int
	pathOccupied []int

	clock   float64
	tick    uint64
	lastNow time.Time
	started bool
}

func NewEngine(cfg config.Settings) *Engine {
	cfg.Clamp()
	return &Engine{
		settings:     cfg,
		liveSettings: cfg,
		slots:        gallery.NewSlotManager(cfg.Gallery.TotalSlots),
		ctrl:         cinematic.NewController(cfg.Camera),
	}
}

// SetPhotos replaces the live photo set at the next tick.
func (e *Engine) SetPhotos(photos []gallery.Photo) {
	own := make([]gallery.Photo, len(photos))
	copy(own, photos)
	e.mu.Lock()
	e.pendingPhotos = own
	e.photosPending = true
	e.mu.Unlock()
}

// SetSettings replaces the live settings at the next tick. Values are
// clamped, never rejected.
func (e *Engine) SetSettings(s config.Settings) {
	s.Clamp()
	e.mu.Lock()
	e.pendingSettings = &s
	e.mu.Unlock()
}

// PushInput forwards a host input event to the camera controller.
func (e *Engine) PushInput(ev cinematic.InputEvent) {
	e.ctrl.Push(ev)
}

// DetachCamera hands the camera to the user and drops queued input. Called
// on teardown so a restarting host never resumes mid-blend.
func (e *Engine) DetachCamera() {
	e.ctrl.Detach()
}

// Snapshot returns the most recent frame. Safe from any goroutine.
func (e *Engine) Snapshot() FrameState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot
}

// Settings returns the settings the engine is currently running with.
func (e *Engine) Settings() config.Settings {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.liveSettings
}

// Photos returns the photos assigned at the last tick, in slot order.
func (e *Engine) Photos() []gallery.Photo {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]gallery.Photo, len(e.photos))
	copy(out, e.photos)
	return out
}

// Tick advances the scene to now and returns the frame. Call it from one
// goroutine only.
func (e *Engine) Tick(now time.Time) FrameState {
	dt := e.step(now)
	e.intake()

	// 1. Slots.
	assignments := e.slots.AssignSlots(e.photos)

	// 2. Pattern.
	e.clock += dt
	gen := layout.ForPattern(e.settings.Gallery.Pattern)
	params := layout.ParamsFromSettings(e.settings.Gallery)
	state := layout.SafeGenerate(gen, e.slots.SlotCount(), e.clock, params)

	// 3. Path upkeep.
	occupied := occupiedSlots(assignments)
	e.ensurePath(state, occupied)

	// 4. Camera.
	pose := e.ctrl.Tick(dt, e.path)

	// 5. Snapshot.
	e.tick++
	frame := FrameState{
		Tick:            e.tick,
		Time:            e.clock,
		Pattern:         e.settings.Gallery.Pattern,
		PatternExternal: e.settings.Gallery.Pattern == config.PatternFloat,
		Positions:       state.Positions,
		Rotations:       state.Rotations,
		Slots:           e.slots.DisplayItems(),
		PhotoCount:      len(assignments),
		Camera:          pose,
		CameraState:     e.ctrl.State(),
		BlendFactor:     e.ctrl.BlendFactor(),
		PathParam:       e.ctrl.PathParam(),
	}

	e.mu.Lock()
	e.snapshot = frame
	e.liveSettings = e.settings
	e.mu.Unlock()
	return frame
}

func (e *Engine) step(now time.Time) float64 {
	if !e.started {
		e.started = true
		e.lastNow = now
		return 1.0 / float64(e.settings.Server.TickRate)
	}
	dt := now.Sub(e.lastNow).Seconds()
	e.lastNow = now
	if dt < 0 {
		dt = 0
	}
	if dt > maxTickDelta {
		dt = maxTickDelta
	}
	return dt
}

// intake drains pending photo and settings updates.
func (e *Engine) intake() {
	e.mu.Lock()
	photos := e.pendingPhotos
	photosPending := e.photosPending
	settings := e.pendingSettings
	e.pendingPhotos = nil
	e.photosPending = false
	e.pendingSettings = nil
	e.mu.Unlock()

	if photosPending {
		e.photos = photos
	}
	if settings == nil {
		return
	}

	old := e.settings
	e.settings = *settings
	if settings.Gallery.TotalSlots != old.Gallery.TotalSlots {
		e.slots.UpdateSlotCount(settings.Gallery.TotalSlots)
		log.Printf("[*] Slot count %d -> %d", old.Gallery.TotalSlots, settings.Gallery.TotalSlots)
	}
	if settings.Gallery.Pattern != old.Gallery.Pattern {
		log.Printf("[*] Pattern %s -> %s", old.Gallery.Pattern, settings.Gallery.Pattern)
	}
	if settings.Camera.Type != old.Camera.Type {
		log.Printf("[*] Camera tour %s -> %s", old.Camera.Type, settings.Camera.Type)
	}
	e.ctrl.SetSettings(settings.Camera)
}

// ensurePath rebuilds the camera path when its inputs changed structurally:
// tour type, pattern, slot count, or which slots hold photos. Type and
// pattern changes additionally blend the camera over; geometry-only rebuilds
// swap silently since the new curve starts near the old one.
func (e *Engine) ensurePath(state layout.PatternState, occupied []int) {
	cam := e.settings.Camera
	if !cam.Enabled || cam.Type == config.AnimationNone {
		e.path = nil
		e.pathType = config.AnimationNone
		return
	}

	typeChanged := cam.Type != e.pathType
	patternChanged := e.settings.Gallery.Pattern != e.pathPattern
	geometryChanged := e.slots.SlotCount() != e.pathSlots || !equalInts(occupied, e.pathOccupied)
	if e.path != nil && !typeChanged && !patternChanged && !geometryChanged {
		return
	}

	path, err := camera.BuildPath(cam.Type, state, occupied, cam)
	if err != nil {
		// No usable tour this frame; the user keeps the camera.
		if e.path != nil {
			log.Printf("[!] Camera path unavailable: %v", err)
		}
		e.path = nil
		e.pathType = cam.Type
		e.pathPattern = e.settings.Gallery.Pattern
		e.pathSlots = e.slots.SlotCount()
		e.pathOccupied = occupied
		return
	}

	hadPath := e.path != nil
	e.path = path
	e.pathType = cam.Type
	e.pathPattern = e.settings.Gallery.Pattern
	e.pathSlots = e.slots.SlotCount()
	e.pathOccupied = occupied

	if hadPath && (typeChanged || patternChanged) {
		e.ctrl.PatternChanged()
	}
}

func occupiedSlots(assignments map[string]int) []int {
	out := make([]int, 0, len(assignments))
	for _, slot := range assignments {
		out = append(out, slot)
	}
	sort.Ints(out)
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
