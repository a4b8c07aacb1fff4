package config

// Pattern identifies a layout algorithm for the photo slots.
type Pattern string

const (
	PatternGrid   Pattern = "grid"
	PatternWave   Pattern = "wave"
	PatternSpiral Pattern = "spiral"
	// PatternFloat is rendered entirely by the display layer; the engine only
	// carries it through the enum and serves the fallback lattice to the
	// camera so paths still have geometry to work with.
	PatternFloat Pattern = "float"
)

// AnimationType identifies a cinematic camera tour.
type AnimationType string

const (
	AnimationNone        AnimationType = "none"
	AnimationShowcase    AnimationType = "showcase"
	AnimationGalleryWalk AnimationType = "gallery_walk"
	AnimationSpiralTour  AnimationType = "spiral_tour"
	AnimationWaveFollow  AnimationType = "wave_follow"
	AnimationGridSweep   AnimationType = "grid_sweep"
	AnimationPhotoFocus  AnimationType = "photo_focus"
)

// Slot count bounds shared by the slot manager and the pattern generators.
const (
	MinTotalSlots = 1
	MaxTotalSlots = 500
)

// Tuning defaults. These numbers are product tuning, not structural
// requirements; anything that matters to a deployment is overridable through
// Settings, the YAML file, or PHOTODRIFT_* environment variables.
const (
	// DefaultBaseHeight is the camera eye height for tours that fly at a
	// human-ish eye level (showcase, gallery walk, photo focus).
	DefaultBaseHeight = 1.7
	// DefaultBaseDistance is the orbit/approach distance from the layout
	// for tours that circle or sweep it.
	DefaultBaseDistance = 14.0
	// DefaultHeightVariation bounds the vertical jitter injected between
	// waypoints so paths arc instead of running flat.
	DefaultHeightVariation = 0.6
	// DefaultDistanceVariation bounds how far a tour may breathe in and out
	// from its base distance.
	DefaultDistanceVariation = 2.0
	// DefaultResumeDelay is how long input must be quiet before the camera
	// starts blending back onto its tour.
	DefaultResumeDelay = 0.8
	// DefaultBlendDuration is the length of the eased blend used both when
	// resuming after input and when the tour or pattern changes.
	DefaultBlendDuration = 2.8
	// DefaultFocusDistance is how far photo-focus stops sit from each photo.
	DefaultFocusDistance = 3.5
	// DefaultPauseTime is the dwell at each photo-focus stop, in seconds of
	// tour time.
	DefaultPauseTime = 1.5
	// DefaultSpeed is the path-parameter advance rate; 1.0 completes a loop
	// in roughly DefaultLoopSeconds.
	DefaultSpeed = 1.0
	// DefaultLoopSeconds is the nominal duration of one full loop at speed 1.
	DefaultLoopSeconds = 60.0

	// DefaultPhotoSize is the display height of one photo plane in world
	// units; widths follow the photo aspect.
	DefaultPhotoSize = 1.0
	// DefaultPhotoAspect is the aspect ratio the grid is tuned for (16:9).
	DefaultPhotoAspect = 16.0 / 9.0
	// DefaultMinHoverHeight keeps animated photos clear of the floor plane.
	DefaultMinHoverHeight = 0.6
	// DefaultCeilingHeight caps how high wave motion may lift a photo.
	DefaultCeilingHeight = 5.0
	// DefaultWallHeight lifts the grid wall so its lowest row clears the
	// floor.
	DefaultWallHeight = 3.2

	// DefaultTickRate is the simulation frequency in Hz.
	DefaultTickRate = 30
	// DefaultAddr is the HTTP/WebSocket listen address.
	DefaultAddr = ":8080"
)

// GallerySettings controls the slot layout.
type GallerySettings struct {
	TotalSlots       int     `yaml:"totalSlots" json:"totalSlots"`
	Pattern          Pattern `yaml:"pattern" json:"pattern"`
	PhotoSize        float64 `yaml:"photoSize" json:"photoSize"`
	PhotoAspect      float64 `yaml:"photoAspect" json:"photoAspect"`
	Spacing          float64 `yaml:"spacing" json:"spacing"`
	AnimationEnabled bool    `yaml:"animationEnabled" json:"animationEnabled"`
	AnimationSpeed   float64 `yaml:"animationSpeed" json:"animationSpeed"`
}

// CameraSettings controls the cinematic camera.
type CameraSettings struct {
	Enabled           bool          `yaml:"enabled" json:"enabled"`
	Type              AnimationType `yaml:"type" json:"type"`
	Speed             float64       `yaml:"speed" json:"speed"`
	FocusDistance     float64       `yaml:"focusDistance" json:"focusDistance"`
	PauseTime         float64       `yaml:"pauseTime" json:"pauseTime"`
	ResumeDelay       float64       `yaml:"resumeDelay" json:"resumeDelay"`
	BlendDuration     float64       `yaml:"blendDuration" json:"blendDuration"`
	BaseHeight        float64       `yaml:"baseHeight" json:"baseHeight"`
	BaseDistance      float64       `yaml:"baseDistance" json:"baseDistance"`
	HeightVariation   float64       `yaml:"heightVariation" json:"heightVariation"`
	DistanceVariation float64       `yaml:"distanceVariation" json:"distanceVariation"`
}

// ServerSettings controls the serving loop.
type ServerSettings struct {
	Addr     string `yaml:"addr" json:"addr"`
	TickRate int    `yaml:"tickRate" json:"tickRate"`
}

// Settings is the full runtime configuration.
type Settings struct {
	Gallery GallerySettings `yaml:"gallery" json:"gallery"`
	Camera  CameraSettings  `yaml:"camera" json:"camera"`
	Server  ServerSettings  `yaml:"server" json:"server"`
}

// Default returns the compiled-in settings.
func Default() Settings {
	return Settings{
		Gallery: GallerySettings{
			TotalSlots:       100,
			Pattern:          PatternGrid,
			PhotoSize:        DefaultPhotoSize,
			PhotoAspect:      DefaultPhotoAspect,
			Spacing:          0.15,
			AnimationEnabled: true,
			AnimationSpeed:   1.0,
		},
		Camera: CameraSettings{
			Enabled:           true,
			Type:              AnimationShowcase,
			Speed:             DefaultSpeed,
			FocusDistance:     DefaultFocusDistance,
			PauseTime:         DefaultPauseTime,
			ResumeDelay:       DefaultResumeDelay,
			BlendDuration:     DefaultBlendDuration,
			BaseHeight:        DefaultBaseHeight,
			BaseDistance:      DefaultBaseDistance,
			HeightVariation:   DefaultHeightVariation,
			DistanceVariation: DefaultDistanceVariation,
		},
		Server: ServerSettings{
			Addr:     DefaultAddr,
			TickRate: DefaultTickRate,
		},
	}
}

// ValidPattern reports whether p names a known layout pattern.
func ValidPattern(p Pattern) bool {
	switch p {
	case PatternGrid, PatternWave, PatternSpiral, PatternFloat:
		return true
	}
	return false
}

// ValidAnimationType reports whether t names a known camera tour.
func ValidAnimationType(t AnimationType) bool {
	switch t {
	case AnimationNone, AnimationShowcase, AnimationGalleryWalk,
		AnimationSpiralTour, AnimationWaveFollow, AnimationGridSweep,
		AnimationPhotoFocus:
		return true
	}
	return false
}

// Clamp pulls every field back into its documented range. Out-of-range input
// is corrected, never rejected.
func (s *Settings) Clamp() {
	g := &s.Gallery
	g.TotalSlots = clampInt(g.TotalSlots, MinTotalSlots, MaxTotalSlots)
	if !ValidPattern(g.Pattern) {
		g.Pattern = PatternGrid
	}
	g.PhotoSize = clampFloat(g.PhotoSize, 0.1, 10)
	g.PhotoAspect = clampFloat(g.PhotoAspect, 0.2, 5)
	g.Spacing = clampFloat(g.Spacing, 0, 5)
	g.AnimationSpeed = clampFloat(g.AnimationSpeed, 0.01, 10)

	c := &s.Camera
	if !ValidAnimationType(c.Type) {
		c.Type = AnimationNone
	}
	c.Speed = clampFloat(c.Speed, 0.01, 10)
	c.FocusDistance = clampFloat(c.FocusDistance, 0.5, 50)
	c.PauseTime = clampFloat(c.PauseTime, 0, 30)
	c.ResumeDelay = clampFloat(c.ResumeDelay, 0, 30)
	c.BlendDuration = clampFloat(c.BlendDuration, 0.1, 30)
	c.BaseHeight = clampFloat(c.BaseHeight, 0.1, 50)
	c.BaseDistance = clampFloat(c.BaseDistance, 1, 200)
	c.HeightVariation = clampFloat(c.HeightVariation, 0, 10)
	c.DistanceVariation = clampFloat(c.DistanceVariation, 0, 50)

	v := &s.Server
	v.TickRate = clampInt(v.TickRate, 1, 240)
	if v.Addr == "" {
		v.Addr = DefaultAddr
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
