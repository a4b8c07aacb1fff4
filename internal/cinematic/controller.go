package cinematic

import (
	"sync"

	"photodrift/internal/camera"
	"photodrift/internal/config"
)

// State names the controller's mode for the current tick.
type State string

const (
	// StateAutonomous rides the camera path.
	StateAutonomous State = "autonomous"
	// StateUserControlled follows the user's direct manipulation.
	StateUserControlled State = "user_controlled"
	// StateResuming blends from the user's last pose back onto the path.
	StateResuming State = "resuming"
	// StatePatternTransitioning blends onto a freshly built path after the
	// layout or tour type changed.
	StatePatternTransitioning State = "pattern_transitioning"
)

// approachRate is the per-second pull toward the sampled pose while
// autonomous. The camera glides onto the curve instead of snapping.
const approachRate = 4.0

// Controller is the per-frame camera state machine. Hosts push raw input
// events from any goroutine; Tick drains them and advances exactly one
// frame. Everything else runs on the ticker goroutine only.
type Controller struct {
	mu    sync.Mutex
	queue []InputEvent

	settings config.CameraSettings

	state        State
	param        float64
	sinceInput   float64
	blendElapsed float64
	blendFrom    Pose

	current  Pose
	havePose bool
	hostPose *Pose
	orbit    orbitRig
}

func NewController(cam config.CameraSettings) *Controller {
	return &Controller{
		settings: cam,
		state:    StateAutonomous,
		orbit:    newOrbitRig(cam),
	}
}

// Push queues a host event for the next tick. Safe from any goroutine.
func (c *Controller) Push(ev InputEvent) {
	c.mu.Lock()
	c.queue = append(c.queue, ev)
	c.mu.Unlock()
}

func (c *Controller) drain() []InputEvent {
	c.mu.Lock()
	evs := c.queue
	c.queue = nil
	c.mu.Unlock()
	return evs
}

// SetSettings swaps the live camera settings. Disabling hands the camera to
// the user right away; the next Tick returns their pose.
func (c *Controller) SetSettings(cam config.CameraSettings) {
	c.settings = cam
	if !c.cinematicActive() {
		c.state = StateUserControlled
	}
}

// PatternChanged tells the controller the path it was following was rebuilt
// for a new layout or tour type. Any running resume blend is replaced; a
// user actively holding the camera keeps it.
func (c *Controller) PatternChanged() {
	if !c.cinematicActive() || c.state == StateUserControlled {
		return
	}
	c.blendFrom = c.current
	c.blendElapsed = 0
	c.state = StatePatternTransitioning
}

// Detach clears queued events and reported poses and leaves the camera with
// the user. Called on host teardown so nothing stays armed.
func (c *Controller) Detach() {
	c.mu.Lock()
	c.queue = nil
	c.mu.Unlock()
	c.hostPose = nil
	c.state = StateUserControlled
	c.blendElapsed = 0
	c.sinceInput = 0
}

// State reports the current machine state.
func (c *Controller) State() State {
	return c.state
}

// PathParam reports the loop parameter, which advances even while the user
// holds the camera so resuming catches up to where the tour would be now.
func (c *Controller) PathParam() float64 {
	return c.param
}

// BlendFactor reports eased blend progress, 0 outside blending states.
func (c *Controller) BlendFactor() float64 {
	if c.state != StateResuming && c.state != StatePatternTransitioning {
		return 0
	}
	return easeInOutCubic(clamp01(c.blendElapsed / c.blendDuration()))
}

func (c *Controller) cinematicActive() bool {
	return c.settings.Enabled && c.settings.Type != config.AnimationNone
}

func (c *Controller) blendDuration() float64 {
	if c.settings.BlendDuration > 0 {
		return c.settings.BlendDuration
	}
	return config.DefaultBlendDuration
}

func (c *Controller) resumeDelay() float64 {
	if c.settings.ResumeDelay > 0 {
		return c.settings.ResumeDelay
	}
	return config.DefaultResumeDelay
}

// Tick advances one frame and returns the pose to apply. path may be nil
// when no tour could be built; the user keeps the camera in that case.
func (c *Controller) Tick(dt float64, path *camera.Path) Pose {
	events := c.drain()
	interacted := false
	for _, ev := range events {
		if ev.Kind == PoseReport && ev.Pose != nil {
			p := *ev.Pose
			c.hostPose = &p
			continue
		}
		if ev.interaction() {
			interacted = true
			c.orbit.handle(ev)
		}
	}

	// The tour clock keeps running in every state.
	c.param += dt * c.speed() / config.DefaultLoopSeconds

	if !c.cinematicActive() || path == nil {
		c.state = StateUserControlled
		c.sinceInput = 0
		c.current = c.userPose()
		c.havePose = true
		return c.current
	}

	if interacted && c.state != StateUserControlled {
		c.enterUserControl()
	}

	switch c.state {
	case StateUserControlled:
		if interacted {
			c.sinceInput = 0
		} else {
			c.sinceInput += dt
		}
		c.current = c.userPose()
		if c.sinceInput >= c.resumeDelay() {
			c.blendFrom = c.current
			c.blendElapsed = 0
			c.state = StateResuming
		}

	case StateResuming, StatePatternTransitioning:
		c.blendElapsed += dt
		f := clamp01(c.blendElapsed / c.blendDuration())
		c.current = lerpPose(c.blendFrom, c.pathPose(path), easeInOutCubic(f))
		if f >= 1 {
			c.state = StateAutonomous
		}

	default: // StateAutonomous
		target := c.pathPose(path)
		if !c.havePose {
			c.current = target
		} else {
			k := clamp01(dt * approachRate)
			c.current = lerpPose(c.current, target, k)
		}
	}

	c.havePose = true
	return c.current
}

func (c *Controller) enterUserControl() {
	// Whatever blend was running is discarded whole.
	c.blendElapsed = 0
	c.sinceInput = 0
	if c.havePose {
		c.orbit.syncTo(c.current)
	}
	c.state = StateUserControlled
}

func (c *Controller) userPose() Pose {
	if c.hostPose != nil {
		return *c.hostPose
	}
	return c.orbit.pose()
}

func (c *Controller) pathPose(path *camera.Path) Pose {
	return Pose{
		Position: path.PositionAt(c.param),
		LookAt:   path.LookAtAt(c.param),
	}
}

func (c *Controller) speed() float64 {
	if c.settings.Speed > 0 {
		return c.settings.Speed
	}
	return config.DefaultSpeed
}
