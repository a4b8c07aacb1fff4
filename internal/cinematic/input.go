package cinematic

import "github.com/go-gl/mathgl/mgl64"

// Kind names one class of host input. The engine never touches DOM events;
// whatever surface hosts the render (browser client, test harness) translates
// its native events into these and pushes them in.
type Kind string

const (
	PointerDown Kind = "pointer_down"
	PointerMove Kind = "pointer_move"
	PointerUp   Kind = "pointer_up"
	Wheel       Kind = "wheel"
	Key         Kind = "key"

	// PoseReport is not user interaction: the host tells us where its own
	// camera controls put the camera, so resuming can blend from the true
	// pose instead of a guess.
	PoseReport Kind = "pose_report"
)

// InputEvent is one host event. Fields beyond Kind are optional and depend
// on the kind: pointer kinds use X/Y and the move deltas, Wheel uses Delta,
// Key uses Code, PoseReport uses Pose.
type InputEvent struct {
	Kind  Kind    `json:"kind"`
	X     float64 `json:"x,omitempty"`
	Y     float64 `json:"y,omitempty"`
	DX    float64 `json:"dx,omitempty"`
	DY    float64 `json:"dy,omitempty"`
	Delta float64 `json:"delta,omitempty"`
	Code  string  `json:"code,omitempty"`
	Pose  *Pose   `json:"pose,omitempty"`
}

// interaction reports whether the event is the user actually doing something,
// as opposed to the host narrating camera state.
func (e InputEvent) interaction() bool {
	switch e.Kind {
	case PointerDown, PointerMove, PointerUp, Wheel, Key:
		return true
	}
	return false
}

// Pose is a camera position paired with what it is looking at.
type Pose struct {
	Position mgl64.Vec3 `json:"position"`
	LookAt   mgl64.Vec3 `json:"lookAt"`
}

func lerpPose(a, b Pose, f float64) Pose {
	return Pose{
		Position: a.Position.Add(b.Position.Sub(a.Position).Mul(f)),
		LookAt:   a.LookAt.Add(b.LookAt.Sub(a.LookAt).Mul(f)),
	}
}
