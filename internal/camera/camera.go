package camera

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"photodrift/internal/config"
	"photodrift/internal/layout"
)

// lookAtDrop is how far below the camera the look target may sink. Anything
// lower reads as staring at the floor.
const lookAtDrop = 0.5

// horizonReach is how far ahead of the camera the synthetic look target sits
// for direction-of-travel types.
const horizonReach = 6.0

// jitterAmp bounds the vertical wobble added to inserted intermediates.
const jitterAmp = 0.15

// Path is a closed camera loop: a position curve and a look-at curve driven
// by one shared parameter. Immutable once built; sample it from any number
// of readers.
type Path struct {
	Type config.AnimationType

	ctrlPos  []mgl64.Vec3
	ctrlLook []mgl64.Vec3
	pos      *spline
	look     *spline
	dirLook  bool
}

// BuildPath derives waypoints for the animation type from the current layout
// and expands them into the closed spline pair. occupied lists the slot
// indices holding real photos; only photo_focus reads it. Fails when the
// scene gives fewer than two usable waypoints, in which case the caller
// leaves the camera with the user for the frame.
func BuildPath(typ config.AnimationType, state layout.PatternState, occupied []int, cam config.CameraSettings) (*Path, error) {
	wps, err := waypointsFor(typ, state, occupied, cam)
	if err != nil {
		return nil, err
	}
	if len(wps) < 2 {
		return nil, fmt.Errorf("animation %q needs at least 2 waypoints, have %d", typ, len(wps))
	}

	ctrlPos, ctrlLook := expandWaypoints(wps)
	return newPath(typ, ctrlPos, ctrlLook), nil
}

func newPath(typ config.AnimationType, ctrlPos, ctrlLook []mgl64.Vec3) *Path {
	return &Path{
		Type:     typ,
		ctrlPos:  ctrlPos,
		ctrlLook: ctrlLook,
		pos:      newSpline(ctrlPos),
		look:     newSpline(ctrlLook),
		dirLook:  directionLook(typ),
	}
}

// directionLook reports whether a type samples its look target from the
// direction of travel instead of the stored curve. Sweeping views far from
// center would otherwise glance at the floor whenever the stored target
// passes underneath.
func directionLook(typ config.AnimationType) bool {
	return typ == config.AnimationShowcase || typ == config.AnimationGridSweep
}

// expandWaypoints inserts two intermediates per consecutive pair at local
// 0.4 and 0.7 with bounded sinusoidal vertical jitter, then height-clamps
// every look-at control point against its position control point.
func expandWaypoints(wps []Waypoint) (ctrlPos, ctrlLook []mgl64.Vec3) {
	n := len(wps)
	ctrlPos = make([]mgl64.Vec3, 0, n*3)
	ctrlLook = make([]mgl64.Vec3, 0, n*3)

	idx := 0
	push := func(p, l mgl64.Vec3) {
		if l[1] < p[1]-lookAtDrop {
			l[1] = p[1] - lookAtDrop
		}
		ctrlPos = append(ctrlPos, p)
		ctrlLook = append(ctrlLook, l)
		idx++
	}

	for i := 0; i < n; i++ {
		next := (i + 1) % n
		push(wps[i].Position, wps[i].LookAt)
		for _, f := range []float64{0.4, 0.7} {
			p := lerpVec(wps[i].Position, wps[next].Position, f)
			l := lerpVec(wps[i].LookAt, wps[next].LookAt, f)
			p[1] += jitterAmp * math.Sin(float64(idx)*2.3)
			push(p, l)
		}
	}
	return ctrlPos, ctrlLook
}

func lerpVec(a, b mgl64.Vec3, f float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(f))
}

// PositionAt samples the camera position. t may be any real; it wraps into
// [0,1) so callers can feed monotonically growing time directly.
func (p *Path) PositionAt(t float64) mgl64.Vec3 {
	return p.pos.At(wrap01(t))
}

// LookAtAt samples the look target for the same t. Direction-of-travel types
// synthesize a horizontal target ahead of the camera; everything else reads
// the stored curve, re-clamped so no sample can dip below the anti-floor
// line even between control points.
func (p *Path) LookAtAt(t float64) mgl64.Vec3 {
	u := wrap01(t)
	pos := p.pos.At(u)

	if p.dirLook {
		if dir, ok := p.travelDir(u); ok {
			return pos.Add(dir.Mul(horizonReach))
		}
	}

	l := p.look.At(u)
	if l[1] < pos[1]-lookAtDrop {
		l[1] = pos[1] - lookAtDrop
	}
	return l
}

// travelDir is the horizontal unit tangent at u, by central difference.
// Not usable when the camera is momentarily moving straight up or down.
func (p *Path) travelDir(u float64) (mgl64.Vec3, bool) {
	const h = 1e-3
	a := p.pos.At(wrap01(u - h))
	b := p.pos.At(wrap01(u + h))
	d := mgl64.Vec3{b.X() - a.X(), 0, b.Z() - a.Z()}
	if d.Len() < 1e-9 {
		return mgl64.Vec3{}, false
	}
	return d.Normalize(), true
}

// ControlPoints returns copies of the expanded control points, mostly for
// track export and inspection.
func (p *Path) ControlPoints() (pos, look []mgl64.Vec3) {
	pos = make([]mgl64.Vec3, len(p.ctrlPos))
	look = make([]mgl64.Vec3, len(p.ctrlLook))
	copy(pos, p.ctrlPos)
	copy(look, p.ctrlLook)
	return pos, look
}
