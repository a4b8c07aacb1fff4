package cinematic

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"photodrift/internal/config"
)

// orbitRig is the built-in direct-manipulation camera: spherical coordinates
// around a target, driven by pointer drags and wheel zoom. Hosts with their
// own controls bypass it entirely by sending pose reports.
type orbitRig struct {
	target    mgl64.Vec3
	radius    float64
	azimuth   float64
	elevation float64
	dragging  bool
}

const (
	orbitDragRate  = 0.005
	orbitZoomRate  = 0.001
	orbitMinRadius = 2.0
	orbitMaxRadius = 60.0
	orbitMinElev   = -0.15
	orbitMaxElev   = 1.45
)

func newOrbitRig(cam config.CameraSettings) orbitRig {
	return orbitRig{
		target:    mgl64.Vec3{0, cam.BaseHeight, 0},
		radius:    cam.BaseDistance,
		elevation: 0.2,
	}
}

func (o *orbitRig) handle(ev InputEvent) {
	switch ev.Kind {
	case PointerDown:
		o.dragging = true
	case PointerUp:
		o.dragging = false
	case PointerMove:
		if !o.dragging {
			return
		}
		o.azimuth -= ev.DX * orbitDragRate
		o.elevation = mgl64.Clamp(o.elevation+ev.DY*orbitDragRate, orbitMinElev, orbitMaxElev)
	case Wheel:
		o.radius = mgl64.Clamp(o.radius*(1+ev.Delta*orbitZoomRate), orbitMinRadius, orbitMaxRadius)
	}
}

// syncTo re-seats the rig at an externally set pose so that grabbing the
// camera after an autonomous stretch continues from where it actually is.
func (o *orbitRig) syncTo(p Pose) {
	o.target = p.LookAt
	offset := p.Position.Sub(p.LookAt)
	l := offset.Len()
	if l < 1e-9 {
		return
	}
	o.radius = mgl64.Clamp(l, orbitMinRadius, orbitMaxRadius)
	o.elevation = mgl64.Clamp(math.Asin(mgl64.Clamp(offset.Y()/l, -1, 1)), orbitMinElev, orbitMaxElev)
	o.azimuth = math.Atan2(offset.X(), offset.Z())
}

func (o *orbitRig) pose() Pose {
	ce := math.Cos(o.elevation)
	dir := mgl64.Vec3{
		ce * math.Sin(o.azimuth),
		math.Sin(o.elevation),
		ce * math.Cos(o.azimuth),
	}
	return Pose{
		Position: o.target.Add(dir.Mul(o.radius)),
		LookAt:   o.target,
	}
}
