package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// spline is a closed centripetal Catmull-Rom curve through its control
// points. The centripetal knot spacing keeps the curve free of the cusps and
// self-crossings uniform Catmull-Rom develops on unevenly spaced points,
// which is exactly what camera moves need.
type spline struct {
	points []mgl64.Vec3
}

func newSpline(points []mgl64.Vec3) *spline {
	own := make([]mgl64.Vec3, len(points))
	copy(own, points)
	return &spline{points: own}
}

// At evaluates the curve at u in [0,1), wrapping out-of-range input. u maps
// uniformly onto segments, so u=0 sits on the first control point and the
// curve closes back onto it as u approaches 1.
func (s *spline) At(u float64) mgl64.Vec3 {
	m := len(s.points)
	switch m {
	case 0:
		return mgl64.Vec3{}
	case 1:
		return s.points[0]
	case 2:
		// Too few points for a cubic; fall back to there-and-back travel.
		return s.linearAt(u)
	}

	u = wrap01(u)
	scaled := u * float64(m)
	seg := int(scaled)
	if seg >= m {
		seg = m - 1
	}
	local := scaled - float64(seg)

	p0 := s.points[(seg-1+m)%m]
	p1 := s.points[seg]
	p2 := s.points[(seg+1)%m]
	p3 := s.points[(seg+2)%m]
	return catmullRom(p0, p1, p2, p3, local)
}

func (s *spline) linearAt(u float64) mgl64.Vec3 {
	m := len(s.points)
	u = wrap01(u)
	scaled := u * float64(m)
	seg := int(scaled)
	if seg >= m {
		seg = m - 1
	}
	local := scaled - float64(seg)
	a := s.points[seg]
	b := s.points[(seg+1)%m]
	return a.Add(b.Sub(a).Mul(local))
}

// catmullRom evaluates one centripetal segment between p1 and p2 via the
// Barry-Goldman pyramid, u in [0,1].
func catmullRom(p0, p1, p2, p3 mgl64.Vec3, u float64) mgl64.Vec3 {
	t0 := 0.0
	t1 := t0 + knotDelta(p0, p1)
	t2 := t1 + knotDelta(p1, p2)
	t3 := t2 + knotDelta(p2, p3)
	t := t1 + u*(t2-t1)

	a1 := lerpKnot(p0, p1, t0, t1, t)
	a2 := lerpKnot(p1, p2, t1, t2, t)
	a3 := lerpKnot(p2, p3, t2, t3, t)
	b1 := lerpKnot(a1, a2, t0, t2, t)
	b2 := lerpKnot(a2, a3, t1, t3, t)
	return lerpKnot(b1, b2, t1, t2, t)
}

// knotDelta is the centripetal spacing: square root of the point distance,
// floored so coincident control points cannot divide by zero.
func knotDelta(a, b mgl64.Vec3) float64 {
	d := math.Sqrt(b.Sub(a).Len())
	if d < 1e-4 {
		d = 1e-4
	}
	return d
}

func lerpKnot(a, b mgl64.Vec3, ta, tb, t float64) mgl64.Vec3 {
	w := (t - ta) / (tb - ta)
	return a.Mul(1 - w).Add(b.Mul(w))
}

// wrap01 folds any real t into [0,1), mapping negatives the way a looping
// clock does. ((t mod 1) + 1) mod 1.
func wrap01(t float64) float64 {
	t = math.Mod(t, 1)
	if t < 0 {
		t += 1
	}
	return t
}
