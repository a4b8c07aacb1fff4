package camera

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"photodrift/internal/config"
	"photodrift/internal/layout"
)

// Waypoint seeds the path builder: where the camera should pass and what it
// should be watching there.
type Waypoint struct {
	Position mgl64.Vec3
	LookAt   mgl64.Vec3
}

// sceneBounds is the axis-aligned box plus centroid of a pattern's positions.
type sceneBounds struct {
	min, max, centroid mgl64.Vec3
}

func boundsOf(positions []mgl64.Vec3) (sceneBounds, error) {
	if len(positions) == 0 {
		return sceneBounds{}, fmt.Errorf("no positions to frame")
	}
	b := sceneBounds{min: positions[0], max: positions[0]}
	var sum mgl64.Vec3
	for _, p := range positions {
		for i := 0; i < 3; i++ {
			if p[i] < b.min[i] {
				b.min[i] = p[i]
			}
			if p[i] > b.max[i] {
				b.max[i] = p[i]
			}
		}
		sum = sum.Add(p)
	}
	b.centroid = sum.Mul(1 / float64(len(positions)))
	return b, nil
}

func (b sceneBounds) extent() mgl64.Vec3 {
	return b.max.Sub(b.min)
}

// maxHorizontalRadius is the farthest any position sits from the centroid,
// measured on the floor plane.
func maxHorizontalRadius(positions []mgl64.Vec3, centroid mgl64.Vec3) float64 {
	var r float64
	for _, p := range positions {
		d := math.Hypot(p.X()-centroid.X(), p.Z()-centroid.Z())
		if d > r {
			r = d
		}
	}
	return r
}

// waypointsFor derives the seed waypoints for one animation type from the
// current layout. All six types funnel into the same spline build afterwards.
func waypointsFor(typ config.AnimationType, state layout.PatternState, occupied []int, cam config.CameraSettings) ([]Waypoint, error) {
	b, err := boundsOf(state.Positions)
	if err != nil {
		return nil, err
	}

	switch typ {
	case config.AnimationShowcase:
		return showcaseWaypoints(state, b, cam), nil
	case config.AnimationGalleryWalk:
		return galleryWalkWaypoints(b, cam), nil
	case config.AnimationSpiralTour:
		return spiralTourWaypoints(state, b, cam), nil
	case config.AnimationWaveFollow:
		return waveFollowWaypoints(b, cam), nil
	case config.AnimationGridSweep:
		return gridSweepWaypoints(b, cam), nil
	case config.AnimationPhotoFocus:
		return photoFocusWaypoints(state, b, occupied, cam)
	}
	return nil, fmt.Errorf("no waypoints for animation type %q", typ)
}

// showcaseWaypoints rings the whole set at a fixed radius and eye height.
func showcaseWaypoints(state layout.PatternState, b sceneBounds, cam config.CameraSettings) []Waypoint {
	radius := cam.BaseDistance
	if fit := maxHorizontalRadius(state.Positions, b.centroid) + 2; radius < fit {
		radius = fit
	}
	height := cam.BaseHeight

	const ringPoints = 8
	wps := make([]Waypoint, ringPoints)
	for k := 0; k < ringPoints; k++ {
		angle := float64(k) / ringPoints * 2 * math.Pi
		wps[k] = Waypoint{
			Position: mgl64.Vec3{
				b.centroid.X() + radius*math.Cos(angle),
				height,
				b.centroid.Z() + radius*math.Sin(angle),
			},
			LookAt: mgl64.Vec3{b.centroid.X(), height * 0.9, b.centroid.Z()},
		}
	}
	return wps
}

// galleryWalkWaypoints snakes through the layout at eye level. Wall-like
// layouts get a face-on stroll; volumetric ones get rows through the floor
// plan.
func galleryWalkWaypoints(b sceneBounds, cam config.CameraSettings) []Waypoint {
	ext := b.extent()
	eye := cam.BaseHeight

	if ext.Z() < 2 {
		// Flat wall: wander its face at two heights, stood back from it.
		standoff := b.max.Z() + cam.BaseDistance*0.45
		left, right := b.min.X()-1, b.max.X()+1
		low := eye
		high := eye + cam.HeightVariation*2
		return []Waypoint{
			{Position: mgl64.Vec3{left, low, standoff}, LookAt: mgl64.Vec3{left, low, b.centroid.Z()}},
			{Position: mgl64.Vec3{right, low, standoff}, LookAt: mgl64.Vec3{right, low, b.centroid.Z()}},
			{Position: mgl64.Vec3{right, high, standoff}, LookAt: mgl64.Vec3{right, high, b.centroid.Z()}},
			{Position: mgl64.Vec3{left, high, standoff}, LookAt: mgl64.Vec3{left, high, b.centroid.Z()}},
		}
	}

	// Volumetric: serpentine rows across the footprint.
	const rows = 3
	margin := 1.5
	wps := make([]Waypoint, 0, rows*2)
	for j := 0; j < rows; j++ {
		f := (float64(j) + 0.5) / rows
		z := b.min.Z() + f*ext.Z()
		left := mgl64.Vec3{b.min.X() - margin, eye, z}
		right := mgl64.Vec3{b.max.X() + margin, eye, z}
		if j%2 == 1 {
			left, right = right, left
		}
		look := mgl64.Vec3{b.centroid.X(), eye, z}
		wps = append(wps, Waypoint{Position: left, LookAt: look}, Waypoint{Position: right, LookAt: look})
	}
	return wps
}

// spiralTourWaypoints ride a helix outside the funnel: two slow turns that
// dip toward the floor and climb back, always watching the axis.
func spiralTourWaypoints(state layout.PatternState, b sceneBounds, cam config.CameraSettings) []Waypoint {
	radius := maxHorizontalRadius(state.Positions, b.centroid) + 2.5
	if radius < cam.BaseDistance*0.5 {
		radius = cam.BaseDistance * 0.5
	}
	high := cam.BaseHeight + cam.HeightVariation*3
	low := cam.BaseHeight * 0.6
	if low < 0.8 {
		low = 0.8
	}

	const points = 10
	wps := make([]Waypoint, points)
	for k := 0; k < points; k++ {
		f := float64(k) / points
		angle := f * 4 * math.Pi // two turns per loop
		y := low + (high-low)*(math.Cos(f*2*math.Pi)+1)/2
		wps[k] = Waypoint{
			Position: mgl64.Vec3{
				b.centroid.X() + radius*math.Cos(angle),
				y,
				b.centroid.Z() + radius*math.Sin(angle),
			},
			LookAt: mgl64.Vec3{b.centroid.X(), y * 0.8, b.centroid.Z()},
		}
	}
	return wps
}

// waveFollowWaypoints sweep low over the field, row by row, watching the
// field's center at the current row rather than the horizon.
func waveFollowWaypoints(b sceneBounds, cam config.CameraSettings) []Waypoint {
	ext := b.extent()
	y := cam.BaseHeight * 0.8
	if y < 1 {
		y = 1
	}
	margin := 2.0

	const rows = 3
	wps := make([]Waypoint, 0, rows*2)
	for j := 0; j < rows; j++ {
		f := (float64(j) + 0.5) / rows
		z := b.min.Z() + f*ext.Z()
		left := mgl64.Vec3{b.min.X() - margin, y, z}
		right := mgl64.Vec3{b.max.X() + margin, y, z}
		if j%2 == 1 {
			left, right = right, left
		}
		wps = append(wps,
			Waypoint{Position: left, LookAt: mgl64.Vec3{b.centroid.X(), b.centroid.Y(), z}},
			Waypoint{Position: right, LookAt: mgl64.Vec3{b.centroid.X(), b.centroid.Y(), z}},
		)
	}
	return wps
}

// gridSweepWaypoints run lawnmower rows across the layout's face.
func gridSweepWaypoints(b sceneBounds, cam config.CameraSettings) []Waypoint {
	ext := b.extent()
	standoff := b.max.Z() + cam.BaseDistance*0.4
	left, right := b.min.X()-1, b.max.X()+1

	rows := 3
	if ext.Y() < 2 {
		rows = 2
	}
	wps := make([]Waypoint, 0, rows*2)
	for j := 0; j < rows; j++ {
		f := (float64(j) + 0.5) / float64(rows)
		y := b.min.Y() + f*ext.Y()
		if y < 1 {
			y = 1
		}
		a := mgl64.Vec3{left, y, standoff}
		c := mgl64.Vec3{right, y, standoff}
		if j%2 == 1 {
			a, c = c, a
		}
		look := mgl64.Vec3{b.centroid.X(), y, b.centroid.Z()}
		wps = append(wps, Waypoint{Position: a, LookAt: look}, Waypoint{Position: c, LookAt: look})
	}
	return wps
}

// photoFocusWaypoints tours occupied photos greedily by distance, parking a
// cluster of near-coincident waypoints at each stop so the spline lingers
// there for roughly the configured pause.
func photoFocusWaypoints(state layout.PatternState, b sceneBounds, occupied []int, cam config.CameraSettings) ([]Waypoint, error) {
	stops := make([]mgl64.Vec3, 0, len(occupied))
	for _, slot := range occupied {
		if slot >= 0 && slot < len(state.Positions) {
			stops = append(stops, state.Positions[slot])
		}
	}
	if len(stops) == 0 {
		return nil, fmt.Errorf("no occupied photos to focus on")
	}

	dist := cam.FocusDistance
	if dist <= 0 {
		dist = config.DefaultFocusDistance
	}

	if len(stops) == 1 {
		// A lone photo gets a tight orbit instead of a tour.
		p := stops[0]
		wps := make([]Waypoint, 4)
		for k := 0; k < 4; k++ {
			angle := float64(k) / 4 * 2 * math.Pi
			wps[k] = Waypoint{
				Position: mgl64.Vec3{p.X() + dist*math.Cos(angle), viewHeight(p), p.Z() + dist*math.Sin(angle)},
				LookAt:   p,
			}
		}
		return wps, nil
	}

	order := greedyTour(stops)

	cluster := 2
	if cam.PauseTime > 2 {
		cluster = 3
	}
	wps := make([]Waypoint, 0, len(order)*cluster)
	for _, idx := range order {
		p := stops[idx]
		view := viewpointFor(p, b)
		pos := p.Add(view.Mul(dist))
		pos[1] = viewHeight(p)
		for c := 0; c < cluster; c++ {
			// Offsets small enough to read as a pause, not a move.
			o := float64(c) * 0.15
			wps = append(wps, Waypoint{
				Position: mgl64.Vec3{pos.X() + o, pos.Y(), pos.Z() + o*0.5},
				LookAt:   p,
			})
		}
	}
	return wps, nil
}

// greedyTour orders stops nearest-unvisited-first, starting from stop 0.
func greedyTour(stops []mgl64.Vec3) []int {
	n := len(stops)
	order := make([]int, 0, n)
	visited := make([]bool, n)
	cur := 0
	visited[0] = true
	order = append(order, 0)
	for len(order) < n {
		best := -1
		bestD := math.Inf(1)
		for i := 0; i < n; i++ {
			if visited[i] {
				continue
			}
			if d := stops[i].Sub(stops[cur]).Len(); d < bestD {
				bestD = d
				best = i
			}
		}
		visited[best] = true
		order = append(order, best)
		cur = best
	}
	return order
}

// viewpointFor picks the outward horizontal direction to stand in when
// looking at a photo: straight out front for wall layouts, away from the
// centroid for volumetric ones, out front again when the photo sits right
// on the centroid axis.
func viewpointFor(p mgl64.Vec3, b sceneBounds) mgl64.Vec3 {
	if b.extent().Z() < 2 {
		return mgl64.Vec3{0, 0, 1}
	}
	out := mgl64.Vec3{p.X() - b.centroid.X(), 0, p.Z() - b.centroid.Z()}
	if out.Len() < 0.5 {
		return mgl64.Vec3{0, 0, 1}
	}
	return out.Normalize()
}

func viewHeight(photo mgl64.Vec3) float64 {
	if photo.Y() < 1 {
		return 1
	}
	return photo.Y()
}
