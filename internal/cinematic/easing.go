package cinematic

import "math"

// easeInOutCubic is the one easing curve every blend in the controller uses,
// so resuming and pattern transitions feel identical.
// t < 0.5: 4t³; otherwise 1 - (-2t+2)³/2.
func easeInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
