package layout

// Float is the externally-animated pattern: the display layer owns the actual
// drift motion, so the engine only needs a stable lattice to anchor camera
// paths and placeholder placement. Selecting it flags the frame as
// pattern-external downstream.
type Float struct{}

func (Float) Generate(totalSlots int, t float64, p Params) (PatternState, error) {
	return FallbackGrid(totalSlots, p), nil
}
