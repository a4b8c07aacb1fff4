package gallery

import "time"

// Photo is one displayable item as reported by a source. Width and Height are
// optional; zero means the dimensions are not known yet.
type Photo struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	Width     int       `json:"width,omitempty"`
	Height    int       `json:"height,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// AspectRatio returns width/height, or 0 when either dimension is unknown.
func (p Photo) AspectRatio() float64 {
	if p.Width <= 0 || p.Height <= 0 {
		return 0
	}
	return float64(p.Width) / float64(p.Height)
}

// DisplayItem is one slot resolved for presentation: either a photo or a
// placeholder occupying an empty slot so the layout stays visually complete.
type DisplayItem struct {
	Slot        int     `json:"slot"`
	PhotoID     string  `json:"photoId"`
	URL         string  `json:"url,omitempty"`
	Placeholder bool    `json:"placeholder"`
	AspectRatio float64 `json:"aspectRatio,omitempty"`
}
