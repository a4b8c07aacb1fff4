package camera

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"photodrift/internal/config"
)

// Track is the on-disk form of a built path: the expanded control points,
// ready for offline inspection or replay. Sampling a path rebuilt from its
// track reproduces the original exactly.
type Track struct {
	Version string       `yaml:"version"`
	Type    string       `yaml:"type"`
	Points  []TrackPoint `yaml:"points"`
}

type TrackPoint struct {
	Position [3]float64 `yaml:"position"`
	LookAt   [3]float64 `yaml:"lookAt"`
}

const trackVersion = "1.0"

// Track snapshots the path's control points.
func (p *Path) Track() Track {
	tr := Track{
		Version: trackVersion,
		Type:    string(p.Type),
		Points:  make([]TrackPoint, len(p.ctrlPos)),
	}
	for i := range p.ctrlPos {
		tr.Points[i] = TrackPoint{
			Position: p.ctrlPos[i],
			LookAt:   p.ctrlLook[i],
		}
	}
	return tr
}

// FromTrack rebuilds a path from a saved track. The points are already
// expanded, so no intermediates are re-inserted.
func FromTrack(tr Track) (*Path, error) {
	if len(tr.Points) < 2 {
		return nil, fmt.Errorf("track has %d points, need at least 2", len(tr.Points))
	}
	typ := config.AnimationType(tr.Type)
	if !config.ValidAnimationType(typ) || typ == config.AnimationNone {
		return nil, fmt.Errorf("track has unknown animation type %q", tr.Type)
	}

	pos := make([]mgl64.Vec3, len(tr.Points))
	look := make([]mgl64.Vec3, len(tr.Points))
	for i, pt := range tr.Points {
		pos[i] = pt.Position
		look[i] = pt.LookAt
	}
	return newPath(typ, pos, look), nil
}

// WriteTrack writes a track to a YAML file.
func WriteTrack(tr Track, path string) error {
	data, err := yaml.Marshal(tr)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadTrack reads a track from a YAML file.
func ReadTrack(path string) (Track, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Track{}, err
	}
	var tr Track
	if err := yaml.Unmarshal(data, &tr); err != nil {
		return Track{}, fmt.Errorf("parse track %s: %w", path, err)
	}
	return tr, nil
}
