package gallery

import (
	"fmt"
	"sort"

	"photodrift/internal/config"
)

// SlotManager owns the mapping from photo ids to display slots. A photo keeps
// its slot for as long as it remains in the input set; slots freed by removed
// photos are handed out lowest-first to newcomers. All methods mutate only the
// manager's own maps; callers never reach into them directly.
type SlotManager struct {
	totalSlots int
	assigned   map[string]int // photo id -> slot
	occupied   map[int]Photo  // slot -> last seen photo
	aspects    map[string]float64
}

// NewSlotManager creates a manager with n slots, clamped to the valid range.
func NewSlotManager(n int) *SlotManager {
	m := &SlotManager{
		assigned: make(map[string]int),
		occupied: make(map[int]Photo),
		aspects:  make(map[string]float64),
	}
	m.totalSlots = clampSlots(n)
	return m
}

// SlotCount returns the current number of slots.
func (m *SlotManager) SlotCount() int {
	return m.totalSlots
}

// UpdateSlotCount resizes the pool. Shrinking evicts every assignment whose
// slot index falls outside the new count; growing never touches existing
// assignments.
func (m *SlotManager) UpdateSlotCount(n int) {
	n = clampSlots(n)
	if n < m.totalSlots {
		for id, slot := range m.assigned {
			if slot >= n {
				delete(m.assigned, id)
				delete(m.occupied, slot)
			}
		}
	}
	m.totalSlots = n
}

// AssignSlots reconciles the assignment table against the given photo set and
// returns a copy of the resulting id -> slot map. Photos without an id are
// ignored. New photos are bound in (CreatedAt, ID) order to the smallest free
// slot, so two runs fed the same history agree exactly. Photos left over when
// the pool is full stay unassigned until a slot frees up.
func (m *SlotManager) AssignSlots(photos []Photo) map[string]int {
	present := make(map[string]bool, len(photos))
	for _, p := range photos {
		if p.ID == "" {
			continue
		}
		present[p.ID] = true
	}

	// Drop assignments for photos that disappeared.
	for id, slot := range m.assigned {
		if !present[id] {
			delete(m.assigned, id)
			delete(m.occupied, slot)
		}
	}

	// Free slots, ascending.
	used := make(map[int]bool, len(m.assigned))
	for _, slot := range m.assigned {
		used[slot] = true
	}
	free := make([]int, 0, m.totalSlots-len(m.assigned))
	for i := 0; i < m.totalSlots; i++ {
		if !used[i] {
			free = append(free, i)
		}
	}

	// Newcomers in arrival order: oldest CreatedAt first, id as tiebreak.
	incoming := make([]Photo, 0, len(photos))
	seen := make(map[string]bool, len(photos))
	for _, p := range photos {
		if p.ID == "" || seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		if ar := p.AspectRatio(); ar > 0 {
			m.recordAspect(p.ID, ar)
		}
		if _, ok := m.assigned[p.ID]; ok {
			m.occupied[m.assigned[p.ID]] = p
			continue
		}
		incoming = append(incoming, p)
	}
	sort.Slice(incoming, func(i, j int) bool {
		if !incoming[i].CreatedAt.Equal(incoming[j].CreatedAt) {
			return incoming[i].CreatedAt.Before(incoming[j].CreatedAt)
		}
		return incoming[i].ID < incoming[j].ID
	})

	for _, p := range incoming {
		if len(free) == 0 {
			break
		}
		slot := free[0]
		free = free[1:]
		m.assigned[p.ID] = slot
		m.occupied[slot] = p
	}

	out := make(map[string]int, len(m.assigned))
	for id, slot := range m.assigned {
		out[id] = slot
	}
	return out
}

// Occupant returns the photo currently bound to slot, if any.
func (m *SlotManager) Occupant(slot int) (Photo, bool) {
	p, ok := m.occupied[slot]
	return p, ok
}

// AspectRatio returns the recorded ratio for a photo id. The second result is
// false while the ratio is still undetermined.
func (m *SlotManager) AspectRatio(id string) (float64, bool) {
	ar, ok := m.aspects[id]
	return ar, ok
}

// SetAspectRatio records a ratio measured later, typically by the display
// layer after decoding. The first recorded value wins; repeat writes are
// ignored so a photo never changes shape mid-session.
func (m *SlotManager) SetAspectRatio(id string, ar float64) {
	if id == "" || ar <= 0 {
		return
	}
	m.recordAspect(id, ar)
}

func (m *SlotManager) recordAspect(id string, ar float64) {
	if _, ok := m.aspects[id]; ok {
		return
	}
	m.aspects[id] = ar
}

// DisplayItems resolves every slot to either its occupant or a placeholder,
// in slot order. Placeholders carry synthetic ids so the display layer can
// key them stably.
func (m *SlotManager) DisplayItems() []DisplayItem {
	items := make([]DisplayItem, m.totalSlots)
	for i := 0; i < m.totalSlots; i++ {
		if p, ok := m.occupied[i]; ok {
			ar := m.aspects[p.ID]
			items[i] = DisplayItem{
				Slot:        i,
				PhotoID:     p.ID,
				URL:         p.URL,
				AspectRatio: ar,
			}
			continue
		}
		items[i] = DisplayItem{
			Slot:        i,
			PhotoID:     fmt.Sprintf("placeholder-%d", i),
			Placeholder: true,
		}
	}
	return items
}

func clampSlots(n int) int {
	if n < config.MinTotalSlots {
		return config.MinTotalSlots
	}
	if n > config.MaxTotalSlots {
		return config.MaxTotalSlots
	}
	return n
}
