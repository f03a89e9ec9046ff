package preferences

import (
	"sync"

	"github.com/dmitrijs2005/eduadmin/internal/client/models"
)

// Markers is the set of theme markers applied to the console. The store keeps
// exactly one of them active.
type Markers struct {
	mu     sync.Mutex
	active map[models.Theme]bool
}

func NewMarkers() *Markers {
	return &Markers{active: make(map[models.Theme]bool)}
}

func (m *Markers) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.active)
}

func (m *Markers) Apply(t models.Theme) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active[t] = true
}

// Active lists the applied markers in AllThemes order.
func (m *Markers) Active() []models.Theme {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Theme
	for _, t := range models.AllThemes {
		if m.active[t] {
			out = append(out, t)
		}
	}
	return out
}

// Current is the first active marker, or the light theme when none is.
func (m *Markers) Current() models.Theme {
	if active := m.Active(); len(active) > 0 {
		return active[0]
	}
	return models.ThemeLight
}
