package wallpaper

import (
	"fmt"
	"image"

	"github.com/dixieflatline76/UnsplashedPaper/pkg/unsplash"
)

// Monitor represents a connected display
type Monitor struct {
	ID   int             // Index the desktop collaborator addresses the display by
	Name string          // OS-specific name (e.g. "DP-1"), may be empty
	Rect image.Rectangle // Bounds in pixels
}

// Size returns the monitor's pixel size as a fetch size.
func (m Monitor) Size() unsplash.Size {
	return unsplash.NewSize(m.Rect.Dx(), m.Rect.Dy())
}

func (m Monitor) String() string {
	if m.Name != "" {
		return fmt.Sprintf("%d (%s, %dx%d)", m.ID, m.Name, m.Rect.Dx(), m.Rect.Dy())
	}
	return fmt.Sprintf("%d (%dx%d)", m.ID, m.Rect.Dx(), m.Rect.Dy())
}

// MonitorEnumerator lists the active displays.
type MonitorEnumerator interface {
	GetMonitors() ([]Monitor, error)
}

// SharedSize returns the smallest canvas that covers every monitor in both
// dimensions: the maximum width paired with the maximum height. The result
// need not match any single monitor's aspect ratio.
func SharedSize(monitors []Monitor) unsplash.Size {
	var w, h int
	for _, m := range monitors {
		if dx := m.Rect.Dx(); dx > w {
			w = dx
		}
		if dy := m.Rect.Dy(); dy > h {
			h = dy
		}
	}
	return unsplash.NewSize(w, h)
}
