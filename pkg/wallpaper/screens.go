package wallpaper

import (
	"fmt"
	"image"

	"github.com/dixieflatline76/UnsplashedPaper/pkg/sysinfo"
	"github.com/dixieflatline76/UnsplashedPaper/util/log"
	"github.com/kbinani/screenshot"
)

// ScreenEnumerator lists displays through the platform screen APIs.
type ScreenEnumerator struct {
	numDisplays func() int
	bounds      func(int) Monitor
	primary     func() (image.Rectangle, error) // consulted only when no display is active
}

// NewScreenEnumerator returns an enumerator backed by the active display list.
func NewScreenEnumerator() *ScreenEnumerator {
	return &ScreenEnumerator{
		numDisplays: screenshot.NumActiveDisplays,
		bounds: func(i int) Monitor {
			return Monitor{ID: i, Rect: screenshot.GetDisplayBounds(i)}
		},
		primary: sysinfo.PrimaryBounds,
	}
}

// GetMonitors returns the active displays in OS order. Zero displays is not
// an error.
func (e *ScreenEnumerator) GetMonitors() ([]Monitor, error) {
	n := e.numDisplays()
	if n < 0 {
		return nil, fmt.Errorf("failed to count active displays")
	}
	if n == 0 && e.primary != nil {
		rect, err := e.primary()
		if err != nil {
			log.Debugf("[Screens] No active displays and no primary display: %v", err)
			return nil, nil
		}
		log.Printf("[Screens] Screen API reported no displays, using primary %dx%d", rect.Dx(), rect.Dy())
		return []Monitor{{ID: 0, Rect: rect}}, nil
	}
	monitors := make([]Monitor, 0, n)
	for i := 0; i < n; i++ {
		m := e.bounds(i)
		if m.Rect.Empty() {
			continue // detached or mirrored
		}
		monitors = append(monitors, m)
	}
	return monitors, nil
}
