package wallpaper

import "maps"

// DesktopOptions are a display's background settings. Only ImageScaling is
// ever changed by this package; Extra carries platform settings through
// untouched.
type DesktopOptions struct {
	ImageScaling bool
	Extra        map[string]string
}

// WithScaling returns a copy of o with ImageScaling replaced.
func (o DesktopOptions) WithScaling(scale bool) DesktopOptions {
	return DesktopOptions{ImageScaling: scale, Extra: maps.Clone(o.Extra)}
}

// OS is the desktop-background collaborator.
type OS interface {
	MonitorEnumerator
	GetDesktopOptions(monitorID int) (DesktopOptions, error)
	SetWallpaper(path string, monitorID int, opts DesktopOptions) error
}

// DefaultOS returns the desktop collaborator for the running platform.
func DefaultOS() OS {
	return getOS()
}
