//go:build windows
// +build windows

package ui

// windowsOS implements the OS interface for Windows.
type windowsOS struct{}

// TransformToForeground is a no-op; Windows has no Dock.
func (w *windowsOS) TransformToForeground() {}

// TransformToBackground is a no-op; Windows has no Dock.
func (w *windowsOS) TransformToBackground() {}

func getOS() OS {
	return &windowsOS{}
}
