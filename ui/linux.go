//go:build linux
// +build linux

package ui

// linuxOS implements the OS interface for Linux.
type linuxOS struct{}

// TransformToForeground is a no-op; Linux trays have no dock policy.
func (l *linuxOS) TransformToForeground() {}

// TransformToBackground is a no-op; Linux trays have no dock policy.
func (l *linuxOS) TransformToBackground() {}

func getOS() OS {
	return &linuxOS{}
}
