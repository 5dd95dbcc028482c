//go:build linux

package hotkey

import "golang.design/x/hotkey"

const (
	modCtrl = hotkey.ModCtrl
	modAlt  = hotkey.Mod1

	keyR = hotkey.KeyR
	keyA = hotkey.KeyA
)

// GetMonitorIDFromKey always reports no monitor key; X11 offers no cheap
// async key-state query.
func GetMonitorIDFromKey() int {
	return -1
}

func HasAccessibility() bool {
	return true
}
