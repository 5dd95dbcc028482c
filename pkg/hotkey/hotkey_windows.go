//go:build windows

package hotkey

import (
	"time"

	"golang.design/x/hotkey"
	"golang.org/x/sys/windows"
)

const (
	modCtrl = hotkey.ModCtrl
	modAlt  = hotkey.ModAlt

	keyR = hotkey.KeyR
	keyA = hotkey.KeyA
)

var getAsyncKeyState = windows.NewLazySystemDLL("user32.dll").NewProc("GetAsyncKeyState")

// vkDigit1 is the virtual key code of '1'; '2'..'9' follow it.
const vkDigit1 = 0x31

func digitDown(d int) bool {
	state, _, _ := getAsyncKeyState.Call(uintptr(vkDigit1 + d - 1))
	return state&0x8000 != 0
}

// GetMonitorIDFromKey returns the display for a digit held with the
// shortcut, or -1. Chords land a little late, so it polls for ~100ms.
func GetMonitorIDFromKey() int {
	return pollHeldDigit(5, 20*time.Millisecond, digitDown)
}

func HasAccessibility() bool {
	return true
}
