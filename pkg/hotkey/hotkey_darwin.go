//go:build darwin

package hotkey

import (
	"time"

	"golang.design/x/hotkey"
)

/*
#cgo LDFLAGS: -framework CoreGraphics -framework ApplicationServices
#include <CoreGraphics/CoreGraphics.h>
#include <ApplicationServices/ApplicationServices.h>

int isKeyPressedNative(int state, int keyCode) {
    return CGEventSourceKeyState((CGEventSourceStateID)state, (CGKeyCode)keyCode) ? 1 : 0;
}

int checkAccessibilityNative() {
    return AXIsProcessTrusted() ? 1 : 0;
}
*/
import "C"

// HasAccessibility reports whether the process may observe global key events.
func HasAccessibility() bool {
	return C.checkAccessibilityNative() != 0
}

const (
	modCtrl = hotkey.ModCmd
	modAlt  = hotkey.ModOption

	keyR = hotkey.KeyR
	keyA = hotkey.KeyA
)

// Top-row and keypad virtual key codes for digits 1-9.
var (
	rowKeyCodes    = [9]int{18, 19, 20, 21, 23, 22, 26, 28, 25}
	keypadKeyCodes = [9]int{83, 84, 85, 86, 87, 88, 89, 91, 92}
)

func keyDown(code int) bool {
	return C.isKeyPressedNative(C.kCGEventSourceStateHIDSystemState, C.int(code)) != 0 ||
		C.isKeyPressedNative(C.kCGEventSourceStateCombinedSessionState, C.int(code)) != 0
}

func digitDown(d int) bool {
	return keyDown(rowKeyCodes[d-1]) || keyDown(keypadKeyCodes[d-1])
}

// GetMonitorIDFromKey returns the display for a digit held with the
// shortcut, or -1. It polls for ~200ms.
func GetMonitorIDFromKey() int {
	return pollHeldDigit(10, 20*time.Millisecond, digitDown)
}
