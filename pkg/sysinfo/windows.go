//go:build windows

package sysinfo

import (
	"golang.org/x/sys/windows"
)

var (
	user32           = windows.NewLazySystemDLL("user32.dll")
	getSystemMetrics = user32.NewProc("GetSystemMetrics")
)

const (
	smCXScreen = 0
	smCYScreen = 1
)

func screenDimensions() (int, int, error) {
	if err := getSystemMetrics.Find(); err != nil {
		return 0, 0, err
	}
	w, _, _ := getSystemMetrics.Call(smCXScreen)
	h, _, _ := getSystemMetrics.Call(smCYScreen)
	return int(w), int(h), nil
}
