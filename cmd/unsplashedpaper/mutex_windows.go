//go:build windows

package main

import (
	"errors"
	"syscall"

	"github.com/dixieflatline76/UnsplashedPaper/config"
	"github.com/dixieflatline76/UnsplashedPaper/util/log"
	"golang.org/x/sys/windows"
)

var mutex windows.Handle

// acquireLock creates a named mutex. It reports false without error when
// another instance already owns the name.
func acquireLock() (bool, error) {
	name, err := syscall.UTF16PtrFromString(config.AppName + "_SingleInstanceMutex")
	if err != nil {
		return false, err
	}

	h, err := windows.CreateMutex(nil, false, name)
	if errors.Is(err, windows.ERROR_ALREADY_EXISTS) {
		if h != 0 {
			windows.CloseHandle(h)
		}
		return false, nil
	}
	if err != nil {
		return false, err
	}
	mutex = h
	return true, nil
}

func releaseLock() {
	if mutex == 0 {
		return
	}
	if err := windows.ReleaseMutex(mutex); err != nil {
		log.Printf("Failed to release mutex: %v", err)
	}
	if err := windows.CloseHandle(mutex); err != nil {
		log.Printf("Failed to close mutex handle: %v", err)
	}
	mutex = 0
}
