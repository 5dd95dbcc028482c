//go:build !windows

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"github.com/dixieflatline76/UnsplashedPaper/config"
)

var lockFile *os.File

func lockPath() string {
	return filepath.Join(os.TempDir(), config.AppName+".lock")
}

// acquireLock takes an exclusive fcntl lock on a file in the temp dir.
// It reports false without error when another instance holds it.
func acquireLock() (bool, error) {
	file, err := os.OpenFile(lockPath(), os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return false, fmt.Errorf("failed to open lock file: %w", err)
	}

	err = syscall.FcntlFlock(file.Fd(), syscall.F_SETLK, &syscall.Flock_t{Type: syscall.F_WRLCK})
	if err != nil {
		file.Close()
		if errors.Is(err, syscall.EAGAIN) || errors.Is(err, syscall.EACCES) {
			return false, nil
		}
		return false, fmt.Errorf("failed to lock %s: %w", file.Name(), err)
	}

	lockFile = file
	return true, nil
}

func releaseLock() {
	if lockFile == nil {
		return
	}
	_ = syscall.FcntlFlock(lockFile.Fd(), syscall.F_SETLK, &syscall.Flock_t{Type: syscall.F_UNLCK})
	lockFile.Close()
	os.Remove(lockFile.Name())
	lockFile = nil
}
