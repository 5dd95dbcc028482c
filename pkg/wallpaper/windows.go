//go:build windows
// +build windows

package wallpaper

import (
	"fmt"
	"runtime"
	"syscall"
	"unsafe"

	"github.com/go-ole/go-ole"
	"golang.org/x/sys/windows"
)

var (
	clsidDesktopWallpaper = ole.NewGUID("{C2CF3110-460E-4FC1-B9D0-8A1C0C9CC4BD}")
	iidIDesktopWallpaper  = ole.NewGUID("{B92B56A9-8B55-4E14-9A89-0199BBB6F93B}")
)

// DESKTOP_WALLPAPER_POSITION values.
const (
	dwposCenter  = 0
	dwposTile    = 1
	dwposStretch = 2
	dwposFit     = 3
	dwposFill    = 4
	dwposSpan    = 5
)

// iDesktopWallpaperVtbl mirrors the IDesktopWallpaper vtable layout.
type iDesktopWallpaperVtbl struct {
	ole.IUnknownVtbl
	SetWallpaper              uintptr
	GetWallpaper              uintptr
	GetMonitorDevicePathAt    uintptr
	GetMonitorDevicePathCount uintptr
	GetMonitorRECT            uintptr
	SetBackgroundColor        uintptr
	GetBackgroundColor        uintptr
	SetPosition               uintptr
	GetPosition               uintptr
	SetSlideshow              uintptr
	GetSlideshow              uintptr
	SetSlideshowOptions       uintptr
	GetSlideshowOptions       uintptr
	AdvanceSlideshow          uintptr
	GetStatus                 uintptr
	Enable                    uintptr
}

type iDesktopWallpaper struct {
	ole.IUnknown
}

func (d *iDesktopWallpaper) vtbl() *iDesktopWallpaperVtbl {
	return (*iDesktopWallpaperVtbl)(unsafe.Pointer(d.RawVTable))
}

func hresult(hr uintptr) error {
	if hr != 0 {
		return ole.NewError(hr)
	}
	return nil
}

func (d *iDesktopWallpaper) monitorDevicePath(index int) (string, error) {
	var p *uint16
	hr, _, _ := syscall.SyscallN(d.vtbl().GetMonitorDevicePathAt,
		uintptr(unsafe.Pointer(d)), uintptr(index), uintptr(unsafe.Pointer(&p)))
	if err := hresult(hr); err != nil {
		return "", err
	}
	defer ole.CoTaskMemFree(uintptr(unsafe.Pointer(p)))
	return windows.UTF16PtrToString(p), nil
}

func (d *iDesktopWallpaper) setWallpaper(devicePath, imagePath string) error {
	dev, err := windows.UTF16PtrFromString(devicePath)
	if err != nil {
		return err
	}
	img, err := windows.UTF16PtrFromString(imagePath)
	if err != nil {
		return err
	}
	hr, _, _ := syscall.SyscallN(d.vtbl().SetWallpaper,
		uintptr(unsafe.Pointer(d)), uintptr(unsafe.Pointer(dev)), uintptr(unsafe.Pointer(img)))
	return hresult(hr)
}

func (d *iDesktopWallpaper) position() (int, error) {
	var pos int32
	hr, _, _ := syscall.SyscallN(d.vtbl().GetPosition,
		uintptr(unsafe.Pointer(d)), uintptr(unsafe.Pointer(&pos)))
	return int(pos), hresult(hr)
}

func (d *iDesktopWallpaper) setPosition(pos int) error {
	hr, _, _ := syscall.SyscallN(d.vtbl().SetPosition, uintptr(unsafe.Pointer(d)), uintptr(pos))
	return hresult(hr)
}

// withDesktopWallpaper runs fn against a fresh IDesktopWallpaper instance on
// a locked OS thread.
func withDesktopWallpaper(fn func(d *iDesktopWallpaper) error) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := ole.CoInitializeEx(0, ole.COINIT_APARTMENTTHREADED); err != nil {
		// S_FALSE: already initialised on this thread.
		if oleErr, ok := err.(*ole.OleError); !ok || oleErr.Code() != 1 {
			return fmt.Errorf("CoInitializeEx: %w", err)
		}
	}
	defer ole.CoUninitialize()

	unk, err := ole.CreateInstance(clsidDesktopWallpaper, iidIDesktopWallpaper)
	if err != nil {
		return fmt.Errorf("failed to create IDesktopWallpaper: %w", err)
	}
	defer unk.Release()

	return fn((*iDesktopWallpaper)(unsafe.Pointer(unk)))
}

func scalingPosition(pos int) bool {
	switch pos {
	case dwposStretch, dwposFit, dwposFill, dwposSpan:
		return true
	}
	return false
}

// windowsOS implements the OS interface for Windows.
type windowsOS struct {
	screens MonitorEnumerator
}

func getOS() OS {
	return &windowsOS{screens: NewScreenEnumerator()}
}

// GetMonitors implements MonitorEnumerator.
func (w *windowsOS) GetMonitors() ([]Monitor, error) {
	return w.screens.GetMonitors()
}

// GetDesktopOptions reads the wallpaper position. Windows keeps one position
// for every monitor.
func (w *windowsOS) GetDesktopOptions(monitorID int) (DesktopOptions, error) {
	var opts DesktopOptions
	err := withDesktopWallpaper(func(d *iDesktopWallpaper) error {
		pos, err := d.position()
		if err != nil {
			return fmt.Errorf("GetPosition: %w", err)
		}
		opts = DesktopOptions{
			ImageScaling: scalingPosition(pos),
			Extra:        map[string]string{"position": fmt.Sprint(pos)},
		}
		return nil
	})
	return opts, err
}

// SetWallpaper sets imagePath on the monitorID-th monitor device path. The
// position is only changed when it disagrees with opts.ImageScaling.
func (w *windowsOS) SetWallpaper(imagePath string, monitorID int, opts DesktopOptions) error {
	return withDesktopWallpaper(func(d *iDesktopWallpaper) error {
		devicePath, err := d.monitorDevicePath(monitorID)
		if err != nil {
			return fmt.Errorf("GetMonitorDevicePathAt(%d): %w", monitorID, err)
		}

		if pos, err := d.position(); err == nil && scalingPosition(pos) != opts.ImageScaling {
			target := dwposCenter
			if opts.ImageScaling {
				target = dwposFill
			}
			if err := d.setPosition(target); err != nil {
				return fmt.Errorf("SetPosition: %w", err)
			}
		}

		if err := d.setWallpaper(devicePath, imagePath); err != nil {
			return fmt.Errorf("SetWallpaper: %w", err)
		}
		return nil
	})
}
