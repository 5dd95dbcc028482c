//go:build darwin
// +build darwin

package wallpaper

/*
#cgo CFLAGS: -x objective-c -fobjc-arc
#cgo LDFLAGS: -framework AppKit -framework Foundation

#include <AppKit/AppKit.h>
#include <stdlib.h>

static NSScreen* screenAt(int index) {
    NSArray<NSScreen *> *screens = [NSScreen screens];
    if (index < 0 || index >= (int)[screens count]) return nil;
    return screens[index];
}

// readScaling returns 1 when the screen scales its image, 0 when it does
// not and -1 when the screen does not exist.
int readScaling(int index) {
    @autoreleasepool {
        NSScreen *screen = screenAt(index);
        if (screen == nil) return -1;
        NSDictionary *opts = [[NSWorkspace sharedWorkspace] desktopImageOptionsForScreen:screen];
        NSNumber *scaling = opts[NSWorkspaceDesktopImageScalingKey];
        if (scaling == nil) return 1;
        return [scaling integerValue] == NSImageScaleNone ? 0 : 1;
    }
}

// setDesktopImage keeps the screen's existing options and replaces only the
// scaling key. Returns 0 on success.
int setDesktopImage(const char* path, int index, int scale) {
    @autoreleasepool {
        NSScreen *screen = screenAt(index);
        if (screen == nil) return -1;

        NSWorkspace *ws = [NSWorkspace sharedWorkspace];
        NSMutableDictionary *opts = [[ws desktopImageOptionsForScreen:screen] mutableCopy];
        if (opts == nil) opts = [NSMutableDictionary dictionary];
        opts[NSWorkspaceDesktopImageScalingKey] = scale ? @(NSImageScaleProportionallyUpOrDown) : @(NSImageScaleNone);

        NSURL *url = [NSURL fileURLWithPath:[NSString stringWithUTF8String:path]];
        NSError *error = nil;
        BOOL ok = [ws setDesktopImageURL:url forScreen:screen options:opts error:&error];
        return ok ? 0 : -2;
    }
}

int screenCount() {
    return (int)[[NSScreen screens] count];
}
*/
import "C"

import (
	"fmt"
	"unsafe"
)

// macOSOS implements the OS interface for macOS.
type macOSOS struct {
	screens MonitorEnumerator
}

func getOS() OS {
	return &macOSOS{screens: NewScreenEnumerator()}
}

// GetMonitors implements MonitorEnumerator.
func (m *macOSOS) GetMonitors() ([]Monitor, error) {
	return m.screens.GetMonitors()
}

// GetDesktopOptions reads the screen's scaling option.
func (m *macOSOS) GetDesktopOptions(monitorID int) (DesktopOptions, error) {
	switch C.readScaling(C.int(monitorID)) {
	case -1:
		return DesktopOptions{}, fmt.Errorf("no screen at index %d of %d", monitorID, int(C.screenCount()))
	case 0:
		return DesktopOptions{ImageScaling: false}, nil
	default:
		return DesktopOptions{ImageScaling: true}, nil
	}
}

// SetWallpaper sets the desktop image of one screen.
func (m *macOSOS) SetWallpaper(imagePath string, monitorID int, opts DesktopOptions) error {
	cPath := C.CString(imagePath)
	defer C.free(unsafe.Pointer(cPath))

	scale := 0
	if opts.ImageScaling {
		scale = 1
	}
	switch C.setDesktopImage(cPath, C.int(monitorID), C.int(scale)) {
	case 0:
		return nil
	case -1:
		return fmt.Errorf("no screen at index %d", monitorID)
	default:
		return fmt.Errorf("NSWorkspace rejected %s for screen %d", imagePath, monitorID)
	}
}
