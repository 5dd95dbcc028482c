//go:build darwin

package ui

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework Foundation -framework AppKit

#import <AppKit/AppKit.h>

// Dock icon and menu bar.
static const long policyRegular = NSApplicationActivationPolicyRegular;
// Menu bar extra only.
static const long policyAccessory = NSApplicationActivationPolicyAccessory;

static void applyActivationPolicy(long policy) {
    [NSApp setActivationPolicy:(NSApplicationActivationPolicy)policy];
    // The policy only sticks once the app is activated.
    [NSApp activateIgnoringOtherApps:YES];
}
*/
import "C"

// darwinOS shows the Dock icon while the preferences window is open.
type darwinOS struct{}

func (darwinOS) TransformToForeground() {
	C.applyActivationPolicy(C.policyRegular)
}

func (darwinOS) TransformToBackground() {
	C.applyActivationPolicy(C.policyAccessory)
}

func getOS() OS {
	return darwinOS{}
}
