// Package hotkey binds global keyboard shortcuts to wallpaper actions.
package hotkey

import (
	"sync"
	"time"

	"github.com/dixieflatline76/UnsplashedPaper/util/log"
	"golang.design/x/hotkey"
)

// Actions are the callbacks the shortcuts trigger. Nil callbacks are skipped.
type Actions struct {
	RefreshNow     func()
	RefreshDisplay func(monitorID int) // used when a number key is held with the refresh shortcut
	ApplySettings  func()
}

type binding struct {
	name   string
	mods   []hotkey.Modifier
	key    hotkey.Key
	action func()
}

// monitorKey is swapped out in tests.
var monitorKey = GetMonitorIDFromKey

// pollHeldDigit polls down for digits 1-9 up to attempts times, gap apart,
// and returns the 0-based monitor ID of the first digit held, or -1.
func pollHeldDigit(attempts int, gap time.Duration, down func(digit int) bool) int {
	for try := 0; try < attempts; try++ {
		if try > 0 {
			time.Sleep(gap)
		}
		for d := 1; d <= 9; d++ {
			if down(d) {
				log.Debugf("[Hotkey] Monitor key %d held (attempt %d)", d, try+1)
				return d - 1
			}
		}
	}
	return -1
}

// refreshAction refreshes one display when a number key is held, otherwise
// every display.
func refreshAction(a Actions) func() {
	return func() {
		if a.RefreshDisplay != nil {
			if id := monitorKey(); id >= 0 {
				log.Printf("[Hotkey] Refreshing monitor %d", id)
				a.RefreshDisplay(id)
				return
			}
		}
		a.RefreshNow()
	}
}

func bindings(a Actions) []binding {
	var out []binding
	if a.RefreshNow != nil {
		// Ctrl + Alt + R (Refresh Now; hold 1-9 for a single display)
		out = append(out, binding{"Refresh Now", []hotkey.Modifier{modCtrl, modAlt}, keyR, refreshAction(a)})
	}
	if a.ApplySettings != nil {
		// Ctrl + Alt + A (Apply Settings)
		out = append(out, binding{"Apply Settings", []hotkey.Modifier{modCtrl, modAlt}, keyA, a.ApplySettings})
	}
	return out
}

// StartListeners registers the global shortcuts and returns a function that
// unregisters them. Registration failures are logged and skipped.
func StartListeners(a Actions) (stop func()) {
	if !HasAccessibility() {
		log.Print("[Hotkey] Accessibility permission missing, shortcuts may not fire")
	}

	var registered []*hotkey.Hotkey
	for _, b := range bindings(a) {
		hk := hotkey.New(b.mods, b.key)
		if err := hk.Register(); err != nil {
			log.Printf("[Hotkey] Failed to register hotkey %s: %v", b.name, err)
			continue
		}
		log.Printf("[Hotkey] Registered hotkey: %s", b.name)
		registered = append(registered, hk)

		go func(name string, action func()) {
			for range hk.Keydown() {
				log.Debugf("[Hotkey] Pressed: %s", name)
				action()
				time.Sleep(200 * time.Millisecond)
			}
		}(b.name, b.action)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			for _, hk := range registered {
				if err := hk.Unregister(); err != nil {
					log.Debugf("[Hotkey] Unregister failed: %v", err)
				}
			}
		})
	}
}
