package wallpaper

import (
	"time"

	"github.com/dixieflatline76/UnsplashedPaper/util/log"
)

// WatchSettings applies settings whenever the preferences store changes.
// Bursts of edits within debounce collapse into one ApplySettings call.
// Only the first call registers a listener.
func (s *Service) WatchSettings(debounce time.Duration) {
	if !s.watching.CompareAndSwap(false, true) {
		return
	}
	s.config.Preferences().AddChangeListener(func() {
		s.scheduleApply(debounce)
	})
	log.Debugf("[Service] Watching settings (debounce %v)", debounce)
}

func (s *Service) scheduleApply(debounce time.Duration) {
	s.debounceMu.Lock()
	defer s.debounceMu.Unlock()

	if s.debounce != nil {
		s.debounce.Stop()
	}
	s.debounce = time.AfterFunc(debounce, func() {
		if s.ctx.Err() != nil {
			return
		}
		log.Print("[Service] Settings changed, applying")
		s.ApplySettings()
	})
}
