package wallpaper

import (
	"errors"
	"fmt"

	"github.com/dixieflatline76/UnsplashedPaper/pkg/unsplash"
	"github.com/dixieflatline76/UnsplashedPaper/util/log"
	"github.com/spf13/afero"
)

// Apply failure kinds. Match with errors.Is against an *ApplyError.
var (
	ErrUnsupportedPath = errors.New("asset path is not a regular file")
	ErrOSRejected      = errors.New("desktop rejected the image")
)

// ApplyError reports why an asset did not become a display's background.
type ApplyError struct {
	MonitorID int
	Path      string
	Kind      error // ErrUnsupportedPath or ErrOSRejected
	Err       error
}

func (e *ApplyError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("apply %s to monitor %d: %v", e.Path, e.MonitorID, e.Kind)
	}
	return fmt.Sprintf("apply %s to monitor %d: %v: %v", e.Path, e.MonitorID, e.Kind, e.Err)
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *ApplyError) Unwrap() []error {
	errs := []error{e.Kind}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// WallpaperApplier sets a downloaded asset as one display's background.
type WallpaperApplier interface {
	Apply(asset unsplash.Asset, m Monitor, scale bool) error
}

// Applier applies assets through the OS collaborator.
type Applier struct {
	os OS
	fs afero.Fs
}

// NewApplier creates an Applier. fs is where assets live; it must be the
// same file system the fetch client writes to.
func NewApplier(os OS, fs afero.Fs) *Applier {
	return &Applier{os: os, fs: fs}
}

// Apply sets asset as m's background. It reads the display's current
// options, replaces only the scaling option, and hands the result back
// unchanged otherwise. A failure never affects other displays.
func (a *Applier) Apply(asset unsplash.Asset, m Monitor, scale bool) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &ApplyError{MonitorID: m.ID, Path: asset.Path, Kind: ErrOSRejected, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	info, statErr := a.fs.Stat(asset.Path)
	if statErr != nil {
		return &ApplyError{MonitorID: m.ID, Path: asset.Path, Kind: ErrUnsupportedPath, Err: statErr}
	}
	if !info.Mode().IsRegular() {
		return &ApplyError{MonitorID: m.ID, Path: asset.Path, Kind: ErrUnsupportedPath}
	}

	opts, optErr := a.os.GetDesktopOptions(m.ID)
	if optErr != nil {
		log.Printf("[Apply] Could not read options for monitor %d, using defaults: %v", m.ID, optErr)
		opts = DesktopOptions{}
	}

	if setErr := a.os.SetWallpaper(asset.Path, m.ID, opts.WithScaling(scale)); setErr != nil {
		return &ApplyError{MonitorID: m.ID, Path: asset.Path, Kind: ErrOSRejected, Err: setErr}
	}

	log.Printf("[Apply] Monitor %s now shows %s (scale=%v)", m, asset.Path, scale)
	return nil
}
