package wallpaper

import (
	"errors"
	"testing"

	"github.com/dixieflatline76/UnsplashedPaper/pkg/unsplash"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestAsset(t *testing.T, fs afero.Fs) unsplash.Asset {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, "/cache/img", []byte("jpeg"), 0644))
	return unsplash.Asset{Path: "/cache/img", StatusCode: 200, Bytes: 4}
}

func TestApplyOverridesOnlyScaling(t *testing.T) {
	fs := afero.NewMemMapFs()
	asset := newTestAsset(t, fs)
	mos := new(MockOS)

	current := DesktopOptions{ImageScaling: true, Extra: map[string]string{"fill-color": "#000000"}}
	mos.On("GetDesktopOptions", 1).Return(current, nil)
	mos.On("SetWallpaper", "/cache/img", 1, DesktopOptions{
		ImageScaling: false,
		Extra:        map[string]string{"fill-color": "#000000"},
	}).Return(nil)

	err := NewApplier(mos, fs).Apply(asset, monitor(1, 1920, 1080), false)
	assert.NoError(t, err)
	mos.AssertExpectations(t)
}

func TestApplyMissingFile(t *testing.T) {
	mos := new(MockOS)
	err := NewApplier(mos, afero.NewMemMapFs()).Apply(unsplash.Asset{Path: "/cache/gone"}, monitor(0, 800, 600), true)

	var applyErr *ApplyError
	require.ErrorAs(t, err, &applyErr)
	assert.ErrorIs(t, err, ErrUnsupportedPath)
	assert.Equal(t, 0, applyErr.MonitorID)
	assert.Equal(t, "/cache/gone", applyErr.Path)
	mos.AssertNotCalled(t, "SetWallpaper", mock.Anything, mock.Anything, mock.Anything)
}

func TestApplyDirectoryIsRejected(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/cache/dir", 0755))
	mos := new(MockOS)

	err := NewApplier(mos, fs).Apply(unsplash.Asset{Path: "/cache/dir"}, monitor(0, 800, 600), true)
	assert.ErrorIs(t, err, ErrUnsupportedPath)
	mos.AssertNotCalled(t, "SetWallpaper", mock.Anything, mock.Anything, mock.Anything)
}

func TestApplyOptionsReadFailureUsesDefaults(t *testing.T) {
	fs := afero.NewMemMapFs()
	asset := newTestAsset(t, fs)
	mos := new(MockOS)
	mos.On("GetDesktopOptions", 0).Return(DesktopOptions{}, errors.New("no such screen"))
	mos.On("SetWallpaper", "/cache/img", 0, DesktopOptions{ImageScaling: true}).Return(nil)

	assert.NoError(t, NewApplier(mos, fs).Apply(asset, monitor(0, 800, 600), true))
	mos.AssertExpectations(t)
}

func TestApplyOSRejects(t *testing.T) {
	fs := afero.NewMemMapFs()
	asset := newTestAsset(t, fs)
	cause := errors.New("access denied")
	mos := new(MockOS)
	mos.On("GetDesktopOptions", 0).Return(DesktopOptions{}, nil)
	mos.On("SetWallpaper", "/cache/img", 0, mock.Anything).Return(cause)

	err := NewApplier(mos, fs).Apply(asset, monitor(0, 800, 600), true)
	assert.ErrorIs(t, err, ErrOSRejected)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "monitor 0")
}

func TestApplyRecoversPanic(t *testing.T) {
	fs := afero.NewMemMapFs()
	asset := newTestAsset(t, fs)
	mos := new(MockOS)
	mos.On("GetDesktopOptions", 0).Return(DesktopOptions{}, nil)
	mos.On("SetWallpaper", "/cache/img", 0, mock.Anything).Run(func(mock.Arguments) {
		panic("boom")
	}).Return(nil)

	var err error
	assert.NotPanics(t, func() {
		err = NewApplier(mos, fs).Apply(asset, monitor(0, 800, 600), true)
	})
	assert.ErrorIs(t, err, ErrOSRejected)
}

func TestApplyNeverDeletesAsset(t *testing.T) {
	fs := afero.NewMemMapFs()
	asset := newTestAsset(t, fs)
	mos := new(MockOS)
	mos.On("GetDesktopOptions", 0).Return(DesktopOptions{}, nil)
	mos.On("SetWallpaper", "/cache/img", 0, mock.Anything).Return(errors.New("rejected"))

	_ = NewApplier(mos, fs).Apply(asset, monitor(0, 800, 600), true)
	exists, err := afero.Exists(fs, asset.Path)
	require.NoError(t, err)
	assert.True(t, exists)
}
