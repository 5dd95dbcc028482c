package wallpaper

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"github.com/dixieflatline76/UnsplashedPaper/pkg/unsplash"
)

// RefreshConfig is the settings snapshot one refresh cycle runs against.
// It is a value; later preference edits do not reach a cycle in progress.
type RefreshConfig struct {
	UpdateInterval  int // seconds, always positive once resolved
	ScaleImages     bool
	PerDisplayImage bool
	CollectionID    string // empty means no collection filter
	SearchQuery     string // empty means no search filter
}

// DefaultRefreshConfig returns the settings used when nothing is stored.
func DefaultRefreshConfig() RefreshConfig {
	return RefreshConfig{
		UpdateInterval:  DefaultUpdateInterval,
		ScaleImages:     DefaultScaleImages,
		PerDisplayImage: DefaultImagePerScreen,
	}
}

// Interval returns the refresh interval as a duration.
func (c RefreshConfig) Interval() time.Duration {
	return time.Duration(ResolveInterval(c.UpdateInterval)) * time.Second
}

// Request builds the fetch request for a canvas of the given size.
func (c RefreshConfig) Request(size unsplash.Size) unsplash.FetchRequest {
	return unsplash.FetchRequest{
		Size:         size,
		CollectionID: c.CollectionID,
		SearchQuery:  c.SearchQuery,
	}
}

func (c RefreshConfig) String() string {
	return fmt.Sprintf("interval=%ds scale=%v perDisplay=%v collection=%q query=%q",
		ResolveInterval(c.UpdateInterval), c.ScaleImages, c.PerDisplayImage, c.CollectionID, c.SearchQuery)
}

// ResolveInterval replaces a missing or non-positive interval with the default.
func ResolveInterval(seconds int) int {
	if seconds <= 0 {
		return DefaultUpdateInterval
	}
	return seconds
}

// ConfigProvider hands out settings snapshots.
type ConfigProvider interface {
	Snapshot() RefreshConfig
}

// StaticConfig is a ConfigProvider that always returns the same snapshot.
type StaticConfig RefreshConfig

// Snapshot implements ConfigProvider.
func (s StaticConfig) Snapshot() RefreshConfig {
	return RefreshConfig(s)
}

// Config reads and writes refresh settings in the preferences store.
type Config struct {
	prefs fyne.Preferences
}

// NewConfig wraps a preferences store.
func NewConfig(p fyne.Preferences) *Config {
	return &Config{prefs: p}
}

// Preferences returns the underlying store.
func (c *Config) Preferences() fyne.Preferences {
	return c.prefs
}

// Snapshot reads every setting once.
func (c *Config) Snapshot() RefreshConfig {
	return RefreshConfig{
		UpdateInterval:  c.GetUpdateInterval(),
		ScaleImages:     c.GetScaleImages(),
		PerDisplayImage: c.GetImagePerScreen(),
		CollectionID:    c.GetCollectionID(),
		SearchQuery:     c.GetSearchQuery(),
	}
}

// GetUpdateInterval returns the refresh interval in seconds. A stored zero or
// negative value reads as the default; the stored value is left alone.
func (c *Config) GetUpdateInterval() int {
	return ResolveInterval(c.prefs.IntWithFallback(UpdateIntervalPrefKey, DefaultUpdateInterval))
}

// SetUpdateInterval stores the refresh interval in seconds.
func (c *Config) SetUpdateInterval(seconds int) {
	c.prefs.SetInt(UpdateIntervalPrefKey, seconds)
}

// GetScaleImages returns whether the desktop should scale images to fit.
func (c *Config) GetScaleImages() bool {
	return c.prefs.BoolWithFallback(ScaleImagesPrefKey, DefaultScaleImages)
}

// SetScaleImages stores the scaling flag.
func (c *Config) SetScaleImages(enabled bool) {
	c.prefs.SetBool(ScaleImagesPrefKey, enabled)
}

// GetImagePerScreen returns whether each display gets its own image.
func (c *Config) GetImagePerScreen() bool {
	return c.prefs.BoolWithFallback(ImagePerScreenPrefKey, DefaultImagePerScreen)
}

// SetImagePerScreen stores the per-display flag.
func (c *Config) SetImagePerScreen(enabled bool) {
	c.prefs.SetBool(ImagePerScreenPrefKey, enabled)
}

// GetCollectionID returns the collection filter, empty when unset.
func (c *Config) GetCollectionID() string {
	return c.prefs.StringWithFallback(CollectionIDPrefKey, "")
}

// SetCollectionID stores the collection filter.
func (c *Config) SetCollectionID(id string) {
	c.prefs.SetString(CollectionIDPrefKey, id)
}

// GetSearchQuery returns the search filter, empty when unset.
func (c *Config) GetSearchQuery() string {
	return c.prefs.StringWithFallback(SearchQueryPrefKey, "")
}

// SetSearchQuery stores the search filter.
func (c *Config) SetSearchQuery(q string) {
	c.prefs.SetString(SearchQueryPrefKey, q)
}
