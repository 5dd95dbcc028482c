package wallpaper

import "time"

// Preference keys. They match the keys the original macOS build stored in
// its user defaults so existing settings carry over.
const (
	UpdateIntervalPrefKey = "updateInterval" // int seconds between timer-driven refreshes
	ScaleImagesPrefKey    = "scaleImages"    // bool, let the desktop scale the image to the display
	ImagePerScreenPrefKey = "imagePerScreen" // bool, one fetch per display instead of one shared fetch
	CollectionIDPrefKey   = "collectionId"   // string, Unsplash collection to draw from
	SearchQueryPrefKey    = "searchQuery"    // string, raw search text
)

// Defaults applied at read time. They are never written back to the store.
const (
	DefaultUpdateInterval = 60 // seconds
	DefaultScaleImages    = true
	DefaultImagePerScreen = true
)

// Internal constants
const (
	SettingsDebounce = 500 * time.Millisecond
	maxParallelApply = 8 // displays fetched or applied at once within a cycle
	modePerDisplay   = "per-display"
	modeShared       = "shared"
)
