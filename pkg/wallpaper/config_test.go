package wallpaper

import (
	"testing"
	"time"

	"github.com/dixieflatline76/UnsplashedPaper/pkg/unsplash"
	"github.com/stretchr/testify/assert"
)

func TestConfigDefaults(t *testing.T) {
	cfg := NewConfig(NewMockPreferences())

	assert.Equal(t, DefaultRefreshConfig(), cfg.Snapshot())
	assert.Equal(t, 60, cfg.GetUpdateInterval())
	assert.True(t, cfg.GetScaleImages())
	assert.True(t, cfg.GetImagePerScreen())
	assert.Empty(t, cfg.GetCollectionID())
	assert.Empty(t, cfg.GetSearchQuery())
}

func TestConfigRoundTrip(t *testing.T) {
	prefs := NewMockPreferences()
	cfg := NewConfig(prefs)

	cfg.SetUpdateInterval(300)
	cfg.SetScaleImages(false)
	cfg.SetImagePerScreen(false)
	cfg.SetCollectionID("317099")
	cfg.SetSearchQuery("mountain lake")

	assert.Equal(t, RefreshConfig{
		UpdateInterval:  300,
		ScaleImages:     false,
		PerDisplayImage: false,
		CollectionID:    "317099",
		SearchQuery:     "mountain lake",
	}, cfg.Snapshot())
	assert.Equal(t, 300, prefs.Int(UpdateIntervalPrefKey))
}

func TestNonPositiveIntervalResolvesWithoutWriteBack(t *testing.T) {
	for _, stored := range []int{0, -5} {
		prefs := NewMockPreferences()
		prefs.SetInt(UpdateIntervalPrefKey, stored)
		cfg := NewConfig(prefs)

		assert.Equal(t, DefaultUpdateInterval, cfg.GetUpdateInterval())
		assert.Equal(t, 60*time.Second, cfg.Snapshot().Interval())
		assert.Equal(t, stored, prefs.Int(UpdateIntervalPrefKey), "stored value must be left alone")
	}
}

func TestResolveInterval(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{-1, 60},
		{0, 60},
		{1, 1},
		{3600, 3600},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ResolveInterval(tt.in))
	}
}

func TestRefreshConfigRequest(t *testing.T) {
	cfg := RefreshConfig{CollectionID: "nature", SearchQuery: "cats"}
	req := cfg.Request(unsplash.NewSize(1920, 1080))

	assert.Equal(t, unsplash.FetchRequest{
		Size:         unsplash.NewSize(1920, 1080),
		CollectionID: "nature",
		SearchQuery:  "cats",
	}, req)
}

func TestStaticConfig(t *testing.T) {
	want := RefreshConfig{UpdateInterval: 5, ScaleImages: true}
	var p ConfigProvider = StaticConfig(want)
	assert.Equal(t, want, p.Snapshot())
	assert.Contains(t, want.String(), "interval=5s")
}
