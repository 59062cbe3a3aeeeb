package export

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/airwave-radio/airwave/internal/model"
)

func TestSlugify(t *testing.T) {
	assert.Equal(t, "morning-drive", Slugify("Morning Drive", "x"))
	assert.Equal(t, "jazz-24-7", Slugify("Jazz 24/7!", "x"))
	assert.Equal(t, "fallback-id", Slugify("***", "fallback-id"))
	assert.Equal(t, "fallback-id", Slugify("", "fallback-id"))
}

func TestBuildInitialPayloadNoApp(t *testing.T) {
	snap := testSnapshot(nil)
	stations := []ExportStation{{ID: "s1", Name: "One"}}

	payload, state := snap.BuildInitialPayload(nil, stations)
	assert.Equal(t, stations, payload.Stations)
	assert.Nil(t, payload.App)
	assert.Nil(t, payload.Ads)
	assert.Nil(t, state.App)
}

func TestBuildInitialPayloadUsesPrimaryPlatform(t *testing.T) {
	snap := testSnapshot(nil)
	app := &model.PlayerApp{
		ID:               "app-1",
		Name:             "Jazz Player",
		Platforms:        []string{"IOS", "android"},
		AdsEnabled:       true,
		AdNetworkCode:    "12345",
		PlacementPreroll: "/12345/radio/audio_preroll",
	}

	payload, state := snap.BuildInitialPayload(app, nil)
	require.NotNil(t, payload.App)
	assert.Equal(t, "jazz-player", payload.App.ID)
	assert.Equal(t, model.PlatformIOS, payload.App.Platform)
	assert.Equal(t, 1, payload.App.Version)
	require.NotNil(t, payload.Ads)
	assert.Contains(t, payload.Ads.Placements, "audio_rules")
	assert.Nil(t, payload.Settings)

	require.NotNil(t, state.App)
	assert.Equal(t, 1, state.App.version())
	assert.NotEmpty(t, state.Ads)
}

func TestBuildInitialPayloadHomeSettings(t *testing.T) {
	snap := testSnapshot(nil)
	app := &model.PlayerApp{ID: "app-1", Name: "Hub", Platforms: []string{"home"}}

	payload, _ := snap.BuildInitialPayload(app, nil)
	require.NotNil(t, payload.Settings)
	assert.False(t, payload.Settings.Autoplay)
	assert.Equal(t, 0.7, payload.Settings.DefaultVolume)
	assert.Equal(t, "dark", payload.Settings.Theme)
	// no ads block was produced for this app
	assert.False(t, payload.Settings.AdsEnabled)
}

func TestBuildPlatformPayloadDirect(t *testing.T) {
	snap := testSnapshot(nil)
	app := &model.PlayerApp{
		ID:               "app-1",
		Name:             "Jazz Player",
		Platforms:        []string{"ios", "android"},
		AdsEnabled:       true,
		PlacementPreroll: "/12345/radio/audio_preroll",
	}

	payload := snap.BuildPlatformPayload(model.PlatformAndroid, app, nil, ExportState{})
	require.NotNil(t, payload.Ads)
	assert.Equal(t, "/12345/webradio/audio_preroll", payload.Ads.Placements["audio_preroll"].IU)
	assert.Equal(t, model.PlatformAndroid, payload.App.Platform)
	// no stored app descriptor defaults the version
	assert.Equal(t, 1, payload.App.Version)
}

func TestBuildPlatformPayloadFallbackReconstruction(t *testing.T) {
	snap := testSnapshot(nil)
	// the app record has lost its placement fields, but the stored state
	// still carries the canonical block from the initial build
	app := &model.PlayerApp{
		ID:         "app-1",
		Name:       "Jazz Player",
		Platforms:  []string{"ios"},
		AdsEnabled: true,
	}
	state := ExportState{
		App: &storedAppDescriptor{ID: "jazz-player", Platform: "ios", Version: json.RawMessage("3")},
		Ads: json.RawMessage(`{
			"network_code": "12345",
			"placements": {"audio_rules": {"iu": "/12345/webradio/audio_adrules", "enabled": true}}
		}`),
	}

	payload := snap.BuildPlatformPayload(model.PlatformIOS, app, nil, state)
	require.NotNil(t, payload.Ads)
	assert.Equal(t, "/12345/webradio/audio_adrules", payload.Ads.Placements["audio_rules"].IU)
	assert.Equal(t, 3, payload.App.Version)
}

func TestBuildPlatformPayloadNoFallbackWhenAdsDisabled(t *testing.T) {
	snap := testSnapshot(nil)
	app := &model.PlayerApp{ID: "app-1", Name: "Player", Platforms: []string{"ios"}}
	state := ExportState{
		Ads: json.RawMessage(`{"network_code":"12345","placements":{"audio_rules":"/12345/audio_adrules"}}`),
	}

	payload := snap.BuildPlatformPayload(model.PlatformIOS, app, nil, state)
	assert.Nil(t, payload.Ads)
}

func TestStoredAppDescriptorVersion(t *testing.T) {
	var nilDesc *storedAppDescriptor
	assert.Equal(t, 1, nilDesc.version())
	assert.Equal(t, 1, (&storedAppDescriptor{}).version())
	assert.Equal(t, 1, (&storedAppDescriptor{Version: json.RawMessage(`"two"`)}).version())
	assert.Equal(t, 7, (&storedAppDescriptor{Version: json.RawMessage(`7`)}).version())
}

func TestDefaultNetworkCode(t *testing.T) {
	// exactly one distinct non-empty code
	snap := NewSnapshot(nil, nil, []model.PlayerApp{
		{ID: "a", AdNetworkCode: "123"},
		{ID: "b"},
		{ID: "c", AdNetworkCode: "123"},
	}, nil)
	assert.Equal(t, "123", snap.DefaultNetworkCode)

	// conflicting codes yield no default
	snap = NewSnapshot(nil, nil, []model.PlayerApp{
		{ID: "a", AdNetworkCode: "123"},
		{ID: "b", AdNetworkCode: "456"},
	}, nil)
	assert.Equal(t, "", snap.DefaultNetworkCode)

	// no codes at all
	snap = NewSnapshot(nil, nil, []model.PlayerApp{{ID: "a"}}, nil)
	assert.Equal(t, "", snap.DefaultNetworkCode)
}
