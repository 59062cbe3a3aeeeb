package export

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/airwave-radio/airwave/internal/model"
)

func TestResolveNetworkCode(t *testing.T) {
	// explicit field wins over everything
	app := model.PlayerApp{AdNetworkCode: "777", PlacementPreroll: "/12345/audio_preroll"}
	assert.Equal(t, "777", resolveNetworkCode(app, "999"))

	// otherwise the first numeric segment from a placement
	app = model.PlayerApp{PlacementMidroll: "/12345/webradio/video_midroll"}
	assert.Equal(t, "12345", resolveNetworkCode(app, "999"))

	// otherwise the catalog default
	assert.Equal(t, "999", resolveNetworkCode(model.PlayerApp{}, "999"))
	assert.Equal(t, "", resolveNetworkCode(model.PlayerApp{}, ""))

	// short numeric segments are not network codes
	app = model.PlayerApp{PlacementPreroll: "/12/audio_preroll"}
	assert.Equal(t, "", resolveNetworkCode(app, ""))
}

func TestNormalizeIOSPlacement(t *testing.T) {
	cases := map[string]string{
		"/12345/radio/audio_preroll": "/12345/webradio/audio_adrules",
		"/12345/radio/video_midroll": "/12345/webradio/video_adrules",
		"/12345/other/audio_adrules": "/12345/other/audio_adrules",
		"/12345/radio/banner":        "/12345/radio/banner",
		"":                           "",
	}
	for in, want := range cases {
		assert.Equal(t, want, normalizeIOSPlacement(in), "input %q", in)
	}
}

func TestNormalizeAndroidPlacement(t *testing.T) {
	// adrules and midroll leaves fold back to preroll
	assert.Equal(t, "/12345/webradio/audio_preroll",
		normalizeAndroidPlacement("/12345/webradio/audio_adrules", "audio_preroll"))
	assert.Equal(t, "/12345/webradio/video_preroll",
		normalizeAndroidPlacement("/12345/webradio/video_midroll", "video_preroll"))

	// a differing leaf is forced onto the canonical one
	assert.Equal(t, "/12345/audio_preroll",
		normalizeAndroidPlacement("/12345/sponsored", "audio_preroll"))

	// without a canonical leaf a non-preroll leaf becomes the literal
	assert.Equal(t, "/12345/preroll", normalizeAndroidPlacement("/12345/sponsored", ""))

	// legacy radio segment rewrites once the leaf is canonical
	assert.Equal(t, "/12345/webradio/audio_preroll",
		normalizeAndroidPlacement("/12345/radio/audio_preroll", "audio_preroll"))
}

func TestBuildAdsConfigIOS(t *testing.T) {
	app := model.PlayerApp{
		AdsEnabled:       true,
		AdNetworkCode:    "12345",
		PlacementPreroll: "/12345/radio/audio_preroll",
		PlacementMidroll: "/12345/radio/video_midroll",
		VideoAdSize:      "640x480",
	}

	cfg := BuildAdsConfig(app, model.PlatformIOS, "")
	require.NotNil(t, cfg)
	assert.Equal(t, "12345", cfg.NetworkCode)

	audio := cfg.Placements["audio_rules"]
	assert.Equal(t, "/12345/webradio/audio_adrules", audio.IU)
	assert.True(t, audio.Enabled)
	assert.Empty(t, audio.Size)

	video := cfg.Placements["video_rules"]
	assert.Equal(t, "/12345/webradio/video_adrules", video.IU)
	assert.True(t, video.Enabled)
	assert.Equal(t, "640x480", video.Size)

	assert.Equal(t, Privacy{NPA: 0, TFCD: 0, USPrivacy: "1YNN"}, cfg.Privacy)
	assert.Equal(t, AdLock{Enabled: true, Seconds: 300, Scope: "rolling", ExemptPlacements: []string{}}, cfg.AdLock)
}

func TestBuildAdsConfigAndroid(t *testing.T) {
	app := model.PlayerApp{
		AdsEnabled:       true,
		PlacementPreroll: "/12345/webradio/audio_adrules",
	}

	cfg := BuildAdsConfig(app, model.PlatformAndroid, "")
	require.NotNil(t, cfg)
	assert.Equal(t, "12345", cfg.NetworkCode)

	audio := cfg.Placements["audio_preroll"]
	assert.Equal(t, "/12345/webradio/audio_preroll", audio.IU)
	assert.True(t, audio.Enabled)

	// no midroll/rewarded source and the code synthesizes a video slot
	video := cfg.Placements["video_preroll"]
	assert.Equal(t, "/12345/video_preroll", video.IU)
	assert.True(t, video.Enabled)
}

func TestBuildAdsConfigVideoFallsBackToRewarded(t *testing.T) {
	app := model.PlayerApp{
		AdsEnabled:        true,
		AdNetworkCode:     "555",
		PlacementRewarded: "/555/video_rewarded",
	}
	cfg := BuildAdsConfig(app, model.PlatformAndroid, "")
	require.NotNil(t, cfg)
	assert.Equal(t, "/555/video_preroll", cfg.Placements["video_preroll"].IU)
}

func TestBuildAdsConfigNilCases(t *testing.T) {
	enabled := model.PlayerApp{AdsEnabled: true, AdNetworkCode: "12345"}

	// ads switched off
	assert.Nil(t, BuildAdsConfig(model.PlayerApp{AdNetworkCode: "12345"}, model.PlatformIOS, ""))
	// web takes no ads block
	assert.Nil(t, BuildAdsConfig(enabled, model.PlatformWeb, ""))
	assert.Nil(t, BuildAdsConfig(enabled, "generic", ""))
	// nothing to derive a placement from
	assert.Nil(t, BuildAdsConfig(model.PlayerApp{AdsEnabled: true}, model.PlatformIOS, ""))
}

func TestBuildAdsConfigSynthesizesFromNetworkCode(t *testing.T) {
	app := model.PlayerApp{AdsEnabled: true, AdNetworkCode: "321654"}
	cfg := BuildAdsConfig(app, model.PlatformIOS, "")
	require.NotNil(t, cfg)
	assert.Equal(t, "/321654/audio_adrules", cfg.Placements["audio_rules"].IU)
	assert.Equal(t, "/321654/video_adrules", cfg.Placements["video_rules"].IU)
}

func TestPlacementSourceShapes(t *testing.T) {
	var p placementSource
	require.NoError(t, json.Unmarshal([]byte(`"/123/audio_preroll"`), &p))
	assert.True(t, p.present)
	assert.Equal(t, "/123/audio_preroll", p.uri)

	require.NoError(t, json.Unmarshal([]byte(`{"iu":"/123/audio_preroll","enabled":true}`), &p))
	assert.True(t, p.present)
	assert.Equal(t, "/123/audio_preroll", p.uri)

	// unknown shapes degrade to absent instead of failing
	require.NoError(t, json.Unmarshal([]byte(`[1,2,3]`), &p))
	assert.False(t, p.present)

	require.NoError(t, json.Unmarshal([]byte(`""`), &p))
	assert.False(t, p.present)
}

func TestReconstructAdsConfig(t *testing.T) {
	stored := json.RawMessage(`{
		"network_code": "12345",
		"placements": {
			"audio_preroll": {"iu": "/12345/radio/audio_preroll", "enabled": true},
			"video_preroll": "/12345/radio/video_midroll"
		},
		"privacy": {"npa": 1, "tfcd": 1, "us_privacy": "1YYY"},
		"ad_lock": {"enabled": false, "seconds": 0, "scope": "none", "exempt_placements": []}
	}`)
	app := model.PlayerApp{AdsEnabled: true, VideoAdSize: "640x480"}

	cfg := ReconstructAdsConfig(stored, app, model.PlatformIOS, "")
	require.NotNil(t, cfg)
	assert.Equal(t, "12345", cfg.NetworkCode)
	assert.Equal(t, "/12345/webradio/audio_adrules", cfg.Placements["audio_rules"].IU)
	assert.Equal(t, "/12345/webradio/video_adrules", cfg.Placements["video_rules"].IU)
	assert.Equal(t, "640x480", cfg.Placements["video_rules"].Size)

	// stored regulatory settings override the defaults
	assert.Equal(t, Privacy{NPA: 1, TFCD: 1, USPrivacy: "1YYY"}, cfg.Privacy)
	assert.False(t, cfg.AdLock.Enabled)
}

func TestReconstructAdsConfigDegenerateInput(t *testing.T) {
	app := model.PlayerApp{AdsEnabled: true}
	assert.Nil(t, ReconstructAdsConfig(nil, app, model.PlatformIOS, ""))
	assert.Nil(t, ReconstructAdsConfig(json.RawMessage(`not json`), app, model.PlatformIOS, ""))
	assert.Nil(t, ReconstructAdsConfig(json.RawMessage(`{}`), app, model.PlatformIOS, ""))
	assert.Nil(t, ReconstructAdsConfig(json.RawMessage(`{"network_code":"123"}`), app, model.PlatformWeb, ""))
}

func TestPlatformRoundTripKeepsSuffixToken(t *testing.T) {
	// rebuilding for iOS out of an Android-canonical stored block and back
	// keeps the placement rooted at the same network path
	app := model.PlayerApp{
		AdsEnabled:       true,
		PlacementPreroll: "/12345/radio/audio_preroll",
	}
	ios := BuildAdsConfig(app, model.PlatformIOS, "")
	require.NotNil(t, ios)
	android := BuildAdsConfig(app, model.PlatformAndroid, "")
	require.NotNil(t, android)

	assert.Equal(t, "/12345/webradio/audio_adrules", ios.Placements["audio_rules"].IU)
	assert.Equal(t, "/12345/webradio/audio_preroll", android.Placements["audio_preroll"].IU)
}
