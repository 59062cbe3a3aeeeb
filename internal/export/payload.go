package export

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/airwave-radio/airwave/internal/model"
)

// Payload is one per-platform export document. Documents for an app with
// several platforms share the station list but differ in app, ads and (for
// home-automation targets) settings.
type Payload struct {
	Stations []ExportStation `json:"stations"`
	App      *AppDescriptor  `json:"app,omitempty"`
	Ads      *AdsConfig      `json:"ads,omitempty"`
	Settings *HomeSettings   `json:"settings,omitempty"`
}

// AppDescriptor identifies the consuming app inside a payload.
type AppDescriptor struct {
	ID       string `json:"id"`
	Platform string `json:"platform"`
	Version  int    `json:"version"`
}

// HomeSettings is the auxiliary block attached for home-automation targets.
type HomeSettings struct {
	Autoplay      bool    `json:"autoplay"`
	DefaultVolume float64 `json:"default_volume"`
	Theme         string  `json:"theme"`
	AdsEnabled    bool    `json:"ads_enabled"`
}

// ExportState is the canonical per-profile record persisted after the
// initial build; later per-platform rebuilds read the app version and the
// source-of-truth ads block from it.
type ExportState struct {
	App *storedAppDescriptor `json:"app,omitempty"`
	Ads json.RawMessage      `json:"ads,omitempty"`
}

// storedAppDescriptor tolerates historic states where version was written
// as a string or omitted.
type storedAppDescriptor struct {
	ID       string          `json:"id"`
	Platform string          `json:"platform"`
	Version  json.RawMessage `json:"version,omitempty"`
}

// version returns the stored version, defaulting to 1 when absent or
// non-numeric.
func (s *storedAppDescriptor) version() int {
	if s == nil || len(s.Version) == 0 {
		return 1
	}
	var n int
	if err := json.Unmarshal(s.Version, &n); err != nil {
		return 1
	}
	return n
}

var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowers name and collapses runs of non-alphanumerics to single
// dashes; fallback is returned when nothing survives.
func Slugify(name, fallback string) string {
	slug := slugRe.ReplaceAllString(strings.ToLower(name), "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		return fallback
	}
	return slug
}

// BuildInitialPayload builds the first export of a profile: the ads block is
// derived for the app's primary platform and returned as the canonical
// export state to persist alongside the payload.
func (s *Snapshot) BuildInitialPayload(app *model.PlayerApp, stations []ExportStation) (Payload, ExportState) {
	if app == nil {
		return Payload{Stations: stations}, ExportState{}
	}
	platform := app.PrimaryPlatform()
	ads := BuildAdsConfig(*app, platform, s.DefaultNetworkCode)

	desc := &AppDescriptor{
		ID:       Slugify(app.Name, app.ID),
		Platform: platform,
		Version:  1,
	}
	payload := Payload{Stations: stations, App: desc, Ads: ads}
	payload.Settings = homeSettings(platform, ads)

	state := ExportState{
		App: &storedAppDescriptor{ID: desc.ID, Platform: platform, Version: json.RawMessage("1")},
	}
	if ads != nil {
		if raw, err := json.Marshal(ads); err == nil {
			state.Ads = raw
		}
	}
	return payload, state
}

// BuildPlatformPayload rebuilds the document for one explicitly requested
// platform, ignoring the platform the initial build used. When direct
// derivation yields no ads block but the stored canonical block exists and
// ads remain enabled, the block is reconstructed from the stored placement
// URIs and re-normalized for this platform.
func (s *Snapshot) BuildPlatformPayload(platform string, app *model.PlayerApp, stations []ExportStation, state ExportState) Payload {
	if app == nil {
		return Payload{Stations: stations}
	}

	ads := BuildAdsConfig(*app, platform, s.DefaultNetworkCode)
	if ads == nil && len(state.Ads) > 0 && app.AdsEnabled {
		ads = ReconstructAdsConfig(state.Ads, *app, platform, s.DefaultNetworkCode)
	}

	desc := &AppDescriptor{
		ID:       Slugify(app.Name, app.ID),
		Platform: platform,
		Version:  state.App.version(),
	}
	payload := Payload{Stations: stations, App: desc, Ads: ads}
	payload.Settings = homeSettings(platform, ads)
	return payload
}

// homeSettings attaches the fixed home-automation defaults; the ads flag
// mirrors whether an ads block was actually produced.
func homeSettings(platform string, ads *AdsConfig) *HomeSettings {
	if platform != model.PlatformHome {
		return nil
	}
	return &HomeSettings{
		Autoplay:      false,
		DefaultVolume: 0.7,
		Theme:         "dark",
		AdsEnabled:    ads != nil,
	}
}
