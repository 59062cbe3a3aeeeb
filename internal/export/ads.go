package export

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/airwave-radio/airwave/internal/model"
)

// Placement names one ad slot on the ad server.
type Placement struct {
	IU      string `json:"iu"`
	Enabled bool   `json:"enabled"`
	Size    string `json:"size,omitempty"`
}

// Privacy carries the regulatory defaults sent with every ad request.
type Privacy struct {
	NPA       int    `json:"npa"`
	TFCD      int    `json:"tfcd"`
	USPrivacy string `json:"us_privacy"`
}

// AdLock throttles how often a client may request ads.
type AdLock struct {
	Enabled          bool     `json:"enabled"`
	Seconds          int      `json:"seconds"`
	Scope            string   `json:"scope"`
	ExemptPlacements []string `json:"exempt_placements"`
}

// AdsConfig is the per-platform ads block of a payload document. Placement
// keys are platform-dependent: audio_rules/video_rules for iOS,
// audio_preroll/video_preroll for Android and home-automation targets.
type AdsConfig struct {
	NetworkCode string               `json:"network_code,omitempty"`
	Placements  map[string]Placement `json:"placements"`
	Privacy     Privacy              `json:"privacy"`
	AdLock      AdLock               `json:"ad_lock"`
}

func defaultPrivacy() Privacy {
	return Privacy{NPA: 0, TFCD: 0, USPrivacy: "1YNN"}
}

func defaultAdLock() AdLock {
	return AdLock{Enabled: true, Seconds: 300, Scope: "rolling", ExemptPlacements: []string{}}
}

// networkCodeRe matches a numeric path segment of at least three digits.
var networkCodeRe = regexp.MustCompile(`/(\d{3,})(?:/|$)`)

// resolveNetworkCode picks the ad network code: the explicit field first,
// then the first numeric segment in any placement string, then the
// catalog-wide default computed at snapshot construction.
func resolveNetworkCode(app model.PlayerApp, catalogDefault string) string {
	if app.AdNetworkCode != "" {
		return app.AdNetworkCode
	}
	for _, p := range []string{app.PlacementPreroll, app.PlacementMidroll, app.PlacementRewarded} {
		if m := networkCodeRe.FindStringSubmatch(p); m != nil {
			return m[1]
		}
	}
	return catalogDefault
}

// splitPlacement splits a placement path on its last slash.
func splitPlacement(path string) (prefix, leaf string) {
	idx := strings.LastIndex(path, "/")
	if idx < 0 {
		return "", path
	}
	return path[:idx], path[idx+1:]
}

func joinPlacement(prefix, leaf string) string {
	if prefix == "" {
		return leaf
	}
	return prefix + "/" + leaf
}

// fixRadioSegment rewrites the legacy /radio/ path segment once the leaf is
// in its platform-canonical form.
func fixRadioSegment(path string) string {
	return strings.Replace(path, "/radio/", "/webradio/", 1)
}

// normalizeIOSPlacement rewrites a placement path into the iOS ad-rules
// form: preroll/midroll leaf suffixes become _adrules, and the /radio/
// segment becomes /webradio/ once the leaf carries _adrules.
func normalizeIOSPlacement(path string) string {
	if path == "" {
		return ""
	}
	prefix, leaf := splitPlacement(path)
	switch {
	case strings.HasSuffix(leaf, "_preroll"):
		leaf = strings.TrimSuffix(leaf, "_preroll") + "_adrules"
	case strings.HasSuffix(leaf, "_midroll"):
		leaf = strings.TrimSuffix(leaf, "_midroll") + "_adrules"
	}
	full := joinPlacement(prefix, leaf)
	if strings.HasSuffix(leaf, "_adrules") {
		full = fixRadioSegment(full)
	}
	return full
}

// normalizeAndroidPlacement rewrites a placement path into the preroll form
// used by Android and home-automation targets. When canonicalLeaf is given
// (audio_preroll or video_preroll) a differing leaf is forcibly replaced;
// without it a leaf lacking _preroll becomes the literal "preroll".
func normalizeAndroidPlacement(path, canonicalLeaf string) string {
	if path == "" {
		return ""
	}
	prefix, leaf := splitPlacement(path)
	switch {
	case strings.HasSuffix(leaf, "_adrules"):
		leaf = strings.TrimSuffix(leaf, "_adrules") + "_preroll"
	case strings.HasSuffix(leaf, "_midroll"):
		leaf = strings.TrimSuffix(leaf, "_midroll") + "_preroll"
	}
	if canonicalLeaf != "" {
		if leaf != canonicalLeaf {
			leaf = canonicalLeaf
		}
	} else if !strings.HasSuffix(leaf, "_preroll") {
		leaf = "preroll"
	}
	full := joinPlacement(prefix, leaf)
	if strings.HasSuffix(leaf, "_preroll") {
		full = fixRadioSegment(full)
	}
	return full
}

// synthesizePlacement builds a placement path from the network code alone,
// for apps that never configured explicit slots.
func synthesizePlacement(networkCode, canonicalLeaf string) string {
	if networkCode == "" {
		return ""
	}
	return "/" + networkCode + "/" + canonicalLeaf
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// placementFor normalizes source for one platform, synthesizing a path from
// the network code when the source is missing. Missing source and missing
// synthesized fallback both yield an empty, disabled placement; malformed
// input never fails.
func placementFor(platform, source, networkCode, canonicalLeaf string) Placement {
	if source == "" {
		source = synthesizePlacement(networkCode, canonicalLeaf)
	}
	if source == "" {
		return Placement{}
	}
	var iu string
	if platform == model.PlatformIOS {
		iu = normalizeIOSPlacement(source)
	} else {
		iu = normalizeAndroidPlacement(source, canonicalLeaf)
	}
	return Placement{IU: iu, Enabled: iu != ""}
}

// placementKeys returns the platform family's audio and video payload keys
// plus the canonical leaf names used during normalization.
func placementKeys(platform string) (audioKey, videoKey, audioLeaf, videoLeaf string, ok bool) {
	switch platform {
	case model.PlatformIOS:
		return "audio_rules", "video_rules", "audio_adrules", "video_adrules", true
	case model.PlatformAndroid, model.PlatformHome:
		return "audio_preroll", "video_preroll", "audio_preroll", "video_preroll", true
	default:
		return "", "", "", "", false
	}
}

// BuildAdsConfig derives the ads block for one platform from a PlayerApp
// record. It returns nil when ads are disabled for the app, when the
// platform takes no ads, or when no placement can be derived at all.
func BuildAdsConfig(app model.PlayerApp, platform, catalogDefault string) *AdsConfig {
	if !app.AdsEnabled {
		return nil
	}
	audioKey, videoKey, audioLeaf, videoLeaf, ok := placementKeys(platform)
	if !ok {
		return nil
	}

	code := resolveNetworkCode(app, catalogDefault)
	audio := placementFor(platform, app.PlacementPreroll, code, audioLeaf)
	video := placementFor(platform, firstNonEmpty(app.PlacementMidroll, app.PlacementRewarded), code, videoLeaf)
	if video.Enabled {
		video.Size = app.VideoAdSize
	}
	if !audio.Enabled && !video.Enabled {
		return nil
	}

	return &AdsConfig{
		NetworkCode: code,
		Placements:  map[string]Placement{audioKey: audio, videoKey: video},
		Privacy:     defaultPrivacy(),
		AdLock:      defaultAdLock(),
	}
}

// placementSource is a previously-stored placement resolved to an explicit
// variant at ingestion: absent, a plain string, or an {iu: ...} object.
type placementSource struct {
	uri     string
	present bool
}

func (p *placementSource) UnmarshalJSON(b []byte) error {
	var asString string
	if err := json.Unmarshal(b, &asString); err == nil {
		p.uri, p.present = asString, asString != ""
		return nil
	}
	var asObject struct {
		IU string `json:"iu"`
	}
	if err := json.Unmarshal(b, &asObject); err == nil {
		p.uri, p.present = asObject.IU, asObject.IU != ""
		return nil
	}
	// unknown shape degrades to absent, never to an error
	*p = placementSource{}
	return nil
}

// storedAdsBlock is the canonical ads block persisted after the initial
// build. Placements may use either the rules or the preroll key family, and
// either value shape; both are resolved once here.
type storedAdsBlock struct {
	NetworkCode string                     `json:"network_code"`
	Placements  map[string]placementSource `json:"placements"`
	Privacy     *Privacy                   `json:"privacy"`
	AdLock      *AdLock                    `json:"ad_lock"`
}

func (s storedAdsBlock) source(keys ...string) string {
	for _, k := range keys {
		if p, ok := s.Placements[k]; ok && p.present {
			return p.uri
		}
	}
	return ""
}

// ReconstructAdsConfig rebuilds an ads block for a platform out of the
// stored canonical block, re-normalizing placement URIs for the requested
// platform. Stored privacy and ad-lock settings override the defaults.
// Returns nil when the stored block yields no usable placement.
func ReconstructAdsConfig(stored json.RawMessage, app model.PlayerApp, platform, catalogDefault string) *AdsConfig {
	if len(stored) == 0 {
		return nil
	}
	var block storedAdsBlock
	if err := json.Unmarshal(stored, &block); err != nil {
		return nil
	}
	audioKey, videoKey, audioLeaf, videoLeaf, ok := placementKeys(platform)
	if !ok {
		return nil
	}

	code := block.NetworkCode
	if code == "" {
		code = resolveNetworkCode(app, catalogDefault)
	}
	audioSrc := block.source("audio_preroll", "audio_rules")
	videoSrc := block.source("video_preroll", "video_rules")

	audio := placementFor(platform, audioSrc, code, audioLeaf)
	video := placementFor(platform, videoSrc, code, videoLeaf)
	if video.Enabled {
		video.Size = app.VideoAdSize
	}
	if !audio.Enabled && !video.Enabled {
		return nil
	}

	cfg := &AdsConfig{
		NetworkCode: code,
		Placements:  map[string]Placement{audioKey: audio, videoKey: video},
		Privacy:     defaultPrivacy(),
		AdLock:      defaultAdLock(),
	}
	if block.Privacy != nil {
		cfg.Privacy = *block.Privacy
	}
	if block.AdLock != nil {
		cfg.AdLock = *block.AdLock
	}
	return cfg
}
