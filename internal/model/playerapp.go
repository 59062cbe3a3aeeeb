package model

import (
	"strings"
	"time"

	"github.com/lib/pq"
)

// Known target platform keys.
const (
	PlatformIOS     = "ios"
	PlatformAndroid = "android"
	PlatformWeb     = "web"
	PlatformHome    = "home"
)

// PlayerApp is a client target: one app (or home-automation integration)
// that consumes per-platform export bundles.
type PlayerApp struct {
	ID                string         `db:"id"                  json:"id"`
	Name              string         `db:"name"                json:"name"`
	Platforms         pq.StringArray `db:"platforms"           json:"platforms"`
	TransferServer    string         `db:"transfer_server"     json:"transfer_server"`
	TransferUsername  string         `db:"transfer_username"   json:"transfer_username"`
	TransferSecret    string         `db:"transfer_secret"     json:"-"`
	TransferProtocol  string         `db:"transfer_protocol"   json:"transfer_protocol"`
	TransferTimeoutMS int            `db:"transfer_timeout_ms" json:"transfer_timeout_ms"`
	AdsEnabled        bool           `db:"ads_enabled"         json:"ads_enabled"`
	AdNetworkCode     string         `db:"ad_network_code"     json:"ad_network_code"`
	PlacementPreroll  string         `db:"placement_preroll"   json:"placement_preroll"`
	PlacementMidroll  string         `db:"placement_midroll"   json:"placement_midroll"`
	PlacementRewarded string         `db:"placement_rewarded"  json:"placement_rewarded"`
	VideoAdSize       string         `db:"video_ad_size"       json:"video_ad_size"`
	CreatedAt         time.Time      `db:"created_at"          json:"created_at"`
	UpdatedAt         time.Time      `db:"updated_at"          json:"updated_at"`
}

// NormalizePlatforms lower-cases and deduplicates platform keys, keeping
// declared order. An empty list defaults to web.
func NormalizePlatforms(platforms []string) []string {
	seen := make(map[string]struct{}, len(platforms))
	out := make([]string, 0, len(platforms))
	for _, p := range platforms {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	if len(out) == 0 {
		out = []string{PlatformWeb}
	}
	return out
}

// PrimaryPlatform is the first platform in the normalized list.
func (a PlayerApp) PrimaryPlatform() string {
	return NormalizePlatforms(a.Platforms)[0]
}
