package model

import (
	"time"

	"github.com/lib/pq"
)

// AdType says which kind of ad slot a station supports.
type AdType string

const (
	AdTypeAudio AdType = "audio"
	AdTypeVideo AdType = "video"
	AdTypeNone  AdType = "no"
)

// Station is a single internet radio stream in the catalog.
// SubGenres must stay a subset of the referenced genre's declared labels;
// the genre update path prunes stale selections.
type Station struct {
	ID          string         `db:"id"           json:"id"`
	Name        string         `db:"name"         json:"name"`
	StreamURL   string         `db:"stream_url"   json:"stream_url"`
	Description string         `db:"description"  json:"description"`
	GenreID     *string        `db:"genre_id"     json:"genre_id,omitempty"`
	SubGenres   pq.StringArray `db:"sub_genres"   json:"sub_genres"`
	LogoURL     string         `db:"logo_url"     json:"logo_url"`
	Bitrate     int            `db:"bitrate"      json:"bitrate"`
	Language    string         `db:"language"     json:"language"`
	Region      string         `db:"region"       json:"region"`
	Tags        pq.StringArray `db:"tags"         json:"tags"`
	AdType      AdType         `db:"ad_type"      json:"ad_type"`
	Active      bool           `db:"active"       json:"active"`
	Favorite    bool           `db:"favorite"     json:"favorite"`
	CreatedAt   time.Time      `db:"created_at"   json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"   json:"updated_at"`
}

// NormalizeAdType maps unknown values to "no".
func NormalizeAdType(t string) AdType {
	switch AdType(t) {
	case AdTypeAudio, AdTypeVideo:
		return AdType(t)
	default:
		return AdTypeNone
	}
}
