package model

import (
	"encoding/json"
	"time"

	"github.com/lib/pq"
)

// ExportProfile is a saved selection rule set plus an optional target app.
// At most one profile may reference a given PlayerApp; assigning an app to
// a profile clears it from all others.
type ExportProfile struct {
	ID          string          `db:"id"           json:"id"`
	Name        string          `db:"name"         json:"name"`
	GenreIDs    pq.StringArray  `db:"genre_ids"    json:"genre_ids"`
	StationIDs  pq.StringArray  `db:"station_ids"  json:"station_ids"`
	SubGenres   pq.StringArray  `db:"sub_genres"   json:"sub_genres"`
	PlayerAppID *string         `db:"player_app_id" json:"player_app_id,omitempty"`
	Schedule    *string         `db:"schedule"     json:"schedule,omitempty"`
	ExportState json.RawMessage `db:"export_state" json:"-"`
	CreatedAt   time.Time       `db:"created_at"   json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"   json:"updated_at"`
}

// PruneResult reports what a genre edit invalidated elsewhere in the catalog.
type PruneResult struct {
	Stations map[string][]string // station id -> remaining selected sub-genres
	Profiles map[string][]string // profile id -> remaining sub-genre filters
}

// PruneSubGenres recomputes sub-genre selections after edited replaced the
// declared label set of one genre. Stations referencing that genre lose
// selections no longer declared on it; profile filters are pruned against
// the union of labels still declared on any genre. Only changed records
// appear in the result.
func PruneSubGenres(edited Genre, allGenres []Genre, stations []Station, profiles []ExportProfile) PruneResult {
	res := PruneResult{
		Stations: make(map[string][]string),
		Profiles: make(map[string][]string),
	}

	for _, s := range stations {
		if s.GenreID == nil || *s.GenreID != edited.ID {
			continue
		}
		kept := IntersectLabels(s.SubGenres, edited.SubGenres)
		if len(kept) != len(s.SubGenres) {
			res.Stations[s.ID] = kept
		}
	}

	var union []string
	for _, g := range allGenres {
		if g.ID == edited.ID {
			union = append(union, edited.SubGenres...)
			continue
		}
		union = append(union, g.SubGenres...)
	}
	union = NormalizeLabels(union)

	for _, p := range profiles {
		kept := IntersectLabels(p.SubGenres, union)
		if len(kept) != len(p.SubGenres) {
			res.Profiles[p.ID] = kept
		}
	}

	return res
}
