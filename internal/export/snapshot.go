// Package export implements the export and packaging pipeline: selecting
// stations for a profile, deriving per-platform ad configuration, building
// payload documents and writing them to disk for bundling or delivery.
package export

import (
	"fmt"

	"github.com/airwave-radio/airwave/internal/db"
	"github.com/airwave-radio/airwave/internal/model"
)

// Snapshot is an immutable view of the catalog taken at export time.
// It is read-only for the duration of an export; concurrent exports for
// different profiles may share one snapshot.
type Snapshot struct {
	Genres   map[string]model.Genre
	Stations []model.Station
	Apps     map[string]model.PlayerApp
	Profiles map[string]model.ExportProfile

	// DefaultNetworkCode is the fallback ad network code, computed once at
	// snapshot construction. It is set only when exactly one distinct
	// non-empty code exists across the catalog's player apps; with zero or
	// several candidates it stays empty rather than guessing.
	DefaultNetworkCode string
}

// NewSnapshot builds a snapshot from catalog records.
func NewSnapshot(genres []model.Genre, stations []model.Station, apps []model.PlayerApp, profiles []model.ExportProfile) *Snapshot {
	snap := &Snapshot{
		Genres:   make(map[string]model.Genre, len(genres)),
		Stations: stations,
		Apps:     make(map[string]model.PlayerApp, len(apps)),
		Profiles: make(map[string]model.ExportProfile, len(profiles)),
	}
	for _, g := range genres {
		snap.Genres[g.ID] = g
	}
	for _, a := range apps {
		snap.Apps[a.ID] = a
	}
	for _, p := range profiles {
		snap.Profiles[p.ID] = p
	}
	snap.DefaultNetworkCode = defaultNetworkCode(apps)
	return snap
}

// LoadSnapshot reads the whole catalog through the store.
func LoadSnapshot(store db.Store) (*Snapshot, error) {
	genres, err := store.ListGenres()
	if err != nil {
		return nil, fmt.Errorf("load genres: %w", err)
	}
	stations, err := store.ListStations()
	if err != nil {
		return nil, fmt.Errorf("load stations: %w", err)
	}
	apps, err := store.ListPlayerApps()
	if err != nil {
		return nil, fmt.Errorf("load player apps: %w", err)
	}
	profiles, err := store.ListExportProfiles()
	if err != nil {
		return nil, fmt.Errorf("load export profiles: %w", err)
	}
	return NewSnapshot(genres, stations, apps, profiles), nil
}

func defaultNetworkCode(apps []model.PlayerApp) string {
	distinct := ""
	for _, a := range apps {
		if a.AdNetworkCode == "" {
			continue
		}
		if distinct == "" {
			distinct = a.AdNetworkCode
			continue
		}
		if distinct != a.AdNetworkCode {
			return ""
		}
	}
	return distinct
}
