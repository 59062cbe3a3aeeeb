package export

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/airwave-radio/airwave/internal/model"
)

// ExportStation is the per-station record embedded in every payload document.
type ExportStation struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Genre            string   `json:"genre,omitempty"`
	StreamURL        string   `json:"stream_url"`
	Logo             string   `json:"logo"`
	Description      string   `json:"description,omitempty"`
	Bitrate          int      `json:"bitrate,omitempty"`
	Language         string   `json:"language,omitempty"`
	Region           string   `json:"region,omitempty"`
	Tags             []string `json:"tags,omitempty"`
	SubGenres        []string `json:"sub_genres,omitempty"`
	CurrentlyPlaying bool     `json:"currently_playing"`
	Favorite         bool     `json:"favorite"`
	AdType           string   `json:"ad_type"`
	AdSection        string   `json:"ad_section,omitempty"`
}

const fallbackLogoURL = "https://cdn.airwave.fm/logos/station-default.png"

var (
	placeholderLogoRe = regexp.MustCompile(`(?i)(placeholder|dummyimage|no[-_]?logo|stock-?photo|example\.com)`)
	leadingTokenRe    = regexp.MustCompile(`^[a-z0-9]+`)
)

// SelectStations filters, deduplicates and sorts the stations eligible for
// one profile. A station is eligible when its genre id, one of its
// sub-genres, or its id matches the profile's criteria. Inactive stations
// are dropped unless the profile names them explicitly. The result is
// ordered by station name using locale-aware collation; an empty result is
// valid output and the caller decides whether it is fatal.
func (s *Snapshot) SelectStations(p model.ExportProfile) []ExportStation {
	genreIDs := make(map[string]struct{}, len(p.GenreIDs))
	for _, id := range p.GenreIDs {
		genreIDs[id] = struct{}{}
	}
	explicit := make(map[string]struct{}, len(p.StationIDs))
	for _, id := range p.StationIDs {
		explicit[id] = struct{}{}
	}

	seen := make(map[string]struct{}, len(s.Stations))
	var picked []model.Station
	for _, st := range s.Stations {
		_, isExplicit := explicit[st.ID]
		matched := isExplicit
		if !matched && st.GenreID != nil {
			_, matched = genreIDs[*st.GenreID]
		}
		if !matched {
			for _, sg := range st.SubGenres {
				if model.ContainsLabel(p.SubGenres, sg) {
					matched = true
					break
				}
			}
		}
		if !matched {
			continue
		}
		// explicit inclusion overrides the active-flag filter
		if !st.Active && !isExplicit {
			continue
		}
		if _, dup := seen[st.ID]; dup {
			continue
		}
		seen[st.ID] = struct{}{}
		picked = append(picked, st)
	}

	col := collate.New(language.Und, collate.IgnoreCase)
	sort.SliceStable(picked, func(i, j int) bool {
		return col.CompareString(picked[i].Name, picked[j].Name) < 0
	})

	out := make([]ExportStation, 0, len(picked))
	for _, st := range picked {
		out = append(out, s.exportStation(st))
	}
	return out
}

func (s *Snapshot) exportStation(st model.Station) ExportStation {
	genreKey := ""
	if st.GenreID != nil {
		if g, ok := s.Genres[*st.GenreID]; ok {
			genreKey = strings.ToLower(g.Name)
		}
	}
	return ExportStation{
		ID:               st.ID,
		Name:             st.Name,
		Genre:            genreKey,
		StreamURL:        st.StreamURL,
		Logo:             resolveLogo(st.LogoURL),
		Description:      st.Description,
		Bitrate:          st.Bitrate,
		Language:         st.Language,
		Region:           st.Region,
		Tags:             st.Tags,
		SubGenres:        st.SubGenres,
		CurrentlyPlaying: false,
		Favorite:         st.Favorite,
		AdType:           string(model.NormalizeAdType(string(st.AdType))),
		AdSection:        adSection(genreKey, st.Tags),
	}
}

// adSection derives the ad-targeting bucket for a station. Preference
// order: the leading token of a tag containing the genre, the leading token
// of the first tag, the genre key itself. No signal means no section.
func adSection(genreKey string, tags []string) string {
	if genreKey != "" {
		for _, t := range tags {
			lt := strings.ToLower(t)
			if strings.Contains(lt, genreKey) {
				if tok := leadingTokenRe.FindString(lt); tok != "" {
					return tok
				}
			}
		}
	}
	if len(tags) > 0 {
		if tok := leadingTokenRe.FindString(strings.ToLower(tags[0])); tok != "" {
			return tok
		}
	}
	return genreKey
}

// resolveLogo substitutes the bundled default when the stored logo is empty
// or looks like a placeholder/stock image.
func resolveLogo(logoURL string) string {
	if logoURL == "" || placeholderLogoRe.MatchString(logoURL) {
		return fallbackLogoURL
	}
	return logoURL
}
