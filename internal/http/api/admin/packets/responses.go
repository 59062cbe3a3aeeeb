package packets

import (
	"time"

	"github.com/airwave-radio/airwave/internal/model"
)

type GenreResponse struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	SubGenres []string `json:"sub_genres"`
	CreatedAt string   `json:"created_at"`
	UpdatedAt string   `json:"updated_at"`
}

func MapGenre(g model.Genre) GenreResponse {
	return GenreResponse{
		ID:        g.ID,
		Name:      g.Name,
		SubGenres: g.SubGenres,
		CreatedAt: g.CreatedAt.Format(time.RFC3339),
		UpdatedAt: g.UpdatedAt.Format(time.RFC3339),
	}
}

type StationResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	StreamURL   string   `json:"stream_url"`
	Description string   `json:"description"`
	GenreID     *string  `json:"genre_id,omitempty"`
	SubGenres   []string `json:"sub_genres"`
	LogoURL     string   `json:"logo_url"`
	Bitrate     int      `json:"bitrate"`
	Language    string   `json:"language"`
	Region      string   `json:"region"`
	Tags        []string `json:"tags"`
	AdType      string   `json:"ad_type"`
	Active      bool     `json:"active"`
	Favorite    bool     `json:"favorite"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}

func MapStation(s model.Station) StationResponse {
	return StationResponse{
		ID:          s.ID,
		Name:        s.Name,
		StreamURL:   s.StreamURL,
		Description: s.Description,
		GenreID:     s.GenreID,
		SubGenres:   s.SubGenres,
		LogoURL:     s.LogoURL,
		Bitrate:     s.Bitrate,
		Language:    s.Language,
		Region:      s.Region,
		Tags:        s.Tags,
		AdType:      string(s.AdType),
		Active:      s.Active,
		Favorite:    s.Favorite,
		CreatedAt:   s.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   s.UpdatedAt.Format(time.RFC3339),
	}
}

// PlayerAppResponse never echoes the sealed transfer secret.
type PlayerAppResponse struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Platforms         []string `json:"platforms"`
	TransferServer    string   `json:"transfer_server"`
	TransferUsername  string   `json:"transfer_username"`
	TransferProtocol  string   `json:"transfer_protocol"`
	TransferTimeoutMS int      `json:"transfer_timeout_ms"`
	AdsEnabled        bool     `json:"ads_enabled"`
	AdNetworkCode     string   `json:"ad_network_code"`
	PlacementPreroll  string   `json:"placement_preroll"`
	PlacementMidroll  string   `json:"placement_midroll"`
	PlacementRewarded string   `json:"placement_rewarded"`
	VideoAdSize       string   `json:"video_ad_size"`
	CreatedAt         string   `json:"created_at"`
	UpdatedAt         string   `json:"updated_at"`
}

func MapPlayerApp(a model.PlayerApp) PlayerAppResponse {
	return PlayerAppResponse{
		ID:                a.ID,
		Name:              a.Name,
		Platforms:         a.Platforms,
		TransferServer:    a.TransferServer,
		TransferUsername:  a.TransferUsername,
		TransferProtocol:  a.TransferProtocol,
		TransferTimeoutMS: a.TransferTimeoutMS,
		AdsEnabled:        a.AdsEnabled,
		AdNetworkCode:     a.AdNetworkCode,
		PlacementPreroll:  a.PlacementPreroll,
		PlacementMidroll:  a.PlacementMidroll,
		PlacementRewarded: a.PlacementRewarded,
		VideoAdSize:       a.VideoAdSize,
		CreatedAt:         a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         a.UpdatedAt.Format(time.RFC3339),
	}
}

type ExportProfileResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	GenreIDs    []string `json:"genre_ids"`
	StationIDs  []string `json:"station_ids"`
	SubGenres   []string `json:"sub_genres"`
	PlayerAppID *string  `json:"player_app_id,omitempty"`
	Schedule    *string  `json:"schedule,omitempty"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}

func MapExportProfile(p model.ExportProfile) ExportProfileResponse {
	return ExportProfileResponse{
		ID:          p.ID,
		Name:        p.Name,
		GenreIDs:    p.GenreIDs,
		StationIDs:  p.StationIDs,
		SubGenres:   p.SubGenres,
		PlayerAppID: p.PlayerAppID,
		Schedule:    p.Schedule,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   p.UpdatedAt.Format(time.RFC3339),
	}
}
