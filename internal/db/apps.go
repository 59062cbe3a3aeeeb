package db

import (
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/airwave-radio/airwave/internal/model"
)

const appColumns = `
	id, name, platforms, transfer_server, transfer_username, transfer_secret,
	transfer_protocol, transfer_timeout_ms, ads_enabled, ad_network_code,
	placement_preroll, placement_midroll, placement_rewarded, video_ad_size,
	created_at, updated_at`

func (s *pgStore) ListPlayerApps() ([]model.PlayerApp, error) {
	var apps []model.PlayerApp
	err := s.db.Select(&apps, `
		SELECT `+appColumns+`
		FROM player_apps
		ORDER BY name
		`)
	return apps, err
}

func (s *pgStore) GetPlayerAppByID(id string) (model.PlayerApp, error) {
	var app model.PlayerApp
	err := s.db.Get(&app, `
		SELECT `+appColumns+`
		FROM player_apps
		WHERE id = $1
		`, id)
	return app, err
}

func (s *pgStore) CreatePlayerApp(app model.PlayerApp) (model.PlayerApp, error) {
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	var created model.PlayerApp
	err := s.db.Get(&created, `
		INSERT INTO player_apps (
			id, name, platforms, transfer_server, transfer_username,
			transfer_secret, transfer_protocol, transfer_timeout_ms,
			ads_enabled, ad_network_code, placement_preroll, placement_midroll,
			placement_rewarded, video_ad_size, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, now(), now())
		RETURNING `+appColumns+`
		`, app.ID, app.Name, pq.StringArray(model.NormalizePlatforms(app.Platforms)),
		app.TransferServer, app.TransferUsername, app.TransferSecret,
		app.TransferProtocol, app.TransferTimeoutMS, app.AdsEnabled,
		app.AdNetworkCode, app.PlacementPreroll, app.PlacementMidroll,
		app.PlacementRewarded, app.VideoAdSize)
	return created, err
}

func (s *pgStore) UpdatePlayerApp(app model.PlayerApp) (model.PlayerApp, error) {
	var updated model.PlayerApp
	err := s.db.Get(&updated, `
		UPDATE player_apps
		SET name = $2, platforms = $3, transfer_server = $4,
		    transfer_username = $5, transfer_secret = $6,
		    transfer_protocol = $7, transfer_timeout_ms = $8,
		    ads_enabled = $9, ad_network_code = $10, placement_preroll = $11,
		    placement_midroll = $12, placement_rewarded = $13,
		    video_ad_size = $14, updated_at = now()
		WHERE id = $1
		RETURNING `+appColumns+`
		`, app.ID, app.Name, pq.StringArray(model.NormalizePlatforms(app.Platforms)),
		app.TransferServer, app.TransferUsername, app.TransferSecret,
		app.TransferProtocol, app.TransferTimeoutMS, app.AdsEnabled,
		app.AdNetworkCode, app.PlacementPreroll, app.PlacementMidroll,
		app.PlacementRewarded, app.VideoAdSize)
	return updated, err
}

func (s *pgStore) DeletePlayerApp(id string) error {
	_, err := s.db.Exec(`DELETE FROM player_apps WHERE id = $1`, id)
	return err
}
