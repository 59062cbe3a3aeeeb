package db

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/airwave-radio/airwave/internal/model"
)

const profileColumns = `
	id, name, genre_ids, station_ids, sub_genres, player_app_id, schedule,
	export_state, created_at, updated_at`

func (s *pgStore) ListExportProfiles() ([]model.ExportProfile, error) {
	var profiles []model.ExportProfile
	err := s.db.Select(&profiles, `
		SELECT `+profileColumns+`
		FROM export_profiles
		ORDER BY name
		`)
	return profiles, err
}

func (s *pgStore) GetExportProfileByID(id string) (model.ExportProfile, error) {
	var profile model.ExportProfile
	err := s.db.Get(&profile, `
		SELECT `+profileColumns+`
		FROM export_profiles
		WHERE id = $1
		`, id)
	return profile, err
}

func (s *pgStore) CreateExportProfile(p model.ExportProfile) (model.ExportProfile, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	var created model.ExportProfile
	err := s.db.Get(&created, `
		INSERT INTO export_profiles (
			id, name, genre_ids, station_ids, sub_genres, player_app_id,
			schedule, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
		RETURNING `+profileColumns+`
		`, p.ID, p.Name, pq.StringArray(p.GenreIDs), pq.StringArray(p.StationIDs),
		pq.StringArray(model.NormalizeLabels(p.SubGenres)), p.PlayerAppID, p.Schedule)
	if err != nil {
		return created, err
	}
	if p.PlayerAppID != nil {
		if err := s.AssignPlayerApp(created.ID, p.PlayerAppID); err != nil {
			return created, err
		}
	}
	return created, nil
}

func (s *pgStore) UpdateExportProfile(p model.ExportProfile) (model.ExportProfile, error) {
	var updated model.ExportProfile
	err := s.db.Get(&updated, `
		UPDATE export_profiles
		SET name = $2, genre_ids = $3, station_ids = $4, sub_genres = $5,
		    schedule = $6, updated_at = now()
		WHERE id = $1
		RETURNING `+profileColumns+`
		`, p.ID, p.Name, pq.StringArray(p.GenreIDs), pq.StringArray(p.StationIDs),
		pq.StringArray(model.NormalizeLabels(p.SubGenres)), p.Schedule)
	if err != nil {
		return updated, err
	}
	if err := s.AssignPlayerApp(p.ID, p.PlayerAppID); err != nil {
		return updated, err
	}
	return s.GetExportProfileByID(p.ID)
}

func (s *pgStore) UpdateProfileSubGenres(id string, subGenres []string) error {
	_, err := s.db.Exec(`
		UPDATE export_profiles
		SET sub_genres = $2, updated_at = now()
		WHERE id = $1
		`, id, pq.StringArray(subGenres))
	return err
}

// AssignPlayerApp points a profile at an app. A PlayerApp belongs to at most
// one profile, so the app is first cleared from every other profile.
func (s *pgStore) AssignPlayerApp(profileID string, appID *string) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if appID != nil {
		if _, err := tx.Exec(`
			UPDATE export_profiles
			SET player_app_id = NULL, updated_at = now()
			WHERE player_app_id = $1 AND id <> $2
			`, *appID, profileID); err != nil {
			return err
		}
	}
	if _, err := tx.Exec(`
		UPDATE export_profiles
		SET player_app_id = $2, updated_at = now()
		WHERE id = $1
		`, profileID, appID); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *pgStore) SaveExportState(profileID string, state json.RawMessage) error {
	_, err := s.db.Exec(`
		UPDATE export_profiles
		SET export_state = $2, updated_at = now()
		WHERE id = $1
		`, profileID, []byte(state))
	return err
}

func (s *pgStore) DeleteExportProfile(id string) error {
	_, err := s.db.Exec(`DELETE FROM export_profiles WHERE id = $1`, id)
	return err
}
