package db

import (
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/airwave-radio/airwave/internal/model"
)

const stationColumns = `
	id, name, stream_url, description, genre_id, sub_genres, logo_url,
	bitrate, language, region, tags, ad_type, active, favorite,
	created_at, updated_at`

func (s *pgStore) ListStations() ([]model.Station, error) {
	var stations []model.Station
	err := s.db.Select(&stations, `
		SELECT `+stationColumns+`
		FROM stations
		ORDER BY name
		`)
	return stations, err
}

func (s *pgStore) GetStationByID(id string) (model.Station, error) {
	var station model.Station
	err := s.db.Get(&station, `
		SELECT `+stationColumns+`
		FROM stations
		WHERE id = $1
		`, id)
	return station, err
}

func (s *pgStore) CreateStation(st model.Station) (model.Station, error) {
	if st.ID == "" {
		st.ID = uuid.NewString()
	}
	var station model.Station
	err := s.db.Get(&station, `
		INSERT INTO stations (
			id, name, stream_url, description, genre_id, sub_genres, logo_url,
			bitrate, language, region, tags, ad_type, active, favorite,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, now(), now())
		RETURNING `+stationColumns+`
		`, st.ID, st.Name, st.StreamURL, st.Description, st.GenreID,
		pq.StringArray(model.NormalizeLabels(st.SubGenres)), st.LogoURL,
		st.Bitrate, st.Language, st.Region, pq.StringArray(st.Tags),
		model.NormalizeAdType(string(st.AdType)), st.Active, st.Favorite)
	return station, err
}

func (s *pgStore) UpdateStation(st model.Station) (model.Station, error) {
	var station model.Station
	err := s.db.Get(&station, `
		UPDATE stations
		SET name = $2, stream_url = $3, description = $4, genre_id = $5,
		    sub_genres = $6, logo_url = $7, bitrate = $8, language = $9,
		    region = $10, tags = $11, ad_type = $12, active = $13,
		    favorite = $14, updated_at = now()
		WHERE id = $1
		RETURNING `+stationColumns+`
		`, st.ID, st.Name, st.StreamURL, st.Description, st.GenreID,
		pq.StringArray(model.NormalizeLabels(st.SubGenres)), st.LogoURL,
		st.Bitrate, st.Language, st.Region, pq.StringArray(st.Tags),
		model.NormalizeAdType(string(st.AdType)), st.Active, st.Favorite)
	return station, err
}

func (s *pgStore) UpdateStationSubGenres(id string, subGenres []string) error {
	_, err := s.db.Exec(`
		UPDATE stations
		SET sub_genres = $2, updated_at = now()
		WHERE id = $1
		`, id, pq.StringArray(subGenres))
	return err
}

func (s *pgStore) DeleteStation(id string) error {
	_, err := s.db.Exec(`DELETE FROM stations WHERE id = $1`, id)
	return err
}
