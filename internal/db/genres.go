package db

import (
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/airwave-radio/airwave/internal/model"
)

func (s *pgStore) ListGenres() ([]model.Genre, error) {
	var genres []model.Genre
	err := s.db.Select(&genres, `
		SELECT id, name, sub_genres, created_at, updated_at
		FROM genres
		ORDER BY name
		`)
	return genres, err
}

func (s *pgStore) GetGenreByID(id string) (model.Genre, error) {
	var genre model.Genre
	err := s.db.Get(&genre, `
		SELECT id, name, sub_genres, created_at, updated_at
		FROM genres
		WHERE id = $1
		`, id)
	return genre, err
}

func (s *pgStore) CreateGenre(name string, subGenres []string) (model.Genre, error) {
	var genre model.Genre
	err := s.db.Get(&genre, `
		INSERT INTO genres (id, name, sub_genres, created_at, updated_at)
		VALUES ($1, $2, $3, now(), now())
		RETURNING id, name, sub_genres, created_at, updated_at
		`, uuid.NewString(), name, pq.StringArray(model.NormalizeLabels(subGenres)))
	return genre, err
}

func (s *pgStore) UpdateGenre(id, name string, subGenres []string) (model.Genre, error) {
	var genre model.Genre
	err := s.db.Get(&genre, `
		UPDATE genres
		SET name = $2, sub_genres = $3, updated_at = now()
		WHERE id = $1
		RETURNING id, name, sub_genres, created_at, updated_at
		`, id, name, pq.StringArray(model.NormalizeLabels(subGenres)))
	return genre, err
}

func (s *pgStore) DeleteGenre(id string) error {
	_, err := s.db.Exec(`DELETE FROM genres WHERE id = $1`, id)
	return err
}
