package db

import (
	"github.com/airwave-radio/airwave/internal/model"
)

func (s *pgStore) CreateUser(email, hashedPassword string, name *string) (int, error) {
	var id int
	err := s.db.QueryRow(`
		INSERT INTO users (email, hashed_password, name, created_at, updated_at)
		VALUES ($1, $2, $3, now(), now())
		RETURNING id
		`, email, hashedPassword, name).Scan(&id)
	return id, err
}

func (s *pgStore) GetUserByEmail(email string) (*model.User, error) {
	var user model.User
	err := s.db.Get(&user, `
		SELECT id, email, hashed_password, name, created_at, updated_at
		FROM users
		WHERE email = $1
		`, email)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *pgStore) GetUserByID(id int) (*model.User, error) {
	var user model.User
	err := s.db.Get(&user, `
		SELECT id, email, hashed_password, name, created_at, updated_at
		FROM users
		WHERE id = $1
		`, id)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *pgStore) UpdateUserProfile(id int, email string, name *string) error {
	_, err := s.db.Exec(`
		UPDATE users
		SET email = $2, name = $3, updated_at = now()
		WHERE id = $1
		`, id, email, name)
	return err
}
