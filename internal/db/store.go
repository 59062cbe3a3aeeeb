// exposes a Store interface that is passed to API calls and the export pipeline
package db

import (
	"encoding/json"

	"github.com/jmoiron/sqlx"

	"github.com/airwave-radio/airwave/internal/model"
)

type Store interface {
	// user functions
	CreateUser(email, hashedPassword string, name *string) (int, error)
	GetUserByEmail(email string) (*model.User, error)
	GetUserByID(id int) (*model.User, error)
	UpdateUserProfile(id int, email string, name *string) error

	// genre functions
	ListGenres() ([]model.Genre, error)
	GetGenreByID(id string) (model.Genre, error)
	CreateGenre(name string, subGenres []string) (model.Genre, error)
	UpdateGenre(id, name string, subGenres []string) (model.Genre, error)
	DeleteGenre(id string) error

	// station functions
	ListStations() ([]model.Station, error)
	GetStationByID(id string) (model.Station, error)
	CreateStation(st model.Station) (model.Station, error)
	UpdateStation(st model.Station) (model.Station, error)
	UpdateStationSubGenres(id string, subGenres []string) error
	DeleteStation(id string) error

	// player app functions
	ListPlayerApps() ([]model.PlayerApp, error)
	GetPlayerAppByID(id string) (model.PlayerApp, error)
	CreatePlayerApp(app model.PlayerApp) (model.PlayerApp, error)
	UpdatePlayerApp(app model.PlayerApp) (model.PlayerApp, error)
	DeletePlayerApp(id string) error

	// export profile functions
	ListExportProfiles() ([]model.ExportProfile, error)
	GetExportProfileByID(id string) (model.ExportProfile, error)
	CreateExportProfile(p model.ExportProfile) (model.ExportProfile, error)
	UpdateExportProfile(p model.ExportProfile) (model.ExportProfile, error)
	UpdateProfileSubGenres(id string, subGenres []string) error
	AssignPlayerApp(profileID string, appID *string) error
	SaveExportState(profileID string, state json.RawMessage) error
	DeleteExportProfile(id string) error

	// audit log
	WriteAudit(userID int, action, entity, entityID string) error
}

type pgStore struct {
	db *sqlx.DB
}

// compile-time check that pgStore implements Store
var _ Store = (*pgStore)(nil)

func NewStore() Store {
	return &pgStore{db: DB}
}
