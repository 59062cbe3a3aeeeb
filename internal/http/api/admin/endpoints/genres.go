package endpoints

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/airwave-radio/airwave/internal/db"
	"github.com/airwave-radio/airwave/internal/http/api"
	"github.com/airwave-radio/airwave/internal/http/api/admin/packets"
	"github.com/airwave-radio/airwave/internal/model"
)

type GenreController struct {
	store db.Store
}

func newGenreController(store db.Store) *GenreController {
	return &GenreController{store: store}
}

// GenreModule mounts all authenticated /genres endpoints.
func GenreModule(store db.Store) api.Module {
	ctl := newGenreController(store)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/genres", ctl.listGenres)
		c.POST("/genres", ctl.createGenre)
		c.GET("/genres/:id", ctl.getGenre)
		c.PUT("/genres/:id", ctl.updateGenre)
		c.DELETE("/genres/:id", ctl.deleteGenre)
	})
}

// GET /api/admin/genres
func (g *GenreController) listGenres(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	all, err := g.store.ListGenres()
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: err.Error()}
	}
	out := make([]packets.GenreResponse, 0, len(all))
	for _, genre := range all {
		out = append(out, packets.MapGenre(genre))
	}
	return out, nil
}

// POST /api/admin/genres
func (g *GenreController) createGenre(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var request packets.GenreRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	genre, err := g.store.CreateGenre(request.Name, request.SubGenres)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not create genre"}
	}

	if err := g.store.WriteAudit(user.ID, "create", "genre", genre.ID); err != nil {
		log.Warn().Err(err).Msg("failed to write audit entry")
	}
	return packets.MapGenre(genre), nil
}

// GET /api/admin/genres/:id
func (g *GenreController) getGenre(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	genre, err := g.store.GetGenreByID(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "genre not found"}
	}
	return packets.MapGenre(genre), nil
}

// PUT /api/admin/genres/:id
// Editing a genre's sub-genre set prunes stale selections everywhere:
// stations referencing the genre keep only still-declared labels, and
// profile sub-genre filters drop labels no genre declares anymore.
func (g *GenreController) updateGenre(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var request packets.GenreRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	genre, err := g.store.UpdateGenre(ctx.Param("id"), request.Name, request.SubGenres)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "genre not found"}
	}

	if apiErr := g.pruneAfterEdit(genre); apiErr != nil {
		return nil, apiErr
	}

	if err := g.store.WriteAudit(user.ID, "update", "genre", genre.ID); err != nil {
		log.Warn().Err(err).Msg("failed to write audit entry")
	}
	return packets.MapGenre(genre), nil
}

func (g *GenreController) pruneAfterEdit(genre model.Genre) *api.APIError {
	genres, err := g.store.ListGenres()
	if err != nil {
		return &api.APIError{Code: http.StatusInternalServerError, Message: err.Error()}
	}
	stations, err := g.store.ListStations()
	if err != nil {
		return &api.APIError{Code: http.StatusInternalServerError, Message: err.Error()}
	}
	profiles, err := g.store.ListExportProfiles()
	if err != nil {
		return &api.APIError{Code: http.StatusInternalServerError, Message: err.Error()}
	}

	pruned := model.PruneSubGenres(genre, genres, stations, profiles)
	for id, kept := range pruned.Stations {
		if err := g.store.UpdateStationSubGenres(id, kept); err != nil {
			return &api.APIError{Code: http.StatusInternalServerError, Message: err.Error()}
		}
	}
	for id, kept := range pruned.Profiles {
		if err := g.store.UpdateProfileSubGenres(id, kept); err != nil {
			return &api.APIError{Code: http.StatusInternalServerError, Message: err.Error()}
		}
	}
	if len(pruned.Stations) > 0 || len(pruned.Profiles) > 0 {
		log.Info().Str("genre_id", genre.ID).
			Int("stations", len(pruned.Stations)).
			Int("profiles", len(pruned.Profiles)).
			Msg("pruned stale sub-genre selections")
	}
	return nil
}

// DELETE /api/admin/genres/:id
func (g *GenreController) deleteGenre(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id := ctx.Param("id")
	if err := g.store.DeleteGenre(id); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not delete genre"}
	}
	if err := g.store.WriteAudit(user.ID, "delete", "genre", id); err != nil {
		log.Warn().Err(err).Msg("failed to write audit entry")
	}
	return gin.H{"deleted": id}, nil
}
