package endpoints

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/airwave-radio/airwave/internal/db"
	"github.com/airwave-radio/airwave/internal/http/api"
	"github.com/airwave-radio/airwave/internal/http/api/admin/packets"
	"github.com/airwave-radio/airwave/internal/model"
	"github.com/airwave-radio/airwave/internal/probe"
)

type StationController struct {
	store  db.Store
	prober *probe.Prober
}

func newStationController(store db.Store, prober *probe.Prober) *StationController {
	return &StationController{store: store, prober: prober}
}

// StationModule mounts all authenticated /stations endpoints.
func StationModule(store db.Store, prober *probe.Prober) api.Module {
	ctl := newStationController(store, prober)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/stations", ctl.listStations)
		c.POST("/stations", ctl.createStation)
		c.GET("/stations/:id", ctl.getStation)
		c.PUT("/stations/:id", ctl.updateStation)
		c.DELETE("/stations/:id", ctl.deleteStation)

		c.POST("/stations/:id/probe", ctl.probeStation)
	})
}

// stationFromRequest keeps a station's selected sub-genres a subset of the
// referenced genre's declared labels.
func (s *StationController) stationFromRequest(id string, request packets.StationRequest) (model.Station, *api.APIError) {
	subGenres := model.NormalizeLabels(request.SubGenres)
	if request.GenreID != nil {
		genre, err := s.store.GetGenreByID(*request.GenreID)
		if err != nil {
			return model.Station{}, &api.APIError{Code: http.StatusBadRequest, Message: "unknown genre"}
		}
		subGenres = model.IntersectLabels(subGenres, genre.SubGenres)
	}

	active := true
	if request.Active != nil {
		active = *request.Active
	}

	return model.Station{
		ID:          id,
		Name:        request.Name,
		StreamURL:   request.StreamURL,
		Description: request.Description,
		GenreID:     request.GenreID,
		SubGenres:   subGenres,
		LogoURL:     request.LogoURL,
		Bitrate:     request.Bitrate,
		Language:    request.Language,
		Region:      request.Region,
		Tags:        request.Tags,
		AdType:      model.NormalizeAdType(request.AdType),
		Active:      active,
		Favorite:    request.Favorite,
	}, nil
}

// GET /api/admin/stations
func (s *StationController) listStations(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	all, err := s.store.ListStations()
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: err.Error()}
	}
	out := make([]packets.StationResponse, 0, len(all))
	for _, st := range all {
		out = append(out, packets.MapStation(st))
	}
	return out, nil
}

// POST /api/admin/stations
func (s *StationController) createStation(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var request packets.StationRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	station, apiErr := s.stationFromRequest("", request)
	if apiErr != nil {
		return nil, apiErr
	}
	created, err := s.store.CreateStation(station)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not create station"}
	}

	if err := s.store.WriteAudit(user.ID, "create", "station", created.ID); err != nil {
		log.Warn().Err(err).Msg("failed to write audit entry")
	}
	return packets.MapStation(created), nil
}

// GET /api/admin/stations/:id
func (s *StationController) getStation(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	station, err := s.store.GetStationByID(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "station not found"}
	}
	return packets.MapStation(station), nil
}

// PUT /api/admin/stations/:id
func (s *StationController) updateStation(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var request packets.StationRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	station, apiErr := s.stationFromRequest(ctx.Param("id"), request)
	if apiErr != nil {
		return nil, apiErr
	}
	updated, err := s.store.UpdateStation(station)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "station not found"}
	}

	if err := s.store.WriteAudit(user.ID, "update", "station", updated.ID); err != nil {
		log.Warn().Err(err).Msg("failed to write audit entry")
	}
	return packets.MapStation(updated), nil
}

// DELETE /api/admin/stations/:id
func (s *StationController) deleteStation(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id := ctx.Param("id")
	if err := s.store.DeleteStation(id); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not delete station"}
	}
	if err := s.store.WriteAudit(user.ID, "delete", "station", id); err != nil {
		log.Warn().Err(err).Msg("failed to write audit entry")
	}
	return gin.H{"deleted": id}, nil
}

// POST /api/admin/stations/:id/probe
func (s *StationController) probeStation(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	station, err := s.store.GetStationByID(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "station not found"}
	}
	result := s.prober.Check(ctx.Request.Context(), station.ID, station.StreamURL)
	return result, nil
}
