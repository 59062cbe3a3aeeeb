package endpoints

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/airwave-radio/airwave/internal/db"
	"github.com/airwave-radio/airwave/internal/export"
	"github.com/airwave-radio/airwave/internal/http/api"
	"github.com/airwave-radio/airwave/internal/http/api/admin/packets"
	"github.com/airwave-radio/airwave/internal/model"
	"github.com/airwave-radio/airwave/internal/probe"
	"github.com/airwave-radio/airwave/internal/redis"
)

type ProfileController struct {
	store    db.Store
	exporter *export.Exporter
	prober   *probe.Prober
}

func newProfileController(store db.Store, exporter *export.Exporter, prober *probe.Prober) *ProfileController {
	return &ProfileController{store: store, exporter: exporter, prober: prober}
}

// ProfileModule mounts all authenticated /profiles endpoints.
func ProfileModule(store db.Store, exporter *export.Exporter, prober *probe.Prober) api.Module {
	ctl := newProfileController(store, exporter, prober)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/profiles", ctl.listProfiles)
		c.POST("/profiles", ctl.createProfile)
		c.GET("/profiles/:id", ctl.getProfile)
		c.PUT("/profiles/:id", ctl.updateProfile)
		c.DELETE("/profiles/:id", ctl.deleteProfile)

		c.POST("/profiles/:id/export", ctl.runExport)
		c.GET("/profiles/:id/export/status", ctl.exportStatus)
		c.GET("/profiles/:id/export/archive", ctl.downloadArchive)
		c.POST("/profiles/:id/probe", ctl.probeProfile)
	})
}

func profileFromRequest(id string, request packets.ExportProfileRequest) model.ExportProfile {
	return model.ExportProfile{
		ID:          id,
		Name:        request.Name,
		GenreIDs:    request.GenreIDs,
		StationIDs:  request.StationIDs,
		SubGenres:   model.NormalizeLabels(request.SubGenres),
		PlayerAppID: request.PlayerAppID,
		Schedule:    request.Schedule,
	}
}

// GET /api/admin/profiles
func (p *ProfileController) listProfiles(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	all, err := p.store.ListExportProfiles()
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: err.Error()}
	}
	out := make([]packets.ExportProfileResponse, 0, len(all))
	for _, profile := range all {
		out = append(out, packets.MapExportProfile(profile))
	}
	return out, nil
}

// POST /api/admin/profiles
func (p *ProfileController) createProfile(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var request packets.ExportProfileRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	// claiming an app releases it from any other profile; the store handles it
	created, err := p.store.CreateExportProfile(profileFromRequest("", request))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not create export profile"}
	}

	if err := p.store.WriteAudit(user.ID, "create", "export_profile", created.ID); err != nil {
		log.Warn().Err(err).Msg("failed to write audit entry")
	}
	return packets.MapExportProfile(created), nil
}

// GET /api/admin/profiles/:id
func (p *ProfileController) getProfile(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	profile, err := p.store.GetExportProfileByID(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "export profile not found"}
	}
	return packets.MapExportProfile(profile), nil
}

// PUT /api/admin/profiles/:id
func (p *ProfileController) updateProfile(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var request packets.ExportProfileRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	updated, err := p.store.UpdateExportProfile(profileFromRequest(ctx.Param("id"), request))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "export profile not found"}
	}

	if err := p.store.WriteAudit(user.ID, "update", "export_profile", updated.ID); err != nil {
		log.Warn().Err(err).Msg("failed to write audit entry")
	}
	return packets.MapExportProfile(updated), nil
}

// DELETE /api/admin/profiles/:id
func (p *ProfileController) deleteProfile(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id := ctx.Param("id")
	if err := p.store.DeleteExportProfile(id); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not delete export profile"}
	}
	if err := p.store.WriteAudit(user.ID, "delete", "export_profile", id); err != nil {
		log.Warn().Err(err).Msg("failed to write audit entry")
	}
	return gin.H{"deleted": id}, nil
}

// POST /api/admin/profiles/:id/export
// A profile that resolves to zero stations fails with 412 before anything
// is written.
func (p *ProfileController) runExport(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var request packets.RunExportRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	profileID := ctx.Param("id")
	result, err := p.exporter.Run(ctx.Request.Context(), profileID, export.Options{
		Archive: request.Archive,
		Upload:  request.Upload,
	})
	if err != nil {
		if errors.Is(err, export.ErrNoStations) {
			return nil, &api.APIError{Code: http.StatusPreconditionFailed, Message: err.Error()}
		}
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: err.Error()}
	}

	redis.SetExportStatus(ctx.Request.Context(), profileID, result)
	if err := p.store.WriteAudit(user.ID, "export", "export_profile", profileID); err != nil {
		log.Warn().Err(err).Msg("failed to write audit entry")
	}
	return result, nil
}

// GET /api/admin/profiles/:id/export/status
func (p *ProfileController) exportStatus(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	raw, err := redis.GetExportStatus(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: err.Error()}
	}
	if raw == nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "no export recorded for profile"}
	}
	return raw, nil
}

// GET /api/admin/profiles/:id/export/archive
// Streams the last archive written for the profile.
func (p *ProfileController) downloadArchive(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	raw, err := redis.GetExportStatus(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: err.Error()}
	}
	if raw == nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "no export recorded for profile"}
	}

	var result export.Result
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "unreadable export status"}
	}
	if result.ArchivePath == "" {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "last export produced no archive"}
	}
	if _, err := os.Stat(result.ArchivePath); err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "archive no longer on disk"}
	}

	ctx.FileAttachment(result.ArchivePath, result.ArchiveName)
	return nil, nil
}

// POST /api/admin/profiles/:id/probe
// Probes every stream the profile currently selects.
func (p *ProfileController) probeProfile(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	profile, err := p.store.GetExportProfileByID(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "export profile not found"}
	}

	snap, err := export.LoadSnapshot(p.store)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: err.Error()}
	}

	selected := snap.SelectStations(profile)
	ids := make(map[string]struct{}, len(selected))
	for _, st := range selected {
		ids[st.ID] = struct{}{}
	}
	targets := make([]model.Station, 0, len(selected))
	for _, st := range snap.Stations {
		if _, ok := ids[st.ID]; ok {
			targets = append(targets, st)
		}
	}

	return p.prober.CheckAll(ctx.Request.Context(), targets), nil
}
