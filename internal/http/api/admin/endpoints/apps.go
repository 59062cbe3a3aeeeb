package endpoints

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/airwave-radio/airwave/internal/db"
	"github.com/airwave-radio/airwave/internal/http/api"
	"github.com/airwave-radio/airwave/internal/http/api/admin/packets"
	"github.com/airwave-radio/airwave/internal/model"
	"github.com/airwave-radio/airwave/internal/secrets"
	"github.com/airwave-radio/airwave/internal/transfer"
)

type PlayerAppController struct {
	store db.Store
	box   *secrets.Box
	agent *transfer.Agent
}

func newPlayerAppController(store db.Store, box *secrets.Box, agent *transfer.Agent) *PlayerAppController {
	return &PlayerAppController{store: store, box: box, agent: agent}
}

// PlayerAppModule mounts all authenticated /apps endpoints.
func PlayerAppModule(store db.Store, box *secrets.Box, agent *transfer.Agent) api.Module {
	ctl := newPlayerAppController(store, box, agent)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/apps", ctl.listApps)
		c.POST("/apps", ctl.createApp)
		c.GET("/apps/:id", ctl.getApp)
		c.PUT("/apps/:id", ctl.updateApp)
		c.DELETE("/apps/:id", ctl.deleteApp)

		c.POST("/apps/:id/transfer/test", ctl.testTransfer)
	})
}

func (p *PlayerAppController) appFromRequest(id string, request packets.PlayerAppRequest, existingSecret string) (model.PlayerApp, *api.APIError) {
	secret := existingSecret
	if request.TransferPassword != "" {
		sealed, err := p.box.Seal(request.TransferPassword)
		if err != nil {
			return model.PlayerApp{}, &api.APIError{Code: http.StatusInternalServerError, Message: "could not seal transfer secret"}
		}
		secret = sealed
	}

	return model.PlayerApp{
		ID:                id,
		Name:              request.Name,
		Platforms:         model.NormalizePlatforms(request.Platforms),
		TransferServer:    request.TransferServer,
		TransferUsername:  request.TransferUsername,
		TransferSecret:    secret,
		TransferProtocol:  request.TransferProtocol,
		TransferTimeoutMS: request.TransferTimeoutMS,
		AdsEnabled:        request.AdsEnabled,
		AdNetworkCode:     request.AdNetworkCode,
		PlacementPreroll:  request.PlacementPreroll,
		PlacementMidroll:  request.PlacementMidroll,
		PlacementRewarded: request.PlacementRewarded,
		VideoAdSize:       request.VideoAdSize,
	}, nil
}

// GET /api/admin/apps
func (p *PlayerAppController) listApps(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	all, err := p.store.ListPlayerApps()
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: err.Error()}
	}
	out := make([]packets.PlayerAppResponse, 0, len(all))
	for _, app := range all {
		out = append(out, packets.MapPlayerApp(app))
	}
	return out, nil
}

// POST /api/admin/apps
func (p *PlayerAppController) createApp(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var request packets.PlayerAppRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	app, apiErr := p.appFromRequest("", request, "")
	if apiErr != nil {
		return nil, apiErr
	}
	created, err := p.store.CreatePlayerApp(app)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not create player app"}
	}

	if err := p.store.WriteAudit(user.ID, "create", "player_app", created.ID); err != nil {
		log.Warn().Err(err).Msg("failed to write audit entry")
	}
	return packets.MapPlayerApp(created), nil
}

// GET /api/admin/apps/:id
func (p *PlayerAppController) getApp(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	app, err := p.store.GetPlayerAppByID(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "player app not found"}
	}
	return packets.MapPlayerApp(app), nil
}

// PUT /api/admin/apps/:id
func (p *PlayerAppController) updateApp(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var request packets.PlayerAppRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	existing, err := p.store.GetPlayerAppByID(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "player app not found"}
	}

	// an empty transfer_password keeps the stored secret
	app, apiErr := p.appFromRequest(existing.ID, request, existing.TransferSecret)
	if apiErr != nil {
		return nil, apiErr
	}
	updated, err := p.store.UpdatePlayerApp(app)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not update player app"}
	}

	if err := p.store.WriteAudit(user.ID, "update", "player_app", updated.ID); err != nil {
		log.Warn().Err(err).Msg("failed to write audit entry")
	}
	return packets.MapPlayerApp(updated), nil
}

// DELETE /api/admin/apps/:id
func (p *PlayerAppController) deleteApp(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id := ctx.Param("id")
	if err := p.store.DeletePlayerApp(id); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not delete player app"}
	}
	if err := p.store.WriteAudit(user.ID, "delete", "player_app", id); err != nil {
		log.Warn().Err(err).Msg("failed to write audit entry")
	}
	return gin.H{"deleted": id}, nil
}

// POST /api/admin/apps/:id/transfer/test
// Runs a listing request against the app's transfer endpoint.
func (p *PlayerAppController) testTransfer(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	app, err := p.store.GetPlayerAppByID(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "player app not found"}
	}

	password, err := p.box.Open(app.TransferSecret)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not unseal transfer secret"}
	}

	cfg := transfer.Config{
		Address:   app.TransferServer,
		Username:  app.TransferUsername,
		Password:  password,
		Protocol:  app.TransferProtocol,
		TimeoutMS: app.TransferTimeoutMS,
	}
	if err := p.agent.TestConnection(ctx.Request.Context(), cfg); err != nil {
		return nil, &api.APIError{Code: http.StatusBadGateway, Message: err.Error()}
	}
	return gin.H{"ok": true}, nil
}
