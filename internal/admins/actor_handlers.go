package admins

import (
	"encoding/json"
	"strings"

	"fedbox/internal/db"
	"fedbox/internal/errmsg"
	"fedbox/internal/models"
	"fedbox/internal/utils"
	"fedbox/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type createActorRequest struct {
	PreferredUsername string `json:"preferredUsername"`
}

// createActorHandler provisions a local actor: fresh RSA keypair, full actor
// document, idempotent persist. The private key stays in the hidden metadata
// block and is absent from the response.
// @Summary Provision a local actor
// @Tags Admins
// @Security AdminAuth
// @Accept json
// @Produce json
// @Param payload body createActorRequest true "Actor to provision"
// @Success 200 {object} map[string]any
// @Failure 400 {object} errmsg._ActorInvalidPayload
// @Failure 409 {object} errmsg._ActorAlreadyExists
// @Router /admins/actors [post]
func (h *Handler) createActorHandler(c fiber.Ctx) error {
	var body createActorRequest
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return utils.StatusError(c, errmsg.ActorInvalidPayload)
	}

	username := strings.TrimSpace(body.PreferredUsername)
	if username == "" || strings.ContainsAny(username, " /#?") {
		return utils.StatusError(c, errmsg.ActorInvalidPayload)
	}

	actor, err := models.NewLocalActor(username)
	if err != nil {
		return utils.StatusError(c, errmsg.InternalServerError(err))
	}

	created, err := h.Store.SetupActor(db.Ctx, actor)
	if err != nil {
		return utils.StatusError(c, errmsg.InternalServerError(err))
	}
	if !created {
		return utils.StatusError(c, errmsg.ActorAlreadyExists)
	}

	if h.Em != nil {
		var admin models.Admin
		utils.GetLocals(c, "admin", &admin)
		h.Em.ActorProvisioned(admin.Username, models.ID(actor))
	}

	return c.JSON(models.StripHidden(actor))
}

// eventsFeedHandler streams the live event journal over a websocket.
// The operator token is passed as a query parameter since websocket clients
// can't always set headers.
// @Summary Live event feed
// @Tags Admins
// @Param token query string true "Operator bearer token"
// @Router /admins/events/ws [get]
func (h *Handler) eventsFeedHandler(c fiber.Ctx) error {
	token := c.Query("token")
	if token == "" {
		return utils.StatusError(c, errmsg.AdminNoToken)
	}

	var admin models.Admin
	if err := admin.ParseToken(token); err != nil || admin.Username == "" {
		return utils.StatusError(c, errmsg.AdminNoToken)
	}

	return ws.StreamEvents(c, h.Em)
}
