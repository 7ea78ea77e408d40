package objects

import (
	"fedbox/internal/db"
	"fedbox/internal/errmsg"
	"fedbox/internal/models"
	"fedbox/internal/utils"

	"github.com/gofiber/fiber/v3"
)

// getActorHandler serves a local actor document, including the published
// public key remote servers verify delivery signatures against.
// @Summary Get a local actor document
// @Tags Objects
// @Produce json
// @Param actor path string true "Local actor name"
// @Success 200 {object} map[string]any
// @Failure 404 {string} string "'{actor}' not found on this instance"
// @Router /u/{actor} [get]
func (h *Handler) getActorHandler(c fiber.Ctx) error {
	actorName := c.Params("actor")

	actor, err := h.Store.Get(db.Ctx, models.ActorIRI(actorName), false)
	if err != nil {
		return utils.StatusErrorText(c, errmsg.InternalServerError(err))
	}
	if actor == nil {
		return utils.StatusErrorText(c, errmsg.ActorNotFound(actorName))
	}

	return c.JSON(actor, models.ContentTypeActivityJSON)
}

// getObjectHandler serves a persisted object by id alone; objects are stored
// independently of the activities that reference them for exactly this.
// @Summary Get an object document
// @Tags Objects
// @Produce json
// @Param id path string true "Object id suffix"
// @Success 200 {object} map[string]any
// @Failure 404 {string} string "object not found"
// @Router /o/{id} [get]
func (h *Handler) getObjectHandler(c fiber.Ctx) error {
	object, err := h.Store.Get(db.Ctx, models.ObjectIRI(c.Params("id")), false)
	if err != nil {
		return utils.StatusErrorText(c, errmsg.InternalServerError(err))
	}
	if object == nil {
		return utils.StatusErrorText(c, errmsg.ObjectNotFound)
	}

	return c.JSON(object, models.ContentTypeActivityJSON)
}

// @Summary Get an activity document
// @Tags Objects
// @Produce json
// @Param id path string true "Activity id suffix"
// @Success 200 {object} map[string]any
// @Failure 404 {string} string "object not found"
// @Router /s/{id} [get]
func (h *Handler) getActivityHandler(c fiber.Ctx) error {
	activity, err := h.Store.GetActivity(db.Ctx, models.ActivityIRI(c.Params("id")))
	if err != nil {
		return utils.StatusErrorText(c, errmsg.InternalServerError(err))
	}
	if activity == nil {
		return utils.StatusErrorText(c, errmsg.ObjectNotFound)
	}

	return c.JSON(activity, models.ContentTypeActivityJSON)
}
