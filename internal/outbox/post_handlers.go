package outbox

import (
	"encoding/json"

	"fedbox/internal/db"
	"fedbox/internal/errmsg"
	"fedbox/internal/models"
	"fedbox/internal/utils"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson"
)

// postOutboxHandler ingests a local actor's submission: validate, normalize,
// persist, then hand off to federation delivery.
// @Summary Submit an activity to an actor's outbox
// @Tags Outbox
// @Accept json
// @Produce plain
// @Param actor path string true "Local actor name"
// @Success 200
// @Failure 400 {string} string "Invalid activity"
// @Failure 404 {string} string "'{actor}' not found on this instance"
// @Router /outbox/{actor} [post]
func (h *Handler) postOutboxHandler(c fiber.Ctx) error {
	// wrong media type means the route effectively doesn't exist
	if !models.IsActivityStreamsMediaType(c.Get("Content-Type")) {
		return c.SendStatus(fiber.StatusNotFound)
	}

	var payload bson.M
	if err := json.Unmarshal(c.Body(), &payload); err != nil {
		return utils.StatusErrorText(c, errmsg.OutboxInvalidActivity)
	}
	if len(payload) == 0 || !models.IsValidPayload(payload) {
		return utils.StatusErrorText(c, errmsg.OutboxInvalidActivity)
	}

	actorName := c.Params("actor")

	// privileged fetch: the signing key is needed for delivery
	actor, err := h.Store.Get(db.Ctx, models.ActorIRI(actorName), true)
	if err != nil {
		return utils.StatusErrorText(c, errmsg.InternalServerError(err))
	}
	if actor == nil {
		return utils.StatusErrorText(c, errmsg.ActorNotFound(actorName))
	}
	actorID := models.ID(actor)

	activity := payload
	if !models.IsActivity(activity) {
		activity = models.WrapInCreate(activity, actorID)
	}
	if models.ID(activity) == "" {
		activity["id"] = models.NewActivityIRI()
	}

	if object, ok := models.EmbeddedObject(activity); ok {
		if models.ID(object) == "" {
			object["id"] = models.NewObjectIRI()
		}
		if _, ok := object["attributedTo"]; !ok {
			object["attributedTo"] = actorID
		}

		if _, err := h.Store.Save(db.Ctx, object); err != nil {
			return utils.StatusErrorText(c, errmsg.InternalServerError(err))
		}
	}

	// duplicate stream adds are success-by-idempotence for retried submissions
	if _, err := h.Store.AddToStream(db.Ctx, actorID, activity); err != nil {
		return utils.StatusErrorText(c, errmsg.InternalServerError(err))
	}

	if h.Em != nil {
		h.Em.OutboxAccepted(actorID, models.ID(activity))
	}

	// delivery is decoupled from this response and carries its own timeout
	go h.Dispatcher.Dispatch(activity, actor)

	// 200 with an empty body; delivery outcomes are never reflected here
	return c.Status(fiber.StatusOK).SendString("")
}
