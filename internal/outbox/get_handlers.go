package outbox

import (
	"fmt"
	"strconv"

	"fedbox/internal/db"
	"fedbox/internal/env"
	"fedbox/internal/errmsg"
	"fedbox/internal/models"
	"fedbox/internal/utils"

	"github.com/gofiber/fiber/v3"
)

// getOutboxHandler renders an actor's outbox as an ordered collection,
// most recent first. Small outboxes are returned inline; larger ones
// paginate with first/next/prev page links.
// @Summary Read an actor's outbox collection
// @Tags Outbox
// @Produce json
// @Param actor path string true "Local actor name"
// @Param page query int false "Page number"
// @Success 200 {object} models.OrderedCollection
// @Failure 404 {string} string "'{actor}' not found on this instance"
// @Router /outbox/{actor} [get]
func (h *Handler) getOutboxHandler(c fiber.Ctx) error {
	actorName := c.Params("actor")
	actorID := models.ActorIRI(actorName)

	actor, err := h.Store.Get(db.Ctx, actorID, false)
	if err != nil {
		return utils.StatusErrorText(c, errmsg.InternalServerError(err))
	}
	if actor == nil {
		return utils.StatusErrorText(c, errmsg.ActorNotFound(actorName))
	}

	total, err := h.Store.CountOutbox(db.Ctx, actorID)
	if err != nil {
		return utils.StatusErrorText(c, errmsg.InternalServerError(err))
	}

	pageSize := int64(env.OUTBOX_PAGE_SIZE)
	outboxIRI := fmt.Sprintf("https://%s/outbox/%s", env.DOMAIN, actorName)

	if pageParam := c.Query("page"); pageParam != "" {
		page, err := strconv.ParseInt(pageParam, 10, 64)
		if err != nil || page < 1 {
			page = 1
		}
		return h.renderPage(c, outboxIRI, actorID, total, page, pageSize)
	}

	collection := models.OrderedCollection{
		Context:    models.DefaultContext(),
		ID:         outboxIRI,
		Type:       "OrderedCollection",
		TotalItems: total,
	}

	if total > pageSize {
		collection.First = outboxIRI + "?page=1"
		return c.JSON(collection, models.ContentTypeActivityJSON)
	}

	items, err := h.Store.QueryOutbox(db.Ctx, actorID, 0, pageSize)
	if err != nil {
		return utils.StatusErrorText(c, errmsg.InternalServerError(err))
	}
	collection.OrderedItems = items

	return c.JSON(collection, models.ContentTypeActivityJSON)
}

func (h *Handler) renderPage(
	c fiber.Ctx,
	outboxIRI string,
	actorID string,
	total int64,
	page int64,
	pageSize int64,
) error {
	items, err := h.Store.QueryOutbox(db.Ctx, actorID, (page-1)*pageSize, pageSize)
	if err != nil {
		return utils.StatusErrorText(c, errmsg.InternalServerError(err))
	}

	collectionPage := models.OrderedCollectionPage{
		Context:      models.DefaultContext(),
		ID:           fmt.Sprintf("%s?page=%d", outboxIRI, page),
		Type:         "OrderedCollectionPage",
		PartOf:       outboxIRI,
		OrderedItems: items,
	}
	if page > 1 {
		collectionPage.Prev = fmt.Sprintf("%s?page=%d", outboxIRI, page-1)
	}
	if page*pageSize < total {
		collectionPage.Next = fmt.Sprintf("%s?page=%d", outboxIRI, page+1)
	}

	return c.JSON(collectionPage, models.ContentTypeActivityJSON)
}
