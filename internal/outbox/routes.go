package outbox

import (
	"fedbox/internal/events"
	"fedbox/internal/federation"
	"fedbox/internal/store"

	"github.com/gofiber/fiber/v3"
)

type Handler struct {
	Store      *store.Store
	Dispatcher *federation.Dispatcher
	Em         *events.Emitter
}

func Routes(app fiber.Router, h *Handler) {
	outbox := app.Group("/outbox")

	outbox.Get("/:actor", h.getOutboxHandler)
	outbox.Post("/:actor", h.postOutboxHandler)
}
