package objects

import (
	"fedbox/internal/store"

	"github.com/gofiber/fiber/v3"
)

type Handler struct {
	Store *store.Store
}

func Routes(app fiber.Router, h *Handler) {
	app.Get("/u/:actor", h.getActorHandler)
	app.Get("/o/:id", h.getObjectHandler)
	app.Get("/s/:id", h.getActivityHandler)
}
