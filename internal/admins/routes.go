package admins

import (
	"fedbox/internal/events"
	"fedbox/internal/models"
	"fedbox/internal/store"

	"github.com/gofiber/fiber/v3"
)

type Handler struct {
	Store *store.Store
	Em    *events.Emitter
}

func Routes(app fiber.Router, h *Handler) {
	admins := app.Group("/admins")

	admins.Get("/ping", func(c fiber.Ctx) error {
		return c.SendString("PONG")
	})

	admins.Post("/login", loginHandler)
	admins.Post("/actors", h.createActorHandler, models.AdminMiddleware)
	admins.Get("/events/ws", h.eventsFeedHandler)
}
