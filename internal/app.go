package internal

import (
	"log"
	"strings"

	"fedbox/internal/admins"
	"fedbox/internal/db"
	"fedbox/internal/env"
	"fedbox/internal/events"
	"fedbox/internal/federation"
	"fedbox/internal/objects"
	"fedbox/internal/outbox"
	"fedbox/internal/store"

	"github.com/gofiber/fiber/v3"
)

func SetupApp(deployment string, envRoot string, appVersion string) *fiber.App {
	app := fiber.New()

	env.Init(envRoot, appVersion)

	deploy := strings.TrimSpace(deployment)

	if err := db.InitDB(deploy); err != nil {
		log.Fatal("Could not connect to MongoDB")
		return nil
	}

	if err := db.InitCache(); err != nil {
		log.Fatal("Could not connect to Redis")
		return nil
	}

	recordStore := store.New(db.Objects, db.Streams)
	if err := recordStore.EnsureIndexes(db.Ctx); err != nil {
		log.Fatal("Could not ensure store indexes")
		return nil
	}

	events.Em = events.NewEmitter(db.Events, deploy)

	resolver := federation.NewResolver()
	dispatcher := federation.NewDispatcher(resolver, events.Em)

	app.Get("/ping", func(c fiber.Ctx) error {
		return c.SendString("PONG")
	})

	app.Get("/version", func(c fiber.Ctx) error {
		return c.SendString("v" + env.VERSION)
	})

	outbox.Routes(app, &outbox.Handler{
		Store:      recordStore,
		Dispatcher: dispatcher,
		Em:         events.Em,
	})
	objects.Routes(app, &objects.Handler{
		Store: recordStore,
	})
	admins.Routes(app, &admins.Handler{
		Store: recordStore,
		Em:    events.Em,
	})

	return app
}
