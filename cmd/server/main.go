// @title Fedbox Federation API
// @version 0.3.0
// @description Outbound-activity server: outbox ingest, signed federation delivery, and actor document hosting.
// @BasePath /
// @securityDefinitions.apikey AdminAuth
// @in header
// @name Authorization
// @description Provide the operator bearer token as `Bearer <token>`.

// @Tag.name Outbox
// @Tag.description Activity submission and ordered-collection reads.

// @Tag.name Objects
// @Tag.description Actor, object, and activity document retrieval.

// @Tag.name Admins
// @Tag.description Operator authentication, actor provisioning, and the live event feed.

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"fedbox/internal"
	"fedbox/internal/env"
	"fedbox/internal/swagger"

	"github.com/gofiber/fiber/v3"
)

func main() {
	deployment := flag.String("deployment", "", "deployment profile (dev|test|prod)")
	portFlag := flag.String("port", "", "port to listen on")
	envRoot := flag.String("env-root", "", "directory containing environment files")
	appVersion := flag.String("app-version", "", "application version override")

	flag.Parse()

	deploy := strings.TrimSpace(*deployment)
	if deploy == "" {
		args := flag.Args()
		if len(args) == 0 {
			fmt.Println("Usage: server --deployment <type> --port <port> [--env-root <dir>] [--app-version <version>]")
			os.Exit(1)
		}
		deploy = strings.TrimSpace(args[0])
	}

	if deploy == "" {
		log.Fatal("deployment is required")
	}

	port := strings.TrimSpace(*portFlag)
	if port == "" {
		log.Fatal("port is required")
	}

	app := internal.SetupApp(deploy, *envRoot, *appVersion)
	swagger.Register(app)

	fmt.Println("APP VERSION:", env.VERSION)

	if err := app.Listen(fmt.Sprintf(":%s", port), fiber.ListenConfig{
		EnablePrefork: env.PREFORK,
	}); err != nil {
		log.Fatalf("Error listening on port %s: %v", port, err)
	}
}
