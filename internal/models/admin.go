package models

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"fedbox/internal/env"
	"fedbox/internal/utils"

	sj "github.com/brianvoe/sjwt"
	"github.com/gofiber/fiber/v3"
)

// Admin is an instance operator identity. Operators provision actors and
// watch the delivery event feed; they are not federation actors themselves.
type Admin struct {
	Username string `json:"username"`
}

func (a *Admin) GenToken() string {
	claims, _ := sj.ToClaims(a)
	claims.SetExpiresAt(time.Now().Add(30 * 24 * time.Hour))

	token := claims.Generate(env.JWT_SECRET)
	return token
}

func (a *Admin) ParseToken(token string) error {
	hasVerified := sj.Verify(token, env.JWT_SECRET)

	if !hasVerified {
		return errors.New("token could not be verified")
	}

	claims, _ := sj.Parse(token)
	err := claims.Validate()
	claims.ToStruct(&a)

	return err
}

func AdminMiddleware(c fiber.Ctx) error {
	var token string

	authHeader := c.Get("Authorization")

	if authHeader != "" && strings.HasPrefix(authHeader, "Bearer") {
		tokens := strings.Fields(authHeader)
		if len(tokens) == 2 {
			token = tokens[1]
		}

		if token == "" {
			return utils.Error(
				c,
				http.StatusUnauthorized,
				errors.New("unauthorized"),
			)
		}

		var admin Admin
		err := admin.ParseToken(token)
		if err != nil {
			return utils.Error(
				c,
				http.StatusUnauthorized,
				errors.New("unauthorized"),
			)
		}

		if admin.Username == "" {
			return utils.Error(
				c,
				http.StatusUnauthorized,
				errors.New("unauthorized"),
			)
		}

		utils.SetLocals(c, "admin", admin)
	}

	if token == "" {
		return utils.Error(
			c,
			http.StatusUnauthorized,
			errors.New("unauthorized"),
		)
	}

	return c.Next()
}
