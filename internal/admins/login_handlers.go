package admins

import (
	"encoding/json"
	"strings"

	"fedbox/internal/env"
	"fedbox/internal/errmsg"
	"fedbox/internal/models"
	"fedbox/internal/utils"

	"github.com/gofiber/fiber/v3"
	"golang.org/x/crypto/bcrypt"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// loginHandler authenticates the configured instance operator and issues a
// bearer token for the provisioning and event-feed routes.
// @Summary Operator login
// @Tags Admins
// @Accept json
// @Produce json
// @Param payload body loginRequest true "Operator credentials"
// @Success 200 {object} map[string]any
// @Failure 400 {object} errmsg._AdminInvalidPayload
// @Failure 401 {object} errmsg._AdminWrongPassword
// @Router /admins/login [post]
func loginHandler(c fiber.Ctx) error {
	var body loginRequest
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return utils.StatusError(c, errmsg.AdminInvalidPayload)
	}

	body.Username = strings.TrimSpace(body.Username)
	body.Password = strings.TrimSpace(body.Password)
	if body.Username == "" || body.Password == "" {
		return utils.StatusError(c, errmsg.AdminInvalidPayload)
	}

	if body.Username != env.ADMIN_USERNAME {
		return utils.StatusError(c, errmsg.AdminWrongPassword)
	}

	if bcrypt.CompareHashAndPassword(
		[]byte(env.ADMIN_PASSWORD_HASH),
		[]byte(body.Password),
	) != nil {
		return utils.StatusError(c, errmsg.AdminWrongPassword)
	}

	admin := models.Admin{Username: body.Username}
	token := admin.GenToken()

	return c.JSON(fiber.Map{
		"token": token,
		"admin": admin,
	})
}
