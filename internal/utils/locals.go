package utils

import (
	"encoding/json"

	"github.com/gofiber/fiber/v3"
)

// Request-scoped values cross the middleware/handler boundary as JSON so the
// two sides never have to agree on a concrete type.

func GetLocals(c fiber.Ctx, name string, result any) {
	raw, _ := c.Locals(name).(string)
	_ = json.Unmarshal([]byte(raw), result)
}

func SetLocals(c fiber.Ctx, name string, data any) {
	encoded, _ := json.Marshal(data)
	c.Locals(name, string(encoded))
}
