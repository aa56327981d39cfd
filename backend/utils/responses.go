package utils

import "github.com/gofiber/fiber/v2"

// Success writes a JSON body carrying "status": "success" plus the given
// payload keys.
func Success(c *fiber.Ctx, status int, payload fiber.Map) error {
	body := fiber.Map{"status": "success"}
	for k, v := range payload {
		body[k] = v
	}
	return c.Status(status).JSON(body)
}

// Error writes the uniform error body {"error": "<message>"}.
func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, message)
}

func Unauthorized(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusUnauthorized, message)
}

func Forbidden(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusForbidden, message)
}

func NotFound(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusNotFound, message)
}

func Conflict(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusConflict, message)
}

func InternalServerError(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusInternalServerError, message)
}
