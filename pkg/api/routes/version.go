package routes

import "github.com/gofiber/fiber/v2"

// Version is overridden at build time with -ldflags "-X ...routes.Version=..."
var Version = "v0.1"

func APIVersion(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"version": Version,
	})
}
