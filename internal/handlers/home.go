package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Juan-Fuente-T/borme-scraper-frontend/internal/service"
	"github.com/Juan-Fuente-T/borme-scraper-frontend/internal/templates"
)

func HomeHandler(loader *service.Loader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return renderPage(c, loader, fiber.StatusOK, "Inicio", "", templates.Home(loader.Summarize()))
	}
}
