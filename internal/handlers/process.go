package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Juan-Fuente-T/borme-scraper-frontend/internal/service"
	"github.com/Juan-Fuente-T/borme-scraper-frontend/internal/templates"
)

func ProcessHandler(loader *service.Loader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()

		date := c.FormValue("date")
		if _, err := time.Parse("2006-01-02", date); err != nil {
			loader.State().SetError("Invalid date, expected YYYY-MM-DD")
			return renderPage(c, loader, fiber.StatusBadRequest, "Inicio", "", templates.Home(loader.Summarize()))
		}

		reply, err := loader.Process(ctx, date)
		if err != nil {
			return renderPage(c, loader, statusFor(err), "Inicio", "", templates.Home(loader.Summarize()))
		}

		notice := fmt.Sprintf("Procesamiento del BORME del %s solicitado", date)
		if reply != "" {
			notice += ": " + reply
		}
		return renderPage(c, loader, fiber.StatusOK, "Inicio", notice, templates.Home(loader.Summarize()))
	}
}
