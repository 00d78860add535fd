package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/Juan-Fuente-T/borme-scraper-frontend/internal/service"
	"github.com/Juan-Fuente-T/borme-scraper-frontend/internal/templates"
)

func LoginHandler(loader *service.Loader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()

		// Form values point into the request buffer; the session outlives it
		username := utils.CopyString(c.FormValue("username"))
		password := utils.CopyString(c.FormValue("password"))

		if err := loader.Login(ctx, username, password); err != nil {
			return renderPage(c, loader, statusFor(err), "Inicio", "", templates.Home(loader.Summarize()))
		}

		return c.Redirect("/", fiber.StatusSeeOther)
	}
}

func LogoutHandler(loader *service.Loader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		loader.Logout()
		return c.Redirect("/", fiber.StatusSeeOther)
	}
}
