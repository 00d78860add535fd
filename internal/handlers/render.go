package handlers

import (
	"errors"
	"net/http"

	"github.com/a-h/templ"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/Juan-Fuente-T/borme-scraper-frontend/internal/service"
	"github.com/Juan-Fuente-T/borme-scraper-frontend/internal/templates"
)

// Register mounts every UI route on app
func Register(app *fiber.App, loader *service.Loader) {
	app.Get("/", HomeHandler(loader))

	// Company routes
	app.Get("/companies", CompaniesHandler(loader))
	app.Get("/companies/:id", CompanyDetailHandler(loader))

	// Publication routes
	app.Get("/publications", PublicationsHandler(loader))
	app.Get("/publications/:id/pdf", PublicationPDFHandler(loader))

	app.Post("/process", ProcessHandler(loader))

	// Session routes
	app.Post("/login", LoginHandler(loader))
	app.Post("/logout", LogoutHandler(loader))
}

func render(c *fiber.Ctx, status int, component templ.Component) error {
	handler := adaptor.HTTPHandler(templ.Handler(component, templ.WithStatus(status)))
	return handler(c)
}

func renderPage(c *fiber.Ctx, loader *service.Loader, status int, title, notice string, content templ.Component) error {
	chrome := templates.Chrome{
		Title:   title,
		Notice:  notice,
		Summary: loader.Summarize(),
	}
	return render(c, status, templates.Layout(chrome, content))
}

func isHTMX(c *fiber.Ctx) bool {
	return c.Get("HX-Request") == "true"
}

// statusFor maps a loader error to the status of the page showing it
func statusFor(err error) int {
	if err == nil || errors.Is(err, service.ErrStale) {
		return fiber.StatusOK
	}

	if errors.Is(err, service.ErrMissingCredentials) {
		return fiber.StatusBadRequest
	}

	switch code := service.StatusCode(err); code {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		return code
	default:
		return fiber.StatusBadGateway
	}
}
