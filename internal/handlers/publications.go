package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/Juan-Fuente-T/borme-scraper-frontend/internal/service"
	"github.com/Juan-Fuente-T/borme-scraper-frontend/internal/templates"
)

func PublicationsHandler(loader *service.Loader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()

		page := c.QueryInt("page", 0)
		if page < 0 {
			return c.Status(fiber.StatusBadRequest).SendString("Invalid page number")
		}
		sort := c.Query("sort")

		var err error
		switch c.Query("nav") {
		case "":
			err = loader.LoadPublications(ctx, page, sort)
		case templates.NavNext:
			err = loader.NextPublications(ctx, sort)
		case templates.NavPrev:
			err = loader.PrevPublications(ctx, sort)
		default:
			return c.Status(fiber.StatusBadRequest).SendString("Invalid navigation")
		}
		status := statusFor(err)

		state := loader.State()
		view := templates.PublicationsView{
			Sort:         sort,
			Publications: state.Publications.Get(),
			Pages:        state.PublicationPages.Get(),
		}

		// Check if this is an HTMX request for just the results
		if isHTMX(c) {
			return render(c, status, templates.Fragment(
				templates.ErrorBanner(state.Error.Get()),
				templates.Publications(view),
			))
		}

		return renderPage(c, loader, status, "Publicaciones", "", templates.Publications(view))
	}
}

// PublicationPDFHandler relays the bulletin document bytes from the backend
func PublicationPDFHandler(loader *service.Loader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()

		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return c.Status(fiber.StatusBadRequest).SendString("Invalid publication id")
		}

		doc, err := loader.PublicationDocument(ctx, int64(id))
		if err != nil {
			return c.Status(statusFor(err)).SendString(service.Describe(err))
		}

		c.Set(fiber.HeaderContentType, doc.ContentType)
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="borme-%d.pdf"`, id))
		return c.Send(doc.Data)
	}
}
