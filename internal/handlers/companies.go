package handlers

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/Juan-Fuente-T/borme-scraper-frontend/internal/model"
	"github.com/Juan-Fuente-T/borme-scraper-frontend/internal/service"
	"github.com/Juan-Fuente-T/borme-scraper-frontend/internal/templates"
)

func CompaniesHandler(loader *service.Loader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()

		q := service.CompanyQuery{
			Date: c.Query("date"),
			Filter: model.SearchFilter{
				Name:        c.Query("name"),
				Admin:       c.Query("admin"),
				SolePartner: c.Query("solePartner"),
				StartDate:   c.Query("startDate"),
				EndDate:     c.Query("endDate"),
			},
			Page: c.QueryInt("page", 0),
			Sort: c.Query("sort"),
		}
		if q.Page < 0 {
			return c.Status(fiber.StatusBadRequest).SendString("Invalid page number")
		}

		var err error
		switch c.Query("nav") {
		case "":
			err = loader.LoadCompanies(ctx, q)
		case templates.NavNext:
			err = loader.NextCompanies(ctx, q)
		case templates.NavPrev:
			err = loader.PrevCompanies(ctx, q)
		default:
			return c.Status(fiber.StatusBadRequest).SendString("Invalid navigation")
		}
		status := statusFor(err)

		state := loader.State()
		view := templates.CompaniesView{
			Query:     q,
			Companies: state.Companies.Get(),
			Pages:     state.CompanyPages.Get(),
		}

		// Check if this is an HTMX request for just the results
		if isHTMX(c) {
			return render(c, status, templates.Fragment(
				templates.ErrorBanner(state.Error.Get()),
				templates.CompaniesResults(view),
			))
		}

		return renderPage(c, loader, status, "Empresas", "", templates.Companies(view))
	}
}

func CompanyDetailHandler(loader *service.Loader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()

		id, err := url.PathUnescape(c.Params("id"))
		if err != nil || id == "" {
			return c.Status(fiber.StatusBadRequest).SendString("Invalid company id")
		}

		company, err := loader.LoadCompany(ctx, id)
		if err != nil {
			return renderPage(c, loader, statusFor(err), "Empresa", "", nil)
		}

		return renderPage(c, loader, fiber.StatusOK, company.Name, "", templates.CompanyDetail(company))
	}
}
