package templates

import (
	"net/url"
	"strconv"
	"time"

	"github.com/Juan-Fuente-T/borme-scraper-frontend/internal/model"
	"github.com/Juan-Fuente-T/borme-scraper-frontend/internal/service"
	"github.com/Juan-Fuente-T/borme-scraper-frontend/internal/store"
)

// Pager moves, sent as the nav query parameter
const (
	NavNext = "next"
	NavPrev = "prev"
)

// Chrome carries what every page shows around its content
type Chrome struct {
	Title   string
	Notice  string
	Summary service.Summary
}

// CompaniesView is what the company listing renders
type CompaniesView struct {
	Query     service.CompanyQuery
	Companies []model.Company
	Pages     store.PaginationState
}

// PublicationsView is what the publication listing renders
type PublicationsView struct {
	Sort         string
	Publications []model.Publication
	Pages        store.PaginationState
}

func companyURL(id string) string {
	return "/companies/" + url.PathEscape(id)
}

func pdfURL(id int64) string {
	return "/publications/" + strconv.FormatInt(id, 10) + "/pdf"
}

func today() string {
	return time.Now().Format("2006-01-02")
}

func companyValues(q service.CompanyQuery) url.Values {
	values := url.Values{}
	set := func(key, value string) {
		if value != "" {
			values.Set(key, value)
		}
	}
	set("date", q.Date)
	set("name", q.Filter.Name)
	set("admin", q.Filter.Admin)
	set("solePartner", q.Filter.SolePartner)
	set("startDate", q.Filter.StartDate)
	set("endDate", q.Filter.EndDate)
	set("sort", q.Sort)
	return values
}

func publicationValues(sort string) url.Values {
	values := url.Values{}
	if sort != "" {
		values.Set("sort", sort)
	}
	return values
}

// navURL links back to path with the listing's query and a cursor move
func navURL(path string, values url.Values, nav string) string {
	v := url.Values{}
	for k, vs := range values {
		v[k] = vs
	}
	v.Set("nav", nav)
	return path + "?" + v.Encode()
}

func pageCounter(p store.PaginationState) string {
	return "Página " + strconv.Itoa(p.CurrentPage+1) + " de " + strconv.Itoa(max(p.TotalPages, 1)) +
		" (" + strconv.Itoa(p.TotalElements) + " resultados)"
}
