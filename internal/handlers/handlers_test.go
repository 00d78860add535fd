package handlers

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/gofiber/fiber/v2"

	"github.com/Juan-Fuente-T/borme-scraper-frontend/internal/service"
	"github.com/Juan-Fuente-T/borme-scraper-frontend/internal/store"
)

// backend fakes the BORME API
func backend(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/borme/companies/all", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "1" {
			w.Write([]byte(`{"content":[{"bormeId":"B-2","name":"ACME Two"}],"currentPage":1,"totalPages":2,"total":21}`))
			return
		}
		w.Write([]byte(`{"content":[{"bormeId":"B-1","name":"ACME SL"}],"currentPage":0,"totalPages":2,"total":21}`))
	})
	mux.HandleFunc("/borme/companies/search", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("name") != "acme" {
			t.Errorf("unexpected search query: %s", r.URL.RawQuery)
		}
		w.Write([]byte(`{"content":[{"bormeId":"B-9","name":"ACME Search"}],"currentPage":0,"totalPages":1,"total":1}`))
	})
	mux.HandleFunc("/borme/companies/B-1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"bormeId":"B-1","name":"ACME SL","object":"Widgets"}`))
	})
	mux.HandleFunc("/borme/companies/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	mux.HandleFunc("/borme/publications", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "1" {
			w.Write([]byte(`{"content":[{"id":4,"filename":"BORME-4.pdf","publicationDate":"2024-01-31"}],"currentPage":1,"totalPages":2,"total":2}`))
			return
		}
		w.Write([]byte(`{"content":[{"id":3,"filename":"BORME-3.pdf","publicationDate":"2024-02-01"}],"currentPage":0,"totalPages":2,"total":2}`))
	})
	mux.HandleFunc("/borme/publications/proxy/3", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("%PDF-1.7"))
	})
	mux.HandleFunc("/borme/process", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.Write([]byte("done"))
	})
	mux.HandleFunc("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if user, pass, ok := r.BasicAuth(); !ok || user != "admin" || pass != "admin" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"username":"admin"}`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestApp(t *testing.T) (*fiber.App, *service.Loader) {
	t.Helper()

	server := backend(t)
	client := service.NewBormeClient(server.URL, nil, nil)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	loader := service.NewLoader(client, store.NewAppState(20), logger)

	app := fiber.New()
	Register(app, loader)
	return app, loader
}

func doRequest(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, *goquery.Document) {
	t.Helper()

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })

	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html") {
		return resp, nil
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return resp, doc
}

func postForm(path string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestCompaniesPage(t *testing.T) {
	app, loader := newTestApp(t)

	resp, doc := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/companies", nil))
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	if doc.Find("html").Length() != 1 || doc.Find("form.search").Length() != 1 {
		t.Error("expected the full page")
	}
	if doc.Find("tbody tr").Length() != 1 || doc.Find("tbody td").Eq(1).Text() != "ACME SL" {
		t.Errorf("unexpected rows: %s", doc.Find("tbody").Text())
	}
	if doc.Find(`a[rel="next"]`).Length() != 1 {
		t.Error("expected a next page link")
	}
	if loader.State().CompanyPages.Get().TotalElements != 21 {
		t.Errorf("pagination not updated: %+v", loader.State().CompanyPages.Get())
	}
}

func TestCompaniesHTMXSearchReturnsFragment(t *testing.T) {
	app, _ := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/companies?name=acme", nil)
	req.Header.Set("HX-Request", "true")
	resp, doc := doRequest(t, app, req)

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if doc.Find("form.search").Length() != 0 || doc.Find("header").Length() != 0 {
		t.Error("HTMX request should only get the results fragment")
	}
	if doc.Find("#companies-results tbody td").Eq(1).Text() != "ACME Search" {
		t.Errorf("unexpected fragment: %s", doc.Text())
	}
}

func TestCompaniesInvalidPage(t *testing.T) {
	app, _ := newTestApp(t)

	resp, _ := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/companies?page=-1", nil))
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}

func TestCompanyDetail(t *testing.T) {
	app, _ := newTestApp(t)

	resp, doc := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/companies/B-1", nil))
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if doc.Find("h1").Text() != "ACME SL" {
		t.Errorf("unexpected title: %q", doc.Find("h1").Text())
	}

	resp, doc = doRequest(t, app, httptest.NewRequest(http.MethodGet, "/companies/B-404", nil))
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
	if doc.Find("p.error").Text() != "The requested record was not found" {
		t.Errorf("unexpected error banner: %q", doc.Find("p.error").Text())
	}
}

func TestPublicationsAndPDF(t *testing.T) {
	app, _ := newTestApp(t)

	resp, doc := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/publications", nil))
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	href, _ := doc.Find("a.pdf").Attr("href")
	if href != "/publications/3/pdf" {
		t.Errorf("unexpected pdf link: %s", href)
	}

	resp, _ = doRequest(t, app, httptest.NewRequest(http.MethodGet, href, nil))
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if resp.Header.Get("Content-Type") != "application/pdf" {
		t.Errorf("unexpected content type: %s", resp.Header.Get("Content-Type"))
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "%PDF-1.7" {
		t.Errorf("unexpected body: %q", body)
	}

	resp, _ = doRequest(t, app, httptest.NewRequest(http.MethodGet, "/publications/abc/pdf", nil))
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("expected 400 for a bad id, got %d", resp.StatusCode)
	}
}

func TestProcess(t *testing.T) {
	app, _ := newTestApp(t)

	resp, doc := doRequest(t, app, postForm("/process", url.Values{"date": {"2024-03-01"}}))
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(doc.Find("p.notice").Text(), "2024-03-01 solicitado: done") {
		t.Errorf("unexpected notice: %q", doc.Find("p.notice").Text())
	}

	resp, doc = doRequest(t, app, postForm("/process", url.Values{"date": {"01/03/2024"}}))
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
	if doc.Find("p.error").Length() != 1 {
		t.Error("expected an error banner")
	}
}

func TestLoginLogout(t *testing.T) {
	app, loader := newTestApp(t)
	session := loader.Client().Session()

	resp, _ := doRequest(t, app, postForm("/login", url.Values{"username": {"admin"}, "password": {"nope"}}))
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("expected 401, got %d", resp.StatusCode)
	}
	if session.Authenticated() {
		t.Error("rejected login should leave the session empty")
	}

	resp, _ = doRequest(t, app, postForm("/login", url.Values{"username": {"admin"}}))
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("expected 400 without password, got %d", resp.StatusCode)
	}

	resp, _ = doRequest(t, app, postForm("/login", url.Values{"username": {"admin"}, "password": {"admin"}}))
	if resp.StatusCode != fiber.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", resp.StatusCode)
	}
	if session.Username() != "admin" {
		t.Errorf("expected admin session, got %q", session.Username())
	}

	_, doc := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/", nil))
	if doc.Find(`form[action="/logout"] .user`).Text() != "admin" {
		t.Error("expected signed-in user on the home page")
	}

	resp, _ = doRequest(t, app, postForm("/logout", nil))
	if resp.StatusCode != fiber.StatusSeeOther {
		t.Errorf("expected redirect, got %d", resp.StatusCode)
	}
	if session.Authenticated() {
		t.Error("logout should clear the session")
	}
}

func htmxGet(path string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("HX-Request", "true")
	return req
}

func TestCompaniesPagerMovesCursor(t *testing.T) {
	app, loader := newTestApp(t)
	pages := loader.State().CompanyPages

	_, doc := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/companies", nil))
	next, _ := doc.Find(`a[rel="next"]`).Attr("hx-get")
	if next != "/companies?nav=next" {
		t.Fatalf("unexpected next link: %q", next)
	}

	resp, doc := doRequest(t, app, htmxGet(next))
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if doc.Find("tbody td").Eq(1).Text() != "ACME Two" {
		t.Errorf("expected the second page, got %s", doc.Find("tbody").Text())
	}
	if pages.Get().CurrentPage != 1 {
		t.Errorf("expected cursor at 1, got %d", pages.Get().CurrentPage)
	}
	if doc.Find(`a[rel="next"]`).Length() != 0 {
		t.Error("no next link expected on the last page")
	}

	// Already on the last page
	doRequest(t, app, htmxGet("/companies?nav=next"))
	if pages.Get().CurrentPage != 1 {
		t.Errorf("cursor moved past the last page: %d", pages.Get().CurrentPage)
	}

	prev, _ := doc.Find(`a[rel="prev"]`).Attr("hx-get")
	_, doc = doRequest(t, app, htmxGet(prev))
	if pages.Get().CurrentPage != 0 || doc.Find("tbody td").Eq(1).Text() != "ACME SL" {
		t.Errorf("expected the first page again, cursor %d", pages.Get().CurrentPage)
	}

	resp, _ = doRequest(t, app, httptest.NewRequest(http.MethodGet, "/companies?nav=sideways", nil))
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("expected 400 for an unknown move, got %d", resp.StatusCode)
	}
}

func TestPublicationsPagerMovesCursor(t *testing.T) {
	app, loader := newTestApp(t)
	pages := loader.State().PublicationPages

	doRequest(t, app, httptest.NewRequest(http.MethodGet, "/publications", nil))

	_, doc := doRequest(t, app, htmxGet("/publications?nav=next"))
	if href, _ := doc.Find("a.pdf").Attr("href"); href != "/publications/4/pdf" {
		t.Errorf("expected the second page, got link %q", href)
	}
	if pages.Get().CurrentPage != 1 {
		t.Errorf("expected cursor at 1, got %d", pages.Get().CurrentPage)
	}
	if prev, _ := doc.Find(`a[rel="prev"]`).Attr("href"); prev != "/publications?nav=prev" {
		t.Errorf("unexpected prev link: %q", prev)
	}

	doRequest(t, app, htmxGet("/publications?nav=prev"))
	doRequest(t, app, htmxGet("/publications?nav=prev"))
	if pages.Get().CurrentPage != 0 {
		t.Errorf("expected cursor at 0, got %d", pages.Get().CurrentPage)
	}
	if got := loader.State().Publications.Get(); len(got) != 1 || got[0].ID != 3 {
		t.Errorf("expected the first page, got %+v", got)
	}
}
