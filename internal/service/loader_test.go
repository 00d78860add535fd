package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/Juan-Fuente-T/borme-scraper-frontend/internal/model"
	"github.com/Juan-Fuente-T/borme-scraper-frontend/internal/store"
)

func newTestLoader(t *testing.T, handler http.Handler) *Loader {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewBormeClient(server.URL, nil, nil)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewLoader(client, store.NewAppState(20), logger)
}

func pageJSON(current, totalPages, total int, ids ...string) string {
	content := ""
	for i, id := range ids {
		if i > 0 {
			content += ","
		}
		content += fmt.Sprintf(`{"bormeId":%q,"name":"Company %s"}`, id, id)
	}
	return fmt.Sprintf(`{"content":[%s],"currentPage":%d,"totalPages":%d,"total":%d}`, content, current, totalPages, total)
}

func TestCompanyQueryMode(t *testing.T) {
	tests := []struct {
		q    CompanyQuery
		want string
	}{
		{CompanyQuery{}, "all"},
		{CompanyQuery{Date: "2024-01-01"}, "date"},
		{CompanyQuery{Filter: model.SearchFilter{Name: "acme"}}, "search"},
		{CompanyQuery{Date: "2024-01-01", Filter: model.SearchFilter{Name: "acme"}}, "date"},
	}

	for _, tt := range tests {
		if got := tt.q.Mode(); got != tt.want {
			t.Errorf("Mode(%+v) = %s, want %s", tt.q, got, tt.want)
		}
	}
}

func TestLoadCompaniesReplacesListAndCursor(t *testing.T) {
	var paths []string
	loader := newTestLoader(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.Write([]byte(pageJSON(1, 3, 45, "B-2", "B-3")))
	}))
	state := loader.State()
	state.Companies.Set([]model.Company{{BormeID: "old"}})
	state.SetError("previous failure")

	var loadingSeen []bool
	state.Loading.Subscribe(func(v bool) { loadingSeen = append(loadingSeen, v) })

	if err := loader.LoadCompanies(context.Background(), CompanyQuery{Date: "2024-05-01", Page: 1}); err != nil {
		t.Fatalf("LoadCompanies failed: %v", err)
	}

	companies := state.Companies.Get()
	if len(companies) != 2 || companies[0].BormeID != "B-2" {
		t.Errorf("expected list replaced, got %+v", companies)
	}
	want := store.PaginationState{CurrentPage: 1, TotalPages: 3, TotalElements: 45, PageSize: 20}
	if got := state.CompanyPages.Get(); got != want {
		t.Errorf("expected cursor %+v, got %+v", want, got)
	}
	if state.Error.Get() != "" {
		t.Errorf("expected error cleared, got %q", state.Error.Get())
	}
	if paths[0] != "/borme/companies" {
		t.Errorf("expected by-date listing, got %s", paths[0])
	}
	if len(loadingSeen) != 3 || !loadingSeen[1] || loadingSeen[2] {
		t.Errorf("expected loading to rise and fall, got %v", loadingSeen)
	}
}

func TestLoadCompaniesFailureRecordsMessage(t *testing.T) {
	loader := newTestLoader(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	state := loader.State()
	state.Companies.Set([]model.Company{{BormeID: "kept"}})

	err := loader.LoadCompanies(context.Background(), CompanyQuery{})
	if StatusCode(err) != http.StatusInternalServerError {
		t.Fatalf("expected 500 to propagate, got %v", err)
	}

	if got := state.Error.Get(); got != "The BORME service returned an error (500 Internal Server Error)" {
		t.Errorf("unexpected error message: %q", got)
	}
	if companies := state.Companies.Get(); len(companies) != 1 || companies[0].BormeID != "kept" {
		t.Errorf("failed load must not replace the list, got %+v", companies)
	}
	if state.Loading.Get() {
		t.Error("loading flag left raised after failure")
	}
}

func TestNextCompaniesAdvancesCursor(t *testing.T) {
	var pages []string
	loader := newTestLoader(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		pages = append(pages, page)
		switch page {
		case "0":
			w.Write([]byte(pageJSON(0, 2, 30, "A")))
		default:
			w.Write([]byte(pageJSON(1, 2, 30, "B")))
		}
	}))
	state := loader.State()
	ctx := context.Background()

	if err := loader.LoadCompanies(ctx, CompanyQuery{}); err != nil {
		t.Fatalf("LoadCompanies failed: %v", err)
	}
	if err := loader.NextCompanies(ctx, CompanyQuery{}); err != nil {
		t.Fatalf("NextCompanies failed: %v", err)
	}
	if err := loader.NextCompanies(ctx, CompanyQuery{}); err != nil {
		t.Fatalf("NextCompanies on last page failed: %v", err)
	}

	if len(pages) != 2 || pages[1] != "1" {
		t.Errorf("expected requests for pages 0 and 1 only, got %v", pages)
	}
	if state.CompanyPages.Get().CurrentPage != 1 {
		t.Errorf("expected cursor at 1, got %d", state.CompanyPages.Get().CurrentPage)
	}

	if err := loader.PrevCompanies(ctx, CompanyQuery{}); err != nil {
		t.Fatalf("PrevCompanies failed: %v", err)
	}
	if state.CompanyPages.Get().CurrentPage != 0 || state.Companies.Get()[0].BormeID != "A" {
		t.Errorf("expected back on page 0, got %+v", state.CompanyPages.Get())
	}
}

func TestNextCompaniesRollsBackOnFailure(t *testing.T) {
	fail := false
	loader := newTestLoader(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(pageJSON(0, 3, 50, "A")))
	}))
	state := loader.State()
	ctx := context.Background()

	if err := loader.LoadCompanies(ctx, CompanyQuery{}); err != nil {
		t.Fatalf("LoadCompanies failed: %v", err)
	}

	fail = true
	if err := loader.NextCompanies(ctx, CompanyQuery{}); err == nil {
		t.Fatal("expected NextCompanies to fail")
	}
	if got := state.CompanyPages.Get().CurrentPage; got != 0 {
		t.Errorf("cursor should stay on the displayed page, got %d", got)
	}
}

func TestStaleCompanyResponseIsDropped(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	loader := newTestLoader(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("name") == "slow" {
			close(started)
			<-release
			w.Write([]byte(pageJSON(0, 1, 1, "SLOW")))
			return
		}
		w.Write([]byte(pageJSON(0, 1, 1, "FAST")))
	}))
	state := loader.State()
	ctx := context.Background()

	var wg sync.WaitGroup
	var slowErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		slowErr = loader.LoadCompanies(ctx, CompanyQuery{Filter: model.SearchFilter{Name: "slow"}})
	}()

	<-started
	if err := loader.LoadCompanies(ctx, CompanyQuery{Filter: model.SearchFilter{Name: "fast"}}); err != nil {
		t.Fatalf("fast load failed: %v", err)
	}
	if !state.Loading.Get() {
		t.Error("loading flag cleared while the slow request is pending")
	}

	close(release)
	wg.Wait()

	if !errors.Is(slowErr, ErrStale) {
		t.Errorf("expected slow response to be stale, got %v", slowErr)
	}
	if got := state.Companies.Get(); len(got) != 1 || got[0].BormeID != "FAST" {
		t.Errorf("stale response overwrote newer state: %+v", got)
	}
	if state.Loading.Get() {
		t.Error("loading flag should be cleared once both settled")
	}
	if state.Error.Get() != "" {
		t.Errorf("stale response must not set an error, got %q", state.Error.Get())
	}
}

func TestLoadPublications(t *testing.T) {
	loader := newTestLoader(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"content":[{"id":1,"filename":"a.pdf"},{"id":2,"filename":"b.pdf"}],"currentPage":0,"totalPages":1,"total":2}`))
	}))
	state := loader.State()

	if err := loader.LoadPublications(context.Background(), 0, ""); err != nil {
		t.Fatalf("LoadPublications failed: %v", err)
	}

	if len(state.Publications.Get()) != 2 {
		t.Errorf("expected 2 publications, got %d", len(state.Publications.Get()))
	}
	if state.PublicationPages.Get().TotalElements != 2 {
		t.Errorf("unexpected cursor: %+v", state.PublicationPages.Get())
	}

	summary := loader.Summarize()
	if summary.PublicationsShown != 2 || summary.TotalPublications != 2 || !summary.HasData {
		t.Errorf("unexpected summary: %+v", summary)
	}
}

func TestLoginClearsRejectedCredentials(t *testing.T) {
	loader := newTestLoader(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "admin" || pass != "admin" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"username":"admin"}`))
	}))
	ctx := context.Background()

	err := loader.Login(ctx, "admin", "wrong")
	if !IsUnauthorized(err) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if loader.Client().Session().Authenticated() {
		t.Error("rejected credentials should be cleared")
	}
	if loader.State().Error.Get() != "Invalid username or password" {
		t.Errorf("unexpected error message: %q", loader.State().Error.Get())
	}

	if err := loader.Login(ctx, "admin", "admin"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if !loader.Client().Session().Authenticated() {
		t.Error("accepted credentials should be kept")
	}
	if loader.Summarize().Username != "admin" {
		t.Errorf("unexpected summary: %+v", loader.Summarize())
	}

	loader.Logout()
	if loader.Client().Session().Authenticated() {
		t.Error("logout should clear the session")
	}
}

func TestLoginRequiresBothValues(t *testing.T) {
	loader := newTestLoader(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))

	if err := loader.Login(context.Background(), "admin", ""); err == nil {
		t.Fatal("expected an error for a missing password")
	}
	if loader.State().Error.Get() == "" {
		t.Error("expected the error to be recorded")
	}
}

func TestProcessAndDocument(t *testing.T) {
	loader := newTestLoader(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/borme/process":
			w.Write([]byte("ok"))
		case "/borme/publications/proxy/9":
			w.Header().Set("Content-Type", "application/pdf")
			w.Write([]byte("%PDF"))
		default:
			http.NotFound(w, r)
		}
	}))
	ctx := context.Background()

	reply, err := loader.Process(ctx, "2024-01-01")
	if err != nil || reply != "ok" {
		t.Fatalf("Process = %q, %v", reply, err)
	}

	doc, err := loader.PublicationDocument(ctx, 9)
	if err != nil {
		t.Fatalf("PublicationDocument failed: %v", err)
	}
	if string(doc.Data) != "%PDF" {
		t.Errorf("unexpected document: %q", doc.Data)
	}

	if _, err := loader.LoadCompany(ctx, "nope"); !IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
	if loader.State().Error.Get() != "The requested record was not found" {
		t.Errorf("unexpected error message: %q", loader.State().Error.Get())
	}
}

func publicationPageJSON(current, totalPages int, id int) string {
	return fmt.Sprintf(`{"content":[{"id":%d,"filename":"BORME-%d.pdf"}],"currentPage":%d,"totalPages":%d,"total":%d}`,
		id, id, current, totalPages, totalPages*20)
}

func TestPublicationPaging(t *testing.T) {
	var requested []string
	failPage := ""
	loader := newTestLoader(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		requested = append(requested, page)
		if page == failPage {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		switch page {
		case "0":
			w.Write([]byte(publicationPageJSON(0, 3, 10)))
		case "1":
			w.Write([]byte(publicationPageJSON(1, 3, 11)))
		default:
			w.Write([]byte(publicationPageJSON(2, 3, 12)))
		}
	}))
	state := loader.State()
	ctx := context.Background()

	if err := loader.LoadPublications(ctx, 0, ""); err != nil {
		t.Fatalf("LoadPublications failed: %v", err)
	}
	if err := loader.PrevPublications(ctx, ""); err != nil {
		t.Fatalf("PrevPublications on first page failed: %v", err)
	}
	if err := loader.NextPublications(ctx, ""); err != nil {
		t.Fatalf("NextPublications failed: %v", err)
	}
	if got := state.Publications.Get(); len(got) != 1 || got[0].ID != 11 {
		t.Errorf("expected page 1 content, got %+v", got)
	}

	failPage = "2"
	if err := loader.NextPublications(ctx, ""); err == nil {
		t.Fatal("expected NextPublications to fail")
	}
	if got := state.PublicationPages.Get().CurrentPage; got != 1 {
		t.Errorf("cursor should stay on the displayed page, got %d", got)
	}

	if err := loader.PrevPublications(ctx, ""); err != nil {
		t.Fatalf("PrevPublications failed: %v", err)
	}
	if got := state.PublicationPages.Get().CurrentPage; got != 0 {
		t.Errorf("expected cursor at 0, got %d", got)
	}

	want := []string{"0", "1", "2", "0"}
	if fmt.Sprint(requested) != fmt.Sprint(want) {
		t.Errorf("expected requests %v, got %v", want, requested)
	}
}

func TestLoginClearsCredentialsWhenVerificationFails(t *testing.T) {
	loader := newTestLoader(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	err := loader.Login(context.Background(), "admin", "admin")
	if StatusCode(err) != http.StatusInternalServerError {
		t.Fatalf("expected 500 to propagate, got %v", err)
	}

	session := loader.Client().Session()
	if session.Authenticated() || session.Username() != "" {
		t.Errorf("unverified credentials kept: username=%q", session.Username())
	}
	if loader.Summarize().Authenticated {
		t.Error("summary should not report a session")
	}
}

func TestOverlappingLoadsKeepLoadingRaised(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	loader := newTestLoader(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/borme/companies/all" {
			close(started)
			<-release
			w.Write([]byte(pageJSON(0, 1, 1, "A")))
			return
		}
		w.Write([]byte(publicationPageJSON(0, 1, 1)))
	}))
	state := loader.State()
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		done <- loader.LoadCompanies(ctx, CompanyQuery{})
	}()
	<-started

	if !state.Loading.Get() || state.Loading.Pending() != 1 {
		t.Fatalf("expected one pending request, flag=%v pending=%d", state.Loading.Get(), state.Loading.Pending())
	}

	if err := loader.LoadPublications(ctx, 0, ""); err != nil {
		t.Fatalf("LoadPublications failed: %v", err)
	}
	if !state.Loading.Get() {
		t.Error("loading flag cleared while the company request is pending")
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("LoadCompanies failed: %v", err)
	}
	if state.Loading.Get() {
		t.Error("loading flag should be cleared once both settled")
	}
	if len(state.Companies.Get()) != 1 || len(state.Publications.Get()) != 1 {
		t.Error("both collections should be loaded")
	}
}
