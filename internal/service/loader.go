package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Juan-Fuente-T/borme-scraper-frontend/internal/model"
	"github.com/Juan-Fuente-T/borme-scraper-frontend/internal/store"
)

// ErrStale is returned when a newer request for the same collection
// replaced the response before it could be stored
var ErrStale = errors.New("response superseded by a newer request")

// ErrMissingCredentials is returned by Login when a value is empty
var ErrMissingCredentials = errors.New("username and password are required")

// CompanyQuery selects which company listing to load. Date takes
// precedence over Filter; with neither set every company is listed.
type CompanyQuery struct {
	Date   string
	Filter model.SearchFilter
	Page   int
	Sort   string
}

// Mode names the listing a query maps to
func (q CompanyQuery) Mode() string {
	switch {
	case q.Date != "":
		return "date"
	case !q.Filter.IsZero():
		return "search"
	default:
		return "all"
	}
}

// Loader runs client calls on behalf of the UI and publishes their
// outcome into the state containers
type Loader struct {
	client *BormeClient
	state  *store.AppState
	logger *slog.Logger

	companySeq     store.Sequence
	publicationSeq store.Sequence
}

// NewLoader creates a new Loader
func NewLoader(client *BormeClient, state *store.AppState, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		client: client,
		state:  state,
		logger: logger,
	}
}

// Client returns the underlying API client
func (l *Loader) Client() *BormeClient {
	return l.client
}

// State returns the containers the loader writes to
func (l *Loader) State() *store.AppState {
	return l.state
}

// LoadCompanies fetches a company page and replaces the company list and
// its pagination cursor
func (l *Loader) LoadCompanies(ctx context.Context, q CompanyQuery) error {
	seq := l.companySeq.Next()
	opts := model.ListOptions{
		Page: q.Page,
		Size: l.state.CompanyPages.PageSize(),
		Sort: q.Sort,
	}

	return l.run(ctx, "load companies", func(ctx context.Context) error {
		var (
			page *model.Page[model.Company]
			err  error
		)
		switch q.Mode() {
		case "date":
			page, err = l.client.ListCompaniesByDate(ctx, q.Date, opts)
		case "search":
			page, err = l.client.SearchCompanies(ctx, q.Filter, opts)
		default:
			page, err = l.client.ListCompanies(ctx, opts)
		}
		if err != nil {
			return err
		}

		if !l.companySeq.IsLatest(seq) {
			return ErrStale
		}
		l.state.Companies.Set(page.Content)
		l.state.CompanyPages.UpdateFromResponse(page.Cursor())
		l.logger.Debug("companies loaded", "mode", q.Mode(), "page", page.CurrentPage, "count", len(page.Content))
		return nil
	})
}

// NextCompanies advances the company cursor and loads the following page.
// It is a no-op on the last page.
func (l *Loader) NextCompanies(ctx context.Context, q CompanyQuery) error {
	page, ok := l.state.CompanyPages.RequestNextPage()
	if !ok {
		return nil
	}
	return l.loadCompanyPage(ctx, q, page, page-1)
}

// PrevCompanies moves the company cursor back and loads that page.
// It is a no-op on the first page.
func (l *Loader) PrevCompanies(ctx context.Context, q CompanyQuery) error {
	page, ok := l.state.CompanyPages.RequestPrevPage()
	if !ok {
		return nil
	}
	return l.loadCompanyPage(ctx, q, page, page+1)
}

// loadCompanyPage loads page and puts the cursor back on from if the
// request fails, so it keeps matching the displayed list
func (l *Loader) loadCompanyPage(ctx context.Context, q CompanyQuery, page, from int) error {
	q.Page = page
	err := l.LoadCompanies(ctx, q)
	if err != nil && !errors.Is(err, ErrStale) {
		l.state.CompanyPages.Restore(page, from)
	}
	return err
}

// LoadCompany fetches one company. It does not touch the company list.
func (l *Loader) LoadCompany(ctx context.Context, id string) (*model.Company, error) {
	var company *model.Company
	err := l.run(ctx, "load company", func(ctx context.Context) error {
		var err error
		company, err = l.client.GetCompany(ctx, id)
		return err
	})
	return company, err
}

// LoadPublications fetches a publication page and replaces the
// publication list and its pagination cursor
func (l *Loader) LoadPublications(ctx context.Context, page int, sort string) error {
	seq := l.publicationSeq.Next()
	opts := model.ListOptions{
		Page: page,
		Size: l.state.PublicationPages.PageSize(),
		Sort: sort,
	}

	return l.run(ctx, "load publications", func(ctx context.Context) error {
		result, err := l.client.ListPublications(ctx, opts)
		if err != nil {
			return err
		}

		if !l.publicationSeq.IsLatest(seq) {
			return ErrStale
		}
		l.state.Publications.Set(result.Content)
		l.state.PublicationPages.UpdateFromResponse(result.Cursor())
		l.logger.Debug("publications loaded", "page", result.CurrentPage, "count", len(result.Content))
		return nil
	})
}

// NextPublications advances the publication cursor and loads the
// following page. It is a no-op on the last page.
func (l *Loader) NextPublications(ctx context.Context, sort string) error {
	page, ok := l.state.PublicationPages.RequestNextPage()
	if !ok {
		return nil
	}
	return l.loadPublicationPage(ctx, sort, page, page-1)
}

// PrevPublications moves the publication cursor back and loads that page.
// It is a no-op on the first page.
func (l *Loader) PrevPublications(ctx context.Context, sort string) error {
	page, ok := l.state.PublicationPages.RequestPrevPage()
	if !ok {
		return nil
	}
	return l.loadPublicationPage(ctx, sort, page, page+1)
}

func (l *Loader) loadPublicationPage(ctx context.Context, sort string, page, from int) error {
	err := l.LoadPublications(ctx, page, sort)
	if err != nil && !errors.Is(err, ErrStale) {
		l.state.PublicationPages.Restore(page, from)
	}
	return err
}

// PublicationDocument fetches the original bulletin file
func (l *Loader) PublicationDocument(ctx context.Context, id int64) (*model.Document, error) {
	var doc *model.Document
	err := l.run(ctx, "fetch publication document", func(ctx context.Context) error {
		var err error
		doc, err = l.client.GetPublicationPDF(ctx, id)
		return err
	})
	return doc, err
}

// Process triggers processing of the bulletin for date
func (l *Loader) Process(ctx context.Context, date string) (string, error) {
	var reply string
	err := l.run(ctx, "process bulletin", func(ctx context.Context) error {
		var err error
		reply, err = l.client.ProcessForDate(ctx, date)
		return err
	})
	if err == nil {
		l.logger.Info("bulletin processing requested", "date", date)
	}
	return reply, err
}

// Login stores the credentials and checks them against the backend.
// Credentials that could not be verified are cleared again.
func (l *Loader) Login(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		l.state.SetError(ErrMissingCredentials.Error())
		return ErrMissingCredentials
	}

	l.client.SetCredentials(username, password)
	err := l.run(ctx, "verify login", l.client.VerifyLogin)
	if err != nil {
		l.client.SetCredentials("", "")
		return err
	}

	l.logger.Info("logged in", "username", username)
	return nil
}

// Logout clears the credentials
func (l *Loader) Logout() {
	l.client.SetCredentials("", "")
	l.state.ClearError()
}

// run raises the loading flag around fn and records its failure, or clears
// the previous one on success
func (l *Loader) run(ctx context.Context, action string, fn func(context.Context) error) error {
	ticket := l.state.Loading.Begin()
	defer ticket.Done()

	err := fn(ctx)
	switch {
	case err == nil:
		l.state.ClearError()
	case errors.Is(err, ErrStale):
		l.logger.Debug("dropping stale response", "action", action)
	default:
		l.logger.Warn("request failed", "action", action, "error", err)
		l.state.SetError(Describe(err))
	}

	return err
}
