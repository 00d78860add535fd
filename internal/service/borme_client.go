package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Juan-Fuente-T/borme-scraper-frontend/internal/auth"
	"github.com/Juan-Fuente-T/borme-scraper-frontend/internal/model"
)

const (
	DefaultBaseURL = "http://localhost:8080/api"

	contentTypeJSON = "application/json"
	acceptDocument  = "application/pdf, application/octet-stream"
)

// BormeClient handles communication with the BORME backend API.
// Every call is a single attempt; cancellation and deadlines come from ctx.
type BormeClient struct {
	baseURL string
	client  *http.Client
	session *auth.Session
}

// NewBormeClient creates a client bound to baseURL. A nil session is
// replaced by an unauthenticated one and a nil httpClient by a client
// without timeout.
func NewBormeClient(baseURL string, session *auth.Session, httpClient *http.Client) *BormeClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if session == nil {
		session = &auth.Session{}
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &BormeClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  httpClient,
		session: session,
	}
}

// BaseURL returns the configured API root
func (c *BormeClient) BaseURL() string {
	return c.baseURL
}

// Session returns the session whose token is attached to requests
func (c *BormeClient) Session() *auth.Session {
	return c.session
}

// SetCredentials stores the credential token for subsequent calls.
// Empty values log out.
func (c *BormeClient) SetCredentials(username, password string) {
	c.session.SetCredentials(username, password)
}

// ProcessForDate asks the backend to process the bulletin published on date
// (YYYY-MM-DD) and returns the backend's reply body
func (c *BormeClient) ProcessForDate(ctx context.Context, date string) (string, error) {
	q := newQuery().add("date", date)

	body, _, err := c.do(ctx, http.MethodPost, "/borme/process", q, contentTypeJSON)
	if err != nil {
		return "", fmt.Errorf("failed to process bulletin for %s: %w", date, err)
	}

	return string(body), nil
}

// ListCompanies retrieves a page of all companies
func (c *BormeClient) ListCompanies(ctx context.Context, opts model.ListOptions) (*model.Page[model.Company], error) {
	opts = opts.WithDefaults(model.DefaultCompanySort)
	q := newQuery().
		add("page", strconv.Itoa(opts.Page)).
		add("size", strconv.Itoa(opts.Size))

	page, err := getPage[model.Company](ctx, c, "/borme/companies/all", q)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}

	return page, nil
}

// GetCompany retrieves a single company by its BORME identifier
func (c *BormeClient) GetCompany(ctx context.Context, id string) (*model.Company, error) {
	body, _, err := c.do(ctx, http.MethodGet, "/borme/companies/"+url.PathEscape(id), nil, contentTypeJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch company %s: %w", id, err)
	}

	var company model.Company
	if err := json.Unmarshal(body, &company); err != nil {
		return nil, fmt.Errorf("failed to parse company response: %w", err)
	}

	return &company, nil
}

// ListCompaniesByDate retrieves the companies published on date
func (c *BormeClient) ListCompaniesByDate(ctx context.Context, date string, opts model.ListOptions) (*model.Page[model.Company], error) {
	opts = opts.WithDefaults(model.DefaultCompanySort)
	q := newQuery().
		add("date", date).
		add("page", strconv.Itoa(opts.Page)).
		add("size", strconv.Itoa(opts.Size)).
		addSort(opts.Sort)

	page, err := getPage[model.Company](ctx, c, "/borme/companies", q)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies for %s: %w", date, err)
	}

	return page, nil
}

// SearchCompanies retrieves companies matching filter. Unset criteria are
// not sent so the backend does not match on empty values.
func (c *BormeClient) SearchCompanies(ctx context.Context, filter model.SearchFilter, opts model.ListOptions) (*model.Page[model.Company], error) {
	opts = opts.WithDefaults(model.DefaultCompanySort)
	q := newQuery().
		addOptional("name", filter.Name).
		addOptional("admin", filter.Admin).
		addOptional("solePartner", filter.SolePartner).
		addOptional("startDate", filter.StartDate).
		addOptional("endDate", filter.EndDate).
		add("page", strconv.Itoa(opts.Page)).
		add("size", strconv.Itoa(opts.Size)).
		addSort(opts.Sort)

	page, err := getPage[model.Company](ctx, c, "/borme/companies/search", q)
	if err != nil {
		return nil, fmt.Errorf("failed to search companies: %w", err)
	}

	return page, nil
}

// ListPublications retrieves a page of processed bulletins
func (c *BormeClient) ListPublications(ctx context.Context, opts model.ListOptions) (*model.Page[model.Publication], error) {
	opts = opts.WithDefaults(model.DefaultPublicationSort)
	q := newQuery().
		add("page", strconv.Itoa(opts.Page)).
		add("size", strconv.Itoa(opts.Size)).
		addSort(opts.Sort)

	page, err := getPage[model.Publication](ctx, c, "/borme/publications", q)
	if err != nil {
		return nil, fmt.Errorf("failed to list publications: %w", err)
	}

	return page, nil
}

// GetPublicationPDF retrieves the original bulletin document as raw bytes
func (c *BormeClient) GetPublicationPDF(ctx context.Context, id int64) (*model.Document, error) {
	path := "/borme/publications/proxy/" + strconv.FormatInt(id, 10)

	body, contentType, err := c.do(ctx, http.MethodGet, path, nil, acceptDocument)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch publication %d document: %w", id, err)
	}

	if contentType == "" {
		contentType = "application/pdf"
	}

	return &model.Document{ContentType: contentType, Data: body}, nil
}

// VerifyLogin calls a protected endpoint to check the session's credentials.
// Rejected credentials surface as an *HTTPError with status 401.
func (c *BormeClient) VerifyLogin(ctx context.Context) error {
	if _, _, err := c.do(ctx, http.MethodGet, "/auth/me", nil, contentTypeJSON); err != nil {
		return fmt.Errorf("failed to verify login: %w", err)
	}
	return nil
}

// getPage performs a GET and decodes a paging envelope
func getPage[T any](ctx context.Context, c *BormeClient, path string, q *query) (*model.Page[T], error) {
	body, _, err := c.do(ctx, http.MethodGet, path, q, contentTypeJSON)
	if err != nil {
		return nil, err
	}

	var page model.Page[T]
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("failed to parse page response: %w", err)
	}
	if page.Content == nil {
		page.Content = []T{}
	}

	return &page, nil
}

// do performs a single request and returns the body and its content type
func (c *BormeClient) do(ctx context.Context, method, path string, q *query, accept string) ([]byte, string, error) {
	u := c.baseURL + path
	if q != nil {
		u += q.encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}
	c.prepare(req, accept)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode/100 != 2 {
		return nil, "", newHTTPError(method, u, resp, body)
	}

	return body, resp.Header.Get("Content-Type"), nil
}

// prepare sets the default headers and the session's credential, if any
func (c *BormeClient) prepare(req *http.Request, accept string) {
	if accept == contentTypeJSON {
		req.Header.Set("Content-Type", contentTypeJSON)
	}
	req.Header.Set("Accept", accept)

	if header := c.session.Header(); header != "" {
		req.Header.Set("Authorization", header)
	}
}

// query keeps parameters in insertion order
type query struct {
	parts []string
}

func newQuery() *query {
	return &query{}
}

func (q *query) add(key, value string) *query {
	q.parts = append(q.parts, key+"="+url.QueryEscape(value))
	return q
}

func (q *query) addOptional(key, value string) *query {
	if strings.TrimSpace(value) == "" {
		return q
	}
	return q.add(key, value)
}

// addSort keeps the comma between field and direction literal
func (q *query) addSort(sort string) *query {
	if sort == "" {
		return q
	}
	q.parts = append(q.parts, "sort="+strings.ReplaceAll(url.QueryEscape(sort), "%2C", ","))
	return q
}

func (q *query) encode() string {
	if len(q.parts) == 0 {
		return ""
	}
	return "?" + strings.Join(q.parts, "&")
}
