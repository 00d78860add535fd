package store

import "github.com/Juan-Fuente-T/borme-scraper-frontend/internal/model"

// AppState groups the containers the UI subscribes to
type AppState struct {
	Companies    *Store[[]model.Company]
	Publications *Store[[]model.Publication]
	Loading      *Loading
	Error        *Store[string]

	CompanyPages     *Pagination
	PublicationPages *Pagination
}

// NewAppState creates empty containers with pagination at pageSize
func NewAppState(pageSize int) *AppState {
	return &AppState{
		Companies:        New([]model.Company{}),
		Publications:     New([]model.Publication{}),
		Loading:          NewLoading(),
		Error:            New(""),
		CompanyPages:     NewPagination(pageSize),
		PublicationPages: NewPagination(pageSize),
	}
}

// SetError records the latest failure message
func (a *AppState) SetError(message string) {
	a.Error.Set(message)
}

// ClearError drops the failure message
func (a *AppState) ClearError() {
	a.Error.Set("")
}
