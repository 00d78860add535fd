package service

import "github.com/Juan-Fuente-T/borme-scraper-frontend/internal/store"

// Summary represents what the client currently holds
type Summary struct {
	CompaniesShown    int
	TotalCompanies    int
	PublicationsShown int
	TotalPublications int
	Loading           bool
	Error             string
	Authenticated     bool
	Username          string
	HasData           bool
}

// Summarize reads the state containers and the session into a Summary
func (l *Loader) Summarize() Summary {
	return Summarize(l.state, l.client)
}

// Summarize builds a Summary from state and the client's session
func Summarize(state *store.AppState, client *BormeClient) Summary {
	s := Summary{
		CompaniesShown:    len(state.Companies.Get()),
		TotalCompanies:    state.CompanyPages.Get().TotalElements,
		PublicationsShown: len(state.Publications.Get()),
		TotalPublications: state.PublicationPages.Get().TotalElements,
		Loading:           state.Loading.Get(),
		Error:             state.Error.Get(),
	}

	if client != nil {
		s.Authenticated = client.Session().Authenticated()
		s.Username = client.Session().Username()
	}
	s.HasData = s.CompaniesShown > 0 || s.PublicationsShown > 0

	return s
}
