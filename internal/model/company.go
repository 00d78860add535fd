package model

// Company represents a company entry published in the BORME
type Company struct {
	BormeID     string `json:"bormeId"`
	Name        string `json:"name"`
	Object      string `json:"object"`
	Capital     string `json:"capital"`
	StartDate   string `json:"startDate"`
	Admin       string `json:"admin,omitempty"`
	SolePartner string `json:"solePartner,omitempty"`
}

// SearchFilter holds the optional company search criteria.
// Empty fields are left out of the request.
type SearchFilter struct {
	Name        string
	Admin       string
	SolePartner string
	StartDate   string // YYYY-MM-DD
	EndDate     string // YYYY-MM-DD
}

// IsZero reports whether no criterion is set
func (f SearchFilter) IsZero() bool {
	return f == SearchFilter{}
}
