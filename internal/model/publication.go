package model

// Publication represents a BORME bulletin file known to the backend
type Publication struct {
	ID              int64  `json:"id"`
	Filename        string `json:"filename"`
	PublicationDate string `json:"publicationDate"`
	FileURL         string `json:"fileUrl"`
}

// Document is the raw content of a publication as served by the backend
type Document struct {
	ContentType string
	Data        []byte
}
