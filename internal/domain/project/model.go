package project

// Status is the lifecycle state of a procurement project.
type Status string

const (
	StatusTender   Status = "TENDER"
	StatusActive   Status = "ACTIVE"
	StatusArchived Status = "ARCHIVED"
	StatusClosed   Status = "CLOSED"
)

// Statuses lists every known status in display order.
var Statuses = []Status{StatusTender, StatusActive, StatusArchived, StatusClosed}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusTender, StatusActive, StatusArchived, StatusClosed:
		return true
	}
	return false
}

// DocumentType selects whether a directory holds tender or offer documents.
type DocumentType string

const (
	DocumentTender DocumentType = "TENDER_DOC"
	DocumentOffer  DocumentType = "OFFER_DOC"
)

// Valid reports whether t is a known document type.
func (t DocumentType) Valid() bool {
	return t == DocumentTender || t == DocumentOffer
}

// Project is the persisted project row.
type Project struct {
	ID     string `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Status Status `json:"status" yaml:"status"`
}

// DocumentKey is the composite identity shared by tender and offer records.
type DocumentKey struct {
	ProjectID string `json:"project_id"`
	Version   string `json:"version"`
	LotNumber string `json:"lot_number"`
	Company   string `json:"company"`
}

// TenderRecord is a tender ("Ausschreibung") directory belonging to a project.
type TenderRecord struct {
	ID        int64  `json:"id" yaml:"id"`
	ProjectID string `json:"project_id" yaml:"project_id"`
	Version   string `json:"version" yaml:"version"`
	LotNumber string `json:"lot_number" yaml:"lot_number"`
	Company   string `json:"company" yaml:"company"`
	Path      string `json:"path" yaml:"path"`
}

// Key returns the composite identity of the record.
func (r TenderRecord) Key() DocumentKey {
	return DocumentKey{ProjectID: r.ProjectID, Version: r.Version, LotNumber: r.LotNumber, Company: r.Company}
}

// OfferRecord is an offer ("Angebot") directory belonging to a project.
type OfferRecord struct {
	ID        int64  `json:"id" yaml:"id"`
	ProjectID string `json:"project_id" yaml:"project_id"`
	Version   string `json:"version" yaml:"version"`
	LotNumber string `json:"lot_number" yaml:"lot_number"`
	Company   string `json:"company" yaml:"company"`
	Path      string `json:"path" yaml:"path"`
}

// Key returns the composite identity of the record.
func (r OfferRecord) Key() DocumentKey {
	return DocumentKey{ProjectID: r.ProjectID, Version: r.Version, LotNumber: r.LotNumber, Company: r.Company}
}

// ProjectView is a project together with all of its tender and offer records.
type ProjectView struct {
	Project Project        `json:"project" yaml:"project"`
	Tenders []TenderRecord `json:"tenders" yaml:"tenders"`
	Offers  []OfferRecord  `json:"offers" yaml:"offers"`
}

// Descriptor is the metadata decoded from a project directory name.
// Path is filled in by whoever found the directory.
type Descriptor struct {
	ID            string       `json:"id" yaml:"id"`
	Name          string       `json:"name" yaml:"name"`
	DocumentType  DocumentType `json:"document_type" yaml:"document_type"`
	Status        Status       `json:"status" yaml:"status"`
	Version       string       `json:"version" yaml:"version"`
	LotNumber     string       `json:"lot_number" yaml:"lot_number"`
	Company       string       `json:"company" yaml:"company"`
	OtherSuffixes []string     `json:"other_suffixes,omitempty" yaml:"other_suffixes,omitempty"`
	Path          string       `json:"path,omitempty" yaml:"path,omitempty"`
}

// Key returns the tender/offer identity the descriptor maps to.
func (d Descriptor) Key() DocumentKey {
	return DocumentKey{ProjectID: d.ID, Version: d.Version, LotNumber: d.LotNumber, Company: d.Company}
}
