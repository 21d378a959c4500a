package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/licitaciones/constants"
)

// Source describes where a document's text came from.
type Source struct {
	EmailID     string    `json:"email_id" yaml:"email_id"`
	EmailDate   time.Time `json:"email_date" yaml:"email_date"`
	Subject     string    `json:"subject" yaml:"subject"`
	PDFFilename string    `json:"pdf_filename" yaml:"pdf_filename"`
	PDFLink     string    `json:"pdf_link,omitempty" yaml:"pdf_link,omitempty"`
}

// Licitacion is a stored record: source metadata, the extraction result and
// the downstream review state.
type Licitacion struct {
	ID             uuid.UUID                `json:"id" yaml:"id"`
	Source         Source                   `json:"source" yaml:"source"`
	Record         ExtractedRecord          `json:"record" yaml:"record"`
	ApprovalStatus constants.ApprovalStatus `json:"approval_status" yaml:"approval_status"`
	ApprovalNotes  string                   `json:"approval_notes,omitempty" yaml:"approval_notes,omitempty"`
	ApprovedAt     *time.Time               `json:"approved_at,omitempty" yaml:"approved_at,omitempty"`
	CreatedAt      time.Time                `json:"created_at" yaml:"created_at"`
	UpdatedAt      time.Time                `json:"updated_at" yaml:"updated_at"`
}

// ListFilter narrows List queries. Zero values mean "any".
type ListFilter struct {
	Category       constants.Category
	ApprovalStatus constants.ApprovalStatus
	// OpenOnly drops rows whose bidding close date has passed.
	OpenOnly bool
	Limit    int
}
