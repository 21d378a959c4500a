package llm

import "context"

// BiddingFields is the shape requested from the model. Keys are the ones
// named in the prompt; dates and times are returned as the model wrote
// them and normalized afterwards.
type BiddingFields struct {
	Location         string `json:"location"`
	Description      string `json:"description"`
	Summary          string `json:"summary"`
	SiteVisitDate    string `json:"siteVisitDate"` // MM/DD/YYYY
	SiteVisitTime    string `json:"siteVisitTime"` // HH:MM AM/PM
	VisitLocation    string `json:"visitLocation"`
	ContactName      string `json:"contactName"`
	ContactPhone     string `json:"contactPhone"`     // 787-XXX-XXXX
	BiddingCloseDate string `json:"biddingCloseDate"` // MM/DD/YYYY
	BiddingCloseTime string `json:"biddingCloseTime"` // HH:MM AM/PM
	Category         string `json:"category"`
	Priority         string `json:"priority"`
	EstimatedValue   string `json:"estimatedValue,omitempty"`
}

type ExtractRequest struct {
	Text     string
	Subject  string
	Filename string
}

// FieldExtractor is the model-assisted strategy the orchestrator depends on.
type FieldExtractor interface {
	ExtractFields(ctx context.Context, req ExtractRequest) (BiddingFields, []byte /*rawJSON*/, error)
}
