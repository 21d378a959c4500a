package entity

import (
	"strings"

	"github.com/joseph-ayodele/licitaciones/constants"
)

// ExtractedRecord is the unit produced by the extraction engine.
// Every string field is populated; absence is constants.Unavailable.
type ExtractedRecord struct {
	Location         string                     `json:"location" yaml:"location"`
	Description      string                     `json:"description" yaml:"description"`
	Summary          string                     `json:"summary" yaml:"summary"`
	Category         constants.Category         `json:"category" yaml:"category"`
	Priority         constants.Priority         `json:"priority" yaml:"priority"`
	SiteVisitDate    string                     `json:"site_visit_date" yaml:"site_visit_date"`
	SiteVisitTime    string                     `json:"site_visit_time" yaml:"site_visit_time"`
	VisitLocation    string                     `json:"visit_location" yaml:"visit_location"`
	ContactName      string                     `json:"contact_name" yaml:"contact_name"`
	ContactPhone     string                     `json:"contact_phone" yaml:"contact_phone"`
	BiddingCloseDate string                     `json:"bidding_close_date" yaml:"bidding_close_date"`
	BiddingCloseTime string                     `json:"bidding_close_time" yaml:"bidding_close_time"`
	ExtractionMethod constants.ExtractionMethod `json:"extraction_method" yaml:"extraction_method"`
	Confidence       int                        `json:"confidence" yaml:"confidence"`
}

// EmptyRecord returns a record with every field set to its sentinel.
func EmptyRecord() ExtractedRecord {
	return ExtractedRecord{
		Location:         constants.LocationNotExtracted,
		Description:      constants.DescriptionNotExtracted,
		Summary:          constants.Unavailable,
		Category:         constants.Unclassified,
		Priority:         constants.PriorityMedium,
		SiteVisitDate:    constants.Unavailable,
		SiteVisitTime:    constants.Unavailable,
		VisitLocation:    constants.Unavailable,
		ContactName:      constants.Unavailable,
		ContactPhone:     constants.Unavailable,
		BiddingCloseDate: constants.Unavailable,
		BiddingCloseTime: constants.Unavailable,
		ExtractionMethod: constants.PatternBased,
	}
}

// Fill replaces blank fields with their sentinels so the record never
// carries an empty value.
func (r *ExtractedRecord) Fill() {
	def := EmptyRecord()
	fill := func(dst *string, sentinel string) {
		if isBlank(*dst) {
			*dst = sentinel
		}
	}
	fill(&r.Location, def.Location)
	fill(&r.Description, def.Description)
	fill(&r.Summary, def.Summary)
	fill(&r.SiteVisitDate, def.SiteVisitDate)
	fill(&r.SiteVisitTime, def.SiteVisitTime)
	fill(&r.VisitLocation, def.VisitLocation)
	fill(&r.ContactName, def.ContactName)
	fill(&r.ContactPhone, def.ContactPhone)
	fill(&r.BiddingCloseDate, def.BiddingCloseDate)
	fill(&r.BiddingCloseTime, def.BiddingCloseTime)
	if isBlank(string(r.Category)) {
		r.Category = def.Category
	}
	if isBlank(string(r.Priority)) {
		r.Priority = def.Priority
	}
	if r.ExtractionMethod == "" {
		r.ExtractionMethod = def.ExtractionMethod
	}
}

func isBlank(s string) bool { return strings.TrimSpace(s) == "" }
