package patterns

import (
	"github.com/joseph-ayodele/licitaciones/constants"
	"github.com/joseph-ayodele/licitaciones/internal/entity"
)

// PatternConfidence is the fixed confidence of a pattern-based record.
const PatternConfidence = 70

// Extract runs every field chain over text. Dates and times are returned as
// found; normalization happens downstream. Category and priority keep their
// defaults.
func Extract(text string) entity.ExtractedRecord {
	rec := entity.EmptyRecord()
	if text == "" {
		rec.Confidence = PatternConfidence
		return rec
	}
	rec.Location = Location(text)
	rec.Description = Description(text)
	rec.Summary = Summarize(rec.Description)
	rec.SiteVisitDate = SiteVisitDate(text)
	rec.SiteVisitTime = SiteVisitTime(text)
	rec.VisitLocation = VisitLocation(text)
	rec.ContactName = ContactName(text)
	rec.ContactPhone = ExtractPhone(text)
	rec.BiddingCloseDate = CloseDate(text)
	rec.BiddingCloseTime = CloseTime(text)
	rec.ExtractionMethod = constants.PatternBased
	rec.Confidence = PatternConfidence
	return rec
}
