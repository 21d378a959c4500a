package normalize

import (
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joseph-ayodele/licitaciones/constants"
)

// SerialDateMin is the exclusive lower bound for reading a bare number as a
// spreadsheet date serial. Serials up to 59 fall before 1900-03-01, where
// spreadsheet and calendar day counts disagree, and small numbers are far more
// often stray counts than dates.
const SerialDateMin = 59

// DateLayout is the canonical date format.
const DateLayout = "01/02/2006"

var (
	reUSDate      = regexp.MustCompile(`(\d{1,2})/(\d{1,2})/(\d{4})`)
	reSpanishDate = regexp.MustCompile(`(\d{1,2})\s+de\s+([a-z]+)(?:\s+(?:de|del)\s+(\d{4}))?`)
	reSerial      = regexp.MustCompile(`^\d+(?:\.\d+)?$`)
	reWeekday     = regexp.MustCompile(`^(?:lunes|martes|miercoles|jueves|viernes|sabado|domingo)\b[,.]?\s*`)
	reWeekdayRaw  = regexp.MustCompile(`(?i)^(?:lunes|martes|mi[ée]rcoles|jueves|viernes|s[áa]bado|domingo)\b[,.]?\s*`)
	reCanonDate   = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)
)

// SpanishMonths maps accent-folded month names to calendar months.
var SpanishMonths = map[string]time.Month{
	"enero":      time.January,
	"febrero":    time.February,
	"marzo":      time.March,
	"abril":      time.April,
	"mayo":       time.May,
	"junio":      time.June,
	"julio":      time.July,
	"agosto":     time.August,
	"septiembre": time.September,
	"setiembre":  time.September,
	"octubre":    time.October,
	"noviembre":  time.November,
	"diciembre":  time.December,
}

var genericLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01-02-2006",
	"1-2-2006",
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"2 January 2006",
	"2 Jan 2006",
	"Monday, January 2, 2006",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Dates normalizes loosely formatted date tokens to MM/DD/YYYY.
// Now supplies the year for Spanish dates that omit it.
type Dates struct {
	Now    func() time.Time
	Logger *slog.Logger
}

var defaultDates = Dates{}

// Date normalizes token using the wall clock and the default logger.
func Date(token string) string {
	return defaultDates.Normalize(token)
}

// Normalize returns MM/DD/YYYY, constants.Unavailable for blank or sentinel
// input, or the original token when nothing parses. A non-canonical return
// means the value needs manual review.
func (d Dates) Normalize(token string) string {
	raw := strings.TrimSpace(token)
	if IsSentinel(raw) {
		return constants.Unavailable
	}
	if t, ok := d.Parse(raw); ok {
		return t.Format(DateLayout)
	}
	if m := reUSDate.FindStringSubmatch(raw); m != nil {
		// out-of-range N/N/NNNN is still kept verbatim, zero padded
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		return fmt.Sprintf("%02d/%02d/%s", month, day, m[3])
	}
	d.logger().Warn("normalize.date.unparsed", "token", raw)
	return raw
}

// Parse resolves token to a calendar date (midnight, local time of the clock)
// using the same ordered strategies as Normalize.
func (d Dates) Parse(token string) (time.Time, bool) {
	raw := strings.TrimSpace(token)
	if raw == "" {
		return time.Time{}, false
	}
	loc := d.now().Location()
	folded := reWeekday.ReplaceAllString(Fold(raw), "")

	if m := reUSDate.FindStringSubmatch(folded); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if t, ok := calendarDate(year, time.Month(month), day, loc); ok {
			return t, true
		}
	}

	if m := reSpanishDate.FindStringSubmatch(folded); m != nil {
		if month, ok := SpanishMonths[m[2]]; ok {
			day, _ := strconv.Atoi(m[1])
			year := d.now().Year()
			if m[3] != "" {
				year, _ = strconv.Atoi(m[3])
			}
			if t, ok := calendarDate(year, month, day, loc); ok {
				return t, true
			}
		}
	}

	if reSerial.MatchString(folded) {
		if v, err := strconv.ParseFloat(folded, 64); err == nil && v > SerialDateMin {
			return FromSerial(v, loc), true
		}
	}

	stripped := reWeekdayRaw.ReplaceAllString(raw, "")
	for _, layout := range genericLayouts {
		if t, err := time.ParseInLocation(layout, stripped, loc); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), true
		}
	}
	return time.Time{}, false
}

// FromSerial converts a spreadsheet day serial (days since 1899-12-30) to a
// date; the fractional part is ignored.
func FromSerial(serial float64, loc *time.Location) time.Time {
	days := int64(math.Floor(serial))
	u := time.Unix((days-25569)*86400, 0).UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, loc)
}

// ValidDate reports whether v is a canonical MM/DD/YYYY calendar date.
func ValidDate(v string) bool {
	if !reCanonDate.MatchString(v) {
		return false
	}
	_, err := time.Parse(DateLayout, v)
	return err == nil
}

func calendarDate(year int, month time.Month, day int, loc *time.Location) (time.Time, bool) {
	if month < time.January || month > time.December || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, loc)
	if t.Month() != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

func (d Dates) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

func (d Dates) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}
