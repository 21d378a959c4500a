package normalize

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/licitaciones/constants"
)

const minutesPerDay = 24 * 60

var (
	reMeridiem    = regexp.MustCompile(`(?i)([ap])\.?\s*m\.?`)
	reParens      = regexp.MustCompile(`[()]`)
	reTrailPunct  = regexp.MustCompile(`[,.;]+$`)
	reSpaces      = regexp.MustCompile(`\s+`)
	reNumeric     = regexp.MustCompile(`^\d+(?:\.\d+)?$`)
	reTimeToken   = regexp.MustCompile(`(?i)(\d{1,2}[:.]\d{2}(?::\d{2})?\s*(?:AM|PM)?)`)
	reClockPeriod = regexp.MustCompile(`(?i)^(\d{1,2})[:.](\d{2})(?::\d{2})?\s*(AM|PM)$`)
	reHourPeriod  = regexp.MustCompile(`(?i)^(\d{1,2})\s*(AM|PM)$`)
	reClock24     = regexp.MustCompile(`^(\d{1,2})[:.](\d{2})(?::(\d{2}))?$`)
	reCanonTime   = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
)

// Time normalizes a time token to 24-hour HH:MM. ok is false when no time is
// asserted, which callers must keep distinct from 00:00.
func Time(token string) (hhmm string, ok bool) {
	raw := strings.TrimSpace(token)
	if IsSentinel(raw) {
		return "", false
	}

	if reNumeric.MatchString(raw) {
		if v, err := strconv.ParseFloat(raw, 64); err == nil && v >= 0 && v < 24 {
			var total int
			if v < 1 {
				total = int(math.Round(v * float64(minutesPerDay)))
			} else {
				total = int(math.Round(v * 60))
			}
			total %= minutesPerDay
			return clock(total/60, total%60), true
		}
	}

	s := reMeridiem.ReplaceAllStringFunc(raw, func(m string) string {
		if strings.EqualFold(m[:1], "p") {
			return "PM"
		}
		return "AM"
	})
	s = reParens.ReplaceAllString(s, " ")
	s = reSpaces.ReplaceAllString(s, " ")
	s = reTrailPunct.ReplaceAllString(strings.TrimSpace(s), "")
	s = strings.TrimSpace(s)

	target := s
	if m := reTimeToken.FindStringSubmatch(s); m != nil {
		target = strings.TrimSpace(m[1])
	}

	if m := reClockPeriod.FindStringSubmatch(target); m != nil {
		h, _ := strconv.Atoi(m[1])
		mm, _ := strconv.Atoi(m[2])
		if mm > 59 {
			return "", false
		}
		return clock(to24(h, m[3]), mm), true
	}
	if m := reHourPeriod.FindStringSubmatch(target); m != nil {
		h, _ := strconv.Atoi(m[1])
		return clock(to24(h, m[2]), 0), true
	}
	if m := reClock24.FindStringSubmatch(target); m != nil {
		h, _ := strconv.Atoi(m[1])
		mm, _ := strconv.Atoi(m[2])
		if mm > 59 {
			return "", false
		}
		return clock(h%24, mm), true
	}
	return "", false
}

// ValidTime reports whether v is canonical 24-hour HH:MM.
func ValidTime(v string) bool {
	return reCanonTime.MatchString(v)
}

// TimeLabel renders a time for people: "2:30 PM (14:30)". Sentinels render
// as constants.Unavailable; tokens that do not normalize are returned as is.
func TimeLabel(v string) string {
	if IsSentinel(v) {
		return constants.Unavailable
	}
	hhmm, ok := Time(v)
	if !ok {
		return strings.TrimSpace(v)
	}
	h, _ := strconv.Atoi(hhmm[:2])
	period := "AM"
	if h >= 12 {
		period = "PM"
	}
	h12 := h % 12
	if h12 == 0 {
		h12 = 12
	}
	return fmt.Sprintf("%d:%s %s (%s)", h12, hhmm[3:], period, hhmm)
}

func to24(h int, period string) int {
	switch strings.ToUpper(period) {
	case "PM":
		if h < 12 {
			h += 12
		}
	case "AM":
		if h == 12 {
			h = 0
		}
	}
	return h % 24
}

func clock(h, m int) string {
	return fmt.Sprintf("%02d:%02d", h, m)
}
