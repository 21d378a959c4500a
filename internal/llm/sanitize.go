package llm

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/licitaciones/constants"
)

// keySynonyms maps keys models tend to invent onto the contract keys.
var keySynonyms = map[string]string{
	"site_visit_date":    "siteVisitDate",
	"visitDate":          "siteVisitDate",
	"site_visit_time":    "siteVisitTime",
	"visitTime":          "siteVisitTime",
	"visit_location":     "visitLocation",
	"meetingLocation":    "visitLocation",
	"contact_name":       "contactName",
	"contact":            "contactName",
	"contact_phone":      "contactPhone",
	"phone":              "contactPhone",
	"bidding_close_date": "biddingCloseDate",
	"closeDate":          "biddingCloseDate",
	"closingDate":        "biddingCloseDate",
	"bidding_close_time": "biddingCloseTime",
	"closeTime":          "biddingCloseTime",
	"closingTime":        "biddingCloseTime",
	"estimated_value":    "estimatedValue",
	"city":               "location",
	"municipality":       "location",
	"municipio":          "location",
}

// NormalizeAndSanitizeJSON
// - Renames known synonym keys to the contract keys
// - Replaces null/empty values with the matching sentinel
// - Coerces numbers (spreadsheet serials) to strings
// - Canonicalizes priority
// - Removes unknown keys (additionalProperties = false friendliness)
func NormalizeAndSanitizeJSON(raw []byte, logger *slog.Logger) ([]byte, []string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, nil, fmt.Errorf("sanitize: decode: %w", err)
	}

	dropped := make([]string, 0, 8)
	for from, to := range keySynonyms {
		if v, ok := m[from]; ok {
			if _, exists := m[to]; !exists {
				m[to] = v
			}
			delete(m, from)
			dropped = append(dropped, from+"->"+to)
		}
	}

	allowed := map[string]struct{}{"estimatedValue": {}}
	for _, k := range requiredKeys {
		allowed[k] = struct{}{}
	}
	for k := range maps.Clone(m) {
		if _, ok := allowed[k]; !ok {
			delete(m, k)
			dropped = append(dropped, k+"(unknown)")
		}
	}

	for k, v := range m {
		switch t := v.(type) {
		case string:
			if s := strings.TrimSpace(t); s == "" || strings.EqualFold(s, "null") {
				m[k] = sentinelFor(k)
				dropped = append(dropped, k+"(empty)")
			} else {
				m[k] = s
			}
		case float64:
			m[k] = strconv.FormatFloat(t, 'f', -1, 64)
		case nil:
			m[k] = sentinelFor(k)
			dropped = append(dropped, k+"(null)")
		default:
			m[k] = sentinelFor(k)
			dropped = append(dropped, k+"(type)")
		}
	}

	if v, ok := m["priority"].(string); ok {
		p, known := constants.ParsePriority(v)
		if !known {
			dropped = append(dropped, "priority("+v+")")
		}
		m["priority"] = string(p)
	}

	out, err := json.Marshal(m)
	if err != nil {
		return nil, dropped, fmt.Errorf("sanitize: encode: %w", err)
	}
	if len(dropped) > 0 {
		logger.Warn("llm.extract.normalize_sanitize", "dropped", dropped)
	}
	return out, dropped, nil
}

func sentinelFor(key string) string {
	switch key {
	case "location":
		return constants.LocationNotExtracted
	case "description":
		return constants.DescriptionNotExtracted
	case "category":
		return string(constants.Unclassified)
	}
	return constants.Unavailable
}
