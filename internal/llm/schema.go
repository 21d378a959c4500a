package llm

// Keys every model response must carry.
var requiredKeys = []string{
	"location", "description", "summary",
	"siteVisitDate", "siteVisitTime", "visitLocation",
	"contactName", "contactPhone",
	"biddingCloseDate", "biddingCloseTime",
	"category", "priority",
}

// BuildBiddingJSONSchema returns the response contract as a JSON-Schema map.
// Date, time and phone formats are not constrained; irregular values are
// repaired or flagged downstream.
func BuildBiddingJSONSchema() map[string]any {
	props := make(map[string]any, len(requiredKeys)+1)
	for _, k := range requiredKeys {
		props[k] = textProp()
	}
	props["summary"] = map[string]any{"type": "string", "minLength": 1, "maxLength": 300}
	props["priority"] = map[string]any{"type": "string", "enum": []string{"High", "Medium", "Low"}}
	props["estimatedValue"] = map[string]any{"type": "string"}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
		"required":             requiredKeys,
	}
}

func textProp() map[string]any {
	return map[string]any{"type": "string", "minLength": 1}
}
