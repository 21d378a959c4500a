package constants

// ApprovalStatus is the review state of a stored licitación.
type ApprovalStatus string

// Stable values (store these exact strings in DB).
const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// ParseApprovalStatus accepts the stored values only.
func ParseApprovalStatus(s string) (ApprovalStatus, bool) {
	switch ApprovalStatus(s) {
	case ApprovalPending, ApprovalApproved, ApprovalRejected:
		return ApprovalStatus(s), true
	}
	return "", false
}

// ExtractionMethod records which strategy produced a record.
type ExtractionMethod string

const (
	ModelAssisted ExtractionMethod = "ModelAssisted"
	PatternBased  ExtractionMethod = "PatternBased"
)

type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// ParsePriority is case-insensitive and also accepts the Spanish labels.
func ParsePriority(s string) (Priority, bool) {
	switch lower(s) {
	case "high", "alta", "urgente":
		return PriorityHigh, true
	case "medium", "media", "normal":
		return PriorityMedium, true
	case "low", "baja":
		return PriorityLow, true
	}
	return PriorityMedium, false
}
