package extract

// Input is one document to extract. Only Text is required; Subject and
// Filename are hints for the model.
type Input struct {
	Text     string `json:"text"`
	Subject  string `json:"subject,omitempty"`
	Filename string `json:"filename,omitempty"`
}

// State is a step of the extraction state machine.
type State string

const (
	StateStart         State = "start"
	StateTryModel      State = "try_model"
	StateValidateModel State = "validate_model"
	StateAccept        State = "accept"
	StateTryPattern    State = "try_pattern"
	StateDone          State = "done"
)

// Fallback reasons, also used as metric labels.
const (
	ReasonDisabled      = "disabled"
	ReasonModelError    = "model_error"
	ReasonModelRejected = "model_rejected"
	ReasonLowConfidence = "low_confidence"
)
