package models

// InputKind says how the caller produced the raw input.
type InputKind string

const (
	InputSpeech InputKind = "SPEECH"
	InputDTMF   InputKind = "DTMF"
)

// TurnInput is one inbound webhook turn from the transport layer.
type TurnInput struct {
	CallID    string    `json:"call_id" binding:"required"`
	RawInput  string    `json:"raw_input"`
	InputKind InputKind `json:"input_kind"`
	From      string    `json:"from,omitempty"` // caller number, when the transport knows it
}

// TurnResult tells the transport what to say and whether to keep listening.
// The transport renders PromptText into voice markup.
type TurnResult struct {
	PromptText  string `json:"prompt_text"`
	ExpectInput bool   `json:"expect_input"`
	Terminal    bool   `json:"terminal"`
}
