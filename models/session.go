package models

import "time"

// ConversationState identifies where a call session is in the dialogue flow.
type ConversationState string

const (
	StateGreeting              ConversationState = "GREETING"
	StateAwaitIntent           ConversationState = "AWAIT_INTENT"
	StateAwaitName             ConversationState = "AWAIT_NAME"
	StateAwaitDate             ConversationState = "AWAIT_DATE"
	StateAwaitTime             ConversationState = "AWAIT_TIME"
	StateAwaitTimeClarify      ConversationState = "AWAIT_TIME_CLARIFICATION"
	StateAwaitPartySize        ConversationState = "AWAIT_PARTY_SIZE"
	StateAwaitReservationCode  ConversationState = "AWAIT_RESERVATION_CODE"
	StateConfirm               ConversationState = "CONFIRM"
	StateComplete              ConversationState = "COMPLETE" // Terminal
	StateFallback              ConversationState = "FALLBACK" // Terminal: attempt ceiling exceeded
	StateFailed                ConversationState = "FAILED"   // Terminal: backend unavailable
)

// Terminal reports whether the session takes no further input in this state.
func (s ConversationState) Terminal() bool {
	switch s {
	case StateComplete, StateFallback, StateFailed:
		return true
	}
	return false
}

// Intent is the caller's recognized goal for the call.
type Intent string

const (
	IntentMake    Intent = "MAKE"
	IntentCheck   Intent = "CHECK"
	IntentCancel  Intent = "CANCEL"
	IntentUnknown Intent = "UNKNOWN"
)

// Slot names the pieces of structured data the dialogue collects.
type Slot string

const (
	SlotIntent    Slot = "intent"
	SlotName      Slot = "name"
	SlotDate      Slot = "date"
	SlotTime      Slot = "time"
	SlotPartySize Slot = "party_size"
	SlotCode      Slot = "reservation_code"
)

// ReservationSlots holds the progressively filled reservation details.
// Zero values mean "not collected yet".
type ReservationSlots struct {
	Name      string `json:"name,omitempty"`
	Date      string `json:"date,omitempty"` // YYYY-MM-DD
	Time      string `json:"time,omitempty"` // HH:MM, 24-hour
	PartySize int    `json:"partySize,omitempty"`
}

// PendingTime is a tentative ambiguous hour awaiting one morning/evening answer.
type PendingTime struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// CallSession is the per-call dialogue state persisted between webhook turns.
// A session holds at most one pending clarification; State fully determines
// which slot is being collected.
type CallSession struct {
	CallID            string            `json:"callId"`
	State             ConversationState `json:"state"`
	Intent            Intent            `json:"intent"`
	Slots             ReservationSlots  `json:"slots"`
	Pending           *PendingTime      `json:"pendingClarification,omitempty"`
	ClarificationUsed bool              `json:"clarificationUsed"`
	Attempts          map[Slot]int      `json:"attempts"`
	CallerNumber      string            `json:"callerNumber,omitempty"`
	CreatedAt         time.Time         `json:"createdAt"`
	UpdatedAt         time.Time         `json:"updatedAt"`
}

// NewCallSession returns a fresh greeting-state session for a call.
func NewCallSession(callID string) *CallSession {
	now := time.Now().UTC()
	return &CallSession{
		CallID:    callID,
		State:     StateGreeting,
		Intent:    IntentUnknown,
		Attempts:  make(map[Slot]int),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AttemptCount returns the retry counter for a slot.
func (s *CallSession) AttemptCount(slot Slot) int {
	if s.Attempts == nil {
		return 0
	}
	return s.Attempts[slot]
}

// BumpAttempts increments and returns the retry counter for a slot.
func (s *CallSession) BumpAttempts(slot Slot) int {
	if s.Attempts == nil {
		s.Attempts = make(map[Slot]int)
	}
	s.Attempts[slot]++
	return s.Attempts[slot]
}

// ClearAttempts resets the retry counter for a slot after a successful fill.
func (s *CallSession) ClearAttempts(slot Slot) {
	if s.Attempts != nil {
		delete(s.Attempts, slot)
	}
}
