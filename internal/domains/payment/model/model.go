package model

// Outcome is how a verified callback ended. Failures are errors, not outcomes.
type Outcome string

const (
	OutcomeApplied        Outcome = "applied"
	OutcomeAlreadyApplied Outcome = "already_applied"
	OutcomeIgnored        Outcome = "ignored"
)

type Result struct {
	Gateway     string  `json:"gateway"`
	Outcome     Outcome `json:"outcome"`
	BookingCode string  `json:"booking_code,omitempty"`
	Status      string  `json:"status,omitempty"`
}
