package model

import "workspace/shared/failure"

type Status string

const (
	StatusPendingOwnerApproval Status = "pending_owner_approval"
	StatusApproved             Status = "approved"
	StatusRejected             Status = "rejected"
	StatusProcessed            Status = "processed"
)

var validTransitions = map[Status][]Status{
	StatusPendingOwnerApproval: {StatusApproved, StatusRejected},
	StatusApproved:             {StatusProcessed},
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}

	return false
}

func (s Status) IsTerminal() bool {
	return len(validTransitions[s]) == 0
}

// IsOpen reports whether the request still counts against its booking. Rejected requests free it.
func (s Status) IsOpen() bool {
	return s != StatusRejected
}

func Transition(from, to Status) error {
	if !from.CanTransitionTo(to) {
		return failure.IllegalTransition(EntityName, string(from), string(to)) // nolint:wrapcheck
	}

	return nil
}
