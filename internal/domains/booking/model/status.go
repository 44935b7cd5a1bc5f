package model

import "workspace/shared/failure"

type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

var validTransitions = map[Status][]Status{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted},
}

// ActiveStatuses hold their room window.
var ActiveStatuses = []Status{StatusPending, StatusConfirmed, StatusInProgress}

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

func (s Status) IsActive() bool {
	for _, active := range ActiveStatuses {
		if s == active {
			return true
		}
	}

	return false
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

func (s Status) String() string {
	return string(s)
}

// Transition returns an IllegalTransition failure unless from may move to to.
func Transition(from, to Status) error {
	if !from.CanTransitionTo(to) {
		return failure.IllegalTransition(EntityName, string(from), string(to)) // nolint:wrapcheck
	}

	return nil
}

func ActiveStatusValues() []string {
	values := make([]string, len(ActiveStatuses))
	for i, s := range ActiveStatuses {
		values[i] = string(s)
	}

	return values
}
