package model_test

import (
	"testing"

	"workspace/internal/domains/booking/model"
	"workspace/shared/failure"

	"github.com/stretchr/testify/assert"
)

func TestStatus_Transition(t *testing.T) {
	all := []model.Status{
		model.StatusPending,
		model.StatusConfirmed,
		model.StatusInProgress,
		model.StatusCompleted,
		model.StatusCancelled,
	}

	legal := map[model.Status]map[model.Status]bool{
		model.StatusPending:    {model.StatusConfirmed: true, model.StatusCancelled: true},
		model.StatusConfirmed:  {model.StatusInProgress: true, model.StatusCancelled: true},
		model.StatusInProgress: {model.StatusCompleted: true},
	}

	for _, from := range all {
		for _, to := range all {
			t.Run(string(from)+"->"+string(to), func(t *testing.T) {
				err := model.Transition(from, to)

				if legal[from][to] {
					assert.NoError(t, err)
					assert.True(t, from.CanTransitionTo(to))

					return
				}

				assert.True(t, failure.IsKind(err, failure.KindIllegalTransition))
				assert.False(t, from.CanTransitionTo(to))
			})
		}
	}
}

func TestStatus_Classification(t *testing.T) {
	tests := []struct {
		status   model.Status
		active   bool
		terminal bool
	}{
		{status: model.StatusPending, active: true},
		{status: model.StatusConfirmed, active: true},
		{status: model.StatusInProgress, active: true},
		{status: model.StatusCompleted, terminal: true},
		{status: model.StatusCancelled, terminal: true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.active, tt.status.IsActive())
			assert.Equal(t, tt.terminal, tt.status.IsTerminal())
			assert.True(t, tt.status.IsValid())
		})
	}

	assert.False(t, model.Status("archived").IsValid())
	assert.Equal(t, []string{"pending", "confirmed", "in_progress"}, model.ActiveStatusValues())
}
