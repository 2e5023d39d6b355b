package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApproveOrganizer(t *testing.T) {
	next, err := ApproveOrganizer(OrganizerPending)
	require.NoError(t, err)
	assert.Equal(t, OrganizerApproved, next)

	_, err = ApproveOrganizer(OrganizerApproved)
	assert.Error(t, err)

	_, err = ApproveOrganizer(OrganizerRejected)
	assert.Error(t, err)
}

func TestRejectOrganizer(t *testing.T) {
	next, err := RejectOrganizer(OrganizerPending)
	require.NoError(t, err)
	assert.Equal(t, OrganizerRejected, next)

	// an already approved organizer can still be rejected
	next, err = RejectOrganizer(OrganizerApproved)
	require.NoError(t, err)
	assert.Equal(t, OrganizerRejected, next)

	_, err = RejectOrganizer(OrganizerRejected)
	assert.Error(t, err)
}

func TestEventTransitions(t *testing.T) {
	tests := []struct {
		name       string
		transition func(EventStatus) (EventStatus, error)
		from       EventStatus
		want       EventStatus
		wantErr    bool
	}{
		{"approve draft", ApproveEvent, EventDraft, EventApproved, false},
		{"approve pending", ApproveEvent, EventPending, EventApproved, false},
		{"approve approved", ApproveEvent, EventApproved, EventApproved, true},
		{"approve live", ApproveEvent, EventLive, EventLive, true},
		{"approve completed", ApproveEvent, EventCompleted, EventCompleted, true},
		{"approve cancelled", ApproveEvent, EventCancelled, EventCancelled, true},

		{"cancel draft", CancelEvent, EventDraft, EventCancelled, false},
		{"cancel pending", CancelEvent, EventPending, EventCancelled, false},
		{"cancel approved", CancelEvent, EventApproved, EventCancelled, false},
		{"cancel live", CancelEvent, EventLive, EventLive, true},
		{"cancel completed", CancelEvent, EventCompleted, EventCompleted, true},
		{"cancel cancelled", CancelEvent, EventCancelled, EventCancelled, true},

		{"submit draft", SubmitEvent, EventDraft, EventPending, false},
		{"submit pending", SubmitEvent, EventPending, EventPending, true},
		{"submit approved", SubmitEvent, EventApproved, EventApproved, true},

		{"golive approved", GoLiveEvent, EventApproved, EventLive, false},
		{"golive draft", GoLiveEvent, EventDraft, EventDraft, true},
		{"golive live", GoLiveEvent, EventLive, EventLive, true},

		{"complete live", CompleteEvent, EventLive, EventCompleted, false},
		{"complete approved", CompleteEvent, EventApproved, EventApproved, true},
		{"complete completed", CompleteEvent, EventCompleted, EventCompleted, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := tt.transition(tt.from)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.from, next, "failed transitions must not move the state")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, next)
		})
	}
}
