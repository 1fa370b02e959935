package workflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextStatus(t *testing.T) {
	testCases := []struct {
		action  Action
		from    Status
		want    Status
		wantErr bool
	}{
		{ActionProcess, StatusPending, StatusUnderReview, false},
		{ActionForward, StatusPending, StatusForwarded, false},
		{ActionForward, StatusUnderReview, StatusForwarded, false},
		{ActionApprove, StatusForwarded, StatusApproved, false},
		{ActionReject, StatusPending, StatusRejected, false},
		{ActionReject, StatusUnderReview, StatusRejected, false},
		{ActionReject, StatusForwarded, StatusRejected, false},
		{ActionComplete, StatusApproved, StatusCompleted, false},
		{ActionCancel, StatusPending, StatusRejected, false},

		{ActionProcess, StatusUnderReview, "", true},
		{ActionApprove, StatusPending, "", true},
		{ActionApprove, StatusUnderReview, "", true},
		{ActionForward, StatusForwarded, "", true},
		{ActionCancel, StatusUnderReview, "", true},
		{ActionReject, StatusRejected, "", true},
		{ActionReject, StatusApproved, "", true},
		{ActionReject, StatusCompleted, "", true},
		{ActionComplete, StatusForwarded, "", true},
		{ActionCreate, StatusPending, "", true},
	}

	for _, tc := range testCases {
		t.Run(string(tc.action)+"_"+string(tc.from), func(t *testing.T) {
			got, err := NextStatus(tc.action, tc.from)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrIllegalTransition)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestTerminalStatesHaveNoOutgoingEdges(t *testing.T) {
	actions := []Action{ActionProcess, ActionForward, ActionApprove, ActionReject, ActionComplete, ActionCancel}
	for _, status := range []Status{StatusRejected, StatusCompleted} {
		require.True(t, status.IsTerminal())
		for _, action := range actions {
			_, err := NextStatus(action, status)
			assert.ErrorIs(t, err, ErrIllegalTransition, "%s from %s", action, status)
		}
	}

	// APPROVED only admits the system-driven Complete edge.
	assert.False(t, StatusApproved.IsTerminal())
	for _, action := range actions {
		_, err := NextStatus(action, StatusApproved)
		if action == ActionComplete {
			assert.NoError(t, err)
			continue
		}
		assert.ErrorIs(t, err, ErrIllegalTransition, "%s from APPROVED", action)
	}
}

func TestReplayStatus(t *testing.T) {
	now := time.Now()
	entry := func(action Action) HistoryEntry {
		return HistoryEntry{ActorID: "079123456789", Action: action, Timestamp: now}
	}

	t.Run("full approval path", func(t *testing.T) {
		status, err := ReplayStatus([]HistoryEntry{
			entry(ActionCreate), entry(ActionProcess), entry(ActionForward), entry(ActionApprove), entry(ActionComplete),
		})
		require.NoError(t, err)
		assert.Equal(t, StatusCompleted, status)
	})

	t.Run("cancellation", func(t *testing.T) {
		status, err := ReplayStatus([]HistoryEntry{entry(ActionCreate), entry(ActionCancel)})
		require.NoError(t, err)
		assert.Equal(t, StatusRejected, status)
	})

	t.Run("empty history", func(t *testing.T) {
		_, err := ReplayStatus(nil)
		assert.Error(t, err)
	})

	t.Run("missing creation entry", func(t *testing.T) {
		_, err := ReplayStatus([]HistoryEntry{entry(ActionProcess)})
		assert.Error(t, err)
	})

	t.Run("illegal sequence", func(t *testing.T) {
		_, err := ReplayStatus([]HistoryEntry{entry(ActionCreate), entry(ActionApprove)})
		assert.ErrorIs(t, err, ErrIllegalTransition)
	})
}
