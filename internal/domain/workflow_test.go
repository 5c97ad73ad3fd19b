package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWorkflowStatusIsValid(t *testing.T) {
	assert.True(t, StatusDraft.IsValid())
	assert.True(t, StatusLeaserApproved.IsValid())
	assert.False(t, WorkflowStatus("bogus").IsValid())
	assert.False(t, WorkflowStatus("").IsValid())
}

func TestWorkflowTransitions(t *testing.T) {
	t.Run("forward flow is allowed", func(t *testing.T) {
		forward := []struct {
			from, to WorkflowStatus
		}{
			{StatusDraft, StatusSent},
			{StatusSent, StatusValidITC},
			{StatusValidITC, StatusApproved},
			{StatusApproved, StatusLeaserReview},
			{StatusLeaserReview, StatusLeaserApproved},
			{StatusLeaserApproved, StatusFinanced},
		}
		for _, tc := range forward {
			assert.True(t, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
		}
	})

	t.Run("skipping a stage is rejected", func(t *testing.T) {
		assert.False(t, StatusDraft.CanTransitionTo(StatusValidITC))
		assert.False(t, StatusSent.CanTransitionTo(StatusApproved))
	})

	t.Run("terminal statuses allow nothing", func(t *testing.T) {
		for _, target := range []WorkflowStatus{StatusDraft, StatusSent, StatusInfoRequested, StatusLeaserApproved, StatusRejected} {
			assert.False(t, StatusFinanced.CanTransitionTo(target), "financed -> %s", target)
			assert.False(t, StatusRejected.CanTransitionTo(target), "rejected -> %s", target)
		}
	})

	t.Run("rejection is allowed from any non-terminal status", func(t *testing.T) {
		for _, from := range []WorkflowStatus{StatusDraft, StatusSent, StatusInfoRequested, StatusValidITC, StatusApproved, StatusLeaserReview, StatusLeaserApproved} {
			assert.True(t, from.CanTransitionTo(StatusRejected), "%s -> rejected", from)
		}
	})

	t.Run("information can be requested from any status still under analysis", func(t *testing.T) {
		for _, from := range []WorkflowStatus{StatusDraft, StatusSent, StatusValidITC, StatusApproved, StatusLeaserReview} {
			assert.True(t, from.CanTransitionTo(StatusInfoRequested), "%s -> info_requested", from)
		}
		assert.False(t, StatusLeaserApproved.CanTransitionTo(StatusInfoRequested))
	})

	t.Run("leaser approval is reachable from any non-terminal status", func(t *testing.T) {
		for _, from := range []WorkflowStatus{StatusDraft, StatusSent, StatusInfoRequested, StatusValidITC, StatusApproved, StatusLeaserReview} {
			assert.True(t, from.CanTransitionTo(StatusLeaserApproved), "%s -> leaser_approved", from)
		}
	})

	t.Run("self transition is rejected", func(t *testing.T) {
		assert.False(t, StatusDraft.CanTransitionTo(StatusDraft))
	})

	t.Run("invalid statuses are rejected", func(t *testing.T) {
		assert.False(t, StatusDraft.CanTransitionTo(WorkflowStatus("bogus")))
		assert.False(t, WorkflowStatus("bogus").CanTransitionTo(StatusSent))
	})
}

func TestWorkflowStatusCatalog(t *testing.T) {
	catalog := WorkflowStatusCatalog()
	assert.Len(t, catalog, 9)
	seen := map[WorkflowStatus]bool{}
	for _, info := range catalog {
		assert.True(t, info.Status.IsValid())
		assert.NotEmpty(t, info.Label)
		assert.False(t, seen[info.Status], "duplicate status %s", info.Status)
		seen[info.Status] = true
	}
}
