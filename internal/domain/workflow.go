package domain

// WorkflowStatus represents the position of an offer in its lifecycle
type WorkflowStatus string

const (
	StatusDraft          WorkflowStatus = "draft"
	StatusSent           WorkflowStatus = "sent"
	StatusInfoRequested  WorkflowStatus = "info_requested"
	StatusValidITC       WorkflowStatus = "valid_itc"
	StatusApproved       WorkflowStatus = "approved"
	StatusLeaserReview   WorkflowStatus = "leaser_review"
	StatusLeaserApproved WorkflowStatus = "leaser_approved"
	StatusFinanced       WorkflowStatus = "financed"
	StatusRejected       WorkflowStatus = "rejected"
)

// IsValid checks if the WorkflowStatus is a valid enum value
func (ws WorkflowStatus) IsValid() bool {
	switch ws {
	case StatusDraft, StatusSent, StatusInfoRequested, StatusValidITC,
		StatusApproved, StatusLeaserReview, StatusLeaserApproved,
		StatusFinanced, StatusRejected:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed
func (ws WorkflowStatus) IsTerminal() bool {
	return ws == StatusFinanced || ws == StatusRejected
}

// validWorkflowTransitions is the single source of truth for which status
// changes are allowed. info_requested and leaser_approved are reachable from
// any non-terminal status and are handled in CanTransitionTo rather than
// listed per row.
var validWorkflowTransitions = map[WorkflowStatus][]WorkflowStatus{
	StatusDraft:          {StatusSent, StatusRejected},
	StatusSent:           {StatusValidITC, StatusRejected},
	StatusInfoRequested:  {StatusLeaserReview, StatusRejected},
	StatusValidITC:       {StatusApproved, StatusRejected},
	StatusApproved:       {StatusLeaserReview, StatusRejected},
	StatusLeaserReview:   {StatusLeaserApproved, StatusRejected},
	StatusLeaserApproved: {StatusFinanced, StatusRejected},
	StatusFinanced:       {},
	StatusRejected:       {},
}

// CanTransitionTo reports whether a transition from ws to target is allowed
func (ws WorkflowStatus) CanTransitionTo(target WorkflowStatus) bool {
	if !ws.IsValid() || !target.IsValid() {
		return false
	}
	if ws == target {
		return false
	}
	if ws.IsTerminal() {
		return false
	}
	// Pausing for additional information and the leaser's approval can both
	// happen at any point of the analysis.
	if target == StatusInfoRequested {
		return ws != StatusLeaserApproved
	}
	if target == StatusLeaserApproved {
		return true
	}
	for _, allowed := range validWorkflowTransitions[ws] {
		if allowed == target {
			return true
		}
	}
	return false
}

// AllowedTransitions returns the explicit forward transitions from ws,
// excluding the any-state targets info_requested and leaser_approved.
func (ws WorkflowStatus) AllowedTransitions() []WorkflowStatus {
	targets, ok := validWorkflowTransitions[ws]
	if !ok {
		return nil
	}
	out := make([]WorkflowStatus, len(targets))
	copy(out, targets)
	return out
}

// WorkflowStatusInfo carries display metadata for a status
type WorkflowStatusInfo struct {
	Status   WorkflowStatus `json:"status"`
	Label    string         `json:"label"`
	Color    string         `json:"color"`
	Progress int            `json:"progress"`
}

// WorkflowStatusCatalog lists all statuses in lifecycle order with display
// metadata for UI consumption.
func WorkflowStatusCatalog() []WorkflowStatusInfo {
	return []WorkflowStatusInfo{
		{StatusDraft, "Draft", "gray", 0},
		{StatusSent, "Sent to client", "blue", 15},
		{StatusInfoRequested, "Information requested", "orange", 30},
		{StatusValidITC, "Internally validated", "teal", 45},
		{StatusApproved, "Approved", "green", 60},
		{StatusLeaserReview, "Leaser review", "purple", 75},
		{StatusLeaserApproved, "Leaser approved", "green", 90},
		{StatusFinanced, "Financed", "green", 100},
		{StatusRejected, "Rejected", "red", 100},
	}
}
