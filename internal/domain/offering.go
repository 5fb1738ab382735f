package domain

// PresentationState tells the gateway how to render a ticket for a
// particular participant.
type PresentationState string

const (
	// StateOfferable means the ticket can be requested right now.
	StateOfferable PresentationState = "offerable"
	// StateLockedReferral means the referral ticket is shown locked:
	// the participant has no confirmed paid purchase yet.
	StateLockedReferral PresentationState = "locked_referral"
	// StatePendingReferral means a referral payment is awaiting review;
	// the ticket is shown but not actionable.
	StatePendingReferral PresentationState = "pending_referral"
	// StateHiddenReferral means the participant already holds a confirmed
	// referral ticket; the gateway omits the entry entirely.
	StateHiddenReferral PresentationState = "hidden_referral"
)

// Actionable reports whether a participant may submit a payment for a
// ticket in this state.
func (s PresentationState) Actionable() bool {
	return s == StateOfferable
}

// Offering pairs a ticket definition with its presentation state for one
// participant.
type Offering struct {
	Definition TicketDefinition
	State      PresentationState
}
