package domain

import "errors"

// Workflow error taxonomy. These are matched with errors.Is across the
// repository and service layers and mapped to transport codes at the
// HTTP boundary.
var (
	// ErrNotFound signals an unknown participant, payment, or ticket id.
	ErrNotFound = errors.New("record not found")

	// ErrIneligible signals that the eligibility policy refuses a
	// submission for the requested ticket.
	ErrIneligible = errors.New("participant is not eligible for this ticket")

	// ErrDuplicatePending signals a referral submission while another
	// referral payment is still awaiting review.
	ErrDuplicatePending = errors.New("a referral payment is already awaiting review")

	// ErrDuplicateConfirmation signals a confirm attempt on a referral
	// payment when another referral payment for the same participant is
	// already confirmed.
	ErrDuplicateConfirmation = errors.New("participant already has a confirmed referral ticket")

	// ErrStoreUnavailable wraps storage transport failures. It is always
	// surfaced to the caller, never swallowed.
	ErrStoreUnavailable = errors.New("store unavailable")
)
