package service

import (
	"github.com/spec-kit/raffle-service/internal/domain"
)

// EligibilitySnapshot captures the ledger and pending-payment facts the
// offering rules need for one participant. Snapshots may be slightly
// stale relative to concurrent writes; decisions taken on stale data
// resolve to AlreadyDecided or a duplicate error downstream.
type EligibilitySnapshot struct {
	HasConfirmedReferral bool
	HasPendingReferral   bool
	PaidPurchases        int
}

// ComputeOfferings decides the presentation state of every catalog
// definition for a participant. Pure: no side effects, safe to call
// repeatedly and concurrently. Paid tickets are always offerable; the
// referral ticket is gated on having bought at least one paid ticket,
// held while a referral review is pending, and hidden once granted.
func ComputeOfferings(defs []domain.TicketDefinition, snap EligibilitySnapshot) []domain.Offering {
	offerings := make([]domain.Offering, 0, len(defs))
	for _, def := range defs {
		state := domain.StateOfferable
		if def.IsReferral() {
			state = referralState(snap)
		}
		offerings = append(offerings, domain.Offering{Definition: def, State: state})
	}
	return offerings
}

func referralState(snap EligibilitySnapshot) domain.PresentationState {
	switch {
	case snap.HasConfirmedReferral:
		return domain.StateHiddenReferral
	case snap.HasPendingReferral:
		return domain.StatePendingReferral
	case snap.PaidPurchases == 0:
		return domain.StateLockedReferral
	default:
		return domain.StateOfferable
	}
}
