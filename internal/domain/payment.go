package domain

import "time"

// PaymentStatus enumerates review states for a submitted payment proof.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusConfirmed PaymentStatus = "confirmed"
	PaymentStatusFake      PaymentStatus = "fake"
)

// Outcome reports what a review decision actually did. AlreadyDecided is
// a no-op signal for retried decisions, distinguishable from success but
// not an error.
type Outcome string

const (
	OutcomeConfirmed      Outcome = "confirmed"
	OutcomeRejected       Outcome = "rejected"
	OutcomeAlreadyDecided Outcome = "already_decided"
)

// PaymentRecord is the reviewable unit: one submission of proof for one
// ticket. Status is mutated only by the review workflow, exactly once per
// terminal transition. Reason is set only when the record is marked fake.
type PaymentRecord struct {
	ID            int64
	ParticipantID int64
	TicketID      int
	Status        PaymentStatus
	ProofRef      string
	Reason        *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsReferral reports whether the record targets the referral ticket.
func (p *PaymentRecord) IsReferral() bool {
	return p.TicketID == ReferralTicketID
}
