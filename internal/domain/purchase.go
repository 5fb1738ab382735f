package domain

import "time"

// PurchaseRecord is a ledger entry for a ticket actually granted to a
// participant. The (ParticipantID, TicketID) pair is unique, enforced by
// the store. Rows are appended when a payment is confirmed and removed
// only when a confirmed payment is overturned.
type PurchaseRecord struct {
	ParticipantID int64
	TicketID      int
	CreatedAt     time.Time
}
