package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventPaymentSubmitted EventType = "payment_submitted"
	EventPaymentConfirmed EventType = "payment_confirmed"
	EventPaymentRejected  EventType = "payment_rejected"
)

// Event represents a domain event emitted by services. ActorID is nil for
// participant-initiated events.
type Event struct {
	ID            string      `json:"id"`
	Type          EventType   `json:"type"`
	PaymentID     int64       `json:"payment_id"`
	ParticipantID int64       `json:"participant_id"`
	TicketID      int         `json:"ticket_id"`
	ActorID       *int64      `json:"actor_id,omitempty"`
	Timestamp     time.Time   `json:"timestamp"`
	Payload       interface{} `json:"payload"`
}

// PaymentSubmittedPayload payload.
type PaymentSubmittedPayload struct {
	ProofRef     string `json:"proof_ref"`
	PendingCount int    `json:"pending_count"`
}

// PaymentConfirmedPayload payload.
type PaymentConfirmedPayload struct {
	CleanedUp int `json:"cleaned_up"`
}

// PaymentRejectedPayload payload.
type PaymentRejectedPayload struct {
	Reason           *string `json:"reason,omitempty"`
	ReversedPurchase bool    `json:"reversed_purchase"`
	Deleted          bool    `json:"deleted"`
}
