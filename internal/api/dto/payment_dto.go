package dto

import (
	"fmt"
	"time"

	"github.com/spec-kit/raffle-service/internal/domain"
	"github.com/spec-kit/raffle-service/internal/repository"
	"github.com/spec-kit/raffle-service/internal/service"
)

// SubmitPaymentRequest payload for a proof submission.
type SubmitPaymentRequest struct {
	TicketID int    `json:"ticket_id"`
	ProofRef string `json:"proof_ref"`
}

// RejectRequest payload for a reject decision.
type RejectRequest struct {
	Reason *string `json:"reason,omitempty"`
}

// PaymentResponse is the external payment record representation.
type PaymentResponse struct {
	ID        int64     `json:"id"`
	TicketID  int       `json:"ticket_id"`
	Status    string    `json:"status"`
	ProofRef  string    `json:"proof_ref,omitempty"`
	Reason    *string   `json:"reason,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewPaymentResponse maps a payment record.
func NewPaymentResponse(p *domain.PaymentRecord) PaymentResponse {
	return PaymentResponse{
		ID:        p.ID,
		TicketID:  p.TicketID,
		Status:    string(p.Status),
		ProofRef:  p.ProofRef,
		Reason:    p.Reason,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// PendingReviewResponse is one entry of the admin review queue.
type PendingReviewResponse struct {
	Payment     PaymentResponse     `json:"payment"`
	Participant ParticipantResponse `json:"participant"`
}

// NewPendingReviewResponses maps the review queue.
func NewPendingReviewResponses(items []repository.PendingReview) []PendingReviewResponse {
	out := make([]PendingReviewResponse, 0, len(items))
	for i := range items {
		out = append(out, PendingReviewResponse{
			Payment:     NewPaymentResponse(&items[i].Payment),
			Participant: NewParticipantResponse(&items[i].Participant),
		})
	}
	return out
}

// ReviewResponse reports a decision result back to the actor.
type ReviewResponse struct {
	Outcome             string          `json:"outcome"`
	Payment             PaymentResponse `json:"payment"`
	CleanedUp           int             `json:"cleaned_up,omitempty"`
	ReversedPurchase    bool            `json:"reversed_purchase,omitempty"`
	Deleted             bool            `json:"deleted,omitempty"`
	NotificationWarning string          `json:"notification_warning,omitempty"`
}

// NewReviewResponse maps a review result.
func NewReviewResponse(r *service.ReviewResult) ReviewResponse {
	return ReviewResponse{
		Outcome:             string(r.Outcome),
		Payment:             NewPaymentResponse(&r.Payment),
		CleanedUp:           r.CleanedUp,
		ReversedPurchase:    r.ReversedPurchase,
		Deleted:             r.Deleted,
		NotificationWarning: r.NotificationWarning,
	}
}

// InstructionsResponse carries the manual transfer instructions for one
// ticket.
type InstructionsResponse struct {
	TicketID   int    `json:"ticket_id"`
	Name       string `json:"name"`
	Price      int64  `json:"price"`
	PriceText  string `json:"price_text"`
	CardNumber string `json:"card_number,omitempty"`
	ChannelURL string `json:"channel_url,omitempty"`
}

// FormatPrice renders a minor-unit amount as a decimal string.
func FormatPrice(minor int64) string {
	return fmt.Sprintf("%d.%02d", minor/100, minor%100)
}
