package dto

import (
	"github.com/spec-kit/raffle-service/internal/domain"
)

// ContactRequest payload for first contact from the gateway.
type ContactRequest struct {
	Handle        string `json:"handle"`
	NotifyAddress string `json:"notify_address"`
}

// RegistrationInputRequest carries one answer of the registration
// conversation.
type RegistrationInputRequest struct {
	Value string `json:"value"`
}

// ParticipantResponse is the external participant representation.
type ParticipantResponse struct {
	ID         int64   `json:"id"`
	Handle     string  `json:"handle"`
	FullName   *string `json:"full_name,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Registered bool    `json:"registered"`
}

// NewParticipantResponse maps a participant.
func NewParticipantResponse(p *domain.Participant) ParticipantResponse {
	return ParticipantResponse{
		ID:         p.ID,
		Handle:     p.Handle,
		FullName:   p.FullName,
		Phone:      p.Phone,
		Registered: p.Registered(),
	}
}

// OfferingResponse is one catalog entry as shown to a participant.
type OfferingResponse struct {
	TicketID int    `json:"ticket_id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	State    string `json:"state"`
}

// NewOfferingResponses maps offerings, dropping entries the gateway must
// not render at all.
func NewOfferingResponses(offerings []domain.Offering) []OfferingResponse {
	out := make([]OfferingResponse, 0, len(offerings))
	for _, off := range offerings {
		if off.State == domain.StateHiddenReferral {
			continue
		}
		out = append(out, OfferingResponse{
			TicketID: off.Definition.ID,
			Name:     off.Definition.Name,
			Price:    off.Definition.Price,
			State:    string(off.State),
		})
	}
	return out
}
