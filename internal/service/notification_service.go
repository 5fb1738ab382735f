package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/raffle-service/internal/domain"
	"github.com/spec-kit/raffle-service/internal/events"
	"github.com/spec-kit/raffle-service/internal/gateway"
	"github.com/spec-kit/raffle-service/internal/repository"
)

// NotificationService listens for payment events and delivers messages:
// decision outcomes to the participant, submission alerts to the admin
// channel. Delivery failures are returned to the publisher so the
// deciding actor sees a warning; they never undo the decision.
type NotificationService struct {
	dispatcher   events.Dispatcher
	participants repository.ParticipantRepository
	catalog      *domain.Catalog
	notifier     gateway.Notifier
	adminChatIDs []int64
	logger       *zap.Logger
}

// NewNotificationService constructs the service.
func NewNotificationService(
	dispatcher events.Dispatcher,
	participants repository.ParticipantRepository,
	catalog *domain.Catalog,
	notifier gateway.Notifier,
	adminChatIDs []int64,
	logger *zap.Logger,
) *NotificationService {
	return &NotificationService{
		dispatcher:   dispatcher,
		participants: participants,
		catalog:      catalog,
		notifier:     notifier,
		adminChatIDs: adminChatIDs,
		logger:       logger,
	}
}

// RegisterHandlers subscribes to the payment events.
func (s *NotificationService) RegisterHandlers() {
	s.dispatcher.Subscribe(events.EventPaymentSubmitted, s.handleSubmitted)
	s.dispatcher.Subscribe(events.EventPaymentConfirmed, s.handleConfirmed)
	s.dispatcher.Subscribe(events.EventPaymentRejected, s.handleRejected)
}

func (s *NotificationService) handleSubmitted(ctx context.Context, event events.Event) error {
	if len(s.adminChatIDs) == 0 {
		return nil
	}
	payload, _ := event.Payload.(events.PaymentSubmittedPayload)

	participant, err := s.participants.GetByID(ctx, event.ParticipantID)
	if err != nil {
		return fmt.Errorf("submission alert: %w", err)
	}

	var b strings.Builder
	if event.TicketID == domain.ReferralTicketID {
		b.WriteString("New repost (free ticket) awaiting review!")
	} else {
		b.WriteString("New payment awaiting review!")
	}
	fmt.Fprintf(&b, "\nParticipant #%d @%s", participant.ID, participant.Handle)
	if participant.FullName != nil {
		fmt.Fprintf(&b, "\nName: %s", *participant.FullName)
	}
	if participant.Phone != nil {
		fmt.Fprintf(&b, "\nPhone: %s", *participant.Phone)
	}
	fmt.Fprintf(&b, "\nTicket: %s", s.catalog.Name(event.TicketID))
	if payload.ProofRef != "" {
		fmt.Fprintf(&b, "\nProof: %s", payload.ProofRef)
	}
	if payload.PendingCount > 1 {
		fmt.Fprintf(&b, "\n\n%d payments are awaiting review (including this one).", payload.PendingCount)
	}
	text := b.String()

	for _, chatID := range s.adminChatIDs {
		if err := s.notifier.Notify(ctx, strconv.FormatInt(chatID, 10), text); err != nil {
			s.logger.Warn("admin alert delivery failed", zap.Int64("chat_id", chatID), zap.Error(err))
			return fmt.Errorf("admin alert: %w", err)
		}
	}
	return nil
}

func (s *NotificationService) handleConfirmed(ctx context.Context, event events.Event) error {
	text := "Your payment has been confirmed."
	if event.TicketID == domain.ReferralTicketID {
		text = "Your repost has been confirmed! Your free ticket is now active."
	}
	return s.notifyParticipant(ctx, event.ParticipantID, text)
}

func (s *NotificationService) handleRejected(ctx context.Context, event events.Event) error {
	text := "Your payment was reviewed and rejected."
	if event.TicketID == domain.ReferralTicketID {
		text = "Your repost was reviewed and rejected."
	}
	if payload, ok := event.Payload.(events.PaymentRejectedPayload); ok && payload.Reason != nil && *payload.Reason != "" {
		text += "\nReason: " + *payload.Reason
	}
	return s.notifyParticipant(ctx, event.ParticipantID, text)
}

func (s *NotificationService) notifyParticipant(ctx context.Context, participantID int64, text string) error {
	participant, err := s.participants.GetByID(ctx, participantID)
	if err != nil {
		return fmt.Errorf("notify participant %d: %w", participantID, err)
	}
	if participant.NotifyAddress == nil || *participant.NotifyAddress == "" {
		return fmt.Errorf("participant %d has no notification address", participantID)
	}
	if err := s.notifier.Notify(ctx, *participant.NotifyAddress, text); err != nil {
		return fmt.Errorf("notify participant %d: %w", participantID, err)
	}
	return nil
}
