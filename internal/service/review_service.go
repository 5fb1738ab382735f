package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/raffle-service/internal/domain"
	"github.com/spec-kit/raffle-service/internal/events"
	"github.com/spec-kit/raffle-service/internal/repository"
)

// ReviewService orchestrates the payment review workflow: submissions by
// participants and confirm/reject decisions by actors.
type ReviewService struct {
	catalog      *domain.Catalog
	participants repository.ParticipantRepository
	payments     repository.PaymentRepository
	purchases    repository.PurchaseRepository
	dispatcher   events.Dispatcher
	logger       *zap.Logger
}

// ReviewDependencies bundles collaborators for the review service.
type ReviewDependencies struct {
	Catalog         *domain.Catalog
	ParticipantRepo repository.ParticipantRepository
	PaymentRepo     repository.PaymentRepository
	PurchaseRepo    repository.PurchaseRepository
	Dispatcher      events.Dispatcher
	Logger          *zap.Logger
}

// ReviewResult is returned to the deciding actor. NotificationWarning is
// set when the participant could not be notified; the decision itself is
// never rolled back for that.
type ReviewResult struct {
	Outcome             domain.Outcome
	Payment             domain.PaymentRecord
	CleanedUp           int
	ReversedPurchase    bool
	Deleted             bool
	NotificationWarning string
}

// NewReviewService constructs the service.
func NewReviewService(deps ReviewDependencies) *ReviewService {
	return &ReviewService{
		catalog:      deps.Catalog,
		participants: deps.ParticipantRepo,
		payments:     deps.PaymentRepo,
		purchases:    deps.PurchaseRepo,
		dispatcher:   deps.Dispatcher,
		logger:       deps.Logger,
	}
}

// Offerings returns the participant's current view of the catalog.
func (s *ReviewService) Offerings(ctx context.Context, participantID int64) ([]domain.Offering, error) {
	if _, err := s.participants.GetByID(ctx, participantID); err != nil {
		return nil, err
	}
	snap, err := s.snapshot(ctx, participantID)
	if err != nil {
		return nil, err
	}
	return ComputeOfferings(s.catalog.Definitions(), snap), nil
}

// SubmitPayment records a new proof submission as a pending payment.
// The participant must be registered, and the eligibility policy must
// allow the ticket: a locked or already granted referral is refused with
// ErrIneligible, a referral still under review with ErrDuplicatePending.
func (s *ReviewService) SubmitPayment(ctx context.Context, participantID int64, ticketID int, proofRef string) (*domain.PaymentRecord, error) {
	participant, err := s.participants.GetByID(ctx, participantID)
	if err != nil {
		return nil, err
	}
	if !participant.Registered() {
		return nil, domain.ErrIneligible
	}

	def, ok := s.catalog.ByID(ticketID)
	if !ok {
		return nil, domain.ErrNotFound
	}

	if def.IsReferral() {
		snap, err := s.snapshot(ctx, participantID)
		if err != nil {
			return nil, err
		}
		switch referralState(snap) {
		case domain.StateOfferable:
		case domain.StatePendingReferral:
			return nil, domain.ErrDuplicatePending
		default:
			return nil, domain.ErrIneligible
		}
	}

	payment := &domain.PaymentRecord{
		ParticipantID: participantID,
		TicketID:      ticketID,
		ProofRef:      proofRef,
	}
	if err := s.payments.CreatePending(ctx, payment); err != nil {
		return nil, err
	}

	pendingCount, err := s.payments.CountPending(ctx)
	if err != nil {
		s.logger.Warn("count pending payments", zap.Error(err))
	}
	if err := s.publish(ctx, events.Event{
		Type:          events.EventPaymentSubmitted,
		PaymentID:     payment.ID,
		ParticipantID: participantID,
		TicketID:      ticketID,
		Payload: events.PaymentSubmittedPayload{
			ProofRef:     proofRef,
			PendingCount: pendingCount,
		},
	}); err != nil {
		s.logger.Warn("submission alert failed", zap.Int64("payment_id", payment.ID), zap.Error(err))
	}
	return payment, nil
}

// Confirm applies an actor's confirm decision. Retrying a decided record
// yields AlreadyDecided without further side effects; confirming a
// referral whose participant already holds a confirmed referral payment
// fails with ErrDuplicateConfirmation and leaves the record untouched.
func (s *ReviewService) Confirm(ctx context.Context, paymentID, actorID int64) (*ReviewResult, error) {
	res, err := s.payments.Confirm(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	result := &ReviewResult{
		Outcome:   res.Outcome,
		Payment:   res.Payment,
		CleanedUp: res.CleanedUp,
	}
	if res.Outcome == domain.OutcomeAlreadyDecided {
		return result, nil
	}

	if res.CleanedUp > 0 {
		s.logger.Info("removed stale referral duplicates",
			zap.Int64("participant_id", res.Payment.ParticipantID),
			zap.Int("count", res.CleanedUp))
	}

	if err := s.publish(ctx, events.Event{
		Type:          events.EventPaymentConfirmed,
		PaymentID:     res.Payment.ID,
		ParticipantID: res.Payment.ParticipantID,
		TicketID:      res.Payment.TicketID,
		ActorID:       &actorID,
		Payload:       events.PaymentConfirmedPayload{CleanedUp: res.CleanedUp},
	}); err != nil {
		s.logger.Warn("confirmation notification failed", zap.Int64("payment_id", paymentID), zap.Error(err))
		result.NotificationWarning = err.Error()
	}
	return result, nil
}

// Reject applies an actor's reject decision with an optional reason.
// A confirmed record may be overturned: its ledger row is removed.
// Referral records are deleted so the participant can resubmit.
func (s *ReviewService) Reject(ctx context.Context, paymentID, actorID int64, reason *string) (*ReviewResult, error) {
	res, err := s.payments.Reject(ctx, paymentID, reason)
	if err != nil {
		return nil, err
	}

	result := &ReviewResult{
		Outcome:          res.Outcome,
		Payment:          res.Payment,
		ReversedPurchase: res.ReversedPurchase,
		Deleted:          res.Deleted,
	}
	if res.Outcome == domain.OutcomeAlreadyDecided {
		return result, nil
	}

	if err := s.publish(ctx, events.Event{
		Type:          events.EventPaymentRejected,
		PaymentID:     res.Payment.ID,
		ParticipantID: res.Payment.ParticipantID,
		TicketID:      res.Payment.TicketID,
		ActorID:       &actorID,
		Payload: events.PaymentRejectedPayload{
			Reason:           reason,
			ReversedPurchase: res.ReversedPurchase,
			Deleted:          res.Deleted,
		},
	}); err != nil {
		s.logger.Warn("rejection notification failed", zap.Int64("payment_id", paymentID), zap.Error(err))
		result.NotificationWarning = err.Error()
	}
	return result, nil
}

// ListPending returns the admin review queue.
func (s *ReviewService) ListPending(ctx context.Context) ([]repository.PendingReview, error) {
	return s.payments.ListPending(ctx)
}

// MyTickets returns the participant's own submissions, rejected ones
// excluded, newest first.
func (s *ReviewService) MyTickets(ctx context.Context, participantID int64) ([]domain.PaymentRecord, error) {
	if _, err := s.participants.GetByID(ctx, participantID); err != nil {
		return nil, err
	}
	return s.payments.ListByParticipant(ctx, participantID)
}

func (s *ReviewService) snapshot(ctx context.Context, participantID int64) (EligibilitySnapshot, error) {
	var snap EligibilitySnapshot
	var err error

	if snap.HasConfirmedReferral, err = s.purchases.HasReferral(ctx, participantID); err != nil {
		return snap, err
	}
	if snap.HasPendingReferral, err = s.payments.HasPendingReferral(ctx, participantID); err != nil {
		return snap, err
	}
	if snap.PaidPurchases, err = s.purchases.CountPaid(ctx, participantID); err != nil {
		return snap, err
	}
	return snap, nil
}

func (s *ReviewService) publish(ctx context.Context, event events.Event) error {
	if s.dispatcher == nil {
		return nil
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	return s.dispatcher.Publish(ctx, event)
}
