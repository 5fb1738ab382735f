package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/raffle-service/internal/domain"
	"github.com/spec-kit/raffle-service/internal/repository"
	"github.com/spec-kit/raffle-service/internal/session"
)

// RegistrationService handles first contact and the two-step profile
// conversation (full name, then phone). Conversation state lives in the
// session store keyed by handle, so any gateway instance can continue it.
type RegistrationService struct {
	participants repository.ParticipantRepository
	sessions     session.Store
	logger       *zap.Logger
}

// ContactResult describes what happened on first contact. When the
// participant is not yet registered, NextStep tells the gateway what to
// ask for.
type ContactResult struct {
	Participant *domain.Participant
	Registered  bool
	NextStep    session.Step
}

// NewRegistrationService constructs the service.
func NewRegistrationService(participants repository.ParticipantRepository, sessions session.Store, logger *zap.Logger) *RegistrationService {
	return &RegistrationService{participants: participants, sessions: sessions, logger: logger}
}

// Contact records or refreshes the participant's contact info and, when
// the profile is incomplete, opens a registration session.
func (s *RegistrationService) Contact(ctx context.Context, handle, notifyAddress string) (*ContactResult, error) {
	participant, err := s.participants.UpsertContact(ctx, handle, notifyAddress)
	if err != nil {
		return nil, err
	}
	if participant.Registered() {
		return &ContactResult{Participant: participant, Registered: true}, nil
	}
	if err := s.sessions.Put(ctx, handle, &session.Registration{Step: session.StepFullName}); err != nil {
		return nil, err
	}
	return &ContactResult{Participant: participant, NextStep: session.StepFullName}, nil
}

// SubmitFullName stores the name in the session and advances to the
// phone step. ErrNoSession is returned when no registration is in
// progress or the flow is waiting for a different input.
func (s *RegistrationService) SubmitFullName(ctx context.Context, handle, fullName string) (session.Step, error) {
	fullName = strings.TrimSpace(fullName)
	reg, err := s.sessions.Get(ctx, handle)
	if err != nil {
		return "", err
	}
	if reg.Step != session.StepFullName {
		return "", session.ErrNoSession
	}
	if err := s.sessions.Put(ctx, handle, &session.Registration{Step: session.StepPhone, FullName: fullName}); err != nil {
		return "", err
	}
	return session.StepPhone, nil
}

// SubmitPhone completes registration: the profile is persisted and the
// session closed.
func (s *RegistrationService) SubmitPhone(ctx context.Context, handle, phone string) (*domain.Participant, error) {
	phone = strings.TrimSpace(phone)
	reg, err := s.sessions.Get(ctx, handle)
	if err != nil {
		return nil, err
	}
	if reg.Step != session.StepPhone {
		return nil, session.ErrNoSession
	}
	participant, err := s.participants.SaveProfile(ctx, handle, reg.FullName, phone)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Delete(ctx, handle); err != nil {
		s.logger.Warn("clear registration session", zap.String("handle", handle), zap.Error(err))
	}
	return participant, nil
}

// Lookup resolves a participant by handle.
func (s *RegistrationService) Lookup(ctx context.Context, handle string) (*domain.Participant, error) {
	return s.participants.GetByHandle(ctx, handle)
}
