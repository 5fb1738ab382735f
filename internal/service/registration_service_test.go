package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/spec-kit/raffle-service/internal/domain"
	"github.com/spec-kit/raffle-service/internal/session"
)

func newRegistrationFixture(t *testing.T) (*fakeStore, *fakeSessionStore, *RegistrationService) {
	t.Helper()
	store := newFakeStore()
	sessions := newFakeSessionStore()
	svc := NewRegistrationService(store.participantRepo(), sessions, zap.NewNop())
	return store, sessions, svc
}

func TestContactStartsRegistration(t *testing.T) {
	t.Parallel()
	_, sessions, svc := newRegistrationFixture(t)
	ctx := context.Background()

	result, err := svc.Contact(ctx, "newcomer", "101")
	if err != nil {
		t.Fatalf("contact: %v", err)
	}
	if result.Registered {
		t.Fatal("new participant must not be registered")
	}
	if result.NextStep != session.StepFullName {
		t.Fatalf("expected full_name step, got %s", result.NextStep)
	}
	if _, err := sessions.Get(ctx, "newcomer"); err != nil {
		t.Fatalf("session should exist: %v", err)
	}
}

func TestContactWithRegisteredParticipant(t *testing.T) {
	t.Parallel()
	store, sessions, svc := newRegistrationFixture(t)
	ctx := context.Background()
	store.addRegistered("alice", "Alice A", "+100", "101")

	result, err := svc.Contact(ctx, "alice", "202")
	if err != nil {
		t.Fatalf("contact: %v", err)
	}
	if !result.Registered {
		t.Fatal("expected registered result")
	}
	if _, err := sessions.Get(ctx, "alice"); !errors.Is(err, session.ErrNoSession) {
		t.Fatal("no session should be opened for registered participants")
	}
	if result.Participant.NotifyAddress == nil || *result.Participant.NotifyAddress != "202" {
		t.Fatalf("notify address should be refreshed, got %+v", result.Participant.NotifyAddress)
	}
}

func TestRegistrationFlowCompletes(t *testing.T) {
	t.Parallel()
	_, sessions, svc := newRegistrationFixture(t)
	ctx := context.Background()

	if _, err := svc.Contact(ctx, "newcomer", "101"); err != nil {
		t.Fatalf("contact: %v", err)
	}

	next, err := svc.SubmitFullName(ctx, "newcomer", "  New Comer  ")
	if err != nil {
		t.Fatalf("submit full name: %v", err)
	}
	if next != session.StepPhone {
		t.Fatalf("expected phone step, got %s", next)
	}

	participant, err := svc.SubmitPhone(ctx, "newcomer", "+123456")
	if err != nil {
		t.Fatalf("submit phone: %v", err)
	}
	if !participant.Registered() {
		t.Fatal("participant should be registered")
	}
	if participant.FullName == nil || *participant.FullName != "New Comer" {
		t.Fatalf("full name not trimmed and stored: %+v", participant.FullName)
	}
	if participant.Phone == nil || *participant.Phone != "+123456" {
		t.Fatalf("phone not stored: %+v", participant.Phone)
	}
	if _, err := sessions.Get(ctx, "newcomer"); !errors.Is(err, session.ErrNoSession) {
		t.Fatal("session should be cleared after completion")
	}
}

func TestRegistrationStepsOutOfOrder(t *testing.T) {
	t.Parallel()
	_, _, svc := newRegistrationFixture(t)
	ctx := context.Background()

	if _, err := svc.SubmitFullName(ctx, "ghost", "Ghost"); !errors.Is(err, session.ErrNoSession) {
		t.Fatalf("expected ErrNoSession without contact, got %v", err)
	}

	if _, err := svc.Contact(ctx, "newcomer", "101"); err != nil {
		t.Fatalf("contact: %v", err)
	}
	if _, err := svc.SubmitPhone(ctx, "newcomer", "+1"); !errors.Is(err, session.ErrNoSession) {
		t.Fatalf("expected ErrNoSession before full name, got %v", err)
	}
}

func TestLookupUnknownHandle(t *testing.T) {
	t.Parallel()
	_, _, svc := newRegistrationFixture(t)

	_, err := svc.Lookup(context.Background(), "nobody")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
