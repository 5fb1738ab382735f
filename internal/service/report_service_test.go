package service

import (
	"context"
	"testing"

	"github.com/spec-kit/raffle-service/internal/domain"
)

func TestPaidListSkipsUnregistered(t *testing.T) {
	t.Parallel()
	store := newFakeStore()
	svc := NewReportService(store.participantRepo(), store.purchaseRepo())
	ctx := context.Background()

	alice := store.addRegistered("alice", "Alice A", "+100", "101")
	store.addPurchase(alice.ID, 1)
	store.addPurchase(alice.ID, 3)

	ghost, err := store.participantRepo().UpsertContact(ctx, "ghost", "")
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	store.addPurchase(ghost.ID, 2)

	paid, err := svc.PaidList(ctx)
	if err != nil {
		t.Fatalf("paid list: %v", err)
	}
	if len(paid) != 1 {
		t.Fatalf("expected 1 paid participant, got %d", len(paid))
	}
	if paid[0].Participant.ID != alice.ID {
		t.Fatalf("unexpected participant %d", paid[0].Participant.ID)
	}
	if len(paid[0].TicketIDs) != 2 || paid[0].TicketIDs[0] != 1 || paid[0].TicketIDs[1] != 3 {
		t.Fatalf("unexpected ticket ids %v", paid[0].TicketIDs)
	}
}

func TestLotteryAggregatesUnits(t *testing.T) {
	t.Parallel()
	store := newFakeStore()
	svc := NewReportService(store.participantRepo(), store.purchaseRepo())
	ctx := context.Background()

	alice := store.addRegistered("alice", "Alice A", "+100", "101")
	store.addPurchase(alice.ID, 2)
	store.addPurchase(alice.ID, domain.ReferralTicketID)

	bob := store.addRegistered("bob", "Bob B", "+200", "102")
	store.addPurchase(bob.ID, 5)

	report, err := svc.Lottery(ctx)
	if err != nil {
		t.Fatalf("lottery: %v", err)
	}
	if report.ParticipantCount != 2 {
		t.Fatalf("expected 2 participants, got %d", report.ParticipantCount)
	}
	// tier 2 + one referral unit for alice, tier 5 for bob
	if report.TotalUnits != 8 {
		t.Fatalf("expected 8 total units, got %d", report.TotalUnits)
	}
	if report.ReferralUnits != 1 {
		t.Fatalf("expected 1 referral unit, got %d", report.ReferralUnits)
	}
	if report.AverageUnits != 4 {
		t.Fatalf("expected average 4, got %f", report.AverageUnits)
	}

	byID := make(map[int64]int)
	for _, entry := range report.Entries {
		byID[entry.ParticipantID] = entry.TotalUnits
	}
	if byID[alice.ID] != 3 || byID[bob.ID] != 5 {
		t.Fatalf("unexpected per-participant units: %v", byID)
	}
}

func TestLotteryEmptyLedger(t *testing.T) {
	t.Parallel()
	store := newFakeStore()
	svc := NewReportService(store.participantRepo(), store.purchaseRepo())

	report, err := svc.Lottery(context.Background())
	if err != nil {
		t.Fatalf("lottery: %v", err)
	}
	if report.ParticipantCount != 0 || report.TotalUnits != 0 || report.AverageUnits != 0 {
		t.Fatalf("expected empty report, got %+v", report)
	}
}
