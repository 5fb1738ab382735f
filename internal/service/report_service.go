package service

import (
	"context"

	"github.com/spec-kit/raffle-service/internal/domain"
	"github.com/spec-kit/raffle-service/internal/repository"
)

// ReportService produces the admin views over participants and the
// purchase ledger.
type ReportService struct {
	participants repository.ParticipantRepository
	purchases    repository.PurchaseRepository
}

// LotteryReport aggregates draw entries. Units follow the ticket tiers:
// a paid ticket contributes as many units as its tier number, a granted
// referral ticket contributes one.
type LotteryReport struct {
	Entries          []repository.LotteryEntry
	ParticipantCount int
	TotalUnits       int
	ReferralUnits    int
	AverageUnits     float64
}

// NewReportService constructs the service.
func NewReportService(participants repository.ParticipantRepository, purchases repository.PurchaseRepository) *ReportService {
	return &ReportService{participants: participants, purchases: purchases}
}

// PaidList returns registered participants holding at least one ledger
// entry, with the ticket ids they hold.
func (s *ReportService) PaidList(ctx context.Context) ([]repository.PaidParticipant, error) {
	return s.purchases.ListPaidParticipants(ctx)
}

// FullList returns every registered participant.
func (s *ReportService) FullList(ctx context.Context) ([]domain.Participant, error) {
	return s.participants.ListRegistered(ctx)
}

// Lottery builds the draw report from the ledger.
func (s *ReportService) Lottery(ctx context.Context) (*LotteryReport, error) {
	entries, err := s.purchases.LotteryEntries(ctx)
	if err != nil {
		return nil, err
	}

	report := &LotteryReport{
		Entries:          entries,
		ParticipantCount: len(entries),
	}
	for _, entry := range entries {
		report.TotalUnits += entry.TotalUnits
		report.ReferralUnits += entry.ReferralUnits
	}
	if report.ParticipantCount > 0 {
		report.AverageUnits = float64(report.TotalUnits) / float64(report.ParticipantCount)
	}
	return report, nil
}
