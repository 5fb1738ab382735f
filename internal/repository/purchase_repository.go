package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/raffle-service/internal/domain"
)

// PaidParticipant joins a participant with the ticket ids they hold.
type PaidParticipant struct {
	Participant domain.Participant
	TicketIDs   []int
}

// LotteryEntry aggregates a registered participant's ledger for the draw.
// TotalUnits follows the tier-to-unit mapping (referral counts 1, a paid
// tier counts its id); ReferralUnits counts referral tickets only.
type LotteryEntry struct {
	ParticipantID int64
	FullName      string
	TotalUnits    int
	ReferralUnits int
}

// PurchaseRepository reads the purchase ledger. Appends and reversals
// happen inside the payment decision transactions; the ledger's
// (participant_id, ticket_id) uniqueness is enforced by the schema.
type PurchaseRepository interface {
	ListByParticipant(ctx context.Context, participantID int64) ([]domain.PurchaseRecord, error)
	// HasReferral reports whether the participant holds the referral ticket.
	HasReferral(ctx context.Context, participantID int64) (bool, error)
	// CountPaid counts confirmed non-referral purchases.
	CountPaid(ctx context.Context, participantID int64) (int, error)
	// ListPaidParticipants returns every registered participant holding at
	// least one ledger row, with their ticket ids.
	ListPaidParticipants(ctx context.Context) ([]PaidParticipant, error)
	// LotteryEntries aggregates units per registered participant.
	LotteryEntries(ctx context.Context) ([]LotteryEntry, error)
}

type purchaseRepository struct {
	pool *pgxpool.Pool
}

// NewPurchaseRepository returns a Postgres-backed implementation.
func NewPurchaseRepository(pool *pgxpool.Pool) PurchaseRepository {
	return &purchaseRepository{pool: pool}
}

func (r *purchaseRepository) ListByParticipant(ctx context.Context, participantID int64) ([]domain.PurchaseRecord, error) {
	const query = `
        SELECT participant_id, ticket_id, created_at
        FROM purchases
        WHERE participant_id=$1
        ORDER BY ticket_id`
	rows, err := r.pool.Query(ctx, query, participantID)
	if err != nil {
		return nil, storeError(err)
	}
	defer rows.Close()

	var result []domain.PurchaseRecord
	for rows.Next() {
		var p domain.PurchaseRecord
		if err := rows.Scan(&p.ParticipantID, &p.TicketID, &p.CreatedAt); err != nil {
			return nil, storeError(err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func (r *purchaseRepository) HasReferral(ctx context.Context, participantID int64) (bool, error) {
	const query = `
        SELECT EXISTS (
            SELECT 1 FROM purchases WHERE participant_id=$1 AND ticket_id=$2
        )`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, participantID, domain.ReferralTicketID).Scan(&exists); err != nil {
		return false, storeError(err)
	}
	return exists, nil
}

func (r *purchaseRepository) CountPaid(ctx context.Context, participantID int64) (int, error) {
	const query = `
        SELECT COUNT(*) FROM purchases WHERE participant_id=$1 AND ticket_id <> $2`
	var count int
	if err := r.pool.QueryRow(ctx, query, participantID, domain.ReferralTicketID).Scan(&count); err != nil {
		return 0, storeError(err)
	}
	return count, nil
}

func (r *purchaseRepository) ListPaidParticipants(ctx context.Context) ([]PaidParticipant, error) {
	const query = `
        SELECT u.id, u.handle, u.full_name, u.phone, u.notify_address, u.created_at, u.updated_at,
               ARRAY_AGG(p.ticket_id ORDER BY p.ticket_id)
        FROM participants u
        JOIN purchases p ON p.participant_id = u.id
        WHERE u.full_name IS NOT NULL
        GROUP BY u.id
        ORDER BY u.id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, storeError(err)
	}
	defer rows.Close()

	var result []PaidParticipant
	for rows.Next() {
		var entry PaidParticipant
		var ticketIDs []int32
		if err := rows.Scan(
			&entry.Participant.ID,
			&entry.Participant.Handle,
			&entry.Participant.FullName,
			&entry.Participant.Phone,
			&entry.Participant.NotifyAddress,
			&entry.Participant.CreatedAt,
			&entry.Participant.UpdatedAt,
			&ticketIDs,
		); err != nil {
			return nil, storeError(err)
		}
		entry.TicketIDs = make([]int, len(ticketIDs))
		for i, id := range ticketIDs {
			entry.TicketIDs[i] = int(id)
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}

func (r *purchaseRepository) LotteryEntries(ctx context.Context) ([]LotteryEntry, error) {
	const query = `
        SELECT u.id, u.full_name,
               SUM(CASE WHEN p.ticket_id = $1 THEN 1 ELSE p.ticket_id END),
               SUM(CASE WHEN p.ticket_id = $1 THEN 1 ELSE 0 END)
        FROM participants u
        JOIN purchases p ON p.participant_id = u.id
        WHERE u.full_name IS NOT NULL
        GROUP BY u.id, u.full_name
        ORDER BY u.id`
	rows, err := r.pool.Query(ctx, query, domain.ReferralTicketID)
	if err != nil {
		return nil, storeError(err)
	}
	defer rows.Close()

	var result []LotteryEntry
	for rows.Next() {
		var entry LotteryEntry
		if err := rows.Scan(&entry.ParticipantID, &entry.FullName, &entry.TotalUnits, &entry.ReferralUnits); err != nil {
			return nil, storeError(err)
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
