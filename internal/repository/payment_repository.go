package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/raffle-service/internal/domain"
)

const referralPendingConstraint = "uq_payments_referral_pending"

// PendingReview joins a pending payment with the submitting participant's
// profile for the admin review queue.
type PendingReview struct {
	Payment     domain.PaymentRecord
	Participant domain.Participant
}

// ConfirmResult reports what a confirm transition did.
type ConfirmResult struct {
	Outcome domain.Outcome
	Payment domain.PaymentRecord
	// CleanedUp counts stale duplicate referral records removed in the
	// same transaction.
	CleanedUp int
}

// RejectResult reports what a reject transition did.
type RejectResult struct {
	Outcome domain.Outcome
	Payment domain.PaymentRecord
	// ReversedPurchase is true when a previously confirmed ledger row
	// was removed.
	ReversedPurchase bool
	// Deleted is true when the record itself was removed so a referral
	// slot frees up for resubmission.
	Deleted bool
}

// PaymentRepository owns the payment record lifecycle. Confirm and Reject
// execute the full terminal transition, including the purchase ledger
// side effects, as one transaction.
type PaymentRepository interface {
	// CreatePending inserts a new pending record. A concurrent duplicate
	// referral submission loses against the store's partial unique index
	// and surfaces domain.ErrDuplicatePending.
	CreatePending(ctx context.Context, payment *domain.PaymentRecord) error
	GetByID(ctx context.Context, id int64) (*domain.PaymentRecord, error)
	// Confirm flips a record to confirmed and appends the purchase row.
	// For referral records it refuses with domain.ErrDuplicateConfirmation
	// when another referral payment of the participant is already
	// confirmed, and deletes stale pending/fake referral duplicates.
	Confirm(ctx context.Context, id int64) (*ConfirmResult, error)
	// Reject flips a record to fake, reverses a previously confirmed
	// purchase, and deletes referral records outright.
	Reject(ctx context.Context, id int64, reason *string) (*RejectResult, error)
	ListPending(ctx context.Context) ([]PendingReview, error)
	CountPending(ctx context.Context) (int, error)
	// ListByParticipant returns the participant's non-fake records,
	// newest first.
	ListByParticipant(ctx context.Context, participantID int64) ([]domain.PaymentRecord, error)
	HasPendingReferral(ctx context.Context, participantID int64) (bool, error)
}

type paymentRepository struct {
	pool *pgxpool.Pool
}

// NewPaymentRepository returns a Postgres-backed implementation.
func NewPaymentRepository(pool *pgxpool.Pool) PaymentRepository {
	return &paymentRepository{pool: pool}
}

const paymentColumns = `id, participant_id, ticket_id, status, proof_ref, reason, created_at, updated_at`

func (r *paymentRepository) CreatePending(ctx context.Context, payment *domain.PaymentRecord) error {
	const query = `
        INSERT INTO payments (participant_id, ticket_id, proof_ref)
        VALUES ($1, $2, $3)
        RETURNING id, status, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		payment.ParticipantID,
		payment.TicketID,
		payment.ProofRef,
	).Scan(&payment.ID, &payment.Status, &payment.CreatedAt, &payment.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.ConstraintName == referralPendingConstraint {
			return domain.ErrDuplicatePending
		}
		return storeError(err)
	}
	return nil
}

func (r *paymentRepository) GetByID(ctx context.Context, id int64) (*domain.PaymentRecord, error) {
	const query = `SELECT ` + paymentColumns + ` FROM payments WHERE id=$1`
	var p domain.PaymentRecord
	if err := scanPayment(r.pool.QueryRow(ctx, query, id), &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, storeError(err)
	}
	return &p, nil
}

func (r *paymentRepository) Confirm(ctx context.Context, id int64) (*ConfirmResult, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, storeError(err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	payment, err := peekPayment(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if payment.IsReferral() {
		if err := lockReferralRows(ctx, tx, payment.ParticipantID); err != nil {
			return nil, err
		}
		// the target may have been cleaned up before the locks landed
		payment, err = peekPayment(ctx, tx, id)
	} else {
		payment, err = lockPayment(ctx, tx, id)
	}
	if err != nil {
		return nil, err
	}

	if payment.Status != domain.PaymentStatusPending {
		// confirmed and fake are both sticky; retries report the no-op
		// instead of producing a second side effect.
		return &ConfirmResult{Outcome: domain.OutcomeAlreadyDecided, Payment: *payment}, nil
	}

	result := &ConfirmResult{Outcome: domain.OutcomeConfirmed}

	if payment.IsReferral() {
		const dupQuery = `
            SELECT id FROM payments
            WHERE participant_id=$1 AND ticket_id=$2 AND status='confirmed' AND id<>$3`
		var dupID int64
		err := tx.QueryRow(ctx, dupQuery, payment.ParticipantID, domain.ReferralTicketID, id).Scan(&dupID)
		switch {
		case err == nil:
			return nil, domain.ErrDuplicateConfirmation
		case errors.Is(err, pgx.ErrNoRows):
			// no confirmed referral elsewhere; proceed
		default:
			return nil, storeError(err)
		}

		const cleanupQuery = `
            DELETE FROM payments
            WHERE participant_id=$1 AND ticket_id=$2 AND id<>$3 AND status IN ('pending','fake')`
		cmd, err := tx.Exec(ctx, cleanupQuery, payment.ParticipantID, domain.ReferralTicketID, id)
		if err != nil {
			return nil, storeError(err)
		}
		result.CleanedUp = int(cmd.RowsAffected())
	}

	const confirmQuery = `
        UPDATE payments SET status='confirmed', reason=NULL, updated_at=NOW()
        WHERE id=$1
        RETURNING ` + paymentColumns
	if err := scanPayment(tx.QueryRow(ctx, confirmQuery, id), &result.Payment); err != nil {
		return nil, storeError(err)
	}

	const purchaseQuery = `
        INSERT INTO purchases (participant_id, ticket_id)
        VALUES ($1, $2)
        ON CONFLICT (participant_id, ticket_id) DO NOTHING`
	if _, err := tx.Exec(ctx, purchaseQuery, payment.ParticipantID, payment.TicketID); err != nil {
		return nil, storeError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, storeError(err)
	}
	return result, nil
}

func (r *paymentRepository) Reject(ctx context.Context, id int64, reason *string) (*RejectResult, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, storeError(err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	payment, err := lockPayment(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if payment.Status == domain.PaymentStatusFake {
		return &RejectResult{Outcome: domain.OutcomeAlreadyDecided, Payment: *payment}, nil
	}

	priorStatus := payment.Status
	result := &RejectResult{Outcome: domain.OutcomeRejected}

	const rejectQuery = `
        UPDATE payments SET status='fake', reason=$2, updated_at=NOW()
        WHERE id=$1
        RETURNING ` + paymentColumns
	if err := scanPayment(tx.QueryRow(ctx, rejectQuery, id, reason), &result.Payment); err != nil {
		return nil, storeError(err)
	}

	if priorStatus == domain.PaymentStatusConfirmed {
		const reverseQuery = `
            DELETE FROM purchases WHERE participant_id=$1 AND ticket_id=$2`
		cmd, err := tx.Exec(ctx, reverseQuery, payment.ParticipantID, payment.TicketID)
		if err != nil {
			return nil, storeError(err)
		}
		result.ReversedPurchase = cmd.RowsAffected() > 0
	}

	if payment.IsReferral() {
		// drop the record entirely so the participant may resubmit
		if _, err := tx.Exec(ctx, `DELETE FROM payments WHERE id=$1`, id); err != nil {
			return nil, storeError(err)
		}
		result.Deleted = true
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, storeError(err)
	}
	return result, nil
}

func (r *paymentRepository) ListPending(ctx context.Context) ([]PendingReview, error) {
	const query = `
        SELECT p.id, p.participant_id, p.ticket_id, p.status, p.proof_ref, p.reason, p.created_at, p.updated_at,
               u.id, u.handle, u.full_name, u.phone, u.notify_address, u.created_at, u.updated_at
        FROM payments p
        JOIN participants u ON u.id = p.participant_id
        WHERE p.status = 'pending'
        ORDER BY p.id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, storeError(err)
	}
	defer rows.Close()

	var result []PendingReview
	for rows.Next() {
		var review PendingReview
		if err := rows.Scan(
			&review.Payment.ID,
			&review.Payment.ParticipantID,
			&review.Payment.TicketID,
			&review.Payment.Status,
			&review.Payment.ProofRef,
			&review.Payment.Reason,
			&review.Payment.CreatedAt,
			&review.Payment.UpdatedAt,
			&review.Participant.ID,
			&review.Participant.Handle,
			&review.Participant.FullName,
			&review.Participant.Phone,
			&review.Participant.NotifyAddress,
			&review.Participant.CreatedAt,
			&review.Participant.UpdatedAt,
		); err != nil {
			return nil, storeError(err)
		}
		result = append(result, review)
	}
	return result, rows.Err()
}

func (r *paymentRepository) CountPending(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM payments WHERE status='pending'`).Scan(&count)
	if err != nil {
		return 0, storeError(err)
	}
	return count, nil
}

func (r *paymentRepository) ListByParticipant(ctx context.Context, participantID int64) ([]domain.PaymentRecord, error) {
	const query = `
        SELECT ` + paymentColumns + `
        FROM payments
        WHERE participant_id=$1 AND status <> 'fake'
        ORDER BY id DESC`
	rows, err := r.pool.Query(ctx, query, participantID)
	if err != nil {
		return nil, storeError(err)
	}
	defer rows.Close()

	var result []domain.PaymentRecord
	for rows.Next() {
		var p domain.PaymentRecord
		if err := scanPayment(rows, &p); err != nil {
			return nil, storeError(err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func (r *paymentRepository) HasPendingReferral(ctx context.Context, participantID int64) (bool, error) {
	const query = `
        SELECT EXISTS (
            SELECT 1 FROM payments
            WHERE participant_id=$1 AND ticket_id=$2 AND status='pending'
        )`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, participantID, domain.ReferralTicketID).Scan(&exists); err != nil {
		return false, storeError(err)
	}
	return exists, nil
}

func lockPayment(ctx context.Context, tx pgx.Tx, id int64) (*domain.PaymentRecord, error) {
	const query = `SELECT ` + paymentColumns + ` FROM payments WHERE id=$1 FOR UPDATE`
	var p domain.PaymentRecord
	if err := scanPayment(tx.QueryRow(ctx, query, id), &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, storeError(err)
	}
	return &p, nil
}

func peekPayment(ctx context.Context, tx pgx.Tx, id int64) (*domain.PaymentRecord, error) {
	const query = `SELECT ` + paymentColumns + ` FROM payments WHERE id=$1`
	var p domain.PaymentRecord
	if err := scanPayment(tx.QueryRow(ctx, query, id), &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, storeError(err)
	}
	return &p, nil
}

// lockReferralRows locks every referral payment row of the participant
// in id order. Two concurrent decisions on different referral records of
// the same participant then serialize on the same lock set instead of
// deadlocking on each other's row.
func lockReferralRows(ctx context.Context, tx pgx.Tx, participantID int64) error {
	const query = `
        SELECT id FROM payments
        WHERE participant_id=$1 AND ticket_id=$2
        ORDER BY id
        FOR UPDATE`
	rows, err := tx.Query(ctx, query, participantID, domain.ReferralTicketID)
	if err != nil {
		return storeError(err)
	}
	defer rows.Close()
	for rows.Next() {
	}
	if err := rows.Err(); err != nil {
		return storeError(err)
	}
	return nil
}

func scanPayment(row pgx.Row, p *domain.PaymentRecord) error {
	return row.Scan(
		&p.ID,
		&p.ParticipantID,
		&p.TicketID,
		&p.Status,
		&p.ProofRef,
		&p.Reason,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
}
