package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/raffle-service/internal/domain"
)

// ParticipantRepository encapsulates participant persistence.
type ParticipantRepository interface {
	// UpsertContact records first contact with a handle, refreshing the
	// notify address without touching the registered profile.
	UpsertContact(ctx context.Context, handle, notifyAddress string) (*domain.Participant, error)
	// SaveProfile completes or overwrites the registration profile.
	SaveProfile(ctx context.Context, handle, fullName, phone string) (*domain.Participant, error)
	GetByHandle(ctx context.Context, handle string) (*domain.Participant, error)
	GetByID(ctx context.Context, id int64) (*domain.Participant, error)
	// ListRegistered returns participants with a completed profile in
	// registration order.
	ListRegistered(ctx context.Context) ([]domain.Participant, error)
}

type participantRepository struct {
	pool *pgxpool.Pool
}

// NewParticipantRepository returns a Postgres-backed implementation.
func NewParticipantRepository(pool *pgxpool.Pool) ParticipantRepository {
	return &participantRepository{pool: pool}
}

const participantColumns = `id, handle, full_name, phone, notify_address, created_at, updated_at`

func (r *participantRepository) UpsertContact(ctx context.Context, handle, notifyAddress string) (*domain.Participant, error) {
	const query = `
        INSERT INTO participants (handle, notify_address)
        VALUES ($1, NULLIF($2, ''))
        ON CONFLICT (handle) DO UPDATE SET
            notify_address = COALESCE(NULLIF(EXCLUDED.notify_address, ''), participants.notify_address),
            updated_at = NOW()
        RETURNING ` + participantColumns
	return r.scanOne(r.pool.QueryRow(ctx, query, handle, notifyAddress))
}

func (r *participantRepository) SaveProfile(ctx context.Context, handle, fullName, phone string) (*domain.Participant, error) {
	const query = `
        INSERT INTO participants (handle, full_name, phone)
        VALUES ($1, $2, $3)
        ON CONFLICT (handle) DO UPDATE SET
            full_name = EXCLUDED.full_name,
            phone = EXCLUDED.phone,
            updated_at = NOW()
        RETURNING ` + participantColumns
	return r.scanOne(r.pool.QueryRow(ctx, query, handle, fullName, phone))
}

func (r *participantRepository) GetByHandle(ctx context.Context, handle string) (*domain.Participant, error) {
	const query = `SELECT ` + participantColumns + ` FROM participants WHERE handle=$1`
	return r.scanOne(r.pool.QueryRow(ctx, query, handle))
}

func (r *participantRepository) GetByID(ctx context.Context, id int64) (*domain.Participant, error) {
	const query = `SELECT ` + participantColumns + ` FROM participants WHERE id=$1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

func (r *participantRepository) ListRegistered(ctx context.Context) ([]domain.Participant, error) {
	const query = `
        SELECT ` + participantColumns + `
        FROM participants
        WHERE full_name IS NOT NULL
        ORDER BY id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, storeError(err)
	}
	defer rows.Close()

	var result []domain.Participant
	for rows.Next() {
		var p domain.Participant
		if err := scanParticipant(rows, &p); err != nil {
			return nil, storeError(err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func (r *participantRepository) scanOne(row pgx.Row) (*domain.Participant, error) {
	var p domain.Participant
	if err := scanParticipant(row, &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, storeError(err)
	}
	return &p, nil
}

func scanParticipant(row pgx.Row, p *domain.Participant) error {
	return row.Scan(
		&p.ID,
		&p.Handle,
		&p.FullName,
		&p.Phone,
		&p.NotifyAddress,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
}

// storeError tags storage transport failures so callers can distinguish
// them from workflow errors.
func storeError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
}
