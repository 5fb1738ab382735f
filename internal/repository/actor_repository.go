package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/raffle-service/internal/domain"
)

// ActorRepository manages the admin allow-list.
type ActorRepository interface {
	Create(ctx context.Context, actor *domain.Actor) error
	GetByUsername(ctx context.Context, username string) (*domain.Actor, error)
	GetByID(ctx context.Context, id int64) (*domain.Actor, error)
	Count(ctx context.Context) (int, error)
}

type actorRepository struct {
	pool *pgxpool.Pool
}

// NewActorRepository returns a Postgres-backed implementation.
func NewActorRepository(pool *pgxpool.Pool) ActorRepository {
	return &actorRepository{pool: pool}
}

func (r *actorRepository) Create(ctx context.Context, actor *domain.Actor) error {
	const query = `
        INSERT INTO actors (username, password_hash)
        VALUES ($1, $2)
        RETURNING id, created_at`
	err := r.pool.QueryRow(ctx, query, actor.Username, actor.PasswordHash).
		Scan(&actor.ID, &actor.CreatedAt)
	if err != nil {
		return storeError(err)
	}
	return nil
}

func (r *actorRepository) GetByUsername(ctx context.Context, username string) (*domain.Actor, error) {
	const query = `
        SELECT id, username, password_hash, created_at
        FROM actors WHERE username=$1`
	return r.scanOne(r.pool.QueryRow(ctx, query, username))
}

func (r *actorRepository) GetByID(ctx context.Context, id int64) (*domain.Actor, error) {
	const query = `
        SELECT id, username, password_hash, created_at
        FROM actors WHERE id=$1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

func (r *actorRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM actors`).Scan(&count); err != nil {
		return 0, storeError(err)
	}
	return count, nil
}

func (r *actorRepository) scanOne(row pgx.Row) (*domain.Actor, error) {
	var actor domain.Actor
	err := row.Scan(&actor.ID, &actor.Username, &actor.PasswordHash, &actor.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, storeError(err)
	}
	return &actor, nil
}
