package postgres

import (
	"context"
	"errors"
	"time"

	"recruitment-portal-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type candidateRepo struct {
	db *pgxpool.Pool
}

func NewCandidateRepository(db *pgxpool.Pool) domain.CandidateRepository {
	return &candidateRepo{db: db}
}

func (r *candidateRepo) GetByID(ctx context.Context, id string) (*domain.Candidate, error) {
	query := `SELECT id, name, email, phone, created_at, updated_at FROM candidates WHERE id = $1`

	var c domain.Candidate
	err := r.db.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.Email, &c.Phone, &c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Upsert creates the account row on first login; later logins refresh email
// only, leaving the candidate-edited fields alone.
func (r *candidateRepo) Upsert(ctx context.Context, c *domain.Candidate) error {
	query := `
		INSERT INTO candidates (id, name, email, phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			updated_at = EXCLUDED.updated_at
		RETURNING name, phone, created_at`

	now := time.Now()
	c.UpdatedAt = now
	return r.db.QueryRow(ctx, query, c.ID, c.Name, c.Email, c.Phone, now).
		Scan(&c.Name, &c.Phone, &c.CreatedAt)
}

func (r *candidateRepo) Update(ctx context.Context, c *domain.Candidate) error {
	query := `UPDATE candidates SET name = $2, email = $3, phone = $4, updated_at = $5 WHERE id = $1`

	c.UpdatedAt = time.Now()
	result, err := r.db.Exec(ctx, query, c.ID, c.Name, c.Email, c.Phone, c.UpdatedAt)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
