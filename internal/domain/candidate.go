package domain

import (
	"context"
	"time"
)

// Candidate is the portal account. Identity comes from the auth provider;
// name/email seed new application drafts.
type Candidate struct {
	ID        string    `json:"id"`
	Name      string    `json:"name" validate:"omitempty,valid_name,max=100"`
	Email     string    `json:"email" validate:"required,email"`
	Phone     string    `json:"phone" validate:"omitempty,valid_phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CandidateRepository interface {
	GetByID(ctx context.Context, id string) (*Candidate, error)
	// Upsert creates the account row on first login and refreshes email on later ones.
	Upsert(ctx context.Context, c *Candidate) error
	Update(ctx context.Context, c *Candidate) error
}

type CandidateUsecase interface {
	GetAccount(ctx context.Context, id string) (*Candidate, error)
	// EnsureAccount is called from the auth middleware after token verification.
	EnsureAccount(ctx context.Context, id, email string) (*Candidate, error)
	UpdateAccount(ctx context.Context, c *Candidate) error
}
