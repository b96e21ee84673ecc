package usecase

import (
	"context"
	"errors"
	"strings"

	"recruitment-portal-backend/internal/domain"
	"recruitment-portal-backend/pkg/apperror"
	"recruitment-portal-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type candidateUsecase struct {
	candidateRepo domain.CandidateRepository
	validate      *validator.Validate
}

func NewCandidateUsecase(candidateRepo domain.CandidateRepository, validate *validator.Validate) domain.CandidateUsecase {
	return &candidateUsecase{
		candidateRepo: candidateRepo,
		validate:      validate,
	}
}

func (u *candidateUsecase) GetAccount(ctx context.Context, id string) (*domain.Candidate, error) {
	c, err := u.candidateRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Account not found")
		}
		return nil, apperror.Internal(err)
	}
	return c, nil
}

// EnsureAccount creates the account row on first login. Later logins refresh
// the email so drafts seed from current identity data.
func (u *candidateUsecase) EnsureAccount(ctx context.Context, id, email string) (*domain.Candidate, error) {
	c := &domain.Candidate{ID: id, Email: strings.ToLower(strings.TrimSpace(email))}
	if err := u.candidateRepo.Upsert(ctx, c); err != nil {
		return nil, apperror.Internal(err)
	}
	return c, nil
}

func (u *candidateUsecase) UpdateAccount(ctx context.Context, c *domain.Candidate) error {
	if err := u.validate.Struct(c); err != nil {
		return apperror.BadRequest(strings.Join(validation.FormatErrorList(err), "; "))
	}
	existing, err := u.candidateRepo.GetByID(ctx, c.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.NotFound("Account not found")
		}
		return apperror.Internal(err)
	}
	existing.Name = strings.TrimSpace(c.Name)
	existing.Phone = strings.TrimSpace(c.Phone)
	if err := u.candidateRepo.Update(ctx, existing); err != nil {
		return apperror.Internal(err)
	}
	return nil
}
