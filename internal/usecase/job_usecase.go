package usecase

import (
	"context"
	"errors"

	"recruitment-portal-backend/internal/domain"
	"recruitment-portal-backend/pkg/apperror"
)

type jobUsecase struct {
	jobRepo domain.JobRepository
}

func NewJobUsecase(jobRepo domain.JobRepository) domain.JobUsecase {
	return &jobUsecase{jobRepo: jobRepo}
}

func (u *jobUsecase) GetJobDetails(ctx context.Context, id int64) (*domain.Job, error) {
	job, err := u.jobRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Job not found")
		}
		return nil, apperror.Internal(err)
	}
	return job, nil
}

func (u *jobUsecase) ListJobs(ctx context.Context, page, pageSize int) ([]domain.Job, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	jobs, total, err := u.jobRepo.Fetch(ctx, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, apperror.Internal(err)
	}
	return jobs, total, nil
}
