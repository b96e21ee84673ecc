package usecase

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"recruitment-portal-backend/internal/domain"
	"recruitment-portal-backend/pkg/apperror"
	"recruitment-portal-backend/pkg/logger"

	"golang.org/x/sync/singleflight"
)

type submissionUsecase struct {
	appRepo domain.ApplicationRepository
	group   singleflight.Group
}

// NewSubmissionUsecase creates the submission service that finalizes a draft
// into a submitted application.
func NewSubmissionUsecase(appRepo domain.ApplicationRepository) domain.SubmissionUsecase {
	return &submissionUsecase{appRepo: appRepo}
}

// Submit transitions draft → submitted. Single-flight per application id so a
// double-click or second tab cannot race two submissions. The document set is
// persisted immediately before the status flip: a crash in between leaves an
// up-to-date draft, never a half-submitted application.
func (uc *submissionUsecase) Submit(ctx context.Context, candidateID string, applicationID int64) error {
	_, err, _ := uc.group.Do(strconv.FormatInt(applicationID, 10), func() (interface{}, error) {
		return nil, uc.submit(ctx, candidateID, applicationID)
	})
	return err
}

func (uc *submissionUsecase) submit(ctx context.Context, candidateID string, applicationID int64) error {
	app, err := uc.appRepo.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.NotFound("Application not found")
		}
		return apperror.Internal(err)
	}
	if app.CandidateID != candidateID {
		return apperror.NotFound("Application not found")
	}
	if !app.IsDraft() {
		return apperror.Conflict("This application has already been submitted")
	}

	// A profile with the full required field set must exist.
	profile, err := uc.appRepo.GetProfile(ctx, applicationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.BadRequest("Complete your personal information before submitting")
		}
		return apperror.Internal(err)
	}
	if missing := profile.MissingRequiredFields(); len(missing) > 0 {
		return apperror.BadRequest("Complete your personal information before submitting; missing: " + strings.Join(missing, ", "))
	}

	// One non-draft application per (candidate, job). The partial unique
	// index enforces this at the database too; checking here produces the
	// descriptive rejection instead of a constraint error.
	exists, err := uc.appRepo.HasNonDraft(ctx, candidateID, app.JobID, applicationID)
	if err != nil {
		return apperror.Internal(err)
	}
	if exists {
		if app.JobID != nil {
			return apperror.Conflict("You have already applied to this job")
		}
		return apperror.Conflict("You already have a submitted general application")
	}

	// Persist the document set as the final write before the status flip.
	docs, err := uc.appRepo.GetDocuments(ctx, applicationID)
	if errors.Is(err, domain.ErrNotFound) {
		docs = &domain.DocumentSet{ApplicationID: applicationID, AdditionalFiles: []domain.AdditionalFile{}}
	} else if err != nil {
		return apperror.Internal(err)
	}
	if err := uc.appRepo.SaveDocuments(ctx, docs); err != nil {
		return apperror.Internal(err)
	}

	if err := uc.appRepo.MarkSubmitted(ctx, applicationID, time.Now()); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Lost a race: the guarded update matched no draft row.
			return apperror.Conflict("This application has already been submitted")
		}
		return apperror.Internal(err)
	}

	logger.Log.Info("application submitted", "application_id", applicationID, "candidate_id", candidateID)
	return nil
}
