package usecase_test

import (
	"context"
	"testing"
	"time"

	"recruitment-portal-backend/internal/domain"
	"recruitment-portal-backend/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func completeProfile(applicationID int64) *domain.PersonalProfile {
	birth := "1990-05-20"
	return &domain.PersonalProfile{
		ApplicationID: applicationID,
		FirstName:     "Ali",
		GuardianName:  "Raza Khan",
		Gender:        domain.GenderMale,
		BirthDate:     &birth,
		NationalID:    "35202-1234567-1",
		EmailAddress:  "ali@example.com",
		MobileNumber:  "+923001234567",
	}
}

func TestSubmit(t *testing.T) {
	ctx := context.Background()

	t.Run("Should persist documents then flip the draft stamping applied date", func(t *testing.T) {
		appRepo := new(MockApplicationRepo)
		uc := usecase.NewSubmissionUsecase(appRepo)

		docs := &domain.DocumentSet{ApplicationID: 1, CVURL: "https://storage.example.com/cv"}
		var docsSavedAt, submittedAt time.Time

		appRepo.On("GetByID", mock.Anything, int64(1)).Return(draftApp(1, "cand-1", int64p(10)), nil)
		appRepo.On("GetProfile", mock.Anything, int64(1)).Return(completeProfile(1), nil)
		appRepo.On("HasNonDraft", mock.Anything, "cand-1", int64p(10), int64(1)).Return(false, nil)
		appRepo.On("SaveDocuments", mock.Anything, docs).
			Run(func(mock.Arguments) { docsSavedAt = time.Now() }).Return(nil)
		appRepo.On("MarkSubmitted", mock.Anything, int64(1), mock.MatchedBy(func(ts time.Time) bool {
			return time.Since(ts) < time.Minute
		})).Run(func(mock.Arguments) { submittedAt = time.Now() }).Return(nil)
		appRepo.On("GetDocuments", mock.Anything, int64(1)).Return(docs, nil)

		err := uc.Submit(ctx, "cand-1", 1)
		assert.NoError(t, err)
		appRepo.AssertExpectations(t)
		// Document persistence strictly precedes the status flip.
		assert.True(t, docsSavedAt.Before(submittedAt) || docsSavedAt.Equal(submittedAt))
	})

	t.Run("Should reject when required profile fields are missing, naming them", func(t *testing.T) {
		appRepo := new(MockApplicationRepo)
		uc := usecase.NewSubmissionUsecase(appRepo)

		incomplete := completeProfile(1)
		incomplete.GuardianName = ""
		incomplete.MobileNumber = ""

		appRepo.On("GetByID", mock.Anything, int64(1)).Return(draftApp(1, "cand-1", int64p(10)), nil)
		appRepo.On("GetProfile", mock.Anything, int64(1)).Return(incomplete, nil)

		err := uc.Submit(ctx, "cand-1", 1)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "guardian name")
		assert.Contains(t, err.Error(), "mobile number")
		appRepo.AssertNotCalled(t, "MarkSubmitted", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Should reject when no profile was ever saved", func(t *testing.T) {
		appRepo := new(MockApplicationRepo)
		uc := usecase.NewSubmissionUsecase(appRepo)

		appRepo.On("GetByID", mock.Anything, int64(1)).Return(draftApp(1, "cand-1", int64p(10)), nil)
		appRepo.On("GetProfile", mock.Anything, int64(1)).Return(nil, domain.ErrNotFound)

		err := uc.Submit(ctx, "cand-1", 1)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "personal information")
	})

	t.Run("Should reject a duplicate submission for the same job", func(t *testing.T) {
		appRepo := new(MockApplicationRepo)
		uc := usecase.NewSubmissionUsecase(appRepo)

		appRepo.On("GetByID", mock.Anything, int64(1)).Return(draftApp(1, "cand-1", int64p(10)), nil)
		appRepo.On("GetProfile", mock.Anything, int64(1)).Return(completeProfile(1), nil)
		appRepo.On("HasNonDraft", mock.Anything, "cand-1", int64p(10), int64(1)).Return(true, nil)

		err := uc.Submit(ctx, "cand-1", 1)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "already applied")
		appRepo.AssertNotCalled(t, "MarkSubmitted", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Should reject an application that is no longer a draft", func(t *testing.T) {
		appRepo := new(MockApplicationRepo)
		uc := usecase.NewSubmissionUsecase(appRepo)

		submitted := draftApp(1, "cand-1", int64p(10))
		submitted.Status = domain.ApplicationStatusSubmitted
		appRepo.On("GetByID", mock.Anything, int64(1)).Return(submitted, nil)

		err := uc.Submit(ctx, "cand-1", 1)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "already been submitted")
	})

	t.Run("Should surface a lost race as a conflict", func(t *testing.T) {
		appRepo := new(MockApplicationRepo)
		uc := usecase.NewSubmissionUsecase(appRepo)

		appRepo.On("GetByID", mock.Anything, int64(1)).Return(draftApp(1, "cand-1", int64p(10)), nil)
		appRepo.On("GetProfile", mock.Anything, int64(1)).Return(completeProfile(1), nil)
		appRepo.On("HasNonDraft", mock.Anything, "cand-1", int64p(10), int64(1)).Return(false, nil)
		appRepo.On("GetDocuments", mock.Anything, int64(1)).Return(nil, domain.ErrNotFound)
		appRepo.On("SaveDocuments", mock.Anything, mock.Anything).Return(nil)
		// The guarded update matched no draft row.
		appRepo.On("MarkSubmitted", mock.Anything, int64(1), mock.Anything).Return(domain.ErrNotFound)

		err := uc.Submit(ctx, "cand-1", 1)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "already been submitted")
	})

	t.Run("Should hide another candidate's application", func(t *testing.T) {
		appRepo := new(MockApplicationRepo)
		uc := usecase.NewSubmissionUsecase(appRepo)

		appRepo.On("GetByID", mock.Anything, int64(1)).Return(draftApp(1, "cand-1", int64p(10)), nil)

		err := uc.Submit(ctx, "intruder", 1)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Application not found")
	})
}
