package usecase_test

import (
	"context"
	"sync"
	"testing"

	"recruitment-portal-backend/internal/domain"
	"recruitment-portal-backend/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newWizard(drafts *MockDraftUsecase, jobs *MockJobRepo) domain.WizardUsecase {
	return usecase.NewWizardUsecase(drafts, jobs, usecase.NewPreferenceEngine())
}

func draftDetail(app *domain.Application) *domain.ApplicationDetail {
	return &domain.ApplicationDetail{
		Application: app,
		Experiences: []domain.Experience{},
		Educations:  []domain.Education{},
		Preferences: &domain.PreferenceSelection{ApplicationID: app.ID},
	}
}

func TestWizardStart(t *testing.T) {
	ctx := context.Background()

	t.Run("Should begin at job selection when entering with nothing chosen", func(t *testing.T) {
		state, err := newWizard(new(MockDraftUsecase), new(MockJobRepo)).Start(ctx, "cand-1", nil, nil)
		assert.NoError(t, err)
		assert.Equal(t, domain.StepJobSelection, state.CurrentStep)
		assert.Len(t, state.Steps, 6)
		assert.False(t, state.JobPinned)
		assert.Zero(t, state.ApplicationID)
	})

	t.Run("Should pin the job and skip job selection when entering from a job", func(t *testing.T) {
		drafts := new(MockDraftUsecase)
		app := draftApp(1, "cand-1", int64p(10))
		drafts.On("GetOrCreateDraft", mock.Anything, "cand-1", int64p(10)).Return(app, nil)
		drafts.On("GetDetail", mock.Anything, "cand-1", int64(1)).Return(draftDetail(app), nil)

		state, err := newWizard(drafts, new(MockJobRepo)).Start(ctx, "cand-1", int64p(10), nil)
		assert.NoError(t, err)
		assert.Equal(t, domain.StepTradeInfo, state.CurrentStep)
		assert.Len(t, state.Steps, 5)
		assert.True(t, state.JobPinned)
		assert.Equal(t, int64(1), state.ApplicationID)
	})

	t.Run("Should pre-load sections when resuming an existing draft", func(t *testing.T) {
		drafts := new(MockDraftUsecase)
		app := draftApp(7, "cand-1", int64p(10))
		detail := draftDetail(app)
		detail.Profile = &domain.PersonalProfile{ApplicationID: 7, FirstName: "Ali"}
		drafts.On("GetDetail", mock.Anything, "cand-1", int64(7)).Return(detail, nil)

		state, err := newWizard(drafts, new(MockJobRepo)).Start(ctx, "cand-1", nil, int64p(7))
		assert.NoError(t, err)
		assert.Equal(t, domain.StepTradeInfo, state.CurrentStep)
		assert.Equal(t, "Ali", state.Detail.Profile.FirstName)
	})

	t.Run("Should refuse to resume a submitted application", func(t *testing.T) {
		drafts := new(MockDraftUsecase)
		app := draftApp(7, "cand-1", int64p(10))
		app.Status = domain.ApplicationStatusSubmitted
		drafts.On("GetDetail", mock.Anything, "cand-1", int64(7)).Return(draftDetail(app), nil)

		_, err := newWizard(drafts, new(MockJobRepo)).Start(ctx, "cand-1", nil, int64p(7))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "no longer be edited")
	})
}

func TestWizardNext(t *testing.T) {
	ctx := context.Background()

	t.Run("Should require a job before leaving job selection", func(t *testing.T) {
		wiz := newWizard(new(MockDraftUsecase), new(MockJobRepo))
		state, err := wiz.Start(ctx, "cand-1", nil, nil)
		assert.NoError(t, err)

		_, err = wiz.Next(ctx, "cand-1", state.SessionID, &domain.StepPayload{})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Select a job")
	})

	t.Run("Should create the draft when a job is picked on the first step", func(t *testing.T) {
		drafts := new(MockDraftUsecase)
		app := draftApp(1, "cand-1", int64p(10))
		drafts.On("GetOrCreateDraft", mock.Anything, "cand-1", int64p(10)).Return(app, nil)
		drafts.On("GetDetail", mock.Anything, "cand-1", int64(1)).Return(draftDetail(app), nil)

		wiz := newWizard(drafts, new(MockJobRepo))
		state, err := wiz.Start(ctx, "cand-1", nil, nil)
		assert.NoError(t, err)

		state, err = wiz.Next(ctx, "cand-1", state.SessionID, &domain.StepPayload{JobID: int64p(10)})
		assert.NoError(t, err)
		assert.Equal(t, domain.StepTradeInfo, state.CurrentStep)
		assert.Equal(t, int64(1), state.ApplicationID)
		assert.True(t, state.JobPinned)
	})

	t.Run("Should stay on trade info until a trade is selected", func(t *testing.T) {
		drafts := new(MockDraftUsecase)
		app := draftApp(1, "cand-1", int64p(10))
		drafts.On("GetOrCreateDraft", mock.Anything, "cand-1", int64p(10)).Return(app, nil)
		drafts.On("GetDetail", mock.Anything, "cand-1", int64(1)).Return(draftDetail(app), nil)

		wiz := newWizard(drafts, new(MockJobRepo))
		state, err := wiz.Start(ctx, "cand-1", int64p(10), nil)
		assert.NoError(t, err)

		_, err = wiz.Next(ctx, "cand-1", state.SessionID, &domain.StepPayload{Countries: []string{"UK"}})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "at least one trade")

		// Still on the same step after the rejection.
		drafts.On("SavePreferences", mock.Anything, "cand-1", int64(1), []string{"UK"}, []string{"Welding"}).Return(nil)
		state, err = wiz.Next(ctx, "cand-1", state.SessionID, &domain.StepPayload{
			Countries: []string{"UK"}, Trades: []string{"Welding"},
		})
		assert.NoError(t, err)
		assert.Equal(t, domain.StepPersonalInfo, state.CurrentStep)
	})

	t.Run("Should not advance past the final step", func(t *testing.T) {
		drafts := new(MockDraftUsecase)
		app := draftApp(1, "cand-1", int64p(10))
		drafts.On("GetOrCreateDraft", mock.Anything, "cand-1", int64p(10)).Return(app, nil)
		drafts.On("GetDetail", mock.Anything, "cand-1", int64(1)).Return(draftDetail(app), nil)
		drafts.On("SavePreferences", mock.Anything, "cand-1", int64(1), mock.Anything, mock.Anything).Return(nil)
		drafts.On("SavePersonalInfo", mock.Anything, "cand-1", int64(1), mock.Anything, false).Return(nil)

		wiz := newWizard(drafts, new(MockJobRepo))
		state, err := wiz.Start(ctx, "cand-1", int64p(10), nil)
		assert.NoError(t, err)

		state, err = wiz.Next(ctx, "cand-1", state.SessionID, &domain.StepPayload{Trades: []string{"Welding"}})
		assert.NoError(t, err)
		state, err = wiz.Next(ctx, "cand-1", state.SessionID, &domain.StepPayload{PersonalInfo: &domain.PersonalInfoInput{}})
		assert.NoError(t, err)
		state, err = wiz.Next(ctx, "cand-1", state.SessionID, nil) // experience
		assert.NoError(t, err)
		state, err = wiz.Next(ctx, "cand-1", state.SessionID, nil) // education
		assert.NoError(t, err)
		assert.Equal(t, domain.StepDocuments, state.CurrentStep)

		_, err = wiz.Next(ctx, "cand-1", state.SessionID, nil)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "submit the application instead")
	})

	t.Run("Should advance once when the same step is submitted twice concurrently", func(t *testing.T) {
		drafts := new(MockDraftUsecase)
		app := draftApp(1, "cand-1", int64p(10))
		drafts.On("GetOrCreateDraft", mock.Anything, "cand-1", int64p(10)).Return(app, nil)
		drafts.On("GetDetail", mock.Anything, "cand-1", int64(1)).Return(draftDetail(app), nil)
		drafts.On("SavePreferences", mock.Anything, "cand-1", int64(1), mock.Anything, mock.Anything).Return(nil)

		wiz := newWizard(drafts, new(MockJobRepo))
		state, err := wiz.Start(ctx, "cand-1", int64p(10), nil)
		assert.NoError(t, err)

		// A double-clicked Next: both requests carry the trade info payload.
		// The first one through saves and advances; the second finds itself on
		// personal info and fails that step's validation instead of skipping it.
		errs := make(chan error, 2)
		var wg sync.WaitGroup
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := wiz.Next(ctx, "cand-1", state.SessionID, &domain.StepPayload{Trades: []string{"Welding"}})
				errs <- err
			}()
		}
		wg.Wait()
		close(errs)

		var failures int
		for err := range errs {
			if err != nil {
				failures++
				assert.Contains(t, err.Error(), "Personal information is required")
			}
		}
		assert.Equal(t, 1, failures)
		drafts.AssertNumberOfCalls(t, "SavePreferences", 1)

		final, err := wiz.Back(ctx, "cand-1", state.SessionID)
		assert.NoError(t, err)
		assert.Equal(t, domain.StepTradeInfo, final.CurrentStep)
	})

	t.Run("Should hide sessions from other candidates", func(t *testing.T) {
		wiz := newWizard(new(MockDraftUsecase), new(MockJobRepo))
		state, err := wiz.Start(ctx, "cand-1", nil, nil)
		assert.NoError(t, err)

		_, err = wiz.Next(ctx, "intruder", state.SessionID, nil)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "session not found")
	})
}

func TestWizardBack(t *testing.T) {
	ctx := context.Background()

	t.Run("Should step backwards without re-validating", func(t *testing.T) {
		drafts := new(MockDraftUsecase)
		app := draftApp(1, "cand-1", int64p(10))
		drafts.On("GetOrCreateDraft", mock.Anything, "cand-1", int64p(10)).Return(app, nil)
		drafts.On("GetDetail", mock.Anything, "cand-1", int64(1)).Return(draftDetail(app), nil)
		drafts.On("SavePreferences", mock.Anything, "cand-1", int64(1), mock.Anything, mock.Anything).Return(nil)

		wiz := newWizard(drafts, new(MockJobRepo))
		state, err := wiz.Start(ctx, "cand-1", int64p(10), nil)
		assert.NoError(t, err)
		state, err = wiz.Next(ctx, "cand-1", state.SessionID, &domain.StepPayload{Trades: []string{"Welding"}})
		assert.NoError(t, err)
		assert.Equal(t, domain.StepPersonalInfo, state.CurrentStep)

		state, err = wiz.Back(ctx, "cand-1", state.SessionID)
		assert.NoError(t, err)
		assert.Equal(t, domain.StepTradeInfo, state.CurrentStep)

		// First step: Back stays put.
		state, err = wiz.Back(ctx, "cand-1", state.SessionID)
		assert.NoError(t, err)
		assert.Equal(t, domain.StepTradeInfo, state.CurrentStep)
	})
}

func TestWizardSaveAndClose(t *testing.T) {
	ctx := context.Background()

	t.Run("Should persist a half-filled personal info step and end the session", func(t *testing.T) {
		drafts := new(MockDraftUsecase)
		app := draftApp(1, "cand-1", int64p(10))
		drafts.On("GetOrCreateDraft", mock.Anything, "cand-1", int64p(10)).Return(app, nil)
		drafts.On("GetDetail", mock.Anything, "cand-1", int64(1)).Return(draftDetail(app), nil)
		drafts.On("SavePreferences", mock.Anything, "cand-1", int64(1), mock.Anything, mock.Anything).Return(nil)
		drafts.On("SavePersonalInfo", mock.Anything, "cand-1", int64(1),
			mock.MatchedBy(func(in *domain.PersonalInfoInput) bool { return in.FirstName == "Ali" }), true).Return(nil)

		wiz := newWizard(drafts, new(MockJobRepo))
		state, err := wiz.Start(ctx, "cand-1", int64p(10), nil)
		assert.NoError(t, err)
		state, err = wiz.Next(ctx, "cand-1", state.SessionID, &domain.StepPayload{Trades: []string{"Welding"}})
		assert.NoError(t, err)

		err = wiz.SaveAndClose(ctx, "cand-1", state.SessionID, &domain.StepPayload{
			PersonalInfo: &domain.PersonalInfoInput{FirstName: "Ali"},
		})
		assert.NoError(t, err)
		drafts.AssertExpectations(t)

		// Session is gone.
		_, err = wiz.Next(ctx, "cand-1", state.SessionID, nil)
		assert.Error(t, err)
	})

	t.Run("Should keep a confirmed pending experience row and discard an unconfirmed one", func(t *testing.T) {
		pending := &domain.ExperienceInput{EmployerName: "Descon Engineering", JobTitle: "Welder"}

		setup := func() (domain.WizardUsecase, *MockDraftUsecase, string) {
			drafts := new(MockDraftUsecase)
			app := draftApp(1, "cand-1", int64p(10))
			drafts.On("GetOrCreateDraft", mock.Anything, "cand-1", int64p(10)).Return(app, nil)
			drafts.On("GetDetail", mock.Anything, "cand-1", int64(1)).Return(draftDetail(app), nil)
			drafts.On("SavePreferences", mock.Anything, "cand-1", int64(1), mock.Anything, mock.Anything).Return(nil)
			drafts.On("SavePersonalInfo", mock.Anything, "cand-1", int64(1), mock.Anything, false).Return(nil)
			drafts.On("SaveExperience", mock.Anything, "cand-1", int64(1), pending).
				Return(&domain.Experience{ID: 5, ApplicationID: 1}, nil)

			wiz := newWizard(drafts, new(MockJobRepo))
			state, err := wiz.Start(ctx, "cand-1", int64p(10), nil)
			assert.NoError(t, err)
			state, err = wiz.Next(ctx, "cand-1", state.SessionID, &domain.StepPayload{Trades: []string{"Welding"}})
			assert.NoError(t, err)
			state, err = wiz.Next(ctx, "cand-1", state.SessionID, &domain.StepPayload{PersonalInfo: &domain.PersonalInfoInput{}})
			assert.NoError(t, err)
			assert.Equal(t, domain.StepExperience, state.CurrentStep)
			return wiz, drafts, state.SessionID
		}

		wiz, drafts, sessionID := setup()
		err := wiz.SaveAndClose(ctx, "cand-1", sessionID, &domain.StepPayload{
			PendingExperience: pending, PendingConfirmed: true,
		})
		assert.NoError(t, err)
		drafts.AssertCalled(t, "SaveExperience", mock.Anything, "cand-1", int64(1), pending)

		wiz, drafts, sessionID = setup()
		err = wiz.SaveAndClose(ctx, "cand-1", sessionID, &domain.StepPayload{
			PendingExperience: pending, PendingConfirmed: false,
		})
		assert.NoError(t, err)
		drafts.AssertNotCalled(t, "SaveExperience", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Should create the draft when closing before one exists", func(t *testing.T) {
		drafts := new(MockDraftUsecase)
		app := draftApp(3, "cand-1", nil)
		drafts.On("GetOrCreateDraft", mock.Anything, "cand-1", (*int64)(nil)).Return(app, nil)

		wiz := newWizard(drafts, new(MockJobRepo))
		state, err := wiz.Start(ctx, "cand-1", nil, nil)
		assert.NoError(t, err)

		err = wiz.SaveAndClose(ctx, "cand-1", state.SessionID, nil)
		assert.NoError(t, err)
		drafts.AssertCalled(t, "GetOrCreateDraft", mock.Anything, "cand-1", (*int64)(nil))
	})
}

func TestWizardExit(t *testing.T) {
	ctx := context.Background()

	t.Run("Should require confirmation before discarding", func(t *testing.T) {
		wiz := newWizard(new(MockDraftUsecase), new(MockJobRepo))
		state, err := wiz.Start(ctx, "cand-1", nil, nil)
		assert.NoError(t, err)

		err = wiz.Exit(ctx, "cand-1", state.SessionID, false)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "confirmation")

		// The session survives a declined exit.
		_, err = wiz.Back(ctx, "cand-1", state.SessionID)
		assert.NoError(t, err)

		err = wiz.Exit(ctx, "cand-1", state.SessionID, true)
		assert.NoError(t, err)
		_, err = wiz.Back(ctx, "cand-1", state.SessionID)
		assert.Error(t, err)
	})
}
