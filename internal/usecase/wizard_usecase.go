package usecase

import (
	"context"
	"sync"

	"recruitment-portal-backend/internal/domain"
	"recruitment-portal-backend/pkg/apperror"

	"github.com/google/uuid"
)

// wizardSession is the mutable per-workflow state: current step plus what is
// needed to route persistence. Scoped to one candidate's run through the
// wizard and torn down on exit; nothing survives across candidates.
//
// mu serializes whole operations on the session. Without it two overlapping
// requests (a double-clicked Next, two tabs) could both validate the same
// step and both advance, skipping the validation of the step in between.
type wizardSession struct {
	mu            sync.Mutex
	id            string
	candidateID   string
	applicationID int64 // zero until a draft exists
	jobID         *int64
	jobPinned     bool
	steps         []domain.Step
	index         int
}

func (s *wizardSession) current() domain.Step {
	return s.steps[s.index]
}

type wizardUsecase struct {
	drafts domain.DraftUsecase
	jobs   domain.JobRepository
	engine *PreferenceEngine

	mu       sync.Mutex
	sessions map[string]*wizardSession
}

// NewWizardUsecase creates the step controller driving the application
// wizard: it gates navigation on per-step validation and delegates all
// persistence through the draft manager.
func NewWizardUsecase(drafts domain.DraftUsecase, jobs domain.JobRepository, engine *PreferenceEngine) domain.WizardUsecase {
	return &wizardUsecase{
		drafts:   drafts,
		jobs:     jobs,
		engine:   engine,
		sessions: make(map[string]*wizardSession),
	}
}

// Start opens a wizard session. Entering with a job chosen (apply-to-this-job
// action) or with an existing application pins the job and skips the job
// selection step; editing pre-loads every section from the persisted
// application instead of account defaults.
func (uc *wizardUsecase) Start(ctx context.Context, candidateID string, jobID *int64, applicationID *int64) (*domain.WizardState, error) {
	session := &wizardSession{
		id:          uuid.New().String(),
		candidateID: candidateID,
		steps:       domain.WizardSteps(),
	}

	switch {
	case applicationID != nil:
		detail, err := uc.drafts.GetDetail(ctx, candidateID, *applicationID)
		if err != nil {
			return nil, err
		}
		if !detail.Application.IsDraft() {
			return nil, apperror.Conflict("This application has already been submitted and can no longer be edited")
		}
		session.applicationID = detail.Application.ID
		session.jobID = detail.Application.JobID
		session.jobPinned = true
		session.steps = session.steps[1:] // skip job selection

	case jobID != nil:
		app, err := uc.drafts.GetOrCreateDraft(ctx, candidateID, jobID)
		if err != nil {
			return nil, err
		}
		session.applicationID = app.ID
		session.jobID = jobID
		session.jobPinned = true
		session.steps = session.steps[1:]
	}

	// Build the initial state before the session becomes reachable so no
	// other request can observe it mid-construction.
	state, err := uc.buildState(ctx, session)
	if err != nil {
		return nil, err
	}

	uc.mu.Lock()
	uc.sessions[session.id] = session
	uc.mu.Unlock()

	return state, nil
}

// Next validates the current step, persists its data through the draft
// manager and only then advances. A validation or save failure leaves the
// session on the same step.
func (uc *wizardUsecase) Next(ctx context.Context, candidateID, sessionID string, payload *domain.StepPayload) (*domain.WizardState, error) {
	session, err := uc.session(candidateID, sessionID)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()

	if payload == nil {
		payload = &domain.StepPayload{}
	}

	switch session.current() {
	case domain.StepJobSelection:
		if payload.JobID == nil {
			return nil, apperror.BadRequest("Select a job to continue")
		}
		app, err := uc.drafts.GetOrCreateDraft(ctx, candidateID, payload.JobID)
		if err != nil {
			return nil, err
		}
		session.applicationID = app.ID
		session.jobID = payload.JobID
		session.jobPinned = true

	case domain.StepTradeInfo:
		if len(payload.Trades) == 0 {
			return nil, apperror.BadRequest("Select at least one trade to continue")
		}
		if err := uc.drafts.SavePreferences(ctx, candidateID, session.applicationID, payload.Countries, payload.Trades); err != nil {
			return nil, err
		}

	case domain.StepPersonalInfo:
		if payload.PersonalInfo == nil {
			return nil, apperror.BadRequest("Personal information is required")
		}
		if err := uc.drafts.SavePersonalInfo(ctx, candidateID, session.applicationID, payload.PersonalInfo, false); err != nil {
			return nil, err
		}

	case domain.StepExperience, domain.StepEducation:
		// Rows are persisted individually as they are added; the step itself
		// has no completeness requirement.

	case domain.StepDocuments:
		return nil, apperror.BadRequest("Already at the last step; submit the application instead")
	}

	session.index++
	return uc.buildState(ctx, session)
}

// Back moves to the previous step without re-validating or re-persisting.
func (uc *wizardUsecase) Back(ctx context.Context, candidateID, sessionID string) (*domain.WizardState, error) {
	session, err := uc.session(candidateID, sessionID)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()

	if session.index > 0 {
		session.index--
	}
	return uc.buildState(ctx, session)
}

// SaveAndClose persists the current step's data regardless of validation
// completeness (drafts are intentionally allowed to be incomplete), creating
// the draft first if one does not yet exist, then ends the session.
func (uc *wizardUsecase) SaveAndClose(ctx context.Context, candidateID, sessionID string, payload *domain.StepPayload) error {
	session, err := uc.session(candidateID, sessionID)
	if err != nil {
		return err
	}
	session.mu.Lock()
	defer session.mu.Unlock()

	if payload == nil {
		payload = &domain.StepPayload{}
	}

	if session.applicationID == 0 {
		jobID := session.jobID
		if jobID == nil {
			jobID = payload.JobID
		}
		app, err := uc.drafts.GetOrCreateDraft(ctx, candidateID, jobID)
		if err != nil {
			return err
		}
		session.applicationID = app.ID
	}

	switch session.current() {
	case domain.StepTradeInfo:
		if payload.Countries != nil || payload.Trades != nil {
			if err := uc.drafts.SavePreferences(ctx, candidateID, session.applicationID, payload.Countries, payload.Trades); err != nil {
				return err
			}
		}

	case domain.StepPersonalInfo:
		if payload.PersonalInfo != nil {
			if err := uc.drafts.SavePersonalInfo(ctx, candidateID, session.applicationID, payload.PersonalInfo, true); err != nil {
				return err
			}
		}

	case domain.StepExperience:
		// An in-progress, not-yet-added row is kept only when non-empty and
		// the candidate confirmed keeping it; declining discards it.
		if payload.PendingExperience != nil && !payload.PendingExperience.IsEmpty() && payload.PendingConfirmed {
			if _, err := uc.drafts.SaveExperience(ctx, candidateID, session.applicationID, payload.PendingExperience); err != nil {
				return err
			}
		}

	case domain.StepEducation:
		if payload.PendingEducation != nil && !payload.PendingEducation.IsEmpty() && payload.PendingConfirmed {
			if _, err := uc.drafts.SaveEducation(ctx, candidateID, session.applicationID, payload.PendingEducation); err != nil {
				return err
			}
		}

	case domain.StepDocuments:
		if payload.Documents != nil {
			if err := uc.drafts.SaveDocuments(ctx, candidateID, session.applicationID, payload.Documents); err != nil {
				return err
			}
		}
	}

	uc.teardown(sessionID)
	return nil
}

// Exit discards the step's in-progress edits. Destructive, so it requires
// explicit confirmation before the session is torn down.
func (uc *wizardUsecase) Exit(ctx context.Context, candidateID, sessionID string, confirmed bool) error {
	if _, err := uc.session(candidateID, sessionID); err != nil {
		return err
	}
	if !confirmed {
		return apperror.BadRequest("Exiting discards unsaved changes and requires confirmation")
	}
	uc.teardown(sessionID)
	return nil
}

func (uc *wizardUsecase) session(candidateID, sessionID string) (*wizardSession, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	session, ok := uc.sessions[sessionID]
	if !ok || session.candidateID != candidateID {
		return nil, apperror.NotFound("Wizard session not found")
	}
	return session, nil
}

func (uc *wizardUsecase) teardown(sessionID string) {
	uc.mu.Lock()
	delete(uc.sessions, sessionID)
	uc.mu.Unlock()
}

func (uc *wizardUsecase) buildState(ctx context.Context, session *wizardSession) (*domain.WizardState, error) {
	state := &domain.WizardState{
		SessionID:     session.id,
		ApplicationID: session.applicationID,
		JobID:         session.jobID,
		JobPinned:     session.jobPinned,
		CurrentStep:   session.current(),
		Steps:         session.steps,
	}

	if session.applicationID != 0 {
		detail, err := uc.drafts.GetDetail(ctx, session.candidateID, session.applicationID)
		if err != nil {
			return nil, err
		}
		state.Detail = detail
	}
	return state, nil
}
