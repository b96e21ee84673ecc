package domain

import "context"

// Step identifies one screen of the application wizard.
type Step string

const (
	StepJobSelection Step = "job_selection"
	StepTradeInfo    Step = "trade_info"
	StepPersonalInfo Step = "personal_info"
	StepExperience   Step = "experience"
	StepEducation    Step = "education"
	StepDocuments    Step = "documents"
)

// WizardSteps returns the full step sequence in order. Sessions entered with
// a job already chosen skip StepJobSelection.
func WizardSteps() []Step {
	return []Step{
		StepJobSelection, StepTradeInfo, StepPersonalInfo,
		StepExperience, StepEducation, StepDocuments,
	}
}

// StepPayload carries the data for the step being validated/persisted.
// Only the field matching the current step is consulted.
type StepPayload struct {
	JobID *int64 `json:"job_id,omitempty"`

	Countries []string `json:"countries_preference,omitempty"`
	Trades    []string `json:"trades_preference,omitempty"`

	PersonalInfo *PersonalInfoInput `json:"personal_info,omitempty"`

	// Experience/Education rows are persisted individually as they are added;
	// PendingExperience/PendingEducation carry a not-yet-added row that
	// Save & Close offers to keep (PendingConfirmed) or discard.
	PendingExperience *ExperienceInput `json:"pending_experience,omitempty"`
	PendingEducation  *EducationInput  `json:"pending_education,omitempty"`
	PendingConfirmed  bool             `json:"pending_confirmed,omitempty"`

	Documents *DocumentSet `json:"documents,omitempty"`
}

// WizardState is the client-visible session snapshot.
type WizardState struct {
	SessionID     string             `json:"session_id"`
	ApplicationID int64              `json:"application_id,omitempty"`
	JobID         *int64             `json:"job_id,omitempty"`
	JobPinned     bool               `json:"job_pinned"`
	CurrentStep   Step               `json:"current_step"`
	Steps         []Step             `json:"steps"`
	Detail        *ApplicationDetail `json:"detail,omitempty"`
}

// WizardUsecase drives the step sequence (the step controller).
type WizardUsecase interface {
	Start(ctx context.Context, candidateID string, jobID *int64, applicationID *int64) (*WizardState, error)
	Next(ctx context.Context, candidateID, sessionID string, payload *StepPayload) (*WizardState, error)
	Back(ctx context.Context, candidateID, sessionID string) (*WizardState, error)
	// SaveAndClose persists the current step regardless of validation
	// completeness and tears the session down.
	SaveAndClose(ctx context.Context, candidateID, sessionID string, payload *StepPayload) error
	// Exit discards in-progress edits; requires an explicit confirmation.
	Exit(ctx context.Context, candidateID, sessionID string, confirmed bool) error
}
