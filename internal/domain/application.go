package domain

import (
	"context"
	"time"
)

// Application status constants.
// draft → submitted is the only transition the candidate engine performs;
// verified/approved/rejected are written by the admin back office.
const (
	ApplicationStatusDraft     = "draft"
	ApplicationStatusSubmitted = "submitted"
	ApplicationStatusVerified  = "verified"
	ApplicationStatusApproved  = "approved"
	ApplicationStatusRejected  = "rejected"
)

// Section names an independently persisted sub-record of an application.
type Section string

const (
	SectionPreferences  Section = "trade_preferences"
	SectionPersonalInfo Section = "personal_info"
	SectionExperience   Section = "experience"
	SectionEducation    Section = "education"
	SectionDocuments    Section = "documents"
)

// Application is the central aggregate: one per (candidate, job) attempt.
// JobID is nil for a general (no specific posting) application.
type Application struct {
	ID          int64      `json:"id"`
	CandidateID string     `json:"candidate_id"`
	JobID       *int64     `json:"job_id,omitempty"`
	Status      string     `json:"status"`
	AppliedDate *time.Time `json:"applied_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Joined data for list responses
	JobTitle *string `json:"job_title,omitempty"`
}

// IsDraft reports whether the application is still editable by the candidate.
func (a *Application) IsDraft() bool {
	return a.Status == ApplicationStatusDraft
}

// ApplicationDetail aggregates every section for wizard pre-loading.
type ApplicationDetail struct {
	Application *Application         `json:"application"`
	Profile     *PersonalProfile     `json:"profile,omitempty"`
	Experiences []Experience         `json:"experiences"`
	Educations  []Education          `json:"educations"`
	Documents   *DocumentSet         `json:"documents,omitempty"`
	Preferences *PreferenceSelection `json:"preferences,omitempty"`
}

// ApplicationRepository is the persistence boundary for the aggregate.
// Every section method is scoped to an application id; implementations must
// never write outside the given id.
type ApplicationRepository interface {
	// GetOrCreateDraft atomically finds the open draft for (candidate, job) or
	// inserts one. The bool result is true when a new row was created.
	// Must be safe under concurrent invocation (conditional insert, not
	// check-then-insert).
	GetOrCreateDraft(ctx context.Context, candidateID string, jobID *int64) (*Application, bool, error)
	GetByID(ctx context.Context, id int64) (*Application, error)
	ListByCandidate(ctx context.Context, candidateID string) ([]Application, error)

	// HasNonDraft reports whether a non-draft application exists for the pair,
	// excluding excludeID.
	HasNonDraft(ctx context.Context, candidateID string, jobID *int64, excludeID int64) (bool, error)
	// MarkSubmitted flips draft → submitted and stamps applied_date. The update
	// is guarded on status = draft; zero rows affected means the draft was
	// already finalized elsewhere.
	MarkSubmitted(ctx context.Context, id int64, appliedDate time.Time) error

	GetProfile(ctx context.Context, applicationID int64) (*PersonalProfile, error)
	UpsertProfile(ctx context.Context, p *PersonalProfile) error

	ListExperiences(ctx context.Context, applicationID int64) ([]Experience, error)
	UpsertExperience(ctx context.Context, e *Experience) error
	DeleteExperience(ctx context.Context, applicationID, id int64) error

	ListEducations(ctx context.Context, applicationID int64) ([]Education, error)
	UpsertEducation(ctx context.Context, e *Education) error
	DeleteEducation(ctx context.Context, applicationID, id int64) error

	GetDocuments(ctx context.Context, applicationID int64) (*DocumentSet, error)
	SaveDocuments(ctx context.Context, ds *DocumentSet) error

	GetPreferences(ctx context.Context, applicationID int64) (*PreferenceSelection, error)
	SavePreferences(ctx context.Context, sel *PreferenceSelection) error
}

// DraftUsecase owns draft lifecycle and section routing (the draft manager).
type DraftUsecase interface {
	GetOrCreateDraft(ctx context.Context, candidateID string, jobID *int64) (*Application, error)
	GetDetail(ctx context.Context, candidateID string, applicationID int64) (*ApplicationDetail, error)
	ListApplications(ctx context.Context, candidateID string) ([]Application, error)
	// AppliedJobIDs returns job ids the candidate already has a non-draft
	// application for, for "already applied" computation on the dashboard.
	AppliedJobIDs(ctx context.Context, candidateID string) (map[int64]bool, error)

	SavePreferences(ctx context.Context, candidateID string, applicationID int64, countries, trades []string) error
	// SavePersonalInfo with partial=true skips completeness validation so
	// Save & Close can persist half-filled drafts.
	SavePersonalInfo(ctx context.Context, candidateID string, applicationID int64, in *PersonalInfoInput, partial bool) error
	SaveExperience(ctx context.Context, candidateID string, applicationID int64, in *ExperienceInput) (*Experience, error)
	DeleteExperience(ctx context.Context, candidateID string, applicationID, id int64, confirmed bool) error
	SaveEducation(ctx context.Context, candidateID string, applicationID int64, in *EducationInput) (*Education, error)
	DeleteEducation(ctx context.Context, candidateID string, applicationID, id int64, confirmed bool) error
	SaveDocuments(ctx context.Context, candidateID string, applicationID int64, ds *DocumentSet) error
}

// SubmissionUsecase finalizes a draft into a submitted application.
type SubmissionUsecase interface {
	Submit(ctx context.Context, candidateID string, applicationID int64) error
}
