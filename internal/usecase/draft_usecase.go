package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"recruitment-portal-backend/internal/domain"
	"recruitment-portal-backend/pkg/apperror"
	"recruitment-portal-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/singleflight"
)

type draftUsecase struct {
	appRepo       domain.ApplicationRepository
	candidateRepo domain.CandidateRepository
	jobRepo       domain.JobRepository
	engine        *PreferenceEngine
	validate      *validator.Validate
	group         singleflight.Group
}

// NewDraftUsecase creates the draft manager: it owns draft lifecycle and
// routes every section save to the correct application id.
func NewDraftUsecase(
	appRepo domain.ApplicationRepository,
	candidateRepo domain.CandidateRepository,
	jobRepo domain.JobRepository,
	engine *PreferenceEngine,
	validate *validator.Validate,
) domain.DraftUsecase {
	return &draftUsecase{
		appRepo:       appRepo,
		candidateRepo: candidateRepo,
		jobRepo:       jobRepo,
		engine:        engine,
		validate:      validate,
	}
}

// GetOrCreateDraft returns the one open draft for (candidate, job), creating
// it when absent. The repository upsert is atomic; the single-flight group on
// top collapses concurrent requests from the same process (two tabs re-entering
// the flow) onto one round trip.
func (uc *draftUsecase) GetOrCreateDraft(ctx context.Context, candidateID string, jobID *int64) (*domain.Application, error) {
	key := draftKey(candidateID, jobID)
	result, err, _ := uc.group.Do(key, func() (interface{}, error) {
		if jobID != nil {
			if _, err := uc.jobRepo.GetByID(ctx, *jobID); err != nil {
				return nil, apperror.NotFound("Job not found")
			}
		}

		app, created, err := uc.appRepo.GetOrCreateDraft(ctx, candidateID, jobID)
		if err != nil {
			return nil, apperror.Internal(err)
		}

		if created {
			if err := uc.bootstrapSections(ctx, candidateID, app.ID); err != nil {
				return nil, apperror.Internal(err)
			}
		}
		return app, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*domain.Application), nil
}

// bootstrapSections seeds a brand-new draft: every section starts empty
// except name/email copied from the candidate account, so nothing leaks in
// from another job's draft.
func (uc *draftUsecase) bootstrapSections(ctx context.Context, candidateID string, applicationID int64) error {
	candidate, err := uc.candidateRepo.GetByID(ctx, candidateID)
	if err != nil {
		return err
	}

	first, last := splitName(candidate.Name)
	profile := &domain.PersonalProfile{
		ApplicationID: applicationID,
		FirstName:     first,
		LastName:      last,
		EmailAddress:  candidate.Email,
	}
	if err := uc.appRepo.UpsertProfile(ctx, profile); err != nil {
		return err
	}

	if err := uc.appRepo.SavePreferences(ctx, &domain.PreferenceSelection{
		ApplicationID: applicationID,
		Countries:     []string{},
		Trades:        []string{},
	}); err != nil {
		return err
	}

	return uc.appRepo.SaveDocuments(ctx, &domain.DocumentSet{
		ApplicationID:   applicationID,
		AdditionalFiles: []domain.AdditionalFile{},
	})
}

// GetDetail loads the application with every section for wizard pre-loading.
// When a job is attached, the stored preference selection is reconciled
// against the job's current allowed lists so stale entries are purged, never
// silently kept.
func (uc *draftUsecase) GetDetail(ctx context.Context, candidateID string, applicationID int64) (*domain.ApplicationDetail, error) {
	app, err := uc.ownedApplication(ctx, candidateID, applicationID)
	if err != nil {
		return nil, err
	}

	detail := &domain.ApplicationDetail{Application: app}

	if profile, err := uc.appRepo.GetProfile(ctx, applicationID); err == nil {
		detail.Profile = profile
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.Internal(err)
	}

	if detail.Experiences, err = uc.appRepo.ListExperiences(ctx, applicationID); err != nil {
		return nil, apperror.Internal(err)
	}
	if detail.Educations, err = uc.appRepo.ListEducations(ctx, applicationID); err != nil {
		return nil, apperror.Internal(err)
	}

	if docs, err := uc.appRepo.GetDocuments(ctx, applicationID); err == nil {
		detail.Documents = docs
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.Internal(err)
	}

	sel, err := uc.appRepo.GetPreferences(ctx, applicationID)
	if errors.Is(err, domain.ErrNotFound) {
		sel = &domain.PreferenceSelection{ApplicationID: applicationID, Countries: []string{}, Trades: []string{}}
	} else if err != nil {
		return nil, apperror.Internal(err)
	}

	if app.JobID != nil {
		job, err := uc.jobRepo.GetByID(ctx, *app.JobID)
		if err == nil {
			before := len(sel.Countries) + len(sel.Trades)
			uc.engine.ReconcileWithJob(sel, job)
			if app.IsDraft() && before != len(sel.Countries)+len(sel.Trades) {
				if err := uc.appRepo.SavePreferences(ctx, sel); err != nil {
					return nil, apperror.Internal(err)
				}
			}
		}
	}
	detail.Preferences = sel

	return detail, nil
}

func (uc *draftUsecase) ListApplications(ctx context.Context, candidateID string) ([]domain.Application, error) {
	apps, err := uc.appRepo.ListByCandidate(ctx, candidateID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return apps, nil
}

// AppliedJobIDs computes the "already applied" job set for the dashboard.
func (uc *draftUsecase) AppliedJobIDs(ctx context.Context, candidateID string) (map[int64]bool, error) {
	apps, err := uc.appRepo.ListByCandidate(ctx, candidateID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	applied := make(map[int64]bool)
	for _, app := range apps {
		if app.JobID != nil && !app.IsDraft() {
			applied[*app.JobID] = true
		}
	}
	return applied, nil
}

// SavePreferences persists the preference section. Entries no longer in the
// job's allowed lists are dropped silently (the lists may have changed since
// selection); exceeding the maxima is a hard validation error.
func (uc *draftUsecase) SavePreferences(ctx context.Context, candidateID string, applicationID int64, countries, trades []string) error {
	app, err := uc.ownedDraft(ctx, candidateID, applicationID)
	if err != nil {
		return err
	}

	sel := &domain.PreferenceSelection{
		ApplicationID: applicationID,
		Countries:     dedupe(countries),
		Trades:        dedupe(trades),
	}

	if app.JobID != nil {
		job, err := uc.jobRepo.GetByID(ctx, *app.JobID)
		if err != nil {
			return apperror.NotFound("Job not found")
		}
		sel.Countries = keepAllowed(sel.Countries, job.Countries)
		sel.Trades = keepAllowed(sel.Trades, job.Trades)
		if err := uc.engine.Validate(sel.Countries, sel.Trades, job); err != nil {
			return apperror.BadRequest(capitalize(err.Error()))
		}
	}

	if err := uc.appRepo.SavePreferences(ctx, sel); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

// SavePersonalInfo validates and persists the personal info section. An
// email/confirmation mismatch never reaches the repository. partial=true
// (Save & Close) skips validation so incomplete drafts can be kept.
func (uc *draftUsecase) SavePersonalInfo(ctx context.Context, candidateID string, applicationID int64, in *domain.PersonalInfoInput, partial bool) error {
	if _, err := uc.ownedDraft(ctx, candidateID, applicationID); err != nil {
		return err
	}

	if !partial {
		if err := uc.validate.Struct(in); err != nil {
			return apperror.BadRequest(joinValidationErrors(err))
		}
	}

	profile := &domain.PersonalProfile{
		ApplicationID:        applicationID,
		FirstName:            in.FirstName,
		LastName:             in.LastName,
		GuardianName:         in.GuardianName,
		Gender:               in.Gender,
		BirthDate:            domain.NormalizeDate(in.BirthDate),
		NationalID:           in.NationalID,
		NationalIDIssueDate:  domain.NormalizeDate(in.NationalIDIssueDate),
		NationalIDExpiryDate: domain.NormalizeDate(in.NationalIDExpiryDate),
		PassportNumber:       in.PassportNumber,
		PassportIssueDate:    domain.NormalizeDate(in.PassportIssueDate),
		PassportExpiryDate:   domain.NormalizeDate(in.PassportExpiryDate),
		PresentAddress:       in.PresentAddress,
		PermanentAddress:     in.PermanentAddress,
		EmailAddress:         in.EmailAddress,
		MobileNumber:         in.MobileNumber,
		ProfileImageURL:      in.ProfileImageURL,
	}

	if err := uc.appRepo.UpsertProfile(ctx, profile); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

func (uc *draftUsecase) SaveExperience(ctx context.Context, candidateID string, applicationID int64, in *domain.ExperienceInput) (*domain.Experience, error) {
	if _, err := uc.ownedDraft(ctx, candidateID, applicationID); err != nil {
		return nil, err
	}

	if err := uc.validate.Struct(in); err != nil {
		return nil, apperror.BadRequest(joinValidationErrors(err))
	}

	exp := &domain.Experience{
		ID:            in.ID,
		ApplicationID: applicationID,
		EmployerName:  in.EmployerName,
		JobTitle:      in.JobTitle,
		Country:       in.Country,
		StartDate:     domain.NormalizeDate(in.StartDate),
		EndDate:       domain.NormalizeDate(in.EndDate),
	}
	if in.Description != "" {
		exp.Description = &in.Description
	}

	if err := uc.appRepo.UpsertExperience(ctx, exp); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Experience record not found")
		}
		return nil, apperror.Internal(err)
	}
	return exp, nil
}

func (uc *draftUsecase) DeleteExperience(ctx context.Context, candidateID string, applicationID, id int64, confirmed bool) error {
	if !confirmed {
		return apperror.BadRequest("Deleting an experience record requires confirmation")
	}
	if _, err := uc.ownedDraft(ctx, candidateID, applicationID); err != nil {
		return err
	}
	if err := uc.appRepo.DeleteExperience(ctx, applicationID, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.NotFound("Experience record not found")
		}
		return apperror.Internal(err)
	}
	return nil
}

func (uc *draftUsecase) SaveEducation(ctx context.Context, candidateID string, applicationID int64, in *domain.EducationInput) (*domain.Education, error) {
	if _, err := uc.ownedDraft(ctx, candidateID, applicationID); err != nil {
		return nil, err
	}

	if err := uc.validate.Struct(in); err != nil {
		return nil, apperror.BadRequest(joinValidationErrors(err))
	}

	edu := &domain.Education{
		ID:            in.ID,
		ApplicationID: applicationID,
		Institution:   in.Institution,
		DegreeTitle:   in.DegreeTitle,
		FieldOfStudy:  in.FieldOfStudy,
		StartDate:     domain.NormalizeDate(in.StartDate),
		EndDate:       domain.NormalizeDate(in.EndDate),
		Grade:         in.Grade,
	}

	if err := uc.appRepo.UpsertEducation(ctx, edu); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Education record not found")
		}
		return nil, apperror.Internal(err)
	}
	return edu, nil
}

func (uc *draftUsecase) DeleteEducation(ctx context.Context, candidateID string, applicationID, id int64, confirmed bool) error {
	if !confirmed {
		return apperror.BadRequest("Deleting an education record requires confirmation")
	}
	if _, err := uc.ownedDraft(ctx, candidateID, applicationID); err != nil {
		return err
	}
	if err := uc.appRepo.DeleteEducation(ctx, applicationID, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.NotFound("Education record not found")
		}
		return apperror.Internal(err)
	}
	return nil
}

func (uc *draftUsecase) SaveDocuments(ctx context.Context, candidateID string, applicationID int64, ds *domain.DocumentSet) error {
	if _, err := uc.ownedDraft(ctx, candidateID, applicationID); err != nil {
		return err
	}
	if len(ds.AdditionalFiles) > domain.MaxAdditionalFiles {
		return apperror.BadRequest(fmt.Sprintf("At most %d additional files are allowed", domain.MaxAdditionalFiles))
	}
	ds.ApplicationID = applicationID
	if err := uc.appRepo.SaveDocuments(ctx, ds); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

// ownedApplication fetches the application and checks candidate ownership.
func (uc *draftUsecase) ownedApplication(ctx context.Context, candidateID string, applicationID int64) (*domain.Application, error) {
	app, err := uc.appRepo.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Application not found")
		}
		return nil, apperror.Internal(err)
	}
	if app.CandidateID != candidateID {
		// Do not reveal the application exists
		return nil, apperror.NotFound("Application not found")
	}
	return app, nil
}

// ownedDraft additionally requires the application to still be editable.
func (uc *draftUsecase) ownedDraft(ctx context.Context, candidateID string, applicationID int64) (*domain.Application, error) {
	app, err := uc.ownedApplication(ctx, candidateID, applicationID)
	if err != nil {
		return nil, err
	}
	if !app.IsDraft() {
		return nil, apperror.Conflict("This application has already been submitted and can no longer be edited")
	}
	return app, nil
}

func draftKey(candidateID string, jobID *int64) string {
	if jobID == nil {
		return fmt.Sprintf("draft:%s:general", candidateID)
	}
	return fmt.Sprintf("draft:%s:%d", candidateID, *jobID)
}

func splitName(full string) (first, last string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

func dedupe(list []string) []string {
	out := make([]string, 0, len(list))
	seen := make(map[string]bool, len(list))
	for _, v := range list {
		if v != "" && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

func keepAllowed(current, allowed []string) []string {
	out := make([]string, 0, len(current))
	for _, v := range current {
		if containsString(allowed, v) {
			out = append(out, v)
		}
	}
	return out
}

func joinValidationErrors(err error) string {
	return strings.Join(validation.FormatErrorList(err), "; ")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
