package postgres

import (
	"context"
	"errors"
	"time"

	"recruitment-portal-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type applicationRepo struct {
	db *pgxpool.Pool
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db *pgxpool.Pool) domain.ApplicationRepository {
	return &applicationRepo{db: db}
}

// GetOrCreateDraft atomically finds or inserts the open draft for the
// (candidate, job) pair. Uniqueness is enforced by the partial unique index
// on (candidate_id, COALESCE(job_id, 0)) WHERE status = 'draft', so
// concurrent callers converge on one row. xmax = 0 distinguishes a fresh
// insert from a conflict hit.
func (r *applicationRepo) GetOrCreateDraft(ctx context.Context, candidateID string, jobID *int64) (*domain.Application, bool, error) {
	query := `
		INSERT INTO applications (candidate_id, job_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, now(), now())
		ON CONFLICT (candidate_id, COALESCE(job_id, 0)) WHERE status = 'draft'
		DO UPDATE SET updated_at = applications.updated_at
		RETURNING id, status, applied_date, created_at, updated_at, (xmax = 0) AS created`

	app := domain.Application{
		CandidateID: candidateID,
		JobID:       jobID,
	}
	var created bool
	err := r.db.QueryRow(ctx, query, candidateID, jobID, domain.ApplicationStatusDraft).Scan(
		&app.ID, &app.Status, &app.AppliedDate, &app.CreatedAt, &app.UpdatedAt, &created,
	)
	if err != nil {
		return nil, false, err
	}
	return &app, created, nil
}

// GetByID retrieves an application with its job title joined in
func (r *applicationRepo) GetByID(ctx context.Context, id int64) (*domain.Application, error) {
	query := `
		SELECT a.id, a.candidate_id, a.job_id, a.status, a.applied_date, a.created_at, a.updated_at,
			j.title AS job_title
		FROM applications a
		LEFT JOIN jobs j ON a.job_id = j.id
		WHERE a.id = $1`

	var app domain.Application
	err := r.db.QueryRow(ctx, query, id).Scan(
		&app.ID, &app.CandidateID, &app.JobID, &app.Status, &app.AppliedDate,
		&app.CreatedAt, &app.UpdatedAt, &app.JobTitle,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// ListByCandidate retrieves all applications for the dashboard, newest first
func (r *applicationRepo) ListByCandidate(ctx context.Context, candidateID string) ([]domain.Application, error) {
	query := `
		SELECT a.id, a.candidate_id, a.job_id, a.status, a.applied_date, a.created_at, a.updated_at,
			j.title AS job_title
		FROM applications a
		LEFT JOIN jobs j ON a.job_id = j.id
		WHERE a.candidate_id = $1
		ORDER BY a.updated_at DESC`

	rows, err := r.db.Query(ctx, query, candidateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var applications []domain.Application
	for rows.Next() {
		var app domain.Application
		if err := rows.Scan(
			&app.ID, &app.CandidateID, &app.JobID, &app.Status, &app.AppliedDate,
			&app.CreatedAt, &app.UpdatedAt, &app.JobTitle,
		); err != nil {
			return nil, err
		}
		applications = append(applications, app)
	}
	return applications, rows.Err()
}

// HasNonDraft checks for a submitted/terminal application on the same pair
func (r *applicationRepo) HasNonDraft(ctx context.Context, candidateID string, jobID *int64, excludeID int64) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM applications
			WHERE candidate_id = $1
				AND COALESCE(job_id, 0) = COALESCE($2::bigint, 0)
				AND status <> $3
				AND id <> $4
		)`
	var exists bool
	err := r.db.QueryRow(ctx, query, candidateID, jobID, domain.ApplicationStatusDraft, excludeID).Scan(&exists)
	return exists, err
}

// MarkSubmitted flips draft → submitted and stamps applied_date. Guarded on
// the current status so a lost race surfaces as zero rows, never a double
// submission.
func (r *applicationRepo) MarkSubmitted(ctx context.Context, id int64, appliedDate time.Time) error {
	query := `
		UPDATE applications
		SET status = $2, applied_date = $3, updated_at = $3
		WHERE id = $1 AND status = $4`
	result, err := r.db.Exec(ctx, query, id, domain.ApplicationStatusSubmitted, appliedDate, domain.ApplicationStatusDraft)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ---------------------------------------------------------------------------
// Personal profile section
// ---------------------------------------------------------------------------

func (r *applicationRepo) GetProfile(ctx context.Context, applicationID int64) (*domain.PersonalProfile, error) {
	query := `
		SELECT application_id, first_name, last_name, guardian_name, gender, birth_date,
			national_id, national_id_issue_date, national_id_expiry_date,
			passport_number, passport_issue_date, passport_expiry_date,
			present_address, permanent_address, email_address, mobile_number,
			profile_image_url, updated_at
		FROM application_profiles
		WHERE application_id = $1`

	var p domain.PersonalProfile
	err := r.db.QueryRow(ctx, query, applicationID).Scan(
		&p.ApplicationID, &p.FirstName, &p.LastName, &p.GuardianName, &p.Gender, &p.BirthDate,
		&p.NationalID, &p.NationalIDIssueDate, &p.NationalIDExpiryDate,
		&p.PassportNumber, &p.PassportIssueDate, &p.PassportExpiryDate,
		&p.PresentAddress, &p.PermanentAddress, &p.EmailAddress, &p.MobileNumber,
		&p.ProfileImageURL, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *applicationRepo) UpsertProfile(ctx context.Context, p *domain.PersonalProfile) error {
	query := `
		INSERT INTO application_profiles (
			application_id, first_name, last_name, guardian_name, gender, birth_date,
			national_id, national_id_issue_date, national_id_expiry_date,
			passport_number, passport_issue_date, passport_expiry_date,
			present_address, permanent_address, email_address, mobile_number,
			profile_image_url, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		ON CONFLICT (application_id) DO UPDATE SET
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			guardian_name = EXCLUDED.guardian_name,
			gender = EXCLUDED.gender,
			birth_date = EXCLUDED.birth_date,
			national_id = EXCLUDED.national_id,
			national_id_issue_date = EXCLUDED.national_id_issue_date,
			national_id_expiry_date = EXCLUDED.national_id_expiry_date,
			passport_number = EXCLUDED.passport_number,
			passport_issue_date = EXCLUDED.passport_issue_date,
			passport_expiry_date = EXCLUDED.passport_expiry_date,
			present_address = EXCLUDED.present_address,
			permanent_address = EXCLUDED.permanent_address,
			email_address = EXCLUDED.email_address,
			mobile_number = EXCLUDED.mobile_number,
			profile_image_url = EXCLUDED.profile_image_url,
			updated_at = EXCLUDED.updated_at`

	p.UpdatedAt = time.Now()
	_, err := r.db.Exec(ctx, query,
		p.ApplicationID, p.FirstName, p.LastName, p.GuardianName, p.Gender, p.BirthDate,
		p.NationalID, p.NationalIDIssueDate, p.NationalIDExpiryDate,
		p.PassportNumber, p.PassportIssueDate, p.PassportExpiryDate,
		p.PresentAddress, p.PermanentAddress, p.EmailAddress, p.MobileNumber,
		p.ProfileImageURL, p.UpdatedAt,
	)
	return err
}

// ---------------------------------------------------------------------------
// Experience section
// ---------------------------------------------------------------------------

func (r *applicationRepo) ListExperiences(ctx context.Context, applicationID int64) ([]domain.Experience, error) {
	query := `
		SELECT id, application_id, employer_name, job_title, country,
			start_date, end_date, description, created_at, updated_at
		FROM application_experiences
		WHERE application_id = $1
		ORDER BY created_at, id`

	rows, err := r.db.Query(ctx, query, applicationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var experiences []domain.Experience
	for rows.Next() {
		var e domain.Experience
		if err := rows.Scan(
			&e.ID, &e.ApplicationID, &e.EmployerName, &e.JobTitle, &e.Country,
			&e.StartDate, &e.EndDate, &e.Description, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, err
		}
		experiences = append(experiences, e)
	}
	return experiences, rows.Err()
}

// UpsertExperience inserts (ID zero) or updates one record. Updates are
// scoped to the application id; a mismatched pair affects zero rows and
// returns ErrNotFound rather than touching another application's data.
func (r *applicationRepo) UpsertExperience(ctx context.Context, e *domain.Experience) error {
	now := time.Now()
	e.UpdatedAt = now

	if e.ID == 0 {
		e.CreatedAt = now
		query := `
			INSERT INTO application_experiences
				(application_id, employer_name, job_title, country, start_date, end_date, description, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING id`
		return r.db.QueryRow(ctx, query,
			e.ApplicationID, e.EmployerName, e.JobTitle, e.Country,
			e.StartDate, e.EndDate, e.Description, e.CreatedAt, e.UpdatedAt,
		).Scan(&e.ID)
	}

	query := `
		UPDATE application_experiences
		SET employer_name = $3, job_title = $4, country = $5,
			start_date = $6, end_date = $7, description = $8, updated_at = $9
		WHERE id = $1 AND application_id = $2`
	result, err := r.db.Exec(ctx, query,
		e.ID, e.ApplicationID, e.EmployerName, e.JobTitle, e.Country,
		e.StartDate, e.EndDate, e.Description, e.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *applicationRepo) DeleteExperience(ctx context.Context, applicationID, id int64) error {
	result, err := r.db.Exec(ctx,
		`DELETE FROM application_experiences WHERE id = $1 AND application_id = $2`,
		id, applicationID,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ---------------------------------------------------------------------------
// Education section
// ---------------------------------------------------------------------------

func (r *applicationRepo) ListEducations(ctx context.Context, applicationID int64) ([]domain.Education, error) {
	query := `
		SELECT id, application_id, institution, degree_title, field_of_study,
			start_date, end_date, grade, created_at, updated_at
		FROM application_educations
		WHERE application_id = $1
		ORDER BY created_at, id`

	rows, err := r.db.Query(ctx, query, applicationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var educations []domain.Education
	for rows.Next() {
		var e domain.Education
		if err := rows.Scan(
			&e.ID, &e.ApplicationID, &e.Institution, &e.DegreeTitle, &e.FieldOfStudy,
			&e.StartDate, &e.EndDate, &e.Grade, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, err
		}
		educations = append(educations, e)
	}
	return educations, rows.Err()
}

func (r *applicationRepo) UpsertEducation(ctx context.Context, e *domain.Education) error {
	now := time.Now()
	e.UpdatedAt = now

	if e.ID == 0 {
		e.CreatedAt = now
		query := `
			INSERT INTO application_educations
				(application_id, institution, degree_title, field_of_study, start_date, end_date, grade, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING id`
		return r.db.QueryRow(ctx, query,
			e.ApplicationID, e.Institution, e.DegreeTitle, e.FieldOfStudy,
			e.StartDate, e.EndDate, e.Grade, e.CreatedAt, e.UpdatedAt,
		).Scan(&e.ID)
	}

	query := `
		UPDATE application_educations
		SET institution = $3, degree_title = $4, field_of_study = $5,
			start_date = $6, end_date = $7, grade = $8, updated_at = $9
		WHERE id = $1 AND application_id = $2`
	result, err := r.db.Exec(ctx, query,
		e.ID, e.ApplicationID, e.Institution, e.DegreeTitle, e.FieldOfStudy,
		e.StartDate, e.EndDate, e.Grade, e.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *applicationRepo) DeleteEducation(ctx context.Context, applicationID, id int64) error {
	result, err := r.db.Exec(ctx,
		`DELETE FROM application_educations WHERE id = $1 AND application_id = $2`,
		id, applicationID,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ---------------------------------------------------------------------------
// Document set section
// ---------------------------------------------------------------------------

func (r *applicationRepo) GetDocuments(ctx context.Context, applicationID int64) (*domain.DocumentSet, error) {
	query := `
		SELECT application_id, cv_url, passport_url, degree_certificates_url,
			license_registration_url, language_test_certificate_url, experience_letters_url,
			additional_file_names, additional_file_urls, updated_at
		FROM application_documents
		WHERE application_id = $1`

	var ds domain.DocumentSet
	var names, urls []string
	err := r.db.QueryRow(ctx, query, applicationID).Scan(
		&ds.ApplicationID, &ds.CVURL, &ds.PassportURL, &ds.DegreeCertificateURL,
		&ds.LicenseURL, &ds.LanguageTestURL, &ds.ExperienceLettersURL,
		pq.Array(&names), pq.Array(&urls), &ds.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	ds.AdditionalFiles = make([]domain.AdditionalFile, 0, len(names))
	for i, name := range names {
		if i < len(urls) {
			ds.AdditionalFiles = append(ds.AdditionalFiles, domain.AdditionalFile{Name: name, URL: urls[i]})
		}
	}
	return &ds, nil
}

func (r *applicationRepo) SaveDocuments(ctx context.Context, ds *domain.DocumentSet) error {
	names := make([]string, len(ds.AdditionalFiles))
	urls := make([]string, len(ds.AdditionalFiles))
	for i, f := range ds.AdditionalFiles {
		names[i] = f.Name
		urls[i] = f.URL
	}

	query := `
		INSERT INTO application_documents (
			application_id, cv_url, passport_url, degree_certificates_url,
			license_registration_url, language_test_certificate_url, experience_letters_url,
			additional_file_names, additional_file_urls, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (application_id) DO UPDATE SET
			cv_url = EXCLUDED.cv_url,
			passport_url = EXCLUDED.passport_url,
			degree_certificates_url = EXCLUDED.degree_certificates_url,
			license_registration_url = EXCLUDED.license_registration_url,
			language_test_certificate_url = EXCLUDED.language_test_certificate_url,
			experience_letters_url = EXCLUDED.experience_letters_url,
			additional_file_names = EXCLUDED.additional_file_names,
			additional_file_urls = EXCLUDED.additional_file_urls,
			updated_at = EXCLUDED.updated_at`

	ds.UpdatedAt = time.Now()
	_, err := r.db.Exec(ctx, query,
		ds.ApplicationID, ds.CVURL, ds.PassportURL, ds.DegreeCertificateURL,
		ds.LicenseURL, ds.LanguageTestURL, ds.ExperienceLettersURL,
		pq.Array(names), pq.Array(urls), ds.UpdatedAt,
	)
	return err
}

// ---------------------------------------------------------------------------
// Preference section
// ---------------------------------------------------------------------------

func (r *applicationRepo) GetPreferences(ctx context.Context, applicationID int64) (*domain.PreferenceSelection, error) {
	query := `
		SELECT application_id, countries_preference, trades_preference, updated_at
		FROM application_preferences
		WHERE application_id = $1`

	var sel domain.PreferenceSelection
	err := r.db.QueryRow(ctx, query, applicationID).Scan(
		&sel.ApplicationID, pq.Array(&sel.Countries), pq.Array(&sel.Trades), &sel.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sel, nil
}

func (r *applicationRepo) SavePreferences(ctx context.Context, sel *domain.PreferenceSelection) error {
	query := `
		INSERT INTO application_preferences (application_id, countries_preference, trades_preference, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (application_id) DO UPDATE SET
			countries_preference = EXCLUDED.countries_preference,
			trades_preference = EXCLUDED.trades_preference,
			updated_at = EXCLUDED.updated_at`

	sel.UpdatedAt = time.Now()
	_, err := r.db.Exec(ctx, query,
		sel.ApplicationID, pq.Array(sel.Countries), pq.Array(sel.Trades), sel.UpdatedAt,
	)
	return err
}
