package domain

import "time"

// Gender constants
const (
	GenderMale   = "MALE"
	GenderFemale = "FEMALE"
	GenderOther  = "OTHER"
)

// PersonalProfile is the identity/contact section of one application.
// Date fields hold the canonical YYYY-MM-DD form, nil when absent or
// unparseable. Required-for-submission fields are checked by the submission
// service, not here, so drafts can stay incomplete.
type PersonalProfile struct {
	ApplicationID int64 `json:"application_id"`

	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	GuardianName string  `json:"guardian_name"` // father/husband name
	Gender       string  `json:"gender"`
	BirthDate    *string `json:"birth_date,omitempty"`

	NationalID           string  `json:"national_id"` // CNIC
	NationalIDIssueDate  *string `json:"national_id_issue_date,omitempty"`
	NationalIDExpiryDate *string `json:"national_id_expiry_date,omitempty"`
	PassportNumber       string  `json:"passport_number"`
	PassportIssueDate    *string `json:"passport_issue_date,omitempty"`
	PassportExpiryDate   *string `json:"passport_expiry_date,omitempty"`

	PresentAddress   string `json:"present_address"`
	PermanentAddress string `json:"permanent_address"`
	EmailAddress     string `json:"email_address"`
	MobileNumber     string `json:"mobile_number"`

	ProfileImageURL *string `json:"profile_image_url,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}

// RequiredProfileFields lists the submission-required fields with the labels
// used in rejection reasons.
func (p *PersonalProfile) MissingRequiredFields() []string {
	var missing []string
	if p.FirstName == "" {
		missing = append(missing, "first name")
	}
	if p.GuardianName == "" {
		missing = append(missing, "guardian name")
	}
	if p.Gender == "" {
		missing = append(missing, "gender")
	}
	if p.BirthDate == nil {
		missing = append(missing, "date of birth")
	}
	if p.NationalID == "" {
		missing = append(missing, "national identifier")
	}
	if p.EmailAddress == "" {
		missing = append(missing, "email address")
	}
	if p.MobileNumber == "" {
		missing = append(missing, "mobile number")
	}
	return missing
}

// PersonalInfoInput is the write payload for the personal info section.
// ConfirmEmailAddress must match EmailAddress; the pair never reaches
// persistence when they differ.
type PersonalInfoInput struct {
	FirstName    string `json:"first_name" validate:"required,valid_name,max=100"`
	LastName     string `json:"last_name" validate:"omitempty,valid_name,max=100"`
	GuardianName string `json:"guardian_name" validate:"required,valid_name,max=100"`
	Gender       string `json:"gender" validate:"required,oneof=MALE FEMALE OTHER"`
	BirthDate    string `json:"birth_date" validate:"omitempty"`

	NationalID           string `json:"national_id" validate:"required,max=30"`
	NationalIDIssueDate  string `json:"national_id_issue_date"`
	NationalIDExpiryDate string `json:"national_id_expiry_date"`
	PassportNumber       string `json:"passport_number" validate:"omitempty,max=20"`
	PassportIssueDate    string `json:"passport_issue_date"`
	PassportExpiryDate   string `json:"passport_expiry_date"`

	PresentAddress   string `json:"present_address" validate:"omitempty,max=255,no_emoji"`
	PermanentAddress string `json:"permanent_address" validate:"omitempty,max=255,no_emoji"`

	EmailAddress        string `json:"email_address" validate:"required,email"`
	ConfirmEmailAddress string `json:"confirm_email_address" validate:"required,eqfield=EmailAddress"`
	MobileNumber        string `json:"mobile_number" validate:"required,valid_phone"`

	ProfileImageURL *string `json:"profile_image_url,omitempty"`
}

// Experience is one user-editable work history record.
type Experience struct {
	ID            int64     `json:"id"`
	ApplicationID int64     `json:"application_id"`
	EmployerName  string    `json:"employer_name"`
	JobTitle      string    `json:"job_title"`
	Country       string    `json:"country"`
	StartDate     *string   `json:"start_date,omitempty"`
	EndDate       *string   `json:"end_date,omitempty"`
	Description   *string   `json:"description,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ExperienceInput creates (ID zero) or updates (ID set) one experience record.
type ExperienceInput struct {
	ID           int64  `json:"id"`
	EmployerName string `json:"employer_name" validate:"required,max=150,no_emoji"`
	JobTitle     string `json:"job_title" validate:"required,max=100,no_emoji"`
	Country      string `json:"country" validate:"omitempty,max=60"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	Description  string `json:"description" validate:"omitempty,max=1000"`
}

// IsEmpty reports whether the row carries no user input (used for the
// save-and-close "keep in-progress row?" prompt).
func (in *ExperienceInput) IsEmpty() bool {
	return in.EmployerName == "" && in.JobTitle == "" && in.Country == "" &&
		in.StartDate == "" && in.EndDate == "" && in.Description == ""
}

// Education is one user-editable education record.
type Education struct {
	ID            int64     `json:"id"`
	ApplicationID int64     `json:"application_id"`
	Institution   string    `json:"institution"`
	DegreeTitle   string    `json:"degree_title"`
	FieldOfStudy  string    `json:"field_of_study"`
	StartDate     *string   `json:"start_date,omitempty"`
	EndDate       *string   `json:"end_date,omitempty"`
	Grade         string    `json:"grade"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// EducationInput creates (ID zero) or updates (ID set) one education record.
type EducationInput struct {
	ID           int64  `json:"id"`
	Institution  string `json:"institution" validate:"required,max=150,no_emoji"`
	DegreeTitle  string `json:"degree_title" validate:"required,max=100,no_emoji"`
	FieldOfStudy string `json:"field_of_study" validate:"omitempty,max=100"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	Grade        string `json:"grade" validate:"omitempty,max=20"`
}

func (in *EducationInput) IsEmpty() bool {
	return in.Institution == "" && in.DegreeTitle == "" && in.FieldOfStudy == "" &&
		in.StartDate == "" && in.EndDate == "" && in.Grade == ""
}
