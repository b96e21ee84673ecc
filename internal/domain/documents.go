package domain

import "time"

// DocumentSlot names a required-document upload target. Each slot holds at
// most one file reference; re-upload replaces in place.
type DocumentSlot string

const (
	SlotCV                DocumentSlot = "cv"
	SlotPassport          DocumentSlot = "passport"
	SlotDegreeCertificate DocumentSlot = "degree_certificates"
	SlotLicense           DocumentSlot = "license_registration"
	SlotLanguageTest      DocumentSlot = "language_test_certificate"
	SlotExperienceLetters DocumentSlot = "experience_letters"

	// SlotAdditional targets the capped additional_files list rather than a
	// single-reference slot.
	SlotAdditional DocumentSlot = "additional"
)

// MaxAdditionalFiles caps the additional_files list per application.
const MaxAdditionalFiles = 5

// MaxUploadBytes is the per-file size ceiling (5 MB), enforced before any
// transfer begins.
const MaxUploadBytes = 5 << 20

// NamedSlots lists the fixed single-reference slots in display order.
func NamedSlots() []DocumentSlot {
	return []DocumentSlot{
		SlotCV, SlotPassport, SlotDegreeCertificate,
		SlotLicense, SlotLanguageTest, SlotExperienceLetters,
	}
}

// IsValid reports whether s is a known upload target.
func (s DocumentSlot) IsValid() bool {
	if s == SlotAdditional {
		return true
	}
	for _, known := range NamedSlots() {
		if s == known {
			return true
		}
	}
	return false
}

// AdditionalFile is one independently removable (name, reference) pair.
type AdditionalFile struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// DocumentSet holds the per-application document references.
type DocumentSet struct {
	ApplicationID int64 `json:"application_id"`

	CVURL                string `json:"cv_url,omitempty"`
	PassportURL          string `json:"passport_url,omitempty"`
	DegreeCertificateURL string `json:"degree_certificates_url,omitempty"`
	LicenseURL           string `json:"license_registration_url,omitempty"`
	LanguageTestURL      string `json:"language_test_certificate_url,omitempty"`
	ExperienceLettersURL string `json:"experience_letters_url,omitempty"`

	AdditionalFiles []AdditionalFile `json:"additional_files"`

	UpdatedAt time.Time `json:"updated_at"`
}

// Ref returns the stored reference for a named slot ("" when empty).
func (ds *DocumentSet) Ref(slot DocumentSlot) string {
	switch slot {
	case SlotCV:
		return ds.CVURL
	case SlotPassport:
		return ds.PassportURL
	case SlotDegreeCertificate:
		return ds.DegreeCertificateURL
	case SlotLicense:
		return ds.LicenseURL
	case SlotLanguageTest:
		return ds.LanguageTestURL
	case SlotExperienceLetters:
		return ds.ExperienceLettersURL
	}
	return ""
}

// SetRef replaces the reference for a named slot (the previous reference is
// discarded).
func (ds *DocumentSet) SetRef(slot DocumentSlot, url string) {
	switch slot {
	case SlotCV:
		ds.CVURL = url
	case SlotPassport:
		ds.PassportURL = url
	case SlotDegreeCertificate:
		ds.DegreeCertificateURL = url
	case SlotLicense:
		ds.LicenseURL = url
	case SlotLanguageTest:
		ds.LanguageTestURL = url
	case SlotExperienceLetters:
		ds.ExperienceLettersURL = url
	}
}

// RemoveAdditional drops the additional file with the given name. Returns
// false when no such entry exists.
func (ds *DocumentSet) RemoveAdditional(name string) bool {
	for i, f := range ds.AdditionalFiles {
		if f.Name == name {
			ds.AdditionalFiles = append(ds.AdditionalFiles[:i], ds.AdditionalFiles[i+1:]...)
			return true
		}
	}
	return false
}
