package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps struct field names to user-friendly labels
var FieldLabels = map[string]string{
	// Personal info fields
	"FirstName":            "First Name",
	"LastName":             "Last Name",
	"GuardianName":         "Guardian Name",
	"Gender":               "Gender",
	"BirthDate":            "Date of Birth",
	"NationalID":           "National Identifier",
	"NationalIDIssueDate":  "National ID Issue Date",
	"NationalIDExpiryDate": "National ID Expiry Date",
	"PassportNumber":       "Passport Number",
	"PassportIssueDate":    "Passport Issue Date",
	"PassportExpiryDate":   "Passport Expiry Date",
	"PresentAddress":       "Present Address",
	"PermanentAddress":     "Permanent Address",
	"EmailAddress":         "Email Address",
	"ConfirmEmailAddress":  "Confirm Email Address",
	"MobileNumber":         "Mobile Number",

	// Experience fields
	"EmployerName": "Employer Name",
	"JobTitle":     "Job Title",
	"Country":      "Country",
	"StartDate":    "Start Date",
	"EndDate":      "End Date",
	"Description":  "Description",

	// Education fields
	"Institution":  "Institution",
	"DegreeTitle":  "Degree Title",
	"FieldOfStudy": "Field of Study",
	"Grade":        "Grade",

	// Account fields
	"Name":  "Name",
	"Email": "Email",
	"Phone": "Phone",
}

// FormatErrors converts validator errors into a field → message map for the
// {success, errors} section-save contract.
func FormatErrors(err error) map[string]string {
	out := map[string]string{}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		out["_"] = err.Error()
		return out
	}

	for _, e := range validationErrors {
		out[e.Field()] = formatSingleError(e)
	}
	return out
}

// FormatErrorList flattens FormatErrors into messages for logging
func FormatErrorList(err error) []string {
	var messages []string
	for _, msg := range FormatErrors(err) {
		messages = append(messages, msg)
	}
	return messages
}

func formatSingleError(e validator.FieldError) string {
	label := getFieldLabel(e.Field())
	param := e.Param()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", label)
	case "min":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters", label, param)
		}
		return fmt.Sprintf("%s must be at least %s", label, param)
	case "max":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at most %s characters", label, param)
		}
		return fmt.Sprintf("%s must be at most %s", label, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.Join(strings.Split(param, " "), ", "))
	case "email":
		return fmt.Sprintf("%s is not a valid email address", label)
	case "url":
		return fmt.Sprintf("%s is not a valid URL", label)
	case "valid_name":
		return fmt.Sprintf("%s may only contain letters, spaces and common punctuation", label)
	case "valid_phone":
		return fmt.Sprintf("%s is not a valid phone number (7-15 digits, with or without +)", label)
	case "no_emoji":
		return fmt.Sprintf("%s may not contain emoji or special symbols", label)
	case "valid_date":
		return fmt.Sprintf("%s is not a valid date (YYYY-MM-DD)", label)
	case "eqfield":
		return fmt.Sprintf("%s must match %s", label, getFieldLabel(param))
	default:
		return fmt.Sprintf("%s failed validation (%s)", label, e.Tag())
	}
}

func getFieldLabel(fieldName string) string {
	if label, ok := FieldLabels[fieldName]; ok {
		return label
	}
	return formatCamelCase(fieldName)
}

// formatCamelCase converts CamelCase to spaced words
func formatCamelCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune(' ')
		}
		result.WriteRune(r)
	}
	return result.String()
}
