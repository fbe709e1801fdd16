package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps struct field names to user-friendly labels
var FieldLabels = map[string]string{
	"Email":        "Email",
	"Password":     "Password",
	"FullName":     "Full name",
	"ClubName":     "Club name",
	"ContactPhone": "Contact phone",
	"Position":     "Position",
	"Nationality":  "Nationality",
	"PlanType":     "Membership plan",
	"Title":        "Title",
	"Description":  "Description",
	"Location":     "Location",
	"SalaryMin":    "Minimum salary",
	"SalaryMax":    "Maximum salary",
	"CoverLetter":  "Cover letter",
	"Subject":      "Subject",
	"Content":      "Message content",
	"ReceiverID":   "Recipient",
}

// FormatValidationErrors converts validator.ValidationErrors to user-friendly messages
func FormatValidationErrors(err error) []string {
	var messages []string

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		// Not a validation error, return generic message
		return []string{err.Error()}
	}

	for _, e := range validationErrors {
		messages = append(messages, formatSingleError(e))
	}

	return messages
}

// formatSingleError formats a single validation error to a user-friendly message
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
	case "valid_name":
		return fmt.Sprintf("%s may only contain letters, spaces and common punctuation", label)
	case "valid_phone":
		return fmt.Sprintf("%s is not a valid phone number (7-15 digits, optional +)", label)
	case "no_emoji":
		return fmt.Sprintf("%s must not contain emoji or special symbols", label)
	case "valid_plan":
		return fmt.Sprintf("%s is not a known plan", label)
	case "gtefield":
		return fmt.Sprintf("%s must be greater than or equal to %s", label, getFieldLabel(param))
	default:
		return fmt.Sprintf("%s failed validation (%s)", label, e.Tag())
	}
}

// getFieldLabel returns the user-friendly label for a field
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
