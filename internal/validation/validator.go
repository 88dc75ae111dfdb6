package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cityguide-blog-api/internal/models"
	"github.com/google/uuid"
)

var (
	emailRegex      = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	usernameRegex   = regexp.MustCompile(`^[a-zA-Z0-9_.-]{3,50}$`)
	trackingIDRegex = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
)

const (
	maxTitleLength   = 300
	maxLabelLength   = 100
	minPasswordChars = 8
)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// Errors is a non-empty list of validation failures
type Errors []ValidationError

func (e Errors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e))
	for _, ve := range e {
		parts = append(parts, ve.Field+": "+ve.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// AsError returns nil for an empty list so callers can return it directly
func AsError(errs []ValidationError) error {
	if len(errs) == 0 {
		return nil
	}
	return Errors(errs)
}

// ValidateCreateArticle validates a structured article create request
func ValidateCreateArticle(req *models.CreateArticleRequest) []ValidationError {
	var errors []ValidationError

	errors = append(errors, validateTitle(req.Title)...)

	if strings.TrimSpace(req.Content) == "" {
		errors = append(errors, ValidationError{Field: "content", Message: "content is required"})
	}

	if strings.TrimSpace(req.Category) == "" {
		errors = append(errors, ValidationError{Field: "category", Message: "category is required"})
	}
	errors = append(errors, validateLabel("category", req.Category)...)
	errors = append(errors, validateLabel("subcategory", req.Subcategory)...)

	return errors
}

// ValidateUpdateArticle validates the fields present in a partial update.
// An empty patch is valid and only touches updated_at.
func ValidateUpdateArticle(req *models.UpdateArticleRequest) []ValidationError {
	var errors []ValidationError

	if req.Title != nil {
		errors = append(errors, validateTitle(*req.Title)...)
	}
	if req.Content != nil && strings.TrimSpace(*req.Content) == "" {
		errors = append(errors, ValidationError{Field: "content", Message: "content must not be empty"})
	}
	if req.Category != nil {
		if strings.TrimSpace(*req.Category) == "" {
			errors = append(errors, ValidationError{Field: "category", Message: "category must not be empty"})
		}
		errors = append(errors, validateLabel("category", *req.Category)...)
	}
	if req.Subcategory != nil {
		errors = append(errors, validateLabel("subcategory", *req.Subcategory)...)
	}

	return errors
}

// ValidateUploadArticle validates the form fields sent with an article file.
// Category may be omitted when the file's front matter supplies it, so only
// lengths are checked here.
func ValidateUploadArticle(req *models.UploadArticleRequest) []ValidationError {
	var errors []ValidationError

	if req.Filename == "" || len(req.Data) == 0 {
		errors = append(errors, ValidationError{Field: "file", Message: "file is required"})
	}
	errors = append(errors, validateLabel("category", req.Category)...)
	errors = append(errors, validateLabel("subcategory", req.Subcategory)...)

	return errors
}

// ValidateContact validates a contact-form submission
func ValidateContact(req *models.ContactRequest) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(req.Name) == "" {
		errors = append(errors, ValidationError{Field: "name", Message: "name is required"})
	}

	if strings.TrimSpace(req.Email) == "" {
		errors = append(errors, ValidationError{Field: "email", Message: "email is required"})
	} else if !emailRegex.MatchString(strings.TrimSpace(req.Email)) {
		errors = append(errors, ValidationError{Field: "email", Message: "invalid email format", Value: req.Email})
	}

	if strings.TrimSpace(req.Subject) == "" {
		errors = append(errors, ValidationError{Field: "subject", Message: "subject is required"})
	}

	msg := strings.TrimSpace(req.Message)
	if msg == "" {
		errors = append(errors, ValidationError{Field: "message", Message: "message is required"})
	} else if utf8.RuneCountInString(msg) < models.MinContactMessageLength {
		errors = append(errors, ValidationError{
			Field:   "message",
			Message: fmt.Sprintf("message must be at least %d characters", models.MinContactMessageLength),
		})
	}

	return errors
}

// ValidateRegistration validates an admin registration request
func ValidateRegistration(req *models.RegisterRequest) []ValidationError {
	var errors []ValidationError

	if req.Username == "" {
		errors = append(errors, ValidationError{Field: "username", Message: "username is required"})
	} else if !usernameRegex.MatchString(req.Username) {
		errors = append(errors, ValidationError{
			Field:   "username",
			Message: "username must be 3-50 letters, digits, '.', '_' or '-'",
			Value:   req.Username,
		})
	}

	if req.Email == "" {
		errors = append(errors, ValidationError{Field: "email", Message: "email is required"})
	} else if !emailRegex.MatchString(req.Email) {
		errors = append(errors, ValidationError{Field: "email", Message: "invalid email format", Value: req.Email})
	}

	errors = append(errors, ValidatePassword("password", req.Password)...)

	return errors
}

// ValidatePassword applies the admin password policy: at least eight
// characters with one letter and one digit.
func ValidatePassword(field, password string) []ValidationError {
	if password == "" {
		return []ValidationError{{Field: field, Message: field + " is required"}}
	}

	var errors []ValidationError
	if utf8.RuneCountInString(password) < minPasswordChars {
		errors = append(errors, ValidationError{
			Field:   field,
			Message: fmt.Sprintf("password must be at least %d characters long", minPasswordChars),
		})
	}

	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		errors = append(errors, ValidationError{
			Field:   field,
			Message: "password must contain at least one letter and one number",
		})
	}

	return errors
}

// ValidateAnalytics validates the tracking ids present in an update.
// An empty string clears the setting.
func ValidateAnalytics(req *models.AnalyticsConfigUpdate) []ValidationError {
	var errors []ValidationError

	fields := []struct {
		name  string
		value *string
	}{
		{"googleAnalyticsId", req.GoogleAnalyticsID},
		{"googleSearchConsoleId", req.GoogleSearchConsoleID},
		{"googleAdsId", req.GoogleAdsID},
		{"googleTagManagerId", req.GoogleTagManagerID},
	}
	for _, f := range fields {
		if f.value == nil || *f.value == "" {
			continue
		}
		if !trackingIDRegex.MatchString(*f.value) {
			errors = append(errors, ValidationError{
				Field:   f.name,
				Message: "must be 1-64 letters, digits, '_' or '-'",
				Value:   *f.value,
			})
		}
	}

	return errors
}

// IsValidID reports whether s is a well-formed record id
func IsValidID(s string) bool {
	return isValidUUID(s)
}

func validateTitle(title string) []ValidationError {
	if strings.TrimSpace(title) == "" {
		return []ValidationError{{Field: "title", Message: "title is required"}}
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return []ValidationError{{
			Field:   "title",
			Message: fmt.Sprintf("title must be at most %d characters", maxTitleLength),
		}}
	}
	return nil
}

func validateLabel(field, value string) []ValidationError {
	if utf8.RuneCountInString(value) > maxLabelLength {
		return []ValidationError{{
			Field:   field,
			Message: fmt.Sprintf("%s must be at most %d characters", field, maxLabelLength),
		}}
	}
	return nil
}

// isValidUUID checks if a string is a valid UUID
func isValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
