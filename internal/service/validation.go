package service

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/spec-kit/auth-gateway/internal/domain"
)

// passwordSymbols is the accepted special-character set.
const passwordSymbols = "@$!%*?&"

// RegisterInput carries the raw registration payload through the pipeline.
type RegisterInput struct {
	Email       string
	PhoneNumber string
	Password    string
	Role        string
}

// Sanitized returns a copy with fields trimmed, the email lowercased to its
// canonical form, and markup characters stripped from free-text fields.
func (in RegisterInput) Sanitized() RegisterInput {
	return RegisterInput{
		Email:       strings.ToLower(strings.TrimSpace(in.Email)),
		PhoneNumber: stripMarkup(strings.TrimSpace(in.PhoneNumber)),
		Password:    strings.TrimSpace(in.Password),
		Role:        strings.ToLower(strings.TrimSpace(in.Role)),
	}
}

func stripMarkup(s string) string {
	replacer := strings.NewReplacer("<", "", ">", "", "\"", "", "'", "", "`", "")
	return replacer.Replace(s)
}

// Validate applies the registration schema. Violations come back as
// validation.Errors keyed by field name; no partial success.
func (in RegisterInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Email, validation.Required, validation.Length(5, 255), is.Email),
		validation.Field(&in.PhoneNumber, validation.Required, validation.Length(10, 15)),
		validation.Field(&in.Password, validation.Required, validation.Length(8, 255), validation.By(validatePasswordComplexity)),
		validation.Field(&in.Role, validation.Required, validation.By(validateRole)),
	)
}

func validatePasswordComplexity(value interface{}) error {
	password, _ := value.(string)
	if password == "" {
		return nil
	}

	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= '0' && r <= '9':
			hasDigit = true
		case strings.ContainsRune(passwordSymbols, r):
			hasSymbol = true
		default:
			return errors.New("must only contain letters, numbers and " + passwordSymbols)
		}
	}
	if !hasLower || !hasUpper || !hasDigit || !hasSymbol {
		return errors.New("must contain at least one uppercase letter, one lowercase letter, one number, and one special character")
	}
	return nil
}

func validateRole(value interface{}) error {
	role, _ := value.(string)
	if role == "" {
		return nil
	}
	if !domain.Role(role).Valid() {
		return errors.New("must be one of client, vendor, rider, admin")
	}
	return nil
}
