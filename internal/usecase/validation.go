package usecase

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/lovelingo/waitlist-api/internal/entity"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is the failure result of the validation gate: one
// entry per violated rule.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, v := range e {
		msgs[i] = v.Error()
	}
	return "validation failed: " + strings.Join(msgs, ", ")
}

func (e ValidationErrors) Messages() []string {
	msgs := make([]string, len(e))
	for i, v := range e {
		msgs[i] = v.Error()
	}
	return msgs
}

// ValidateSignupInput checks the raw signup payload and, when it is valid,
// returns the normalized entry: name trimmed, email lowercased, enum
// membership confirmed. Unknown request fields never reach the entry.
// No I/O happens here.
func ValidateSignupInput(input SignupInput) (*entity.WaitlistEntry, ValidationErrors) {
	var errs ValidationErrors

	name := strings.TrimSpace(input.Name)
	if name == "" {
		errs = append(errs, ValidationError{"name", "is required"})
	} else if utf8.RuneCountInString(name) > 100 {
		errs = append(errs, ValidationError{"name", "must not exceed 100 characters"})
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		errs = append(errs, ValidationError{"email", "is required"})
	} else if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		// The bare-address check rejects display-name forms like
		// "ana <ana@x.com>", which would otherwise be persisted whole.
		errs = append(errs, ValidationError{"email", "must be a valid email address"})
	}

	if strings.TrimSpace(input.Language) == "" {
		errs = append(errs, ValidationError{"language", "is required"})
	} else if !isOneOf(input.Language, entity.Languages) {
		errs = append(errs, ValidationError{"language", "must be one of: " + strings.Join(entity.Languages, ", ")})
	}

	if input.Level != "" && !isOneOf(input.Level, entity.Levels) {
		errs = append(errs, ValidationError{"level", "must be one of: " + strings.Join(entity.Levels, ", ")})
	}

	if input.Frustration != "" && !isOneOf(input.Frustration, entity.Frustrations) {
		errs = append(errs, ValidationError{"frustration", "must be one of: " + strings.Join(entity.Frustrations, ", ")})
	}

	if len(errs) > 0 {
		return nil, errs
	}

	return &entity.WaitlistEntry{
		Name:        name,
		Email:       email,
		Language:    input.Language,
		Level:       input.Level,
		Frustration: input.Frustration,
		IPAddress:   input.IPAddress,
		UserAgent:   input.UserAgent,
	}, nil
}

func isOneOf(value string, allowed []string) bool {
	for _, v := range allowed {
		if value == v {
			return true
		}
	}
	return false
}
