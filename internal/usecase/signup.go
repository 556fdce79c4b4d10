package usecase

import (
	"context"
	"errors"
	"log"

	"github.com/lovelingo/waitlist-api/internal/entity"
)

type SignupUseCase struct {
	Repo         entity.WaitlistRepositoryInterface
	EmailService EmailService
}

func NewSignupUseCase(repo entity.WaitlistRepositoryInterface, emailService EmailService) *SignupUseCase {
	return &SignupUseCase{
		Repo:         repo,
		EmailService: emailService,
	}
}

// Execute runs the signup flow in strict order: validate, dedup check,
// insert, then fire both emails without waiting for them. The returned
// error is one of ValidationErrors, entity.ErrEmailAlreadyExists or
// *PersistenceError.
func (uc *SignupUseCase) Execute(ctx context.Context, input SignupInput) (*SignupOutput, error) {
	entry, validationErrors := ValidateSignupInput(input)
	if len(validationErrors) > 0 {
		return nil, validationErrors
	}

	// Best-effort pre-check so a duplicate gets a friendly 409 instead
	// of a raw constraint violation. The unique constraint on the table
	// is what actually guarantees uniqueness under concurrency.
	exists, err := uc.Repo.EmailExists(ctx, entry.Email)
	if err != nil {
		return nil, &PersistenceError{Op: "email lookup", Err: err}
	}
	if exists {
		return nil, entity.ErrEmailAlreadyExists
	}

	if err := uc.Repo.Create(ctx, entry); err != nil {
		if errors.Is(err, entity.ErrEmailAlreadyExists) {
			// Lost the race between pre-check and insert.
			return nil, err
		}
		return nil, &PersistenceError{Op: "insert", Err: err}
	}

	uc.dispatchEmails(*entry)

	return &SignupOutput{
		ID:       entry.ID,
		Name:     entry.Name,
		Email:    entry.Email,
		Language: entry.Language,
	}, nil
}

// dispatchEmails sends the welcome and team-notification emails in the
// background. Neither outcome touches the response already computed by
// Execute; the welcome failure is only logged here.
func (uc *SignupUseCase) dispatchEmails(entry entity.WaitlistEntry) {
	go func() {
		if err := uc.EmailService.SendWelcome(&entry); err != nil {
			log.Printf("Welcome email to %s failed: %v", entry.Email, err)
		}
		uc.EmailService.SendAdminNotification(&entry)
	}()
}
