package usecase

import "github.com/lovelingo/waitlist-api/internal/entity"

type EmailService interface {
	// SendWelcome is the critical send: a failure comes back to the
	// caller (the signup flow logs it, it never blocks the response).
	SendWelcome(entry *entity.WaitlistEntry) error

	// SendAdminNotification is best-effort: the sender logs failures
	// itself and nothing propagates.
	SendAdminNotification(entry *entity.WaitlistEntry)

	// Verify exercises the transport handshake without sending.
	Verify() bool
}
