package entity

import (
	"context"
	"errors"
	"time"
)

var (
	ErrEmailAlreadyExists = errors.New("email already on the waitlist")
	ErrNotFound           = errors.New("resource not found")
)

// Launch languages. The landing page only offers these five.
var Languages = []string{"german", "spanish", "chinese", "hindi", "english"}

var Levels = []string{"beginner", "basics", "reading", "intermediate"}

var Frustrations = []string{"anxiety", "practice", "boring", "pronunciation"}

type WaitlistEntry struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Language    string    `json:"language"`
	Level       string    `json:"level,omitempty"`
	Frustration string    `json:"frustration,omitempty"`
	IPAddress   string    `json:"ip_address,omitempty"`
	UserAgent   string    `json:"user_agent,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type WaitlistRepositoryInterface interface {
	// Create assigns the entry's identity and created_at. Returns
	// ErrEmailAlreadyExists when the store's unique constraint fires.
	Create(ctx context.Context, entry *WaitlistEntry) error

	// EmailExists reports whether a row with this exact (lowercased)
	// email is already stored. "No rows" is a negative result, not an error.
	EmailExists(ctx context.Context, email string) (bool, error)

	CountAll(ctx context.Context) (int, error)
	CountByLanguage(ctx context.Context) (map[string]int, error)
}
