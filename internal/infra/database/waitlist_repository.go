package database

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/lovelingo/waitlist-api/internal/entity"
)

// uniqueViolation is Postgres error class 23505.
const uniqueViolation = pq.ErrorCode("23505")

type WaitlistRepository struct {
	DB *sql.DB
}

func NewWaitlistRepository(db *sql.DB) *WaitlistRepository {
	return &WaitlistRepository{DB: db}
}

// Create inserts one entry, assigning its id here and reading back the
// created_at the store set. A duplicate email surfaces as
// entity.ErrEmailAlreadyExists so callers never sniff error strings.
func (r *WaitlistRepository) Create(ctx context.Context, entry *entity.WaitlistEntry) error {
	entry.ID = uuid.New().String()

	query := `
		INSERT INTO waitlist (id, name, email, language, level, frustration, ip_address, user_agent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		RETURNING created_at
	`

	err := r.DB.QueryRowContext(ctx, query,
		entry.ID,
		entry.Name,
		entry.Email,
		entry.Language,
		nullString(entry.Level),
		nullString(entry.Frustration),
		nullString(entry.IPAddress),
		nullString(entry.UserAgent),
	).Scan(&entry.CreatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return entity.ErrEmailAlreadyExists
		}

		log.Printf("Waitlist insert failed: %v", err)
		return err
	}

	return nil
}

// EmailExists looks up exactly one row by exact email match. The email
// must already be lowercased by the validation gate.
func (r *WaitlistRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var found string
	err := r.DB.QueryRowContext(ctx,
		`SELECT email FROM waitlist WHERE email = $1`,
		email,
	).Scan(&found)

	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CountAll transfers a single count, never row bodies.
func (r *WaitlistRepository) CountAll(ctx context.Context) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM waitlist`).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// CountByLanguage reduces the language column to a frequency map on the
// client side, skipping rows with no language.
func (r *WaitlistRepository) CountByLanguage(ctx context.Context) (map[string]int, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT language FROM waitlist WHERE language IS NOT NULL`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var language string
		if err := rows.Scan(&language); err != nil {
			return nil, err
		}
		counts[language]++
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return counts, nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
