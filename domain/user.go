package domain

import (
	"context"
	"time"
)

// User represents a user entity in the system.
// Accounts are managed by the identity service; this service only reads them.
type User struct {
	ID             int64     // Unique identifier
	Name           string    // Display name
	Username       string    // Login username (unique), used for @mentions
	ProfilePicture string    // Avatar URL
	CreatedAt      time.Time // Account creation timestamp
	UpdatedAt      time.Time // Last profile update timestamp
}

// UserRepository defines the contract for user lookups.
type UserRepository interface {
	// GetByID retrieves a user by their ID.
	// Returns ErrNotFound if the user doesn't exist.
	GetByID(ctx context.Context, id int64) (User, error)

	// GetByUsername retrieves a user by exact username.
	// Returns ErrNotFound if the user doesn't exist.
	GetByUsername(ctx context.Context, username string) (User, error)

	// GetByIDs retrieves every existing user among userIDs
	GetByIDs(ctx context.Context, userIDs []int64) ([]User, error)

	// SearchByUsername matches query case-insensitively anywhere in the username
	SearchByUsername(ctx context.Context, query string, limit int) ([]User, error)
}

// UserUsecase defines the user operations exposed to the transport layer.
type UserUsecase interface {
	// Search returns at most UserSearchLimit users whose username contains query.
	// An empty query yields an empty list.
	Search(ctx context.Context, query string) ([]User, error)
}
