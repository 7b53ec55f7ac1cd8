package domain

import "context"

// UserRepository defines the data-access contract for user operations.
// Implementations live in internal/core/repository (Core layer).
// The Logic layer depends on this interface only — never on SQL or pgx directly.
type UserRepository interface {
	// List returns a page of users ordered per opts.
	List(ctx context.Context, opts ListOptions) ([]User, error)

	// Count returns the total number of stored users.
	Count(ctx context.Context) (int, error)

	// GetByID returns the user with the given id.
	// Returns (nil, nil) when no user is found.
	GetByID(ctx context.Context, id string) (*User, error)

	// GetByEmail returns the full record, hash included, for credential
	// verification. Returns (nil, nil) when no user is found.
	GetByEmail(ctx context.Context, email string) (*UserRow, error)

	// Create inserts a new user and returns the created record.
	Create(ctx context.Context, u NewUser) (*User, error)

	// CreateMany inserts a batch of users and returns the created records
	// in input order.
	CreateMany(ctx context.Context, users []NewUser) ([]User, error)

	// Update applies the non-empty fields of patch to the user with the
	// given id. Returns (nil, nil) when no user is found.
	Update(ctx context.Context, id string, patch UserPatch) (*User, error)

	// Delete removes the user with the given id and returns the deleted
	// record. Returns (nil, nil) when no user is found.
	Delete(ctx context.Context, id string) (*User, error)

	// EmailExists returns true when a user with the given email already exists.
	EmailExists(ctx context.Context, email string) (bool, error)

	// EmailsExist reports, for each email in the input, whether a user with
	// that email already exists.
	EmailsExist(ctx context.Context, emails []string) (map[string]bool, error)
}
