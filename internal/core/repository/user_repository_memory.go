package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/Tristan-Muggridge/pafin-code-challenge/internal/core/domain"
)

// MemoryUserRepository implements domain.UserRepository with an in-process
// map. It backs the default "memory" storage backend and the test suite;
// data does not survive a restart.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]domain.UserRow
}

// NewMemoryUserRepository creates an empty MemoryUserRepository.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]domain.UserRow)}
}

// List returns a page of users ordered per opts.
func (r *MemoryUserRepository) List(ctx context.Context, opts domain.ListOptions) ([]domain.User, error) {
	r.mu.RLock()
	rows := make([]domain.UserRow, 0, len(r.users))
	for _, row := range r.users {
		rows = append(rows, row)
	}
	r.mu.RUnlock()

	sort.Slice(rows, func(i, j int) bool {
		var less bool
		switch opts.Sort {
		case domain.SortByName:
			less = rows[i].Name < rows[j].Name
		case domain.SortByEmail:
			less = rows[i].Email < rows[j].Email
		default:
			less = rows[i].ID < rows[j].ID
		}
		if opts.Order == domain.OrderDesc {
			return !less
		}
		return less
	})

	if opts.Skip >= len(rows) {
		return []domain.User{}, nil
	}
	rows = rows[opts.Skip:]
	if opts.Take > 0 && opts.Take < len(rows) {
		rows = rows[:opts.Take]
	}

	users := make([]domain.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, domain.User{ID: row.ID, Name: row.Name, Email: row.Email})
	}
	return users, nil
}

// Count returns the total number of stored users.
func (r *MemoryUserRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users), nil
}

// GetByID returns the user with the given id.
// Returns (nil, nil) when no user is found.
func (r *MemoryUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	row, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return &domain.User{ID: row.ID, Name: row.Name, Email: row.Email}, nil
}

// GetByEmail returns the full record, hash included.
// Returns (nil, nil) when no user is found.
func (r *MemoryUserRepository) GetByEmail(ctx context.Context, email string) (*domain.UserRow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, row := range r.users {
		if row.Email == email {
			copied := row
			return &copied, nil
		}
	}
	return nil, nil
}

// Create inserts a new user and returns the created record.
func (r *MemoryUserRepository) Create(ctx context.Context, u domain.NewUser) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	row := domain.UserRow{
		ID:           uuid.NewString(),
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
	}
	r.users[row.ID] = row

	return &domain.User{ID: row.ID, Name: row.Name, Email: row.Email}, nil
}

// CreateMany inserts a batch of users and returns the created records in
// input order.
func (r *MemoryUserRepository) CreateMany(ctx context.Context, users []domain.NewUser) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := make([]domain.User, 0, len(users))
	for _, u := range users {
		row := domain.UserRow{
			ID:           uuid.NewString(),
			Name:         u.Name,
			Email:        u.Email,
			PasswordHash: u.PasswordHash,
		}
		r.users[row.ID] = row
		created = append(created, domain.User{ID: row.ID, Name: row.Name, Email: row.Email})
	}
	return created, nil
}

// Update applies the non-empty fields of patch to the user with the given id.
// Returns (nil, nil) when no user is found.
func (r *MemoryUserRepository) Update(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.users[id]
	if !ok {
		return nil, nil
	}

	if patch.Name != "" {
		row.Name = patch.Name
	}
	if patch.Email != "" {
		row.Email = patch.Email
	}
	if patch.PasswordHash != "" {
		row.PasswordHash = patch.PasswordHash
	}
	r.users[id] = row

	return &domain.User{ID: row.ID, Name: row.Name, Email: row.Email}, nil
}

// Delete removes the user with the given id and returns the deleted record.
// Returns (nil, nil) when no user is found.
func (r *MemoryUserRepository) Delete(ctx context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	delete(r.users, id)

	return &domain.User{ID: row.ID, Name: row.Name, Email: row.Email}, nil
}

// EmailExists returns true when a user with the given email already exists.
func (r *MemoryUserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, row := range r.users {
		if row.Email == email {
			return true, nil
		}
	}
	return false, nil
}

// EmailsExist reports, for each email in the input, whether a user with that
// email already exists.
func (r *MemoryUserRepository) EmailsExist(ctx context.Context, emails []string) (map[string]bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]bool, len(emails))
	for _, email := range emails {
		result[email] = false
	}
	for _, row := range r.users {
		if _, ok := result[row.Email]; ok {
			result[row.Email] = true
		}
	}
	return result, nil
}
