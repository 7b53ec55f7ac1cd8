package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Tristan-Muggridge/pafin-code-challenge/internal/core/domain"
)

// PgxUserRepository implements domain.UserRepository using pgxpool.
type PgxUserRepository struct {
	pool *pgxpool.Pool
}

// NewPgxUserRepository creates a new PgxUserRepository.
func NewPgxUserRepository(pool *pgxpool.Pool) *PgxUserRepository {
	return &PgxUserRepository{pool: pool}
}

// sortColumn maps a validated sort key to its column name. The web layer
// whitelists sort keys before they reach the repository; anything else
// falls back to id to keep the query safe.
func sortColumn(sort string) string {
	switch sort {
	case domain.SortByName, domain.SortByEmail, domain.SortByID:
		return sort
	default:
		return domain.SortByID
	}
}

// List returns a page of users ordered per opts.
func (r *PgxUserRepository) List(ctx context.Context, opts domain.ListOptions) ([]domain.User, error) {
	direction := "ASC"
	if opts.Order == domain.OrderDesc {
		direction = "DESC"
	}

	query := fmt.Sprintf(
		`SELECT id, name, email FROM users ORDER BY %s %s OFFSET $1 LIMIT $2`,
		sortColumn(opts.Sort), direction,
	)

	rows, err := r.pool.Query(ctx, query, opts.Skip, opts.Take)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]domain.User, 0, opts.Take)
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Count returns the total number of stored users.
func (r *PgxUserRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// GetByID returns the user with the given id.
// Returns (nil, nil) when no user is found.
func (r *PgxUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT id, name, email FROM users WHERE id = $1`

	var u domain.User
	err := r.pool.QueryRow(ctx, query, id).Scan(&u.ID, &u.Name, &u.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &u, nil
}

// GetByEmail returns the full record, hash included.
// Returns (nil, nil) when no user is found.
func (r *PgxUserRepository) GetByEmail(ctx context.Context, email string) (*domain.UserRow, error) {
	query := `SELECT id, name, email, password_hash FROM users WHERE email = $1`

	var row domain.UserRow
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&row.ID, &row.Name, &row.Email, &row.PasswordHash,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &row, nil
}

// Create inserts a new user and returns the created record.
func (r *PgxUserRepository) Create(ctx context.Context, u domain.NewUser) (*domain.User, error) {
	query := `INSERT INTO users (id, name, email, password_hash) VALUES ($1, $2, $3, $4)`

	id := uuid.NewString()
	if _, err := r.pool.Exec(ctx, query, id, u.Name, u.Email, u.PasswordHash); err != nil {
		return nil, err
	}

	return &domain.User{ID: id, Name: u.Name, Email: u.Email}, nil
}

// CreateMany inserts a batch of users inside one transaction and returns the
// created records in input order.
func (r *PgxUserRepository) CreateMany(ctx context.Context, users []domain.NewUser) ([]domain.User, error) {
	if len(users) == 0 {
		return []domain.User{}, nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	created := make([]domain.User, 0, len(users))
	query := `INSERT INTO users (id, name, email, password_hash) VALUES ($1, $2, $3, $4)`
	for _, u := range users {
		id := uuid.NewString()
		if _, err := tx.Exec(ctx, query, id, u.Name, u.Email, u.PasswordHash); err != nil {
			return nil, err
		}
		created = append(created, domain.User{ID: id, Name: u.Name, Email: u.Email})
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

// Update applies the non-empty fields of patch to the user with the given id.
// Returns (nil, nil) when no user is found.
func (r *PgxUserRepository) Update(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error) {
	sets := make([]string, 0, 3)
	args := make([]any, 0, 4)

	if patch.Name != "" {
		args = append(args, patch.Name)
		sets = append(sets, fmt.Sprintf("name = $%d", len(args)))
	}
	if patch.Email != "" {
		args = append(args, patch.Email)
		sets = append(sets, fmt.Sprintf("email = $%d", len(args)))
	}
	if patch.PasswordHash != "" {
		args = append(args, patch.PasswordHash)
		sets = append(sets, fmt.Sprintf("password_hash = $%d", len(args)))
	}
	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(
		`UPDATE users SET %s WHERE id = $%d RETURNING id, name, email`,
		strings.Join(sets, ", "), len(args),
	)

	var u domain.User
	err := r.pool.QueryRow(ctx, query, args...).Scan(&u.ID, &u.Name, &u.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &u, nil
}

// Delete removes the user with the given id and returns the deleted record.
// Returns (nil, nil) when no user is found.
func (r *PgxUserRepository) Delete(ctx context.Context, id string) (*domain.User, error) {
	query := `DELETE FROM users WHERE id = $1 RETURNING id, name, email`

	var u domain.User
	err := r.pool.QueryRow(ctx, query, id).Scan(&u.ID, &u.Name, &u.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &u, nil
}

// EmailExists returns true when a user with the given email already exists.
func (r *PgxUserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, email).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// EmailsExist reports, for each email in the input, whether a user with that
// email already exists.
func (r *PgxUserRepository) EmailsExist(ctx context.Context, emails []string) (map[string]bool, error) {
	result := make(map[string]bool, len(emails))
	if len(emails) == 0 {
		return result, nil
	}
	for _, email := range emails {
		result[email] = false
	}

	query := `SELECT email FROM users WHERE email = ANY($1)`
	rows, err := r.pool.Query(ctx, query, emails)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, err
		}
		result[email] = true
	}
	return result, rows.Err()
}
