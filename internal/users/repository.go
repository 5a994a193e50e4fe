package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"sima/internal/auth"
	"sima/internal/database"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailExists  = errors.New("email already registered")
)

const emailConstraint = "users_email_key"

const userColumns = `id, public_id, name, email, password_hash, date_of_birth,
		display_name, contact_one, contact_two, created_at, updated_at`

// Repository handles all database operations for users
type Repository struct {
	db database.Service
}

// NewRepository creates a new users repository
func NewRepository(db database.Service) *Repository {
	return &Repository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*User, error) {
	var (
		u   User
		dob sql.NullTime
	)
	err := row.Scan(
		&u.ID,
		&u.PublicID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&dob,
		&u.DisplayName,
		&u.ContactOne,
		&u.ContactTwo,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if dob.Valid {
		u.DateOfBirth = &dob.Time
	}
	return &u, nil
}

// Create inserts a new user and fills in the generated columns
func (r *Repository) Create(ctx context.Context, u *User) (*User, error) {
	query := `
		INSERT INTO users (public_id, name, email, password_hash, date_of_birth,
			display_name, contact_one, contact_two)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + userColumns

	created, err := scanUser(r.db.QueryRowContext(ctx, query,
		u.PublicID,
		u.Name,
		u.Email,
		u.PasswordHash,
		u.DateOfBirth,
		u.DisplayName,
		u.ContactOne,
		u.ContactTwo,
	))
	if err != nil {
		if database.IsUniqueViolation(err, emailConstraint) {
			return nil, ErrEmailExists
		}
		slog.Error("Error creating user", "error", err)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return created, nil
}

// GetByPublicID retrieves a single user by public id
func (r *Repository) GetByPublicID(ctx context.Context, publicID string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE public_id = $1`

	u, err := scanUser(r.db.QueryRowContext(ctx, query, publicID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return u, nil
}

// FindByEmail returns the credential view of the account registered under
// email. The match is exact.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*auth.Account, error) {
	query := `SELECT public_id, email, password_hash FROM users WHERE email = $1`

	var account auth.Account
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&account.PublicID,
		&account.Email,
		&account.PasswordHash,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, auth.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find account by email: %w", err)
	}

	return &account, nil
}

// List returns every user ordered by registration
func (r *Repository) List(ctx context.Context) ([]User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	return users, nil
}

// Update applies the non-nil fields of req to the user. Credential columns
// are never touched here.
func (r *Repository) Update(ctx context.Context, publicID string, req UpdateUserRequest) (*User, error) {
	var (
		sets []string
		args []any
	)
	// Absent and empty fields leave the column unchanged.
	add := func(column string, value *string) {
		if value == nil || *value == "" {
			return
		}
		args = append(args, *value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	add("email", req.Email)
	add("display_name", req.DisplayName)
	add("contact_one", req.ContactOne)
	add("contact_two", req.ContactTwo)

	if len(sets) == 0 {
		return r.GetByPublicID(ctx, publicID)
	}

	args = append(args, publicID)
	query := fmt.Sprintf(`UPDATE users SET %s, updated_at = NOW() WHERE public_id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), userColumns)

	u, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		if database.IsUniqueViolation(err, emailConstraint) {
			return nil, ErrEmailExists
		}
		slog.Error("Error updating user", "public_id", publicID, "error", err)
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return u, nil
}

// Delete removes the user with publicID
func (r *Repository) Delete(ctx context.Context, publicID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE public_id = $1`, publicID)
	if err != nil {
		slog.Error("Error deleting user", "public_id", publicID, "error", err)
		return fmt.Errorf("failed to delete user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}
