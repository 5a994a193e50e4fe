package users

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sima/internal/auth"
	"sima/internal/database"
)

var userRowColumns = []string{
	"id", "public_id", "name", "email", "password_hash", "date_of_birth",
	"display_name", "contact_one", "contact_two", "created_at", "updated_at",
}

func newMockRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(database.NewFromDB(db)), mock
}

func userRow(publicID, email string, dob any) []driver.Value {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return []driver.Value{int64(1), publicID, "Ada", email, "$2a$hash", dob, "ada", "555-0100", "", now, now}
}

func TestRepository_Create(t *testing.T) {
	repo, mock := newMockRepository(t)

	dob := time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("INSERT INTO users").
		WithArgs("u1", "Ada", "a@x.com", "$2a$hash", &dob, "ada", "555-0100", "").
		WillReturnRows(sqlmock.NewRows(userRowColumns).AddRow(userRow("u1", "a@x.com", dob)...))

	created, err := repo.Create(context.Background(), &User{
		PublicID:     "u1",
		Name:         "Ada",
		Email:        "a@x.com",
		PasswordHash: "$2a$hash",
		DateOfBirth:  &dob,
		DisplayName:  "ada",
		ContactOne:   "555-0100",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	require.NotNil(t, created.DateOfBirth)
	assert.True(t, dob.Equal(*created.DateOfBirth))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create_DuplicateEmail(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	_, err := repo.Create(context.Background(), &User{PublicID: "u2", Email: "a@x.com"})

	assert.ErrorIs(t, err, ErrEmailExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByPublicID(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE public_id").
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(userRowColumns).AddRow(userRow("u1", "a@x.com", nil)...))

	u, err := repo.GetByPublicID(context.Background(), "u1")

	require.NoError(t, err)
	assert.Equal(t, "a@x.com", u.Email)
	assert.Nil(t, u.DateOfBirth)
}

func TestRepository_GetByPublicID_NotFound(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE public_id").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(userRowColumns))

	_, err := repo.GetByPublicID(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRepository_FindByEmail(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery("SELECT public_id, email, password_hash FROM users WHERE email").
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"public_id", "email", "password_hash"}).
			AddRow("u1", "a@x.com", "$2a$hash"))

	account, err := repo.FindByEmail(context.Background(), "a@x.com")

	require.NoError(t, err)
	assert.Equal(t, &auth.Account{PublicID: "u1", Email: "a@x.com", PasswordHash: "$2a$hash"}, account)
}

func TestRepository_FindByEmail_Errors(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery("FROM users WHERE email").
		WithArgs("ghost@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"public_id", "email", "password_hash"}))

	_, err := repo.FindByEmail(context.Background(), "ghost@x.com")
	assert.ErrorIs(t, err, auth.ErrAccountNotFound)

	dbErr := errors.New("connection reset")
	mock.ExpectQuery("FROM users WHERE email").
		WithArgs("a@x.com").
		WillReturnError(dbErr)

	_, err = repo.FindByEmail(context.Background(), "a@x.com")
	assert.ErrorIs(t, err, dbErr)
	assert.NotErrorIs(t, err, auth.ErrAccountNotFound)
}

func TestRepository_List(t *testing.T) {
	repo, mock := newMockRepository(t)

	rows := sqlmock.NewRows(userRowColumns).
		AddRow(userRow("u1", "a@x.com", nil)...).
		AddRow(userRow("u2", "b@x.com", nil)...)
	mock.ExpectQuery("SELECT (.+) FROM users ORDER BY id").WillReturnRows(rows)

	all, err := repo.List(context.Background())

	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "u2", all[1].PublicID)
}

func TestRepository_List_Empty(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery("FROM users").WillReturnRows(sqlmock.NewRows(userRowColumns))

	all, err := repo.List(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}

func TestRepository_Update_OnlyProvidedFields(t *testing.T) {
	repo, mock := newMockRepository(t)

	email := "new@x.com"
	contact := "555-0199"
	mock.ExpectQuery(`UPDATE users SET email = \$1, contact_two = \$2, updated_at = NOW\(\) WHERE public_id = \$3`).
		WithArgs(email, contact, "u1").
		WillReturnRows(sqlmock.NewRows(userRowColumns).AddRow(userRow("u1", email, nil)...))

	u, err := repo.Update(context.Background(), "u1", UpdateUserRequest{Email: &email, ContactTwo: &contact})

	require.NoError(t, err)
	assert.Equal(t, email, u.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Update_SkipsEmptyFields(t *testing.T) {
	repo, mock := newMockRepository(t)

	empty := ""
	contact := "555-0100"
	mock.ExpectQuery(`UPDATE users SET contact_one = \$1, updated_at = NOW\(\) WHERE public_id = \$2`).
		WithArgs(contact, "u1").
		WillReturnRows(sqlmock.NewRows(userRowColumns).AddRow(userRow("u1", "a@x.com", nil)...))

	_, err := repo.Update(context.Background(), "u1", UpdateUserRequest{
		Email:       &empty,
		DisplayName: &empty,
		ContactOne:  &contact,
		ContactTwo:  &empty,
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Update_OnlyEmptyFieldsReadsUser(t *testing.T) {
	repo, mock := newMockRepository(t)

	empty := ""
	mock.ExpectQuery("SELECT (.+) FROM users WHERE public_id").
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(userRowColumns).AddRow(userRow("u1", "a@x.com", nil)...))

	u, err := repo.Update(context.Background(), "u1", UpdateUserRequest{DisplayName: &empty})

	require.NoError(t, err)
	assert.Equal(t, "u1", u.PublicID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Update_NoFields(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE public_id").
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(userRowColumns).AddRow(userRow("u1", "a@x.com", nil)...))

	u, err := repo.Update(context.Background(), "u1", UpdateUserRequest{})

	require.NoError(t, err)
	assert.Equal(t, "u1", u.PublicID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Update_Errors(t *testing.T) {
	repo, mock := newMockRepository(t)
	email := "taken@x.com"

	mock.ExpectQuery("UPDATE users SET").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})
	_, err := repo.Update(context.Background(), "u1", UpdateUserRequest{Email: &email})
	assert.ErrorIs(t, err, ErrEmailExists)

	mock.ExpectQuery("UPDATE users SET").WillReturnRows(sqlmock.NewRows(userRowColumns))
	_, err = repo.Update(context.Background(), "gone", UpdateUserRequest{Email: &email})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRepository_Delete(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec("DELETE FROM users WHERE public_id").
		WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM users WHERE public_id").
		WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), "u1"))
	assert.ErrorIs(t, repo.Delete(context.Background(), "u1"), ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
