package service

import (
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"healthmon/internal/repository"
)

// newMockRepos backs the repository layer with a sqlmock connection so
// service flows can run without Postgres.
func newMockRepos(t *testing.T) (*repository.Repos, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return repository.New(sqlx.NewDb(db, "sqlmock")), mock
}

func userRow(username, email string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "username", "email", "is_active"}).
		AddRow(1, "user_existing", username, email, true)
}

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	repos, mock := newMockRepos(t)
	svc := &AuthService{repos: repos}

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM users WHERE username = $1`)).
		WithArgs("alice").
		WillReturnRows(userRow("alice", "other@example.com"))

	_, err := svc.Register(RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "supersecret",
		Name:     "Alice Smith",
	})
	assert.ErrorIs(t, err, ErrDuplicateUsername)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	repos, mock := newMockRepos(t)
	svc := &AuthService{repos: repos}

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM users WHERE username = $1`)).
		WithArgs("alice").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM users WHERE email = $1`)).
		WithArgs("alice@example.com").
		WillReturnRows(userRow("someone", "alice@example.com"))

	_, err := svc.Register(RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "supersecret",
		Name:     "Alice Smith",
	})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterCreatesUser(t *testing.T) {
	repos, mock := newMockRepos(t)
	svc := &AuthService{repos: repos}

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM users WHERE username = $1`)).
		WithArgs("alice").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM users WHERE email = $1`)).
		WithArgs("alice@example.com").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).
			AddRow(int64(7), time.Now().UTC()))

	age := 34
	u, err := svc.Register(RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "supersecret",
		Name:     "Alice Smith",
		Age:      &age,
	})
	require.NoError(t, err)

	// Submitted fields survive the write unchanged, defaults fill the rest.
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.Equal(t, "Alice Smith", u.Name)
	require.NotNil(t, u.Age)
	assert.Equal(t, 34, *u.Age)
	assert.Equal(t, "moderate", u.FitnessLevel)
	assert.Equal(t, "UTC", u.Timezone)
	assert.True(t, u.IsActive)
	assert.Regexp(t, `^user_[0-9a-f]{8}$`, u.UserID)
	assert.Equal(t, int64(7), u.ID)

	// The stored hash verifies against the submitted password.
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("supersecret")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthenticateWrongPassword(t *testing.T) {
	repos, mock := newMockRepos(t)
	svc := &AuthService{repos: repos}

	hash, err := bcrypt.GenerateFromPassword([]byte("rightpassword"), bcrypt.MinCost)
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM users WHERE username = $1`)).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "user_id", "username", "password_hash", "is_active"}).
			AddRow(1, "user_a", "alice", string(hash), true))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET failed_login_attempts = failed_login_attempts + 1`)).
		WithArgs("user_a").
		WillReturnResult(sqlmock.NewResult(0, 1))

	_, err = svc.Authenticate("alice", "wrongpassword")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthenticateSuccess(t *testing.T) {
	repos, mock := newMockRepos(t)
	svc := &AuthService{repos: repos}

	hash, err := bcrypt.GenerateFromPassword([]byte("rightpassword"), bcrypt.MinCost)
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM users WHERE username = $1`)).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "user_id", "username", "password_hash", "is_active"}).
			AddRow(1, "user_a", "alice", string(hash), true))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET last_login`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	u, err := svc.Authenticate("alice", "rightpassword")
	require.NoError(t, err)
	assert.Equal(t, "user_a", u.UserID)
	assert.NotNil(t, u.LastLogin)
	assert.NoError(t, mock.ExpectationsWereMet())
}
