package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/deppfellow/usercrud/internal/errs"
	"github.com/deppfellow/usercrud/internal/model"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userColumns = []string{"id", "username", "email"}

func newMockRepository(t *testing.T) (*UserRepository, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})

	return NewUserRepository(mock), mock
}

func Test_UserRepository_Create(t *testing.T) {
	repo, mock := newMockRepository(t)
	user := model.User{ID: "abc", Username: "user-abc", Email: "abc@example.com"}

	mock.ExpectQuery("INSERT INTO users (id, username, email) VALUES ($1, $2, $3) RETURNING *").
		WithArgs("abc", "user-abc", "abc@example.com").
		WillReturnRows(pgxmock.NewRows(userColumns).AddRow("abc", "user-abc", "abc@example.com"))

	created, err := repo.Create(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, user, created)
}

func Test_UserRepository_CreateReturnsStoredRow(t *testing.T) {
	repo, mock := newMockRepository(t)

	// column order differs from the struct: mapping is by name
	mock.ExpectQuery(createUserQuery).
		WithArgs("abc", "user-abc", "ABC@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"email", "id", "username"}).AddRow("abc@example.com", "abc", "user-abc"))

	created, err := repo.Create(context.Background(), model.User{ID: "abc", Username: "user-abc", Email: "ABC@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "abc@example.com", created.Email)
}

func Test_UserRepository_CreateDuplicate(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(createUserQuery).
		WithArgs("abc", "user-abc", "abc@example.com").
		WillReturnError(&pgconn.PgError{
			Severity:       "ERROR",
			Code:           "23505",
			TableName:      "users",
			ConstraintName: "users_pkey",
		})

	_, err := repo.Create(context.Background(), model.User{ID: "abc", Username: "user-abc", Email: "abc@example.com"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrAlreadyExists))
}

func Test_UserRepository_GetByID(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery("SELECT * FROM users WHERE id = $1").
		WithArgs("abc").
		WillReturnRows(pgxmock.NewRows(userColumns).AddRow("abc", "user-abc", "abc@example.com"))

	user, err := repo.GetByID(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, model.User{ID: "abc", Username: "user-abc", Email: "abc@example.com"}, user)
}

func Test_UserRepository_GetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(getUserByIDQuery).
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows(userColumns))

	_, err := repo.GetByID(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrNotFound))
	assert.Equal(t, "User not found", err.Error())
}

func Test_UserRepository_GetByIDAmbiguous(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(getUserByIDQuery).
		WithArgs("abc").
		WillReturnRows(pgxmock.NewRows(userColumns).
			AddRow("abc", "user-abc", "abc@example.com").
			AddRow("abc", "user-abc-2", "abc2@example.com"))

	_, err := repo.GetByID(context.Background(), "abc")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrAmbiguousResult))
}

func Test_UserRepository_GetByIDConnectionFailure(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(getUserByIDQuery).
		WithArgs("abc").
		WillReturnError(errors.New("conn closed"))

	_, err := repo.GetByID(context.Background(), "abc")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrStorage))
	assert.Equal(t, "conn closed", err.Error())
}

func Test_UserRepository_GetAll(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery("SELECT * FROM users").
		WillReturnRows(pgxmock.NewRows(userColumns).
			AddRow("a", "user-a", "a@example.com").
			AddRow("b", "user-b", "b@example.com"))

	users, err := repo.GetAll(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []model.User{
		{ID: "a", Username: "user-a", Email: "a@example.com"},
		{ID: "b", Username: "user-b", Email: "b@example.com"},
	}, users)
}

func Test_UserRepository_GetAllEmpty(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(getAllUsersQuery).
		WillReturnRows(pgxmock.NewRows(userColumns))

	users, err := repo.GetAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)
}

func Test_UserRepository_Update(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec("UPDATE users SET username = $1, email = $2 WHERE id = $3").
		WithArgs("updated-user-abc", "updated-abc@example.com", "abc").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.Update(context.Background(), model.User{ID: "abc", Username: "updated-user-abc", Email: "updated-abc@example.com"})
	assert.NoError(t, err)
}

func Test_UserRepository_UpdateUnknownIDSucceeds(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec(updateUserQuery).
		WithArgs("x", "x@example.com", "missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), model.User{ID: "missing", Username: "x", Email: "x@example.com"})
	assert.NoError(t, err, "zero affected rows is not an error at the repository layer")
}

func Test_UserRepository_Delete(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec("DELETE FROM users WHERE id = $1").
		WithArgs("abc").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(deleteUserQuery).
		WithArgs("abc").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.NoError(t, repo.Delete(context.Background(), "abc"))
	assert.NoError(t, repo.Delete(context.Background(), "abc"), "deleting twice succeeds")
}

func Test_UserRepository_DeleteFailure(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec(deleteUserQuery).
		WithArgs("abc").
		WillReturnError(errors.New("connection reset by peer"))

	err := repo.Delete(context.Background(), "abc")
	assert.True(t, errors.Is(err, errs.ErrStorage))
}
