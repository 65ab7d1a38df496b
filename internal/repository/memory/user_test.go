package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/deppfellow/usercrud/internal/errs"
	"github.com/deppfellow/usercrud/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_UserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(model.User{ID: "a", Username: "user-a", Email: "a@example.com"})

	b := model.User{ID: "b", Username: "user-b", Email: "b@example.com"}
	created, err := repo.Create(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, b, created)

	_, err = repo.Create(ctx, b)
	assert.True(t, errors.Is(err, errs.ErrAlreadyExists))

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].ID)
	assert.Equal(t, "b", all[1].ID)

	b.Username = "updated-user-b"
	require.NoError(t, repo.Update(ctx, b))
	fetched, err := repo.GetByID(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "updated-user-b", fetched.Username)

	require.NoError(t, repo.Delete(ctx, "a"))
	require.NoError(t, repo.Delete(ctx, "a"))

	_, err = repo.GetByID(ctx, "a")
	assert.True(t, errors.Is(err, errs.ErrNotFound))

	all, err = repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.User{b}, all)
}

func Test_UserRepository_UpdateUnknownID(t *testing.T) {
	repo := NewUserRepository()

	require.NoError(t, repo.Update(context.Background(), model.User{ID: "missing"}))

	all, err := repo.GetAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}

func Test_UserRepository_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewUserRepository().GetAll(ctx)
	assert.True(t, errors.Is(err, errs.ErrStorage))
	assert.True(t, errors.Is(err, context.Canceled))
}

func Test_UserRepository_SeedRepeatedID(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(
		model.User{ID: "a", Username: "first", Email: "a@example.com"},
		model.User{ID: "a", Username: "second", Email: "a@example.com"},
	)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.User{{ID: "a", Username: "second", Email: "a@example.com"}}, all)

	require.NoError(t, repo.Delete(ctx, "a"))

	all, err = repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
