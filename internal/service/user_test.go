package service

import (
	"context"
	"errors"
	"testing"

	"github.com/deppfellow/usercrud/internal/errs"
	"github.com/deppfellow/usercrud/internal/model"
	"github.com/deppfellow/usercrud/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, item model.User) (model.User, error) {
	args := m.Called(ctx, item)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *mockUserRepository) GetAll(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *mockUserRepository) Update(ctx context.Context, item model.User) error {
	return m.Called(ctx, item).Error(0)
}

func (m *mockUserRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func Test_UserService_PassThrough(t *testing.T) {
	ctx := context.Background()
	repo := &mockUserRepository{}
	svc := NewUserService(repo)

	user := model.User{ID: "abc", Username: "user-abc", Email: "abc@example.com"}
	deleteErr := errors.New("boom")

	repo.On("Create", ctx, user).Return(user, nil).Once()
	repo.On("GetByID", ctx, "abc").Return(user, nil).Once()
	repo.On("GetAll", ctx).Return([]model.User{user}, nil).Once()
	repo.On("Delete", ctx, "abc").Return(deleteErr).Once()

	created, err := svc.Create(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, user, created)

	fetched, err := svc.GetByID(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, user, fetched)

	all, err := svc.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.User{user}, all)

	assert.Equal(t, deleteErr, svc.Delete(ctx, "abc"))

	repo.AssertExpectations(t)
}

func Test_UserService_UpdateReturnsStoredRow(t *testing.T) {
	ctx := context.Background()
	repo := &mockUserRepository{}
	svc := NewUserService(repo)

	input := model.User{ID: "abc", Username: "updated-user-abc", Email: "UPDATED-abc@example.com"}
	stored := model.User{ID: "abc", Username: "updated-user-abc", Email: "updated-abc@example.com"}

	repo.On("Update", ctx, input).Return(nil).Once()
	repo.On("GetByID", ctx, "abc").Return(stored, nil).Once()

	updated, err := svc.Update(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, stored, updated)

	repo.AssertExpectations(t)
}

func Test_UserService_UpdateFailureSkipsRead(t *testing.T) {
	ctx := context.Background()
	repo := &mockUserRepository{}
	svc := NewUserService(repo)

	input := model.User{ID: "abc"}
	writeErr := errs.NewStorageError(errors.New("conn closed"))
	repo.On("Update", ctx, input).Return(writeErr).Once()

	updated, err := svc.Update(ctx, input)
	assert.Equal(t, writeErr, err)
	assert.Equal(t, model.User{}, updated)

	repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}

func Test_UserService_UpdateUnknownID(t *testing.T) {
	svc := NewUserService(memory.NewUserRepository())

	_, err := svc.Update(context.Background(), model.User{ID: "missing", Username: "x", Email: "x@example.com"})
	assert.True(t, errors.Is(err, errs.ErrNotFound))
}
