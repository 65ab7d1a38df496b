package service

import (
	"context"

	"github.com/deppfellow/usercrud/internal/model"
	"github.com/deppfellow/usercrud/internal/repository"
)

var _ Service[model.User] = (*UserService)(nil)

// UserService forwards every operation to its repository, except Update
// which re-reads the row after writing it.
type UserService struct {
	repository repository.Repository[model.User]
}

// NewUserService returns a service backed by repo.
func NewUserService(repo repository.Repository[model.User]) *UserService {
	return &UserService{repository: repo}
}

// Create stores item and returns the stored row.
func (s *UserService) Create(ctx context.Context, item model.User) (model.User, error) {
	return s.repository.Create(ctx, item)
}

// GetByID returns the user with id.
func (s *UserService) GetByID(ctx context.Context, id string) (model.User, error) {
	return s.repository.GetByID(ctx, id)
}

// GetAll returns every user.
func (s *UserService) GetAll(ctx context.Context) ([]model.User, error) {
	return s.repository.GetAll(ctx)
}

// Update writes item and returns the row as read back from storage, so the
// caller sees what the database holds rather than its own input.
//
// A failed write is returned unchanged and no read is made. Because the
// repository does not check existence, updating an unknown id surfaces as
// errs.ErrNotFound from the read.
func (s *UserService) Update(ctx context.Context, item model.User) (model.User, error) {
	if err := s.repository.Update(ctx, item); err != nil {
		return model.User{}, err
	}
	return s.repository.GetByID(ctx, item.ID)
}

// Delete removes the user with id.
func (s *UserService) Delete(ctx context.Context, id string) error {
	return s.repository.Delete(ctx, id)
}
