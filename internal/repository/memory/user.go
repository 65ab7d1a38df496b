// Package memory is an in-process repository backend.
//
// It mirrors the PostgreSQL repository's observable behavior (duplicate ids
// rejected, unknown ids reported as not found, update and delete of unknown
// ids succeeding silently) and is used to run the service layer without a
// database.
package memory

import (
	"context"
	"sync"

	"github.com/deppfellow/usercrud/internal/errs"
	"github.com/deppfellow/usercrud/internal/model"
	"github.com/deppfellow/usercrud/internal/repository"
)

var _ repository.Repository[model.User] = (*UserRepository)(nil)

// UserRepository keeps users in insertion order. It is safe for concurrent use.
type UserRepository struct {
	mu    sync.RWMutex
	order []string
	users map[string]model.User
}

// NewUserRepository returns a repository seeded with users. A repeated id
// keeps its first position and the last value, as an upsert would.
func NewUserRepository(users ...model.User) *UserRepository {
	r := &UserRepository{users: make(map[string]model.User)}
	for _, u := range users {
		if _, ok := r.users[u.ID]; !ok {
			r.order = append(r.order, u.ID)
		}
		r.users[u.ID] = u
	}
	return r
}

// Create stores item. An id already present fails with errs.ErrAlreadyExists.
func (r *UserRepository) Create(ctx context.Context, item model.User) (model.User, error) {
	if err := ctx.Err(); err != nil {
		return model.User{}, errs.NewStorageError(err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[item.ID]; ok {
		code := "USER_ALREADY_EXISTS"
		return model.User{}, errs.NewAlreadyExistsError("A User with this Id already exists", true, &code)
	}

	r.order = append(r.order, item.ID)
	r.users[item.ID] = item
	return item, nil
}

// GetByID returns the user with id, or errs.ErrNotFound.
func (r *UserRepository) GetByID(ctx context.Context, id string) (model.User, error) {
	if err := ctx.Err(); err != nil {
		return model.User{}, errs.NewStorageError(err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		code := "USER_NOT_FOUND"
		return model.User{}, errs.NewNotFoundError("User not found", true, &code)
	}
	return user, nil
}

// GetAll returns a copy of every user in insertion order.
func (r *UserRepository) GetAll(ctx context.Context) ([]model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, errs.NewStorageError(err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]model.User, 0, len(r.order))
	for _, id := range r.order {
		users = append(users, r.users[id])
	}
	return users, nil
}

// Update replaces the stored user with item.ID. Unknown ids are ignored.
func (r *UserRepository) Update(ctx context.Context, item model.User) error {
	if err := ctx.Err(); err != nil {
		return errs.NewStorageError(err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[item.ID]; ok {
		r.users[item.ID] = item
	}
	return nil
}

// Delete removes the user with id. Unknown ids are ignored.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return errs.NewStorageError(err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return nil
	}
	delete(r.users, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
