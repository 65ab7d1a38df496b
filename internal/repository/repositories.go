package repository

import "github.com/deppfellow/usercrud/internal/model"

// Repositories is a container for all repository instances.
type Repositories struct {
	Users *UserRepository
}

var _ Repository[model.User] = (*UserRepository)(nil)

// NewRepositories constructs the repository container on top of db.
//
// db is borrowed: the caller owns the pool and closes it.
func NewRepositories(db DBTX) *Repositories {
	return &Repositories{
		Users: NewUserRepository(db),
	}
}
