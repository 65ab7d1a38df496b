package repository

import (
	"context"

	"github.com/deppfellow/usercrud/internal/model"
	"github.com/deppfellow/usercrud/internal/sqlerr"
	"github.com/jackc/pgx/v5"
)

const usersTable = "users"

const (
	createUserQuery  = `INSERT INTO users (id, username, email) VALUES ($1, $2, $3) RETURNING *`
	getUserByIDQuery = `SELECT * FROM users WHERE id = $1`
	getAllUsersQuery = `SELECT * FROM users`
	updateUserQuery  = `UPDATE users SET username = $1, email = $2 WHERE id = $3`
	deleteUserQuery  = `DELETE FROM users WHERE id = $1`
)

// UserRepository persists model.User rows in the users table.
type UserRepository struct {
	db DBTX
}

// NewUserRepository returns a repository issuing its statements on db.
func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts item and returns the row as stored by the database.
// A duplicate id fails with errs.ErrAlreadyExists.
func (r *UserRepository) Create(ctx context.Context, item model.User) (model.User, error) {
	rows, err := r.db.Query(ctx, createUserQuery, item.ID, item.Username, item.Email)
	if err != nil {
		return model.User{}, sqlerr.HandleError(err, usersTable)
	}

	user, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[model.User])
	if err != nil {
		return model.User{}, sqlerr.HandleError(err, usersTable)
	}

	return user, nil
}

// GetByID returns the single row matching id.
//
// Zero rows fails with errs.ErrNotFound, more than one with
// errs.ErrAmbiguousResult.
func (r *UserRepository) GetByID(ctx context.Context, id string) (model.User, error) {
	rows, err := r.db.Query(ctx, getUserByIDQuery, id)
	if err != nil {
		return model.User{}, sqlerr.HandleError(err, usersTable)
	}

	user, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[model.User])
	if err != nil {
		return model.User{}, sqlerr.HandleError(err, usersTable)
	}

	return user, nil
}

// GetAll returns every row in storage order. An empty table yields an
// empty slice, not an error.
func (r *UserRepository) GetAll(ctx context.Context) ([]model.User, error) {
	rows, err := r.db.Query(ctx, getAllUsersQuery)
	if err != nil {
		return nil, sqlerr.HandleError(err, usersTable)
	}

	users, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.User])
	if err != nil {
		return nil, sqlerr.HandleError(err, usersTable)
	}

	if users == nil {
		users = []model.User{}
	}

	return users, nil
}

// Update overwrites username and email of the row matching item.ID.
//
// No existence check is made: updating an unknown id succeeds and changes
// nothing.
func (r *UserRepository) Update(ctx context.Context, item model.User) error {
	if _, err := r.db.Exec(ctx, updateUserQuery, item.Username, item.Email, item.ID); err != nil {
		return sqlerr.HandleError(err, usersTable)
	}
	return nil
}

// Delete removes the row matching id. Deleting an unknown id succeeds.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.Exec(ctx, deleteUserQuery, id); err != nil {
		return sqlerr.HandleError(err, usersTable)
	}
	return nil
}
