// Package service contains the business logic.
//
// It sits between the command layer and the repository layer, receiving
// entities and calling repository methods to interact with the data.
package service

import "context"

// Service is the CRUD contract presented to callers. It differs from
// repository.Repository only in Update, which returns the stored entity.
type Service[T any] interface {
	Create(ctx context.Context, item T) (T, error)
	GetByID(ctx context.Context, id string) (T, error)
	GetAll(ctx context.Context) ([]T, error)
	Update(ctx context.Context, item T) (T, error)
	Delete(ctx context.Context, id string) error
}
