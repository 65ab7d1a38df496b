// Package demo runs the fixed create/read/update/delete/list script against
// a user service.
package demo

import (
	"context"
	"fmt"
	"io"

	"github.com/deppfellow/usercrud/internal/lib/render"
	"github.com/deppfellow/usercrud/internal/model"
	"github.com/deppfellow/usercrud/internal/service"
	"github.com/google/uuid"
)

const updatedPrefix = "updated-"

// IDFunc generates the id of the user the script creates.
type IDFunc func() string

// NewID is the default IDFunc: a random UUID string.
func NewID() string {
	return uuid.NewString()
}

// GenerateUsername derives the demo username from id.
func GenerateUsername(id string) string {
	return "user-" + id
}

// GenerateEmail derives the demo email from id.
func GenerateEmail(id string) string {
	return id + "@example.com"
}

// Run executes the script, printing each result on w.
//
// The first failing step stops the script; its error names the step.
func Run(ctx context.Context, svc service.Service[model.User], w io.Writer, newID IDFunc) error {
	if newID == nil {
		newID = NewID
	}

	id := newID()
	created, err := svc.Create(ctx, model.User{
		ID:       id,
		Username: GenerateUsername(id),
		Email:    GenerateEmail(id),
	})
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	fmt.Fprint(w, "\n# Created User:\n\n")
	render.Table(w, created)

	fetched, err := svc.GetByID(ctx, created.ID)
	if err != nil {
		return fmt.Errorf("failed to get user by id: %w", err)
	}
	fmt.Fprint(w, "\n# Get User By Id:\n\n")
	render.Table(w, fetched)

	updated, err := svc.Update(ctx, model.User{
		ID:       fetched.ID,
		Username: updatedPrefix + fetched.Username,
		Email:    updatedPrefix + fetched.Email,
	})
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	fmt.Fprint(w, "\n# Updated User:\n\n")
	render.Table(w, updated)

	if err := svc.Delete(ctx, updated.ID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	fmt.Fprintf(w, "\n# Deleted User ID: %q\n", updated.ID)

	all, err := svc.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to get all users: %w", err)
	}
	fmt.Fprint(w, "\n# All Users:\n\n")
	render.Table(w, all...)

	return nil
}
