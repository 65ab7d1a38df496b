// Package model holds the persisted entity types.
package model

// User is the only entity stored by this application.
//
// ID is assigned by the caller before creation (a UUID string) and is never
// regenerated. The db tags map result columns by name, so the column order
// of "SELECT *" does not matter.
type User struct {
	ID       string `db:"id" json:"id"`
	Username string `db:"username" json:"username"`
	Email    string `db:"email" json:"email"`
}
