// Package render writes users to the console, as a table or as JSON.
package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/deppfellow/usercrud/internal/model"
	"github.com/olekukonko/tablewriter"
)

// Format selects how Users renders its input.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

// ParseFormat validates a --output flag value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatTable, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (must be one of: table, json)", s)
	}
}

// Users renders users in the requested format. JSON output is always an
// array, empty when users is.
func Users(w io.Writer, format Format, users ...model.User) error {
	if format == FormatJSON {
		if users == nil {
			users = []model.User{}
		}
		return JSON(w, users)
	}
	Table(w, users...)
	return nil
}

// Table renders users as a bordered table with ID, Username and Email columns.
// The header is printed even when users is empty.
func Table(w io.Writer, users ...model.User) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Username", "Email"})
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	for _, user := range users {
		table.Append([]string{user.ID, user.Username, user.Email})
	}
	table.Render()
}

// JSON writes v as indented JSON followed by a newline.
func JSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "\t")
	if err != nil {
		return fmt.Errorf("marshalling JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
