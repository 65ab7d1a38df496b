package render

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/deppfellow/usercrud/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ParseFormat(t *testing.T) {
	format, err := ParseFormat("json")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, format)

	format, err = ParseFormat("table")
	require.NoError(t, err)
	assert.Equal(t, FormatTable, format)

	_, err = ParseFormat("yaml")
	assert.EqualError(t, err, `unknown output format "yaml" (must be one of: table, json)`)
}

func Test_Table(t *testing.T) {
	var buf bytes.Buffer
	Table(&buf, model.User{ID: "abc", Username: "user-abc", Email: "abc@example.com"})

	out := buf.String()
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "Username")
	assert.Contains(t, out, "Email")
	assert.Contains(t, out, "user-abc")
	assert.Contains(t, out, "abc@example.com")
}

func Test_TableEmpty(t *testing.T) {
	var buf bytes.Buffer
	Table(&buf)

	assert.Contains(t, buf.String(), "Username")
}

func Test_UsersJSON(t *testing.T) {
	users := []model.User{
		{ID: "a", Username: "user-a", Email: "a@example.com"},
		{ID: "b", Username: "user-b", Email: "b@example.com"},
	}

	var buf bytes.Buffer
	require.NoError(t, Users(&buf, FormatJSON, users...))

	var decoded []model.User
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, users, decoded)
}

func Test_UsersJSONEmptyList(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Users(&buf, FormatJSON, []model.User{}...))

	assert.Equal(t, "[]\n", buf.String())
}

func Test_UsersJSONNoUsers(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Users(&buf, FormatJSON))

	assert.Equal(t, "[]\n", buf.String())
}
