package validate

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistration(t *testing.T) {
	ok := Registration{Username: "alice1", Email: "alice@example.com", Password: "Passw0rd"}
	require.NoError(t, ok.Validate())

	tests := []struct {
		name  string
		mod   func(r *Registration)
		field string
		msg   string
	}{
		{"missing username", func(r *Registration) { r.Username = "" }, "Username", "Username is required"},
		{"short username", func(r *Registration) { r.Username = "abc" }, "Username", "Username length must be between 4 and 20 characters"},
		{"long username", func(r *Registration) { r.Username = strings.Repeat("a", 21) }, "Username", "Username length must be between 4 and 20 characters"},
		{"symbol in username", func(r *Registration) { r.Username = "al_ice" }, "Username", "Username can only contain letters and numbers"},
		{"non-ascii username", func(r *Registration) { r.Username = "álice" }, "Username", "Username can only contain letters and numbers"},
		{"bad email", func(r *Registration) { r.Email = "not-an-email" }, "Email", "Invalid email address"},
		{"short password", func(r *Registration) { r.Password = "Pa1" }, "Password", "Password must be at least 8 characters long"},
		{"long password", func(r *Registration) { r.Password = "P1" + strings.Repeat("a", 71) }, "Password", "Password must be at most 72 characters long"},
		{"long multibyte password", func(r *Registration) { r.Password = "A1" + strings.Repeat("é", 40) }, "Password", "Password must be at most 72 characters long"},
		{"no digit", func(r *Registration) { r.Password = "Password" }, "Password", "Password must contain at least one uppercase letter and one number"},
		{"no upper", func(r *Registration) { r.Password = "passw0rd" }, "Password", "Password must contain at least one uppercase letter and one number"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := ok
			tc.mod(&r)
			err := r.Validate()

			var fe *FieldError
			require.True(t, errors.As(err, &fe), "got %v", err)
			assert.Equal(t, tc.field, fe.Field)
			assert.Equal(t, tc.msg, fe.Message)
		})
	}
}

func TestRegistration_FirstErrorOnly(t *testing.T) {
	err := Registration{Username: "ab", Email: "x", Password: "y"}.Validate()

	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "Username", fe.Field)
}

func TestLogin(t *testing.T) {
	assert.NoError(t, Login{Username: "x", Password: "y"}.Validate())
	assert.Error(t, Login{Username: "x"}.Validate())
	assert.Error(t, Login{Password: "y"}.Validate())
}

func TestClientData(t *testing.T) {
	assert.NoError(t, ClientData{Data: "secret1"}.Validate())
	assert.NoError(t, ClientData{Data: strings.Repeat("ü", DataMaxLen)}.Validate(), "length counts characters, not bytes")

	err := ClientData{Data: strings.Repeat("x", DataMaxLen+1)}.Validate()
	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "Data length cannot exceed 1000 characters", fe.Message)

	assert.NoError(t, ClientData{}.Validate(), "empty data is storable")
}
