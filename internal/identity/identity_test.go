package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Role
		wantErr bool
	}{
		{name: "user", raw: "USER", want: RoleUser},
		{name: "admin lowercase", raw: "admin", want: RoleAdmin},
		{name: "god padded", raw: "  GOD ", want: RoleGod},
		{name: "unknown", raw: "SUPERVISOR", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRole(tt.raw)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownRole)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromHeaders(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		caller, err := FromHeaders(" 42 ", "admin", "sub-123")
		require.NoError(t, err)
		assert.Equal(t, "42", caller.UserID)
		assert.Equal(t, RoleAdmin, caller.Role)
		assert.Equal(t, "sub-123", caller.ProviderSub)
	})

	t.Run("missing user id", func(t *testing.T) {
		_, err := FromHeaders("", "USER", "sub-123")
		require.ErrorIs(t, err, ErrMissingIdentity)
	})

	t.Run("missing provider sub", func(t *testing.T) {
		_, err := FromHeaders("42", "USER", "  ")
		require.ErrorIs(t, err, ErrMissingIdentity)
	})

	t.Run("bad role", func(t *testing.T) {
		_, err := FromHeaders("42", "ROOT", "sub-123")
		require.ErrorIs(t, err, ErrUnknownRole)
	})
}
