package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	tests := []struct {
		name    string
		userID  string
		role    string
		secret  string
		wantErr bool
	}{
		{
			name:   "token válido de usuario",
			userID: "64f1a2b3c4d5e6f7a8b9c0d1",
			role:   "user",
			secret: "test-secret",
		},
		{
			name:   "token válido de admin",
			userID: "64f1a2b3c4d5e6f7a8b9c0d2",
			role:   "admin",
			secret: "test-secret",
		},
		{
			name:    "sin userID",
			userID:  "",
			role:    "user",
			secret:  "test-secret",
			wantErr: true,
		},
		{
			name:    "sin secret",
			userID:  "64f1a2b3c4d5e6f7a8b9c0d1",
			role:    "user",
			secret:  "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signed, err := Generate(tt.userID, tt.role, tt.secret, time.Hour)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)

			claims, err := Validate(signed, tt.secret)
			require.NoError(t, err)
			assert.Equal(t, tt.userID, claims.UserID)
			assert.Equal(t, tt.role, claims.Role)
		})
	}
}

func TestValidateWrongSecret(t *testing.T) {
	signed, err := Generate("64f1a2b3c4d5e6f7a8b9c0d1", "user", "secret-a", time.Hour)
	require.NoError(t, err)

	_, err = Validate(signed, "secret-b")
	assert.Error(t, err)
}

func TestValidateExpired(t *testing.T) {
	signed, err := Generate("64f1a2b3c4d5e6f7a8b9c0d1", "user", "test-secret", -time.Minute)
	require.NoError(t, err)

	_, err = Validate(signed, "test-secret")
	assert.Error(t, err)
}

func TestValidateGarbage(t *testing.T) {
	_, err := Validate("no-es-un-jwt", "test-secret")
	assert.Error(t, err)
}
