package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

func TestGenerateAndValidate(t *testing.T) {
	token, err := GenerateJWT(42, "anna", true, time.Hour, secret)
	require.NoError(t, err)

	claims, err := ValidateToken(token, secret)
	require.NoError(t, err)

	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
	assert.Equal(t, "anna", claims.Username)
	assert.True(t, claims.IsAdmin)
}

func TestValidateToken_Rejects(t *testing.T) {
	good, err := GenerateJWT(1, "bob", false, time.Hour, secret)
	require.NoError(t, err)
	expired, err := GenerateJWT(1, "bob", false, -time.Minute, secret)
	require.NoError(t, err)

	tests := []struct {
		name   string
		token  string
		secret []byte
	}{
		{"empty", "", secret},
		{"garbage", "not.a.jwt", secret},
		{"wrong secret", good, []byte("other")},
		{"expired", expired, secret},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateToken(tt.token, tt.secret)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidToken))
		})
	}
}

func TestGenerateJWT_RequiresUser(t *testing.T) {
	_, err := GenerateJWT(0, "x", false, time.Hour, secret)
	assert.Error(t, err)
	_, err = GenerateJWT(1, "x", false, time.Hour, nil)
	assert.Error(t, err)
}
