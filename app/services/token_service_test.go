// Package services provides technical concerns shared by the API layer,
// like token issuance.
package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestTokenService creates a token service for testing with symmetric key
func createTestTokenService() (TokenService, error) {
	return NewTokenService(
		15*time.Minute,
		7*24*time.Hour,
		"test-issuer",
		"test-audience",
		false, // useRSAKeys
		"",    // privateKeyPEM
		"",    // publicKeyPEM
		"test-secret-key-for-jwt-signing-32-chars", // secretKey
	)
}

func TestNewTokenService(t *testing.T) {
	tests := []struct {
		name        string
		secretKey   string
		expectError bool
	}{
		{
			name:        "valid symmetric key configuration",
			secretKey:   "test-secret-key-for-jwt-signing-32-chars",
			expectError: false,
		},
		{
			name:        "missing secret key",
			secretKey:   "",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, err := NewTokenService(
				15*time.Minute,
				7*24*time.Hour,
				"test-issuer",
				"test-audience",
				false,
				"",
				"",
				tt.secretKey,
			)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, service)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, service)
			}
		})
	}
}

func TestGenerateAndValidateTokens(t *testing.T) {
	service, err := createTestTokenService()
	require.NoError(t, err)

	access, refresh, err := service.GenerateTokens(123)
	require.NoError(t, err)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)
	assert.NotEqual(t, access, refresh)

	accessClaims, err := service.ValidateToken(access)
	require.NoError(t, err)
	assert.Equal(t, uint(123), accessClaims.UserID)
	assert.Equal(t, "access", accessClaims.TokenType)
	assert.NotEmpty(t, accessClaims.TokenID)

	refreshClaims, err := service.ValidateToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, "refresh", refreshClaims.TokenType)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	service, err := createTestTokenService()
	require.NoError(t, err)

	_, err = service.ValidateToken("not.a.token")
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = service.ValidateToken("")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidateTokenRejectsForeignSignature(t *testing.T) {
	service, err := createTestTokenService()
	require.NoError(t, err)

	other, err := NewTokenService(
		15*time.Minute, 7*24*time.Hour,
		"test-issuer", "test-audience",
		false, "", "", "a-completely-different-secret-key-here",
	)
	require.NoError(t, err)

	access, _, err := other.GenerateTokens(1)
	require.NoError(t, err)

	_, err = service.ValidateToken(access)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestRefreshToken(t *testing.T) {
	service, err := createTestTokenService()
	require.NoError(t, err)

	_, refresh, err := service.GenerateTokens(42)
	require.NoError(t, err)

	newAccess, newRefresh, err := service.RefreshToken(refresh)
	require.NoError(t, err)

	claims, err := service.ValidateToken(newAccess)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)

	_, err = service.ValidateToken(newRefresh)
	assert.NoError(t, err)

	// The consumed refresh token is revoked.
	_, _, err = service.RefreshToken(refresh)
	assert.Error(t, err)
}

func TestRefreshTokenRejectsAccessToken(t *testing.T) {
	service, err := createTestTokenService()
	require.NoError(t, err)

	access, _, err := service.GenerateTokens(42)
	require.NoError(t, err)

	_, _, err = service.RefreshToken(access)
	assert.Error(t, err)
}

func TestRevokeToken(t *testing.T) {
	service, err := createTestTokenService()
	require.NoError(t, err)

	access, _, err := service.GenerateTokens(7)
	require.NoError(t, err)

	require.NoError(t, service.RevokeToken(access))

	_, err = service.ValidateToken(access)
	assert.ErrorIs(t, err, ErrTokenRevoked)

	// Revoking twice is a no-op.
	assert.NoError(t, service.RevokeToken(access))
}

func TestExpiredToken(t *testing.T) {
	service, err := NewTokenService(
		-time.Minute, 7*24*time.Hour,
		"test-issuer", "test-audience",
		false, "", "", "test-secret-key-for-jwt-signing-32-chars",
	)
	require.NoError(t, err)

	access, _, err := service.GenerateTokens(7)
	require.NoError(t, err)

	_, err = service.ValidateToken(access)
	assert.ErrorIs(t, err, ErrTokenExpired)
}
