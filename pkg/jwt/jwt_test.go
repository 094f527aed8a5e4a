package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	token, err := GenerateToken("65a000000000000000000001", 3, "access-secret", time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken(token, "access-secret")
	require.NoError(t, err)
	assert.Equal(t, "65a000000000000000000001", claims.UserID)
	assert.Equal(t, 3, claims.TokenVersion)
	assert.NotEmpty(t, claims.ID)
}

func TestTokensMintedTogetherDiffer(t *testing.T) {
	a, err := GenerateToken("u", 1, "s", time.Hour)
	require.NoError(t, err)
	b, err := GenerateToken("u", 1, "s", time.Hour)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	token, err := GenerateToken("u", 1, "access-secret", time.Hour)
	require.NoError(t, err)

	_, err = ValidateToken(token, "refresh-secret")
	assert.Error(t, err)
}

func TestValidateRejectsExpired(t *testing.T) {
	token, err := GenerateToken("u", 1, "s", -time.Minute)
	require.NoError(t, err)

	_, err = ValidateToken(token, "s")
	assert.Error(t, err)
}

func TestValidateRejectsNoneAlgorithm(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: "u"})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ValidateToken(signed, "s")
	assert.Error(t, err)
}

func TestValidateRejectsGarbage(t *testing.T) {
	_, err := ValidateToken("not-a-token", "s")
	assert.Error(t, err)
}

func TestGenerateRequiresSecret(t *testing.T) {
	_, err := GenerateToken("u", 1, "", time.Hour)
	assert.Error(t, err)
}
