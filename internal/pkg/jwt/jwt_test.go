package jwt

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	t.Parallel()

	token, err := Generate("user-123", false, "test-secret")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := Validate(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.False(t, claims.IsAdmin)
	assert.Equal(t, "skool-lms", claims.Issuer)
}

func TestValidate_AdminFlag(t *testing.T) {
	t.Parallel()

	token, err := Generate("admin-1", true, "test-secret")
	require.NoError(t, err)

	claims, err := Validate(token, "test-secret")
	require.NoError(t, err)
	assert.True(t, claims.IsAdmin)
}

func TestValidate_WrongSecret(t *testing.T) {
	t.Parallel()

	token, err := Generate("user-123", false, "right-secret")
	require.NoError(t, err)

	_, err = Validate(token, "wrong-secret")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidate_Expired(t *testing.T) {
	t.Parallel()

	// Sign a token that expired a minute ago with the same claims shape
	claims := &Claims{
		UserID: "user-123",
		RegisteredClaims: jwtlib.RegisteredClaims{
			ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  jwtlib.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			Issuer:    "skool-lms",
		},
	}
	token, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = Validate(token, "test-secret")
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidate_Malformed(t *testing.T) {
	t.Parallel()

	_, err := Validate("not.a.jwt", "test-secret")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidate_WrongSigningMethod(t *testing.T) {
	t.Parallel()

	// alg=none tokens must be rejected outright
	token, err := jwtlib.NewWithClaims(jwtlib.SigningMethodNone, jwtlib.MapClaims{"userId": "x"}).
		SignedString(jwtlib.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = Validate(token, "test-secret")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
