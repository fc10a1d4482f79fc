package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParse_Success(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")

	tok, err := GenerateToken(968, secret, time.Hour)
	require.NoError(t, err)

	got, err := UserIDFromToken(tok, secret)
	require.NoError(t, err)
	assert.EqualValues(t, 968, got)
}

func TestUserIDFromToken_Expired(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")
	tok, err := GenerateToken(1, secret, -time.Minute)
	require.NoError(t, err)

	_, err = UserIDFromToken(tok, secret)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestUserIDFromToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := GenerateToken(2, []byte("right-secret"), time.Hour)
	require.NoError(t, err)

	_, err = UserIDFromToken(tok, []byte("wrong-secret"))
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestUserIDFromToken_Garbage(t *testing.T) {
	t.Parallel()

	_, err := UserIDFromToken("not-a-jwt", []byte("s"))
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestUserIDFromToken_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{UserID: 3}).SignedString(secret)
	require.NoError(t, err)

	_, err = UserIDFromToken(tok, secret)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestUserIDFromToken_MissingUser(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{}).SignedString(secret)
	require.NoError(t, err)

	_, err = UserIDFromToken(tok, secret)
	require.ErrorIs(t, err, ErrInvalidToken)
}
