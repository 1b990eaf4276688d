package pkg

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParsePair(t *testing.T) {
	pair, err := GeneratePair(42)
	require.NoError(t, err)

	claims, err := ParseAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)

	// refresh 签的是另一把密钥，不能当 access 用
	_, err = ParseAccess(pair.RefreshToken)
	assert.Error(t, err)
}

func TestParseExpiredAccess(t *testing.T) {
	now := time.Now().Add(-time.Hour)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
			Subject:   "access",
		},
	})
	signed, err := token.SignedString(AccessSecret)
	require.NoError(t, err)

	_, err = ParseAccess(signed)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestRefreshIssuesNewPair(t *testing.T) {
	pair, err := GeneratePair(7)
	require.NoError(t, err)

	next, err := Refresh(pair.RefreshToken)
	require.NoError(t, err)
	claims, err := ParseAccess(next.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), claims.UserID)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	pair, err := GeneratePair(7)
	require.NoError(t, err)

	_, err = Refresh(pair.AccessToken)
	assert.Error(t, err)
}
