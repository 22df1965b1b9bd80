package authn

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestAccessToken(t *testing.T) {
	issuer := NewIssuer("test-secret")
	userID := uuid.New()

	token, err := issuer.AccessToken(userID)
	assert.NoError(t, err)

	claims, err := issuer.Parse(token)
	assert.NoError(t, err)
	assert.Equal(t, userID, claims.Sub)
	assert.LessOrEqual(t, time.Now().Unix()-claims.IssuedAt, int64(2))
	assert.LessOrEqual(t, claims.Expires-time.Now().Add(AccessTokenTTL).Unix(), int64(2))
}

func TestRefreshToken(t *testing.T) {
	issuer := NewIssuer("test-secret")
	userID := uuid.New()

	token, err := issuer.RefreshToken(userID)
	assert.NoError(t, err)

	claims, err := issuer.Parse(token)
	assert.NoError(t, err)
	assert.Equal(t, userID, claims.Sub)
	assert.LessOrEqual(t, claims.Expires-time.Now().Add(RefreshTokenTTL).Unix(), int64(2))
}

func TestParseRejectsGarbage(t *testing.T) {
	issuer := NewIssuer("test-secret")

	_, err := issuer.Parse("sdsfsfd")
	assert.ErrorIs(t, err, ErrInvalidJWT)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	issuer := NewIssuer("test-secret")

	claims := Claims{Sub: uuid.New(), IssuedAt: 100, Expires: time.Now().Add(-time.Minute).Unix()}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	assert.NoError(t, err)

	_, err = issuer.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidJWT)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	issuer := NewIssuer("test-secret")
	other := NewIssuer("other-secret")

	token, err := other.AccessToken(uuid.New())
	assert.NoError(t, err)

	_, err = issuer.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidJWT)
}
