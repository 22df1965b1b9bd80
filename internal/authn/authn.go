package authn

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
)

var ErrInvalidJWT = errors.New("invalid jwt token")
var ErrExpiredJWT = errors.New("expired jwt token")

const AccessTokenTTL = 15 * time.Minute
const RefreshTokenTTL = 365 * 24 * time.Hour

// Claims is the token payload. Expiry travels in a custom "expires" claim
// rather than the registered "exp" claim, so it is validated here
// explicitly.
type Claims struct {
	Sub      uuid.UUID `json:"sub"`
	IssuedAt int64     `json:"iat"`
	Expires  int64     `json:"expires"`
}

// Valid implements jwt.Claims.
func (c Claims) Valid() error {
	if c.Expires < time.Now().Unix() {
		return ErrExpiredJWT
	}
	return nil
}

// Issuer signs and verifies the HS256 tokens used for API access and
// refresh.
type Issuer struct {
	secret []byte
}

func NewIssuer(secret string) *Issuer {
	return &Issuer{secret: []byte(secret)}
}

// AccessToken mints a short-lived bearer token for the given user.
func (i *Issuer) AccessToken(userID uuid.UUID) (string, error) {
	return i.sign(userID, AccessTokenTTL)
}

// RefreshToken mints the long-lived token stored in the HTTP-only cookie.
func (i *Issuer) RefreshToken(userID uuid.UUID) (string, error) {
	return i.sign(userID, RefreshTokenTTL)
}

func (i *Issuer) sign(userID uuid.UUID, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Sub:      userID,
		IssuedAt: now.Unix(),
		Expires:  now.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// Parse verifies the signature and expiry of a token and returns its
// claims.
func (i *Issuer) Parse(token string) (Claims, error) {
	claims := Claims{}
	t, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidJWT
		}
		return i.secret, nil
	})
	if err != nil || !t.Valid {
		return Claims{}, ErrInvalidJWT
	}
	return claims, nil
}
