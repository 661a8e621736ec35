// Package tokenservice issues and verifies the stateless bearer tokens that
// bind a request to a user account. Tokens are self-contained HS256 JWTs;
// there is no server-side session or revocation list, so validity is decided
// purely by signature and expiry at verification time.
package tokenservice

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL matches the configuration default of 480 minutes.
const DefaultTTL = 480 * time.Minute

var (
	// ErrTokenMissing means no token was presented at all.
	ErrTokenMissing = errors.New("missing authentication token")
	// ErrTokenInvalid means the token is malformed or its signature does
	// not verify.
	ErrTokenInvalid = errors.New("invalid authentication token")
	// ErrTokenExpired means the signature verified but the token is past
	// its expiry.
	ErrTokenExpired = errors.New("expired authentication token")
)

type Claims struct {
	jwt.RegisteredClaims
	UserID int `json:"uid"`
}

type Issuer struct {
	secret []byte
	ttl    time.Duration
}

func New(secret string, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Issuer{secret: []byte(secret), ttl: ttl}
}

// Issue produces a signed token whose subject is the given user id.
func (i *Issuer) Issue(userID int) (string, error) {
	now := time.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
		UserID: userID,
	})

	return token.SignedString(i.secret)
}

// Verify checks the signature and expiry and returns the decoded claims.
// The three failure kinds are distinguishable so the HTTP surface can report
// a precise 401 reason.
func (i *Issuer) Verify(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrTokenMissing
	}

	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		default:
			return nil, ErrTokenInvalid
		}
	}

	if !token.Valid {
		return nil, ErrTokenInvalid
	}

	if claims.UserID == 0 {
		// Tolerate tokens that only carry the registered subject claim.
		id, err := strconv.Atoi(claims.Subject)
		if err != nil {
			return nil, ErrTokenInvalid
		}
		claims.UserID = id
	}

	return claims, nil
}
