package tokenservice

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIssueAndVerify(t *testing.T) {
	issuer := New("super-secret", time.Hour)

	token, err := issuer.Issue(42)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := issuer.Verify(token)
	assert.NoError(t, err)
	assert.Equal(t, 42, claims.UserID)
	assert.Equal(t, "42", claims.Subject)
}

func TestVerify_Missing(t *testing.T) {
	issuer := New("super-secret", time.Hour)

	_, err := issuer.Verify("")
	assert.ErrorIs(t, err, ErrTokenMissing)
}

func TestVerify_Expired(t *testing.T) {
	issuer := New("super-secret", -1*time.Second)

	// ttl <= 0 falls back to the default, so sign with a negative expiry
	// directly through a second issuer.
	expired := &Issuer{secret: []byte("super-secret"), ttl: -1 * time.Minute}

	token, err := expired.Issue(7)
	assert.NoError(t, err)

	_, err = issuer.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerify_WrongSecret(t *testing.T) {
	right := New("right-secret", time.Hour)
	wrong := New("wrong-secret", time.Hour)

	token, err := right.Issue(7)
	assert.NoError(t, err)

	_, err = wrong.Verify(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerify_Malformed(t *testing.T) {
	issuer := New("super-secret", time.Hour)

	testCases := []string{
		"not.a.jwt",
		"garbage",
		"a.b",
	}

	for _, tc := range testCases {
		t.Run(tc, func(t *testing.T) {
			_, err := issuer.Verify(tc)
			assert.ErrorIs(t, err, ErrTokenInvalid)
		})
	}
}

func TestAuthorizeSelf(t *testing.T) {
	issuer := New("super-secret", time.Hour)

	token, err := issuer.Issue(1)
	assert.NoError(t, err)

	claims, err := issuer.Verify(token)
	assert.NoError(t, err)

	assert.NoError(t, claims.AuthorizeSelf(1))
	assert.ErrorIs(t, claims.AuthorizeSelf(2), ErrForbidden)
}
