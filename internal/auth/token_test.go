package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/quiz-service/pkg/util"
)

func newManager(t *testing.T, secret string) *TokenManager {
	t.Helper()
	tm, err := NewTokenManager(secret, "HS256")
	require.NoError(t, err)
	return tm
}

func TestIssueAndVerify(t *testing.T) {
	t.Parallel()

	tm := newManager(t, "super-secret")
	for _, ttl := range []time.Duration{time.Second, time.Minute, 24 * time.Hour} {
		tok, exp, err := tm.Issue("123", ttl)
		require.NoError(t, err)
		require.NotEmpty(t, tok)
		assert.WithinDuration(t, time.Now().Add(ttl), exp, 2*time.Second)

		sub, err := tm.Verify(tok)
		require.NoError(t, err)
		assert.Equal(t, "123", sub)
	}
}

func TestIssue_ZeroTTLUsesDefault(t *testing.T) {
	t.Parallel()

	tm := newManager(t, "k")
	_, exp, err := tm.Issue("123", 0)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(defaultTTL), exp, 2*time.Second)
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	tm := newManager(t, "secret")
	tok, _, err := tm.Issue("u1", -1*time.Second)
	require.NoError(t, err)

	_, err = tm.Verify(tok)
	require.ErrorIs(t, err, ErrTokenExpired)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_ExpiresWithClock(t *testing.T) {
	t.Parallel()

	tm := newManager(t, "secret")
	base := time.Now()
	tm.now = func() time.Time { return base }
	tok, _, err := tm.Issue("u1", time.Minute)
	require.NoError(t, err)

	_, err = tm.Verify(tok)
	require.NoError(t, err)

	tm.now = func() time.Time { return base.Add(2 * time.Minute) }
	_, err = tm.Verify(tok)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, _, err := newManager(t, "right-secret").Issue("u2", time.Hour)
	require.NoError(t, err)

	_, err = newManager(t, "wrong-secret").Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.NotErrorIs(t, err, ErrTokenExpired)
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()

	tm := newManager(t, "k")
	for _, raw := range []string{"", "not.a.jwt", "abc"} {
		_, err := tm.Verify(raw)
		assert.ErrorIs(t, err, ErrInvalidToken, raw)
	}
}

func TestVerify_MissingSubject(t *testing.T) {
	t.Parallel()

	secret := []byte("k")
	claims := jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)

	_, err = newManager(t, "k").Verify(tok)
	assert.ErrorIs(t, err, ErrMissingSubject)
}

func TestVerify_MissingExpiry(t *testing.T) {
	t.Parallel()

	claims := jwt.RegisteredClaims{Subject: "123"}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("k"))
	require.NoError(t, err)

	_, err = newManager(t, "k").Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_RejectsOtherAlgorithm(t *testing.T) {
	t.Parallel()

	claims := jwt.RegisteredClaims{Subject: "123", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("k"))
	require.NoError(t, err)

	_, err = newManager(t, "k").Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewTokenManager_Configuration(t *testing.T) {
	t.Parallel()

	_, err := NewTokenManager("", "HS256")
	assert.True(t, apperrors.IsCode(err, "CONFIGURATION_ERROR"))

	_, err = NewTokenManager("k", "")
	assert.True(t, apperrors.IsCode(err, "CONFIGURATION_ERROR"))

	_, err = NewTokenManager("k", "RS256")
	assert.True(t, apperrors.IsCode(err, "CONFIGURATION_ERROR"))

	tm, err := NewTokenManager("k", "HS384")
	require.NoError(t, err)
	assert.Equal(t, "HS384", tm.Algorithm())
}

func TestIssue_UnconfiguredManager(t *testing.T) {
	t.Parallel()

	var tm *TokenManager
	_, _, err := tm.Issue("123", time.Minute)
	assert.True(t, apperrors.IsCode(err, "CONFIGURATION_ERROR"))

	_, _, err = (&TokenManager{}).Issue("123", time.Minute)
	assert.True(t, apperrors.IsCode(err, "CONFIGURATION_ERROR"))
}
