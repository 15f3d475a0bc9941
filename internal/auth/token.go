package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	apperrors "github.com/spec-kit/quiz-service/pkg/util"
)

// defaultTTL applies when Issue is called without a lifetime.
const defaultTTL = 15 * time.Minute

var (
	// ErrInvalidToken is the root of every verification failure.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired reports a token whose exp claim has passed.
	ErrTokenExpired = fmt.Errorf("%w: expired", ErrInvalidToken)
	// ErrMissingSubject reports a correctly signed token without a sub claim.
	ErrMissingSubject = fmt.Errorf("%w: missing subject", ErrInvalidToken)
)

// TokenManager issues and verifies HMAC-signed JWT bearer tokens.
type TokenManager struct {
	secret []byte
	method jwt.SigningMethod
	now    func() time.Time
}

// NewTokenManager builds a manager for a symmetric algorithm such as HS256.
func NewTokenManager(secret, algorithm string) (*TokenManager, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, apperrors.NewConfigurationError("signing key not configured", nil)
	}
	method, ok := jwt.GetSigningMethod(strings.TrimSpace(algorithm)).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, apperrors.NewConfigurationError("unsupported signing algorithm", map[string]any{
			"algorithm": algorithm,
		})
	}
	return &TokenManager{secret: []byte(secret), method: method, now: time.Now}, nil
}

// Issue signs a token for subject that expires ttl from now.
// A zero ttl falls back to 15 minutes.
func (tm *TokenManager) Issue(subject string, ttl time.Duration) (string, time.Time, error) {
	if tm == nil || len(tm.secret) == 0 || tm.method == nil {
		return "", time.Time{}, apperrors.NewConfigurationError("token signing not configured", nil)
	}
	if ttl == 0 {
		ttl = defaultTTL
	}

	now := tm.now()
	expiresAt := now.Add(ttl)
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	signed, err := jwt.NewWithClaims(tm.method, claims).SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify checks the signature, algorithm and expiry of tokenStr and returns its subject.
func (tm *TokenManager) Verify(tokenStr string) (string, error) {
	if tm == nil || len(tm.secret) == 0 || tm.method == nil {
		return "", apperrors.NewConfigurationError("token verification not configured", nil)
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(tokenStr, claims,
		func(*jwt.Token) (interface{}, error) { return tm.secret, nil },
		jwt.WithValidMethods([]string{tm.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(tm.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return "", ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", ErrMissingSubject
	}
	return claims.Subject, nil
}

// Algorithm returns the configured signing algorithm name.
func (tm *TokenManager) Algorithm() string {
	return tm.method.Alg()
}
