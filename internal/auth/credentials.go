package auth

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/quiz-service/internal/domain"
	apperrors "github.com/spec-kit/quiz-service/pkg/util"
)

// bcrypt ignores input past this length, so longer candidates never match.
const maxPasswordBytes = 72

// CredentialStore holds the single configured admin credential pair.
// The password is kept only as a bcrypt hash.
type CredentialStore struct {
	username string
	hash     []byte
	userID   string
}

// NewCredentialStore hashes password once at startup.
func NewCredentialStore(username, password, userID string, cost int) (*CredentialStore, error) {
	if username == "" || password == "" || userID == "" {
		return nil, apperrors.NewConfigurationError("admin credentials not configured", nil)
	}
	if len(password) > maxPasswordBytes {
		return nil, apperrors.NewConfigurationError("admin password longer than 72 bytes", nil)
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return nil, err
	}
	return &CredentialStore{username: username, hash: hash, userID: userID}, nil
}

// Verify returns the user when both fields equal the configured pair.
func (s *CredentialStore) Verify(username, password string) (*domain.User, bool) {
	if len(password) > maxPasswordBytes {
		return nil, false
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	passErr := bcrypt.CompareHashAndPassword(s.hash, []byte(password))
	if !userOK || passErr != nil {
		return nil, false
	}
	return &domain.User{ID: s.userID, Username: s.username}, true
}
