package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/quiz-service/internal/domain"
	"github.com/spec-kit/quiz-service/internal/observability"
	apperrors "github.com/spec-kit/quiz-service/pkg/util"
)

const principalKey = "auth_principal"

// CredentialsMessage is returned on every bearer verification failure.
const CredentialsMessage = "Não foi possível validar as credenciais"

// TokenVerifier decodes a bearer token into its subject.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// AuthMiddleware validates bearer tokens and stores the caller identity.
type AuthMiddleware struct {
	tokens TokenVerifier
	logger *zap.Logger
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens TokenVerifier, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, logger: logger}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return apperrors.NewUnauthorized("Not authenticated")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return apperrors.NewUnauthorized("Not authenticated")
	}

	userID, err := m.tokens.Verify(strings.TrimSpace(parts[1]))
	if err != nil {
		m.logger.Warn("token verification failed", zap.Error(err), zap.String("path", c.Path()))
		return apperrors.NewUnauthorized(CredentialsMessage)
	}

	c.Locals(principalKey, domain.CurrentUser{ID: userID})
	observability.SetUserID(c, userID)
	return c.Next()
}

// CurrentUserFromContext retrieves the authenticated caller.
func CurrentUserFromContext(c *fiber.Ctx) (domain.CurrentUser, bool) {
	user, ok := c.Locals(principalKey).(domain.CurrentUser)
	return user, ok
}
