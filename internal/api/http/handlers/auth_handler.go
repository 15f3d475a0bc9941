package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/quiz-service/internal/api/dto"
	"github.com/spec-kit/quiz-service/internal/auth"
	"github.com/spec-kit/quiz-service/internal/service"
	apperrors "github.com/spec-kit/quiz-service/pkg/util"
)

// LoginFailedMessage is returned when the credential pair does not match.
const LoginFailedMessage = "Usuário ou senha incorretos"

// AuthHandler exposes the token endpoint and the current-user lookup.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Token handles POST /auth/token with a form-encoded username and password.
func (h *AuthHandler) Token(c *fiber.Ctx) error {
	if !isFormBody(c) {
		return apperrors.NewValidationError("form-encoded username and password required", nil)
	}

	var req dto.TokenRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Username == "" || req.Password == "" {
		return apperrors.NewValidationError("username and password required", nil)
	}

	token, _, err := h.auth.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return apperrors.NewUnauthorized(LoginFailedMessage)
		}
		return apperrors.NewInternalError(err)
	}

	return c.JSON(dto.TokenResponse{AccessToken: token, TokenType: "bearer"})
}

func isFormBody(c *fiber.Ctx) bool {
	ct := strings.ToLower(string(c.Request().Header.ContentType()))
	return strings.HasPrefix(ct, fiber.MIMEApplicationForm) || strings.HasPrefix(ct, fiber.MIMEMultipartForm)
}

// Me handles GET /auth/users/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, ok := auth.CurrentUserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized(auth.CredentialsMessage)
	}
	return c.JSON(user)
}
