package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/quiz-service/internal/auth"
	"github.com/spec-kit/quiz-service/internal/service"
	apperrors "github.com/spec-kit/quiz-service/pkg/util"
)

// ActivityHandler exposes the caller's recent activity.
type ActivityHandler struct {
	activity *service.ActivityService
}

// NewActivityHandler constructs handler.
func NewActivityHandler(activity *service.ActivityService) *ActivityHandler {
	return &ActivityHandler{activity: activity}
}

// Recent handles GET /activity/v1/recent?limit=N.
func (h *ActivityHandler) Recent(c *fiber.Ctx) error {
	user, _ := auth.CurrentUserFromContext(c)

	items, err := h.activity.Recent(c.UserContext(), user.ID, c.QueryInt("limit", 0))
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	return c.JSON(items)
}
