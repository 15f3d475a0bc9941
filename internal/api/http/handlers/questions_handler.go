package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/quiz-service/internal/api/dto"
	"github.com/spec-kit/quiz-service/internal/auth"
	"github.com/spec-kit/quiz-service/internal/domain"
	"github.com/spec-kit/quiz-service/internal/service"
	apperrors "github.com/spec-kit/quiz-service/pkg/util"
)

// QuestionsHandler exposes question generation and answer analysis.
type QuestionsHandler struct {
	questions *service.QuestionService
}

// NewQuestionsHandler constructs handler.
func NewQuestionsHandler(questions *service.QuestionService) *QuestionsHandler {
	return &QuestionsHandler{questions: questions}
}

// GenerateQuestion handles POST /questions/v1/generate-question.
func (h *QuestionsHandler) GenerateQuestion(c *fiber.Ctx) error {
	user, _ := auth.CurrentUserFromContext(c)

	var req dto.GenerateQuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Theme == nil {
		return missingField("theme")
	}
	theme, err := domain.NewTheme(*req.Theme)
	if err != nil {
		return validationError(err)
	}

	question, err := h.questions.GenerateQuestion(c.UserContext(), user.ID, theme)
	if err != nil {
		return err
	}
	return c.JSON(question)
}

// GenerateQuestions handles POST /questions/v2/generate-question.
func (h *QuestionsHandler) GenerateQuestions(c *fiber.Ctx) error {
	user, _ := auth.CurrentUserFromContext(c)

	var req dto.GenerateQuestionsRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Theme == nil {
		return missingField("theme")
	}
	if req.Quantity == nil {
		return missingField("quantity")
	}
	batch, err := domain.NewQuestionBatch(*req.Theme, *req.Quantity)
	if err != nil {
		return validationError(err)
	}

	questions, err := h.questions.GenerateBatch(c.UserContext(), user.ID, batch)
	if err != nil {
		return err
	}
	return c.JSON(questions)
}

// AnalyzeResponse handles POST /questions/v1/analyze-response.
func (h *QuestionsHandler) AnalyzeResponse(c *fiber.Ctx) error {
	user, _ := auth.CurrentUserFromContext(c)

	var req dto.AnalyzeResponseRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Question == nil || req.Question.Question == nil {
		return missingField("question")
	}
	if req.Answer == nil || req.Answer.Answer == nil {
		return missingField("answer")
	}
	question, err := domain.NewQuestion(*req.Question.Question)
	if err != nil {
		return validationError(err)
	}
	answer, err := domain.NewAnswer(*req.Answer.Answer)
	if err != nil {
		return validationError(err)
	}

	assessment, err := h.questions.AnalyzeResponse(c.UserContext(), user.ID, question, answer)
	if err != nil {
		return err
	}
	return c.JSON(assessment)
}

func missingField(field string) error {
	return apperrors.NewValidationError("Field required: "+field, map[string]any{
		"field":      field,
		"constraint": "required",
	})
}

func validationError(err error) error {
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return apperrors.NewValidationError(ve.Message, map[string]any{
		"field":      ve.Field,
		"constraint": ve.Constraint,
	})
}
