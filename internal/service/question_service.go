package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spec-kit/quiz-service/internal/domain"
	"github.com/spec-kit/quiz-service/internal/events"
	"github.com/spec-kit/quiz-service/internal/llm"
	"github.com/spec-kit/quiz-service/internal/observability"
	apperrors "github.com/spec-kit/quiz-service/pkg/util"
)

const (
	msgGenerateFailed = "Erro interno ao gerar questão."
	msgAnalyzeFailed  = "Erro interno ao analisar resposta."
)

// QuestionGateway is the provider-facing surface used by QuestionService.
type QuestionGateway interface {
	GenerateQuestion(ctx context.Context, theme string) (string, error)
	AssessAnswer(ctx context.Context, question, answer string) (domain.Assessment, error)
}

// QuestionService generates questions and grades answers through the gateway.
type QuestionService struct {
	gateway     QuestionGateway
	concurrency int
	dispatcher  events.Dispatcher
	logger      *zap.Logger
}

// NewQuestionService builds the service. concurrency bounds parallel provider
// calls of a batch; values below 1 mean sequential.
func NewQuestionService(gateway QuestionGateway, concurrency int, dispatcher events.Dispatcher, logger *zap.Logger) *QuestionService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &QuestionService{
		gateway:     gateway,
		concurrency: concurrency,
		dispatcher:  dispatcher,
		logger:      logger,
	}
}

// GenerateQuestion produces one question for theme.
func (s *QuestionService) GenerateQuestion(ctx context.Context, userID string, theme domain.Theme) (domain.Question, error) {
	s.logger.Info("question requested", zap.String("user_id", userID), zap.String("theme", theme.Theme))

	q, err := s.generate(ctx, userID, theme.Theme, 1)
	if err != nil {
		return domain.Question{}, err
	}

	s.publish(ctx, events.New(domain.ActivityQuestionGenerated, userID, events.QuestionGeneratedPayload{
		Theme:    theme.Theme,
		Question: q.Question,
	}))
	return q, nil
}

// GenerateBatch produces batch.Quantity questions in request order. The first
// failure cancels the outstanding calls and no partial result is returned.
func (s *QuestionService) GenerateBatch(ctx context.Context, userID string, batch domain.QuestionBatch) ([]domain.Question, error) {
	s.logger.Info("question batch requested",
		zap.String("user_id", userID),
		zap.String("theme", batch.Theme),
		zap.Int("quantity", batch.Quantity))

	questions := make([]domain.Question, batch.Quantity)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i := 0; i < batch.Quantity; i++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			q, err := s.generate(gctx, userID, batch.Theme, i+1)
			if err != nil {
				return err
			}
			questions[i] = q
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		var de *apperrors.DomainError
		if errors.As(err, &de) {
			return nil, err
		}
		return nil, apperrors.NewUpstreamError(msgGenerateFailed, err)
	}

	s.logger.Info("question batch completed", zap.String("user_id", userID), zap.Int("count", len(questions)))
	s.publish(ctx, events.New(domain.ActivityQuestionBatchGenerated, userID, events.QuestionBatchGeneratedPayload{
		Theme:    batch.Theme,
		Quantity: batch.Quantity,
	}))
	return questions, nil
}

// AnalyzeResponse grades answer against question.
func (s *QuestionService) AnalyzeResponse(ctx context.Context, userID string, question domain.Question, answer domain.Answer) (domain.Assessment, error) {
	s.logger.Info("response analysis requested", zap.String("user_id", userID))

	assessment, err := s.gateway.AssessAnswer(ctx, question.Question, answer.Answer)
	if err != nil {
		s.logger.Error("response analysis failed",
			zap.String("user_id", userID),
			zap.String("question", observability.Truncate(question.Question, 50)),
			zap.Error(err))
		if errors.Is(err, llm.ErrMalformedResponse) {
			return domain.Assessment{}, apperrors.NewMalformedResponse(msgAnalyzeFailed, err)
		}
		return domain.Assessment{}, apperrors.NewUpstreamError(msgAnalyzeFailed, err)
	}

	s.publish(ctx, events.New(domain.ActivityResponseAnalyzed, userID, events.ResponseAnalyzedPayload{
		Question: observability.Truncate(question.Question, 50),
		Score:    assessment.Score,
	}))
	return assessment, nil
}

// generate calls the gateway once and validates the reply as a Question.
func (s *QuestionService) generate(ctx context.Context, userID, theme string, index int) (domain.Question, error) {
	text, err := s.gateway.GenerateQuestion(ctx, theme)
	if err != nil {
		s.logger.Error("question generation failed",
			zap.String("user_id", userID),
			zap.String("theme", theme),
			zap.Int("index", index),
			zap.Error(err))
		return domain.Question{}, apperrors.NewUpstreamError(msgGenerateFailed, err)
	}

	q, err := domain.NewQuestion(text)
	if err != nil {
		s.logger.Error("generated question rejected",
			zap.String("user_id", userID),
			zap.String("theme", theme),
			zap.String("payload", observability.Truncate(text, 100)),
			zap.Error(err))
		return domain.Question{}, apperrors.NewUpstreamError(msgGenerateFailed, err)
	}
	return q, nil
}

func (s *QuestionService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}
