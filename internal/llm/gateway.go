package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/spec-kit/quiz-service/internal/config"
	"github.com/spec-kit/quiz-service/internal/domain"
	"github.com/spec-kit/quiz-service/internal/observability"
	apperrors "github.com/spec-kit/quiz-service/pkg/util"
)

var (
	// ErrUpstream reports that the provider call itself failed.
	ErrUpstream = errors.New("llm provider call failed")
	// ErrMalformedResponse reports a reply that is not in the expected format.
	ErrMalformedResponse = errors.New("response not in expected format")
)

// ChatCompleter is the subset of the provider client the gateway needs.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Gateway sends question-generation and answer-assessment prompts to the provider.
// One instance is built at startup and shared by all requests.
type Gateway struct {
	client ChatCompleter
	model  string
	logger *zap.Logger
}

// NewGateway builds a gateway for an OpenAI-compatible endpoint (Groq by default).
func NewGateway(cfg config.LLMConfig, logger *zap.Logger) (*Gateway, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		logger.Error("GROQ_API_KEY not configured")
		return nil, apperrors.NewConfigurationError("GROQ_API_KEY not configured", nil)
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = config.DefaultGroqModel
	}

	logger.Info("llm gateway initialized", zap.String("model", model), zap.String("base_url", clientCfg.BaseURL))
	return NewGatewayWithClient(openai.NewClientWithConfig(clientCfg), model, logger), nil
}

// NewGatewayWithClient wires an existing client.
func NewGatewayWithClient(client ChatCompleter, model string, logger *zap.Logger) *Gateway {
	return &Gateway{client: client, model: model, logger: logger}
}

// GenerateQuestion asks for one question about theme and returns the reply verbatim.
func (g *Gateway) GenerateQuestion(ctx context.Context, theme string) (string, error) {
	g.logger.Info("generating question", zap.String("theme", theme))

	text, err := g.complete(ctx, questionPrompt(theme))
	if err != nil {
		g.logger.Error("question generation failed", zap.String("theme", theme), zap.Error(err))
		return "", err
	}

	g.logger.Info("question generated", zap.String("theme", theme))
	return text, nil
}

// AssessAnswer asks the provider to grade answer against question and parses
// the JSON object it returns.
func (g *Gateway) AssessAnswer(ctx context.Context, question, answer string) (domain.Assessment, error) {
	g.logger.Info("analyzing response", zap.String("question", observability.Truncate(question, 50)))

	text, err := g.complete(ctx, assessmentPrompt(question, answer))
	if err != nil {
		g.logger.Error("response analysis failed",
			zap.String("question", observability.Truncate(question, 50)),
			zap.Error(err))
		return domain.Assessment{}, err
	}
	g.logger.Info("analysis reply received", zap.String("payload", observability.Truncate(text, 100)))

	assessment, err := ParseAssessment(text)
	if err != nil {
		g.logger.Error("analysis reply not in expected format",
			zap.String("payload", observability.Truncate(text, 100)),
			zap.Error(err))
		return domain.Assessment{}, err
	}

	g.logger.Info("analysis completed", zap.String("score", assessment.Score))
	return assessment, nil
}

func (g *Gateway) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned", ErrUpstream)
	}
	return resp.Choices[0].Message.Content, nil
}
