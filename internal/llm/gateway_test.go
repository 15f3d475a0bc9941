package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/quiz-service/internal/config"
	apperrors "github.com/spec-kit/quiz-service/pkg/util"
)

type providerStub struct {
	status  int
	content string

	mu    sync.Mutex
	got   openai.ChatCompletionRequest
	calls int
}

func (p *providerStub) snapshot() (openai.ChatCompletionRequest, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.got, p.calls
}

func (p *providerStub) server(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p.mu.Lock()
		defer p.mu.Unlock()
		p.calls++
		assert.Equal(t, "/openai/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer gsk_test", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&p.got))

		w.Header().Set("Content-Type", "application/json")
		if p.status != http.StatusOK {
			w.WriteHeader(p.status)
			_, _ = w.Write([]byte(`{"error":{"message":"rate limited","type":"rate_limit"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"model":  p.got.Model,
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": p.content},
				"finish_reason": "stop",
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestGateway(t *testing.T, stub *providerStub) *Gateway {
	t.Helper()
	srv := stub.server(t)
	g, err := NewGateway(config.LLMConfig{
		APIKey:  "gsk_test",
		BaseURL: srv.URL + "/openai/v1",
		Model:   "llama3-70b-8192",
	}, zap.NewNop())
	require.NoError(t, err)
	return g
}

func TestNewGateway_MissingKey(t *testing.T) {
	_, err := NewGateway(config.LLMConfig{}, zap.NewNop())
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "CONFIGURATION_ERROR"))
}

func TestGenerateQuestion(t *testing.T) {
	stub := &providerStub{status: http.StatusOK, content: "  Qual é a fórmula da água?\n"}
	g := newTestGateway(t, stub)

	got, err := g.GenerateQuestion(context.Background(), "Química")
	require.NoError(t, err)
	assert.Equal(t, "  Qual é a fórmula da água?\n", got)

	req, calls := stub.snapshot()
	assert.Equal(t, 1, calls)
	assert.Equal(t, "llama3-70b-8192", req.Model)
	require.Len(t, req.Messages, 1)
	assert.Equal(t, openai.ChatMessageRoleSystem, req.Messages[0].Role)
	assert.Contains(t, req.Messages[0].Content, "sobre Química")
}

func TestGenerateQuestion_UpstreamFailureNotRetried(t *testing.T) {
	stub := &providerStub{status: http.StatusTooManyRequests}
	g := newTestGateway(t, stub)

	_, err := g.GenerateQuestion(context.Background(), "Química")
	assert.ErrorIs(t, err, ErrUpstream)
	_, calls := stub.snapshot()
	assert.Equal(t, 1, calls)
}

func TestAssessAnswer(t *testing.T) {
	stub := &providerStub{status: http.StatusOK, content: `{"score":"80%","feedback":"Bom trabalho."}`}
	g := newTestGateway(t, stub)

	got, err := g.AssessAnswer(context.Background(), "Qual a fórmula da água?", "H2O")
	require.NoError(t, err)
	assert.Equal(t, "80%", got.Score)
	assert.Equal(t, "Bom trabalho.", got.Feedback)

	req, _ := stub.snapshot()
	require.Len(t, req.Messages, 1)
	prompt := req.Messages[0].Content
	assert.Contains(t, prompt, "Pergunta: Qual a fórmula da água?")
	assert.Contains(t, prompt, "Resposta: H2O")
	assert.Contains(t, prompt, `"score": "XX%"`)
}

func TestAssessAnswer_Malformed(t *testing.T) {
	stub := &providerStub{status: http.StatusOK, content: "A resposta está correta."}
	g := newTestGateway(t, stub)

	_, err := g.AssessAnswer(context.Background(), "Qual a fórmula da água?", "H2O")
	assert.ErrorIs(t, err, ErrMalformedResponse)
	_, calls := stub.snapshot()
	assert.Equal(t, 1, calls)
}

type emptyCompleter struct{}

func (emptyCompleter) CreateChatCompletion(context.Context, openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	return openai.ChatCompletionResponse{}, nil
}

type failingCompleter struct{ err error }

func (f failingCompleter) CreateChatCompletion(context.Context, openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	return openai.ChatCompletionResponse{}, f.err
}

func TestComplete_NoChoices(t *testing.T) {
	g := NewGatewayWithClient(emptyCompleter{}, "m", zap.NewNop())
	_, err := g.GenerateQuestion(context.Background(), "x")
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestComplete_ContextCanceled(t *testing.T) {
	g := NewGatewayWithClient(failingCompleter{err: context.Canceled}, "m", zap.NewNop())
	_, err := g.AssessAnswer(context.Background(), "Pergunta longa", "r")
	assert.ErrorIs(t, err, ErrUpstream)
	assert.False(t, errors.Is(err, ErrMalformedResponse))
}
