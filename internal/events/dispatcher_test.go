package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/quiz-service/internal/domain"
)

func TestDispatcher_RoutesByTypeAndWildcard(t *testing.T) {
	d := NewInMemoryDispatcher(zap.NewNop())

	var typed, all []string
	d.Subscribe(string(domain.ActivityQuestionGenerated), func(_ context.Context, e Event) error {
		typed = append(typed, e.ID)
		return nil
	})
	d.Subscribe(AllEvents, func(_ context.Context, e Event) error {
		all = append(all, string(e.Type))
		return nil
	})

	e1 := New(domain.ActivityQuestionGenerated, "123", QuestionGeneratedPayload{Theme: "Química"})
	e2 := New(domain.ActivityResponseAnalyzed, "123", ResponseAnalyzedPayload{Score: "80%"})
	require.NoError(t, d.Publish(context.Background(), e1))
	require.NoError(t, d.Publish(context.Background(), e2))

	assert.Equal(t, []string{e1.ID}, typed)
	assert.Equal(t, []string{"question_generated", "response_analyzed"}, all)
	assert.NotEqual(t, e1.ID, e2.ID)
}

func TestDispatcher_HandlerErrorDoesNotStopOthers(t *testing.T) {
	d := NewInMemoryDispatcher(zap.NewNop())

	called := 0
	d.Subscribe(AllEvents, func(context.Context, Event) error { return errors.New("db down") })
	d.Subscribe(AllEvents, func(context.Context, Event) error { called++; return nil })

	err := d.Publish(context.Background(), New(domain.ActivityLoginFailed, "", LoginPayload{Username: "x"}))
	assert.NoError(t, err)
	assert.Equal(t, 1, called)
}
