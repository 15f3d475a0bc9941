package service

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/quiz-service/internal/domain"
)

type fakeGateway struct {
	question   string
	failOn     int32 // 1-based call number that fails; 0 never
	genErr     error
	assessment domain.Assessment
	assessErr  error

	calls    atomic.Int32
	inFlight atomic.Int32
	maxSeen  atomic.Int32
	block    chan struct{}
}

func (f *fakeGateway) GenerateQuestion(ctx context.Context, theme string) (string, error) {
	n := f.calls.Add(1)
	cur := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		prev := f.maxSeen.Load()
		if cur <= prev || f.maxSeen.CompareAndSwap(prev, cur) {
			break
		}
	}
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if f.failOn != 0 && n == f.failOn {
		return "", f.genErr
	}
	return f.question, nil
}

func (f *fakeGateway) AssessAnswer(context.Context, string, string) (domain.Assessment, error) {
	return f.assessment, f.assessErr
}

type fakeActivityRepo struct {
	mu        sync.Mutex
	created   []domain.Activity
	createErr error
	listLimit int
	list      []domain.Activity
}

func (f *fakeActivityRepo) Create(_ context.Context, a *domain.Activity) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, *a)
	return nil
}

func (f *fakeActivityRepo) ListByUser(_ context.Context, _ string, limit int) ([]domain.Activity, error) {
	f.listLimit = limit
	return f.list, nil
}

type fakeStream struct {
	args []*redis.XAddArgs
	err  error
}

func (f *fakeStream) XAdd(_ context.Context, a *redis.XAddArgs) *redis.StringCmd {
	f.args = append(f.args, a)
	return redis.NewStringResult("1-0", f.err)
}
