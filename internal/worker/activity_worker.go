package worker

import (
	"github.com/spec-kit/quiz-service/internal/events"
	"github.com/spec-kit/quiz-service/internal/service"
)

// StartActivityWorker registers activity recording handlers.
func StartActivityWorker(dispatcher events.Dispatcher, activityService *service.ActivityService) {
	if activityService == nil {
		return
	}
	activityService.RegisterHandlers(dispatcher)
}
