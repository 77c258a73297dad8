// Package event adapts bus messages to usecase calls.
package event

import (
	"context"
	"encoding/json"
	"fmt"

	"go-profile-backend/internal/domain"
	"go-profile-backend/pkg/logger"
)

// JobFeedbackDurable is the consumer name for job feedback notifications.
const JobFeedbackDurable = "profile-job-feedback"

type JobFeedbackHandler struct {
	notificationUC domain.NotificationUsecase
}

func NewJobFeedbackHandler(notificationUC domain.NotificationUsecase) *JobFeedbackHandler {
	return &JobFeedbackHandler{notificationUC: notificationUC}
}

// Handle decodes a JobFeedbackEvent and dispatches its notifications.
// Malformed payloads are dropped. A dispatch error naks the message unless
// some batches already went out.
func (h *JobFeedbackHandler) Handle(ctx context.Context, data []byte) error {
	var evt domain.JobFeedbackEvent
	if err := json.Unmarshal(data, &evt); err != nil {
		logger.Log.Errorw("Dropping malformed job feedback event", "error", err)
		return nil
	}
	if len(evt.Data) == 0 {
		return nil
	}

	report, err := h.notificationUC.Dispatch(ctx, evt.Data)
	if err != nil {
		if ctx.Err() != nil && report.Batches > 0 {
			logger.Log.Warnw("Job feedback dispatch interrupted", "sent", report.Sent, "requested", report.Requested)
			return nil
		}
		return fmt.Errorf("dispatch job feedback: %w", err)
	}
	return nil
}
