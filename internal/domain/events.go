package domain

import (
	"context"

	"github.com/google/uuid"
)

// Event bus subjects.
const (
	SubjectRecommendJobs = "events.jobs.recommend"
	SubjectJobFeedback   = "events.jobs.feedback"
)

// JobRecommendationRequest is published for the job service to match against.
type JobRecommendationRequest struct {
	ProfileID  uuid.UUID `json:"userProfileId"`
	Country    string    `json:"country,omitempty"`
	State      string    `json:"state,omitempty"`
	City       string    `json:"city,omitempty"`
	Education  string    `json:"education,omitempty"`
	Experience string    `json:"experience,omitempty"`
	Skills     []string  `json:"skills"`
}

// JobFeedbackEvent carries notification emails produced by the job service
// (job deleted, jobs recommended).
type JobFeedbackEvent struct {
	Data []NotificationMessage `json:"data"`
}

type EventPublisher interface {
	Publish(ctx context.Context, subject string, payload any) error
}
