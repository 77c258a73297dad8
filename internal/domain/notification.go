package domain

import (
	"context"

	"github.com/google/uuid"
)

// NotificationMessage is addressed to a profile, not to a mailbox.
type NotificationMessage struct {
	ProfileID uuid.UUID `json:"userProfileId"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
}

// DispatchReport summarises one Dispatch call.
type DispatchReport struct {
	Requested int `json:"requested"`
	Dropped   int `json:"dropped"`
	Sent      int `json:"sent"`
	Failed    int `json:"failed"`
	Batches   int `json:"batches"`
}

// RecipientResolver maps profile ids to email addresses. Unknown ids are
// simply missing from the result.
type RecipientResolver interface {
	ResolveRecipients(ctx context.Context, profileIDs []uuid.UUID) (map[uuid.UUID]string, error)
}

type MailTransport interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

type NotificationUsecase interface {
	Dispatch(ctx context.Context, messages []NotificationMessage) (DispatchReport, error)
}
