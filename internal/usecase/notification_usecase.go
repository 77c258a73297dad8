package usecase

import (
	"context"
	"fmt"
	"time"

	"go-profile-backend/internal/domain"
	"go-profile-backend/pkg/logger"
	"go-profile-backend/pkg/metrics"

	"github.com/google/uuid"
)

// NotificationConfig bounds the outbound mail rate: BatchSize messages, then
// a BatchDelay pause before the next batch.
type NotificationConfig struct {
	BatchSize  int
	BatchDelay time.Duration
	// Sleep waits between batches. Nil waits on a timer and returns early with
	// ctx.Err() when ctx is done.
	Sleep func(ctx context.Context, d time.Duration) error
}

func DefaultNotificationConfig() NotificationConfig {
	return NotificationConfig{
		BatchSize:  5,
		BatchDelay: time.Minute,
	}
}

type notificationUsecase struct {
	resolver  domain.RecipientResolver
	transport domain.MailTransport
	cfg       NotificationConfig
}

func NewNotificationUsecase(resolver domain.RecipientResolver, transport domain.MailTransport, cfg NotificationConfig) domain.NotificationUsecase {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultNotificationConfig().BatchSize
	}
	if cfg.BatchDelay < 0 {
		cfg.BatchDelay = 0
	}
	if cfg.Sleep == nil {
		cfg.Sleep = sleepContext
	}
	return &notificationUsecase{
		resolver:  resolver,
		transport: transport,
		cfg:       cfg,
	}
}

type outgoingEmail struct {
	profileID uuid.UUID
	to        string
	subject   string
	body      string
}

// Dispatch resolves every message's recipient and sends the deliverable ones
// in fixed-size batches. Messages without a recipient are dropped, send
// failures are logged and skipped. Cancelling ctx stops further batches;
// batches already sent stay sent.
func (u *notificationUsecase) Dispatch(ctx context.Context, messages []domain.NotificationMessage) (domain.DispatchReport, error) {
	report := domain.DispatchReport{Requested: len(messages)}
	if len(messages) == 0 {
		return report, nil
	}

	profileIDs, byProfile := groupByProfile(messages)

	recipients, err := u.resolver.ResolveRecipients(ctx, profileIDs)
	if err != nil {
		return report, fmt.Errorf("resolve recipients: %w", err)
	}

	queue := make([]outgoingEmail, 0, len(messages))
	for _, id := range profileIDs {
		to, ok := recipients[id]
		if !ok || to == "" {
			report.Dropped += len(byProfile[id])
			metrics.NotificationsTotal.WithLabelValues("dropped").Add(float64(len(byProfile[id])))
			logger.Log.Warnw("Dropping notifications without recipient", "profile_id", id, "count", len(byProfile[id]))
			continue
		}
		for _, m := range byProfile[id] {
			queue = append(queue, outgoingEmail{profileID: id, to: to, subject: m.Subject, body: m.Body})
		}
	}

	for start := 0; start < len(queue); start += u.cfg.BatchSize {
		if start > 0 {
			if err := u.cfg.Sleep(ctx, u.cfg.BatchDelay); err != nil {
				return report, err
			}
		}
		if err := ctx.Err(); err != nil {
			return report, err
		}

		end := min(start+u.cfg.BatchSize, len(queue))
		report.Batches++
		metrics.NotificationBatchesTotal.Inc()

		for _, mail := range queue[start:end] {
			if err := u.transport.Send(ctx, mail.to, mail.subject, mail.body); err != nil {
				report.Failed++
				metrics.NotificationsTotal.WithLabelValues("failed").Inc()
				logger.Log.Errorw("Failed to send notification", "profile_id", mail.profileID, "error", err)
				continue
			}
			report.Sent++
			metrics.NotificationsTotal.WithLabelValues("sent").Inc()
		}
	}

	logger.Log.Infow("Notifications dispatched",
		"requested", report.Requested,
		"sent", report.Sent,
		"failed", report.Failed,
		"dropped", report.Dropped,
		"batches", report.Batches,
	)
	return report, nil
}

// groupByProfile returns distinct profile ids in first-seen order and the
// messages of each profile in input order.
func groupByProfile(messages []domain.NotificationMessage) ([]uuid.UUID, map[uuid.UUID][]domain.NotificationMessage) {
	var ids []uuid.UUID
	byProfile := make(map[uuid.UUID][]domain.NotificationMessage)
	for _, m := range messages {
		if _, ok := byProfile[m.ProfileID]; !ok {
			ids = append(ids, m.ProfileID)
		}
		byProfile[m.ProfileID] = append(byProfile[m.ProfileID], m)
	}
	return ids, byProfile
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
