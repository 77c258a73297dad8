package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// NotificationsTotal counts dispatcher outcomes: sent, failed, dropped.
	NotificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "profile_notifications_total",
		Help: "Notification emails by dispatch outcome.",
	}, []string{"outcome"})

	NotificationBatchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "profile_notification_batches_total",
		Help: "Notification batches handed to the mail transport.",
	})

	// ReconciliationsTotal counts profile reconciliations by path (manual, cv) and result.
	ReconciliationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "profile_reconciliations_total",
		Help: "Profile reconciliations by update path and result.",
	}, []string{"path", "result"})

	GeographyLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "profile_geography_lookups_total",
		Help: "Geography service lookups by kind and cache status.",
	}, []string{"kind", "cache"})

	SkillsDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "profile_unmapped_skills_deleted_total",
		Help: "Vocabulary entries removed by the cleanup job.",
	})
)
