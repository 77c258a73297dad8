package worker

import (
	"context"
	"fmt"
	"time"

	"go-profile-backend/internal/domain"
	"go-profile-backend/pkg/logger"

	"github.com/gorhill/cronexpr"
	"github.com/redis/go-redis/v9"
)

const skillCleanupLockKey = "sched:lock:skill-cleanup"

// SkillCleanupScheduler removes unmapped vocabulary entries on a cron schedule.
type SkillCleanupScheduler struct {
	expr   *cronexpr.Expression
	skills domain.SkillUsecase
	// rdb, when set, holds a lock so only one instance runs each tick.
	rdb *redis.Client
	now func() time.Time
}

func NewSkillCleanupScheduler(spec string, skills domain.SkillUsecase, rdb *redis.Client) (*SkillCleanupScheduler, error) {
	expr, err := cronexpr.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid skill cleanup schedule %q: %w", spec, err)
	}
	return &SkillCleanupScheduler{expr: expr, skills: skills, rdb: rdb, now: time.Now}, nil
}

// NextRun returns the first scheduled time strictly after t.
func (s *SkillCleanupScheduler) NextRun(t time.Time) time.Time {
	return s.expr.Next(t)
}

// Run blocks until ctx is done, running the cleanup at every scheduled time.
func (s *SkillCleanupScheduler) Run(ctx context.Context) error {
	for {
		next := s.NextRun(s.now())
		if next.IsZero() {
			logger.Log.Warnw("Skill cleanup schedule has no future runs")
			<-ctx.Done()
			return nil
		}

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}

		s.RunOnce(ctx)
	}
}

// RunOnce performs a single cleanup. Failures are logged; the next tick retries.
func (s *SkillCleanupScheduler) RunOnce(ctx context.Context) {
	if s.rdb != nil {
		ok, err := s.rdb.SetNX(ctx, skillCleanupLockKey, "1", 10*time.Minute).Result()
		if err != nil {
			logger.Log.Warnw("Skill cleanup lock unavailable, running anyway", "error", err)
		} else if !ok {
			return
		} else {
			defer s.rdb.Del(context.WithoutCancel(ctx), skillCleanupLockKey)
		}
	}

	if _, err := s.skills.DeleteUnmappedSkills(ctx); err != nil {
		logger.Log.Errorw("Skill cleanup failed", "error", err)
	}
}
