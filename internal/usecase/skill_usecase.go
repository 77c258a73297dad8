package usecase

import (
	"context"
	"sort"

	"go-profile-backend/internal/domain"
	"go-profile-backend/pkg/apperror"
	"go-profile-backend/pkg/logger"
	"go-profile-backend/pkg/metrics"
)

type skillUsecase struct {
	repo domain.SkillRepository
}

func NewSkillUsecase(repo domain.SkillRepository) domain.SkillUsecase {
	return &skillUsecase{repo: repo}
}

func (u *skillUsecase) ListSkills(ctx context.Context) ([]string, error) {
	skills, err := u.repo.GetAll(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	sort.Strings(skills)
	return skills, nil
}

// DeleteUnmappedSkills drops vocabulary entries that no profile uses anymore.
func (u *skillUsecase) DeleteUnmappedSkills(ctx context.Context) (int64, error) {
	deleted, err := u.repo.DeleteUnmapped(ctx)
	if err != nil {
		return 0, err
	}
	metrics.SkillsDeletedTotal.Add(float64(deleted))
	logger.Log.Infow("Unmapped skills deleted", "count", deleted)
	return deleted, nil
}
