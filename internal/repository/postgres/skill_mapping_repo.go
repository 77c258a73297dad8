package postgres

import (
	"context"

	"go-profile-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type skillMappingRepo struct {
	db *pgxpool.Pool
}

func NewSkillMappingRepository(db *pgxpool.Pool) domain.SkillMappingRepository {
	return &skillMappingRepo{db: db}
}

func (r *skillMappingRepo) AddMappings(ctx context.Context, mappings []domain.SkillMapping) error {
	if len(mappings) == 0 {
		return nil
	}
	ids, names := splitMappings(mappings)
	query := `INSERT INTO user_profile_skills (profile_id, skill_name)
              SELECT * FROM unnest($1::uuid[], $2::text[])
              ON CONFLICT DO NOTHING`
	_, err := conn(ctx, r.db).Exec(ctx, query, pq.Array(ids), pq.Array(names))
	return err
}

func (r *skillMappingRepo) RemoveMappings(ctx context.Context, mappings []domain.SkillMapping) error {
	if len(mappings) == 0 {
		return nil
	}
	ids, names := splitMappings(mappings)
	query := `DELETE FROM user_profile_skills m
              USING unnest($1::uuid[], $2::text[]) AS d(profile_id, skill_name)
              WHERE m.profile_id = d.profile_id AND m.skill_name = d.skill_name`
	_, err := conn(ctx, r.db).Exec(ctx, query, pq.Array(ids), pq.Array(names))
	return err
}

func splitMappings(mappings []domain.SkillMapping) ([]string, []string) {
	ids := make([]string, len(mappings))
	names := make([]string, len(mappings))
	for i, m := range mappings {
		ids[i] = m.ProfileID.String()
		names[i] = m.SkillName
	}
	return ids, names
}
