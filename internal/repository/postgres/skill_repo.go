package postgres

import (
	"context"

	"go-profile-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type skillRepo struct {
	db *pgxpool.Pool
}

func NewSkillRepository(db *pgxpool.Pool) domain.SkillRepository {
	return &skillRepo{db: db}
}

func (r *skillRepo) GetAll(ctx context.Context) ([]string, error) {
	rows, err := conn(ctx, r.db).Query(ctx, `SELECT name FROM skills ORDER BY name`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

// AddSkills inserts names, skipping any already present in another case.
func (r *skillRepo) AddSkills(ctx context.Context, names []string) error {
	if len(names) == 0 {
		return nil
	}
	query := `INSERT INTO skills (name)
              SELECT n FROM unnest($1::text[]) AS n
              ON CONFLICT DO NOTHING`
	_, err := conn(ctx, r.db).Exec(ctx, query, pq.Array(names))
	return err
}

func (r *skillRepo) DeleteUnmapped(ctx context.Context) (int64, error) {
	query := `DELETE FROM skills s
              WHERE NOT EXISTS (
                  SELECT 1 FROM user_profile_skills m WHERE LOWER(m.skill_name) = LOWER(s.name)
              )`
	tag, err := conn(ctx, r.db).Exec(ctx, query)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
