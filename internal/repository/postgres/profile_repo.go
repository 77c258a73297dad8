package postgres

import (
	"context"
	"errors"
	"fmt"

	"go-profile-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type profileRepo struct {
	db *pgxpool.Pool
}

func NewProfileRepository(db *pgxpool.Pool) domain.ProfileRepository {
	return &profileRepo{db: db}
}

func (r *profileRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ProfileSnapshot, error) {
	q := conn(ctx, r.db)

	query := `SELECT p.id, p.user_id, u.username,
                     COALESCE(p.first_name, ''), COALESCE(p.last_name, ''),
                     COALESCE(p.country, ''), COALESCE(p.state, ''), COALESCE(p.city, ''),
                     COALESCE(p.education, ''), COALESCE(p.experience, ''),
                     COALESCE(p.cv_key, ''), p.updated_at
              FROM user_profiles p
              JOIN users u ON u.id = p.user_id
              WHERE p.id = $1`

	var p domain.ProfileSnapshot
	err := q.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.UserID, &p.Username,
		&p.FirstName, &p.LastName,
		&p.Country, &p.State, &p.City,
		&p.Education, &p.Experience,
		&p.CVKey, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	rows, err := q.Query(ctx, `SELECT skill_name FROM user_profile_skills WHERE profile_id = $1 ORDER BY seq`, id)
	if err != nil {
		return nil, err
	}
	p.Skills, err = pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, err
	}

	return &p, nil
}

// Save writes the scalar fields. Skills are persisted through the mapping repository.
func (r *profileRepo) Save(ctx context.Context, p *domain.ProfileSnapshot) error {
	query := `UPDATE user_profiles SET
                  first_name = NULLIF($2, ''), last_name = NULLIF($3, ''),
                  country = NULLIF($4, ''), state = NULLIF($5, ''), city = NULLIF($6, ''),
                  education = NULLIF($7, ''), experience = NULLIF($8, ''),
                  cv_key = NULLIF($9, ''), updated_at = NOW()
              WHERE id = $1
              RETURNING updated_at`

	err := conn(ctx, r.db).QueryRow(ctx, query,
		p.ID, p.FirstName, p.LastName,
		p.Country, p.State, p.City,
		p.Education, p.Experience, p.CVKey,
	).Scan(&p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("profile %s: %w", p.ID, err)
	}
	return err
}
