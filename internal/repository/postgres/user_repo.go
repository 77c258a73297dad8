package postgres

import (
	"context"

	"go-profile-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type userRepo struct {
	db *pgxpool.Pool
}

// NewUserRepository returns the notification recipient resolver.
func NewUserRepository(db *pgxpool.Pool) domain.RecipientResolver {
	return &userRepo{db: db}
}

// ResolveRecipients maps profile ids to their owner's email in one query.
func (r *userRepo) ResolveRecipients(ctx context.Context, profileIDs []uuid.UUID) (map[uuid.UUID]string, error) {
	recipients := make(map[uuid.UUID]string, len(profileIDs))
	if len(profileIDs) == 0 {
		return recipients, nil
	}

	ids := make([]string, len(profileIDs))
	for i, id := range profileIDs {
		ids[i] = id.String()
	}

	query := `SELECT p.id, u.email
              FROM user_profiles p
              JOIN users u ON u.id = p.user_id
              WHERE p.id = ANY($1::uuid[]) AND u.email <> ''`
	rows, err := conn(ctx, r.db).Query(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id    uuid.UUID
			email string
		)
		if err := rows.Scan(&id, &email); err != nil {
			return nil, err
		}
		recipients[id] = email
	}
	return recipients, rows.Err()
}
