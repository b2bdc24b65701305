package repository

import (
	"context"

	"opportune/internal/infra"
	"opportune/internal/infra/db"

	"github.com/google/uuid"
)

type UserRepository struct{}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

func (r *UserRepository) Create(ctx context.Context, dbtx db.DBTX, email, passwordHash, role string) (uuid.UUID, error) {
	const q = `
		INSERT INTO users (email, password_hash, role)
		VALUES ($1, $2, $3)
		RETURNING id`

	var id uuid.UUID
	if err := dbtx.QueryRow(ctx, q, email, passwordHash, role).Scan(&id); err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create user", err)
	}

	return id, nil
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, dbtx db.DBTX, userID uuid.UUID) error {
	const q = `UPDATE users SET last_login = now(), updated_at = now() WHERE id = $1`

	if _, err := dbtx.Exec(ctx, q, userID); err != nil {
		return infra.WrapRepoErr("failed to update last login", err)
	}
	return nil
}
