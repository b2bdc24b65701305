package readstore

import (
	"context"

	"opportune/internal/infra"
	"opportune/internal/infra/db"
	"opportune/internal/usecase/queries"
	"opportune/internal/usecase/shared"

	"github.com/google/uuid"
)

type UserReadStore struct {
	dbtx db.DBTX
}

func NewUserReadStore(dbtx db.DBTX) *UserReadStore {
	return &UserReadStore{dbtx: dbtx}
}

func (s *UserReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.AuthorizedUserView, error) {
	const q = `SELECT id, email, role, is_active FROM users WHERE id = $1`

	var view queries.AuthorizedUserView
	err := s.dbtx.QueryRow(ctx, q, id).Scan(&view.ID, &view.Email, &view.Role, &view.IsActive)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find user", err)
	}
	return &view, nil
}

func (s *UserReadStore) FindByEmail(ctx context.Context, email string) (*queries.AuthorizedUserView, string, error) {
	const q = `SELECT id, email, role, is_active, password_hash FROM users WHERE email = $1 AND is_active = TRUE`

	var (
		view         queries.AuthorizedUserView
		passwordHash string
	)
	err := s.dbtx.QueryRow(ctx, q, email).Scan(&view.ID, &view.Email, &view.Role, &view.IsActive, &passwordHash)
	if err != nil {
		return nil, "", infra.WrapRepoErr("failed to find user by email", err)
	}
	return &view, passwordHash, nil
}

func (s *UserReadStore) FindSnapshotByID(ctx context.Context, id uuid.UUID) (*shared.UserSnapshot, error) {
	const q = `SELECT id, email, password_hash, role, is_active FROM users WHERE id = $1`

	var snap shared.UserSnapshot
	err := s.dbtx.QueryRow(ctx, q, id).Scan(&snap.ID, &snap.Email, &snap.PasswordHash, &snap.Role, &snap.IsActive)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find user snapshot", err)
	}
	return &snap, nil
}
