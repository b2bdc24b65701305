package readstore

import (
	"context"

	"opportune/internal/infra"
	"opportune/internal/infra/db"
	"opportune/internal/usecase/shared"

	"github.com/google/uuid"
)

type IdempotencyReadStore struct {
	dbtx db.DBTX
}

func NewIdempotencyReadStore(dbtx db.DBTX) *IdempotencyReadStore {
	return &IdempotencyReadStore{dbtx: dbtx}
}

func (s *IdempotencyReadStore) FindByKey(ctx context.Context, key, userID uuid.UUID) (*shared.IdempotencyRecord, error) {
	const q = `
		SELECT key, user_id, endpoint, request_hash, status, result_reservation_id, expires_at
		FROM idempotency_keys
		WHERE key = $1 AND user_id = $2`

	var rec shared.IdempotencyRecord
	err := s.dbtx.QueryRow(ctx, q, key, userID).Scan(
		&rec.Key, &rec.UserID, &rec.Endpoint, &rec.RequestHash,
		&rec.Status, &rec.ResultReservationID, &rec.ExpiresAt,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find idempotency key", err)
	}
	return &rec, nil
}
