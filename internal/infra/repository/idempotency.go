package repository

import (
	"context"
	"time"

	"opportune/internal/infra"
	"opportune/internal/infra/db"

	"github.com/google/uuid"
)

type IdempotencyRepository struct{}

func NewIdempotencyRepository() *IdempotencyRepository {
	return &IdempotencyRepository{}
}

// TryInsert claims the key. An existing row is left untouched; the caller
// reads it back to decide between replay and conflict.
func (r *IdempotencyRepository) TryInsert(ctx context.Context, dbtx db.DBTX, key, userID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) error {
	const q = `
		INSERT INTO idempotency_keys (key, user_id, endpoint, request_hash, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (key, user_id) DO NOTHING`

	if _, err := dbtx.Exec(ctx, q, key, userID, endpoint, requestHash, expiresAt); err != nil {
		return infra.WrapRepoErr("failed to insert idempotency key", err)
	}
	return nil
}

func (r *IdempotencyRepository) UpdateStatusCompleted(ctx context.Context, dbtx db.DBTX, key, userID uuid.UUID, responseBodyHash string, resultReservationID uuid.UUID) error {
	const q = `
		UPDATE idempotency_keys
		SET status = 'completed', response_body_hash = $3, result_reservation_id = $4, updated_at = now()
		WHERE key = $1 AND user_id = $2`

	tag, err := dbtx.Exec(ctx, q, key, userID, responseBodyHash, resultReservationID)
	if err != nil {
		return infra.WrapRepoErr("failed to complete idempotency key", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr(infra.KindNotFound, "idempotency key not found")
	}
	return nil
}
