package readstore

import (
	"context"
	"time"

	"opportune/internal/infra"
	"opportune/internal/infra/db"
	"opportune/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type PromotionReadStore struct {
	dbtx db.DBTX
}

func NewPromotionReadStore(dbtx db.DBTX) *PromotionReadStore {
	return &PromotionReadStore{dbtx: dbtx}
}

// CountActiveByOfferID counts surviving, unexpired promotions for an offer.
// The promoted flag derivation re-queries through this rather than assuming.
func (s *PromotionReadStore) CountActiveByOfferID(ctx context.Context, offerID uuid.UUID, now time.Time) (int64, error) {
	const q = `SELECT COUNT(*) FROM promotions WHERE offer_id = $1 AND expire_at > $2`

	var count int64
	if err := s.dbtx.QueryRow(ctx, q, offerID, now).Scan(&count); err != nil {
		return 0, infra.WrapRepoErr("failed to count active promotions", err)
	}
	return count, nil
}

func (s *PromotionReadStore) FindByID(ctx context.Context, id uuid.UUID) (*shared.PromotionSnapshot, error) {
	const q = `
		SELECT id, offer_id, promoter_id, value::text, expire_at, created_at
		FROM promotions
		WHERE id = $1`

	snap, err := scanPromotionSnapshot(s.dbtx.QueryRow(ctx, q, id))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find promotion by ID", err)
	}
	return snap, nil
}

// FindExpiringBefore is the promotion sweep candidate load.
func (s *PromotionReadStore) FindExpiringBefore(ctx context.Context, before time.Time) ([]shared.PromotionSnapshot, error) {
	const q = `
		SELECT id, offer_id, promoter_id, value::text, expire_at, created_at
		FROM promotions
		WHERE expire_at < $1
		ORDER BY expire_at ASC`

	rows, err := s.dbtx.Query(ctx, q, before)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list expiring promotions", err)
	}
	defer rows.Close()

	var snaps []shared.PromotionSnapshot
	for rows.Next() {
		snap, scanErr := scanPromotionSnapshot(rows)
		if scanErr != nil {
			return nil, infra.WrapRepoErr("failed to scan expiring promotion", scanErr)
		}
		snaps = append(snaps, *snap)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate expiring promotions", err)
	}
	return snaps, nil
}

func scanPromotionSnapshot(row pgx.Row) (*shared.PromotionSnapshot, error) {
	var (
		snap      shared.PromotionSnapshot
		valueText string
	)
	err := row.Scan(&snap.ID, &snap.OfferID, &snap.PromoterID, &valueText, &snap.ExpireAt, &snap.CreatedAt)
	if err != nil {
		return nil, err
	}

	if snap.Value, err = decimal.NewFromString(valueText); err != nil {
		return nil, err
	}
	return &snap, nil
}
