//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// bcrypt hash of "password123", shared by all fixture users.
const testPasswordHash = "$2a$12$uhAjVE9f92IGYv3E25pJNetg.27lVt0p7jmLWjqjmhOg92ldPS0A."

func CreateTestUser(t *testing.T, db DBLike, email, role string) uuid.UUID {
	t.Helper()

	userID := uuid.New()
	ctx := context.Background()

	tag, err := db.Exec(ctx,
		"INSERT INTO users (id, email, password_hash, role, is_active) VALUES ($1, $2, $3, $4, true) ON CONFLICT (email) WHERE is_active = true DO NOTHING",
		userID, email, testPasswordHash, role)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		_ = db.QueryRow(ctx, "SELECT id FROM users WHERE email = $1 AND is_active = true", email).Scan(&userID)
	}

	return userID
}

func CreateTestOffer(t *testing.T, db DBLike, ownerID uuid.UUID, title string, vacancies int32, unitPrice decimal.Decimal, activationDate time.Time) uuid.UUID {
	t.Helper()

	offerID := uuid.New()
	_, err := db.Exec(context.Background(),
		"INSERT INTO offers (id, owner_id, title, vacancies, unit_price, is_active, activation_date, lock_version) VALUES ($1, $2, $3, $4, $5, true, $6, 1)",
		offerID, ownerID, title, vacancies, unitPrice, activationDate)
	require.NoError(t, err)

	return offerID
}

func CreateTestReservation(t *testing.T, db DBLike, offerID, userID uuid.UUID, headcount int32, fixedPrice decimal.Decimal, targetDate time.Time, isActive bool) uuid.UUID {
	t.Helper()

	reservationID := uuid.New()
	_, err := db.Exec(context.Background(),
		"INSERT INTO reservations (id, offer_id, user_id, headcount, fixed_price, is_active, target_date, lock_version) VALUES ($1, $2, $3, $4, $5, $6, $7, 1)",
		reservationID, offerID, userID, headcount, fixedPrice, isActive, targetDate)
	require.NoError(t, err)

	return reservationID
}

func CreateTestPromotion(t *testing.T, db DBLike, offerID, promoterID uuid.UUID, value decimal.Decimal, expireAt time.Time) uuid.UUID {
	t.Helper()

	promotionID := uuid.New()
	ctx := context.Background()
	_, err := db.Exec(ctx,
		"INSERT INTO promotions (id, offer_id, promoter_id, value, expire_at) VALUES ($1, $2, $3, $4, $5)",
		promotionID, offerID, promoterID, value, expireAt)
	require.NoError(t, err)

	_, err = db.Exec(ctx, "UPDATE offers SET is_promoted = true WHERE id = $1", offerID)
	require.NoError(t, err)

	return promotionID
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables between sub-tests
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return nil
}
