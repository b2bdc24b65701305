// Package fake provides an in-memory UnitOfWork for command tests. State
// lives in plain maps; transactions are not simulated beyond running the
// callback against shared state.
package fake

import (
	"context"
	"time"

	"opportune/internal/domain/offer"
	"opportune/internal/domain/promotion"
	"opportune/internal/domain/reservation"
	"opportune/internal/domain/review"
	"opportune/internal/infra"
	"opportune/internal/infra/db"
	"opportune/internal/usecase/shared"

	"github.com/google/uuid"
)

type NotificationJob struct {
	Kind    string
	Topic   string
	Payload []byte
	RunAt   time.Time
}

type StoredReview struct {
	ID            uuid.UUID
	ReservationID uuid.UUID
	OfferID       uuid.UUID
	UserID        uuid.UUID
	Rating        int
	Comment       string
}

type UoW struct {
	Offers       map[uuid.UUID]*shared.OfferSnapshot
	Reservations map[uuid.UUID]*shared.ReservationSnapshot
	Promotions   map[uuid.UUID]*shared.PromotionSnapshot
	Users        map[uuid.UUID]*shared.UserSnapshot
	Idempotency  map[string]*shared.IdempotencyRecord
	Reviews      map[uuid.UUID]*StoredReview
	Jobs         []NotificationJob

	RecalcStatsCalls []uuid.UUID

	// ForcedErr, when set, fails every transactional operation.
	ForcedErr error
}

func NewUoW() *UoW {
	return &UoW{
		Offers:       make(map[uuid.UUID]*shared.OfferSnapshot),
		Reservations: make(map[uuid.UUID]*shared.ReservationSnapshot),
		Promotions:   make(map[uuid.UUID]*shared.PromotionSnapshot),
		Users:        make(map[uuid.UUID]*shared.UserSnapshot),
		Idempotency:  make(map[string]*shared.IdempotencyRecord),
		Reviews:      make(map[uuid.UUID]*StoredReview),
	}
}

func (u *UoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	if u.ForcedErr != nil {
		return u.ForcedErr
	}
	return fn(ctx, &fakeTx{u: u})
}

func (u *UoW) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	return fn(ctx, nil)
}

func (u *UoW) WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	return fn(ctx, nil)
}

func (u *UoW) CommandReads() shared.CommandReads {
	return &fakeReads{u: u}
}

// Seed helpers

func (u *UoW) SeedUser(id uuid.UUID, email string) {
	u.Users[id] = &shared.UserSnapshot{
		ID: id, Email: email, Role: "member", IsActive: true,
	}
}

func (u *UoW) SeedOffer(snap shared.OfferSnapshot) {
	if snap.LockVersion == 0 {
		snap.LockVersion = 1
	}
	u.Offers[snap.ID] = &snap
}

func (u *UoW) SeedReservation(snap shared.ReservationSnapshot) {
	if snap.LockVersion == 0 {
		snap.LockVersion = 1
	}
	u.Reservations[snap.ID] = &snap
}

func (u *UoW) SeedPromotion(snap shared.PromotionSnapshot) {
	u.Promotions[snap.ID] = &snap
}

// fakeTx

type fakeTx struct {
	u *UoW
}

func (t *fakeTx) Offers() shared.OfferRepository             { return &fakeOfferRepo{u: t.u} }
func (t *fakeTx) Reservations() shared.ReservationRepository { return &fakeReservationRepo{u: t.u} }
func (t *fakeTx) Promotions() shared.PromotionRepository     { return &fakePromotionRepo{u: t.u} }
func (t *fakeTx) Reviews() shared.ReviewRepository           { return &fakeReviewRepo{u: t.u} }
func (t *fakeTx) RatingStats() shared.RatingStatsRepository  { return &fakeStatsRepo{u: t.u} }
func (t *fakeTx) Users() shared.UserRepository               { return &fakeUserRepo{u: t.u} }
func (t *fakeTx) Idempotency() shared.IdempotencyRepository  { return &fakeIdempotencyRepo{u: t.u} }
func (t *fakeTx) Notifications() shared.NotificationRepository {
	return &fakeNotificationRepo{u: t.u}
}
func (t *fakeTx) Reads() shared.CommandReads { return &fakeReads{u: t.u} }
func (t *fakeTx) DB() db.DBTX                { return nil }

// fakeReads

type fakeReads struct {
	u *UoW
}

func (r *fakeReads) OfferByID(_ context.Context, id uuid.UUID) (*shared.OfferSnapshot, error) {
	snap, ok := r.u.Offers[id]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "offer not found")
	}
	cp := *snap
	return &cp, nil
}

func (r *fakeReads) ReservationByID(_ context.Context, id uuid.UUID) (*shared.ReservationSnapshot, error) {
	snap, ok := r.u.Reservations[id]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "reservation not found")
	}
	cp := *snap
	return &cp, nil
}

func (r *fakeReads) PromotionByID(_ context.Context, id uuid.UUID) (*shared.PromotionSnapshot, error) {
	snap, ok := r.u.Promotions[id]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "promotion not found")
	}
	cp := *snap
	return &cp, nil
}

func (r *fakeReads) UserByID(_ context.Context, id uuid.UUID) (*shared.UserSnapshot, error) {
	snap, ok := r.u.Users[id]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "user not found")
	}
	cp := *snap
	return &cp, nil
}

func (r *fakeReads) ActiveReservationCount(_ context.Context, offerID uuid.UUID) (int64, error) {
	var count int64
	for _, snap := range r.u.Reservations {
		if snap.OfferID == offerID && snap.IsActive {
			count++
		}
	}
	return count, nil
}

func (r *fakeReads) ActivePromotionCount(_ context.Context, offerID uuid.UUID, now time.Time) (int64, error) {
	var count int64
	for _, snap := range r.u.Promotions {
		if snap.OfferID == offerID && snap.ExpireAt.After(now) {
			count++
		}
	}
	return count, nil
}

func (r *fakeReads) ActiveReservationsExpiringBefore(_ context.Context, before time.Time) ([]shared.ReservationSnapshot, error) {
	var out []shared.ReservationSnapshot
	for _, snap := range r.u.Reservations {
		if snap.IsActive && !snap.TargetDate.After(before) {
			out = append(out, *snap)
		}
	}
	return out, nil
}

func (r *fakeReads) PromotionsExpiringBefore(_ context.Context, before time.Time) ([]shared.PromotionSnapshot, error) {
	var out []shared.PromotionSnapshot
	for _, snap := range r.u.Promotions {
		if snap.ExpireAt.Before(before) {
			out = append(out, *snap)
		}
	}
	return out, nil
}

func (r *fakeReads) IdempotencyByKey(_ context.Context, key, userID uuid.UUID) (*shared.IdempotencyRecord, error) {
	rec, ok := r.u.Idempotency[idemKey(key, userID)]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "idempotency key not found")
	}
	cp := *rec
	return &cp, nil
}

// repositories

type fakeOfferRepo struct {
	u *UoW
}

func (r *fakeOfferRepo) Create(_ context.Context, _ db.DBTX, o *offer.Offer) (uuid.UUID, error) {
	r.u.Offers[o.ID()] = &shared.OfferSnapshot{
		ID:             o.ID(),
		OwnerID:        o.OwnerID(),
		Title:          o.Title(),
		Vacancies:      o.Vacancies(),
		UnitPrice:      o.UnitPrice(),
		IsActive:       o.IsActive(),
		IsPromoted:     o.IsPromoted(),
		ActivationDate: o.ActivationDate(),
		LockVersion:    1,
		CreatedAt:      o.CreatedAt(),
		UpdatedAt:      o.UpdatedAt(),
	}
	return o.ID(), nil
}

func (r *fakeOfferRepo) UpdateActive(_ context.Context, _ db.DBTX, id uuid.UUID, isActive bool, expectedVersion int32) error {
	snap, ok := r.u.Offers[id]
	if !ok {
		return infra.NewRepoErr(infra.KindNotFound, "offer not found")
	}
	if snap.LockVersion != expectedVersion {
		return infra.NewRepoErr(infra.KindConflict, "stale offer version")
	}
	snap.IsActive = isActive
	snap.LockVersion++
	return nil
}

func (r *fakeOfferRepo) SetPromoted(_ context.Context, _ db.DBTX, id uuid.UUID, promoted bool) error {
	snap, ok := r.u.Offers[id]
	if !ok {
		return infra.NewRepoErr(infra.KindNotFound, "offer not found")
	}
	snap.IsPromoted = promoted
	return nil
}

type fakeReservationRepo struct {
	u *UoW
}

func (r *fakeReservationRepo) Create(_ context.Context, _ db.DBTX, res *reservation.Reservation) (uuid.UUID, error) {
	r.u.Reservations[res.ID()] = &shared.ReservationSnapshot{
		ID:               res.ID(),
		OfferID:          res.OfferID(),
		UserID:           res.UserID(),
		Headcount:        res.Headcount(),
		FixedPrice:       res.FixedPrice(),
		IsActive:         res.IsActive(),
		TargetDate:       res.TargetDate(),
		LockVersion:      1,
		BookingCreatedAt: res.BookingCreatedAt(),
		UpdatedAt:        res.UpdatedAt(),
	}
	return res.ID(), nil
}

func (r *fakeReservationRepo) Update(_ context.Context, _ db.DBTX, res *reservation.Reservation, expectedVersion int32) error {
	snap, ok := r.u.Reservations[res.ID()]
	if !ok {
		return infra.NewRepoErr(infra.KindNotFound, "reservation not found")
	}
	if snap.LockVersion != expectedVersion {
		return infra.NewRepoErr(infra.KindConflict, "stale reservation version")
	}
	snap.Headcount = res.Headcount()
	snap.FixedPrice = res.FixedPrice()
	snap.IsActive = res.IsActive()
	snap.UpdatedAt = res.UpdatedAt()
	snap.LockVersion++
	return nil
}

func (r *fakeReservationRepo) Delete(_ context.Context, _ db.DBTX, id uuid.UUID) error {
	if _, ok := r.u.Reservations[id]; !ok {
		return infra.NewRepoErr(infra.KindNotFound, "reservation not found")
	}
	delete(r.u.Reservations, id)
	return nil
}

type fakePromotionRepo struct {
	u *UoW
}

func (r *fakePromotionRepo) Create(_ context.Context, _ db.DBTX, p *promotion.Promotion) (uuid.UUID, error) {
	for _, snap := range r.u.Promotions {
		if snap.OfferID == p.OfferID() && snap.PromoterID == p.PromoterID() {
			return uuid.Nil, infra.NewRepoErr(infra.KindDuplicateKey, "duplicate promotion")
		}
	}
	r.u.Promotions[p.ID()] = &shared.PromotionSnapshot{
		ID:         p.ID(),
		OfferID:    p.OfferID(),
		PromoterID: p.PromoterID(),
		Value:      p.Value(),
		ExpireAt:   p.ExpireAt(),
		CreatedAt:  p.CreatedAt(),
	}
	return p.ID(), nil
}

func (r *fakePromotionRepo) Delete(_ context.Context, _ db.DBTX, id uuid.UUID) error {
	if _, ok := r.u.Promotions[id]; !ok {
		return infra.NewRepoErr(infra.KindNotFound, "promotion not found")
	}
	delete(r.u.Promotions, id)
	return nil
}

type fakeReviewRepo struct {
	u *UoW
}

func (r *fakeReviewRepo) Create(_ context.Context, _ db.DBTX, rev *review.Review) (uuid.UUID, error) {
	for _, stored := range r.u.Reviews {
		if stored.ReservationID == rev.ReservationID() {
			return uuid.Nil, infra.NewRepoErr(infra.KindDuplicateKey, "duplicate review")
		}
	}
	r.u.Reviews[rev.ID()] = &StoredReview{
		ID:            rev.ID(),
		ReservationID: rev.ReservationID(),
		OfferID:       rev.OfferID(),
		UserID:        rev.UserID(),
		Rating:        rev.Rating().Value(),
		Comment:       rev.Comment().String(),
	}
	return rev.ID(), nil
}

type fakeStatsRepo struct {
	u *UoW
}

func (r *fakeStatsRepo) RecalcOfferRatingStats(_ context.Context, _ db.DBTX, offerID uuid.UUID) error {
	r.u.RecalcStatsCalls = append(r.u.RecalcStatsCalls, offerID)
	return nil
}

type fakeUserRepo struct {
	u *UoW
}

func (r *fakeUserRepo) Create(_ context.Context, _ db.DBTX, email, passwordHash, role string) (uuid.UUID, error) {
	for _, snap := range r.u.Users {
		if snap.Email == email {
			return uuid.Nil, infra.NewRepoErr(infra.KindDuplicateKey, "duplicate email")
		}
	}
	id := uuid.New()
	r.u.Users[id] = &shared.UserSnapshot{
		ID: id, Email: email, PasswordHash: passwordHash, Role: role, IsActive: true,
	}
	return id, nil
}

func (r *fakeUserRepo) UpdateLastLogin(_ context.Context, _ db.DBTX, userID uuid.UUID) error {
	if _, ok := r.u.Users[userID]; !ok {
		return infra.NewRepoErr(infra.KindNotFound, "user not found")
	}
	return nil
}

type fakeIdempotencyRepo struct {
	u *UoW
}

func (r *fakeIdempotencyRepo) TryInsert(_ context.Context, _ db.DBTX, key, userID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) error {
	k := idemKey(key, userID)
	if _, ok := r.u.Idempotency[k]; ok {
		return nil
	}
	r.u.Idempotency[k] = &shared.IdempotencyRecord{
		Key:         key,
		UserID:      userID,
		Endpoint:    endpoint,
		RequestHash: requestHash,
		Status:      "processing",
		ExpiresAt:   expiresAt,
	}
	return nil
}

func (r *fakeIdempotencyRepo) UpdateStatusCompleted(_ context.Context, _ db.DBTX, key, userID uuid.UUID, _ string, resultReservationID uuid.UUID) error {
	rec, ok := r.u.Idempotency[idemKey(key, userID)]
	if !ok {
		return infra.NewRepoErr(infra.KindNotFound, "idempotency key not found")
	}
	rec.Status = "completed"
	id := resultReservationID
	rec.ResultReservationID = &id
	return nil
}

type fakeNotificationRepo struct {
	u *UoW
}

func (r *fakeNotificationRepo) CreateJob(_ context.Context, _ db.DBTX, kind, topic string, payload []byte, runAt time.Time) error {
	r.u.Jobs = append(r.u.Jobs, NotificationJob{Kind: kind, Topic: topic, Payload: payload, RunAt: runAt})
	return nil
}

func idemKey(key, userID uuid.UUID) string {
	return key.String() + ":" + userID.String()
}
