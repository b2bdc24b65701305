package fake

import (
	"context"

	"opportune/internal/infra"
	"opportune/internal/usecase/queries"

	"github.com/google/uuid"
)

// OfferReadStore builds offer views from the fake UoW state. Rating stats
// are zero; the fake does not aggregate reviews.
type OfferReadStore struct {
	U *UoW
}

func (s *OfferReadStore) FindByID(_ context.Context, id uuid.UUID) (*queries.OfferView, error) {
	snap, ok := s.U.Offers[id]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "offer not found")
	}
	return &queries.OfferView{
		ID:             snap.ID,
		OwnerID:        snap.OwnerID,
		Title:          snap.Title,
		Vacancies:      snap.Vacancies,
		UnitPrice:      snap.UnitPrice,
		IsActive:       snap.IsActive,
		IsPromoted:     snap.IsPromoted,
		ActivationDate: snap.ActivationDate,
		CreatedAt:      snap.CreatedAt,
		UpdatedAt:      snap.UpdatedAt,
	}, nil
}

func (s *OfferReadStore) FindActive(ctx context.Context, limit int32) ([]*queries.OfferView, error) {
	var out []*queries.OfferView
	for id, snap := range s.U.Offers {
		if !snap.IsActive {
			continue
		}
		view, err := s.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, view)
		if int32(len(out)) >= limit {
			break
		}
	}
	return out, nil
}

func (s *OfferReadStore) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*queries.OfferView, error) {
	var out []*queries.OfferView
	for id, snap := range s.U.Offers {
		if snap.OwnerID != ownerID {
			continue
		}
		view, err := s.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, view)
	}
	return out, nil
}

// UserReadStore serves authorization views from the fake UoW state.
type UserReadStore struct {
	U *UoW
}

func (s *UserReadStore) FindByID(_ context.Context, id uuid.UUID) (*queries.AuthorizedUserView, error) {
	snap, ok := s.U.Users[id]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "user not found")
	}
	return &queries.AuthorizedUserView{
		ID:       snap.ID,
		Email:    snap.Email,
		Role:     snap.Role,
		IsActive: snap.IsActive,
	}, nil
}

func (s *UserReadStore) FindByEmail(ctx context.Context, email string) (*queries.AuthorizedUserView, string, error) {
	for id, snap := range s.U.Users {
		if snap.Email == email {
			view, err := s.FindByID(ctx, id)
			if err != nil {
				return nil, "", err
			}
			return view, snap.PasswordHash, nil
		}
	}
	return nil, "", infra.NewRepoErr(infra.KindNotFound, "user not found")
}

// ReservationReadStore builds reservation views from the fake UoW state.
type ReservationReadStore struct {
	U *UoW
}

func (s *ReservationReadStore) FindByID(_ context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	snap, ok := s.U.Reservations[id]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "reservation not found")
	}

	view := &queries.ReservationView{
		ID:               snap.ID,
		OfferID:          snap.OfferID,
		UserID:           snap.UserID,
		Headcount:        snap.Headcount,
		FixedPrice:       snap.FixedPrice,
		IsActive:         snap.IsActive,
		TargetDate:       snap.TargetDate,
		BookingCreatedAt: snap.BookingCreatedAt,
		UpdatedAt:        snap.UpdatedAt,
	}
	if o, ok := s.U.Offers[snap.OfferID]; ok {
		view.OfferTitle = o.Title
	}
	if u, ok := s.U.Users[snap.UserID]; ok {
		view.UserEmail = u.Email
	}
	return view, nil
}

func (s *ReservationReadStore) FindByUserID(ctx context.Context, userID uuid.UUID, limit int32) ([]*queries.ReservationView, error) {
	var out []*queries.ReservationView
	for id, snap := range s.U.Reservations {
		if snap.UserID != userID {
			continue
		}
		view, err := s.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, view)
		if int32(len(out)) >= limit {
			break
		}
	}
	return out, nil
}
