package response

import (
	"time"

	"opportune/internal/usecase/queries"

	"github.com/google/uuid"
)

type ReviewResponse struct {
	ID        uuid.UUID `json:"id"`
	OfferID   uuid.UUID `json:"offerId"`
	UserID    uuid.UUID `json:"userId"`
	Rating    int32     `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

func FromReviewView(v *queries.ReviewView) *ReviewResponse {
	return &ReviewResponse{
		ID:        v.ID,
		OfferID:   v.OfferID,
		UserID:    v.UserID,
		Rating:    v.Rating,
		Comment:   v.Comment,
		CreatedAt: v.CreatedAt,
	}
}

func FromReviewViews(views []*queries.ReviewView) []*ReviewResponse {
	out := make([]*ReviewResponse, 0, len(views))
	for _, v := range views {
		out = append(out, FromReviewView(v))
	}
	return out
}
