package response

import (
	"opportune/internal/usecase/queries"

	"github.com/google/uuid"
)

type RegisterResponse struct {
	ID uuid.UUID `json:"id"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type UserResponse struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Role  string    `json:"role"`
}

func FromAuthorizedUserView(v *queries.AuthorizedUserView) UserResponse {
	return UserResponse{
		ID:    v.ID,
		Email: v.Email,
		Role:  v.Role,
	}
}
