package commands

import (
	"context"
	"errors"

	domuser "opportune/internal/domain/user"
	"opportune/internal/infra"
	"opportune/internal/pkg/errs"
	"opportune/internal/pkg/jwt"
	"opportune/internal/pkg/password"
	"opportune/internal/usecase/queries"
	"opportune/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials = errs.New("invalid email or password")
	ErrDuplicateEmail     = errs.New("email already registered")
	ErrUserInactive       = errs.New("user account is inactive")
)

type RegisterParams struct {
	Email    string
	Password string
	Role     string
}

type LoginResult struct {
	Token string
	User  *queries.AuthorizedUserView
}

type AuthCommands interface {
	Register(ctx context.Context, params RegisterParams) (uuid.UUID, error)
	Login(ctx context.Context, email, plainPassword string) (*LoginResult, error)
}

type authUseCaseImpl struct {
	uow           shared.UnitOfWork
	userReadStore queries.UserReadStore
	jwtService    *jwt.Service
}

func NewAuthCommands(uow shared.UnitOfWork, userReadStore queries.UserReadStore, jwtService *jwt.Service) AuthCommands {
	return &authUseCaseImpl{uow: uow, userReadStore: userReadStore, jwtService: jwtService}
}

func (uc *authUseCaseImpl) Register(ctx context.Context, params RegisterParams) (uuid.UUID, error) {
	email, err := domuser.NewEmail(params.Email)
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrDomainValidation)
	}
	if _, err = domuser.NewPassword(params.Password); err != nil {
		return uuid.Nil, errs.Mark(err, ErrDomainValidation)
	}
	role := domuser.RoleMember
	if params.Role != "" {
		role, err = domuser.NewRole(params.Role)
		if err != nil {
			return uuid.Nil, errs.Mark(err, ErrDomainValidation)
		}
	}

	hashed, err := password.Hash(params.Password)
	if err != nil {
		return uuid.Nil, errs.Wrap(err, "failed to hash password")
	}

	var userID uuid.UUID
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		id, cerr := tx.Users().Create(ctx, tx.DB(), email.Value(), hashed, role.String())
		if cerr != nil {
			if infra.IsKind(cerr, infra.KindDuplicateKey) {
				return errs.Mark(cerr, ErrDuplicateEmail)
			}
			return errs.Mark(cerr, ErrDatabaseOperationFailed)
		}
		userID = id
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return userID, nil
}

func (uc *authUseCaseImpl) Login(ctx context.Context, email, plainPassword string) (*LoginResult, error) {
	view, storedHash, err := uc.userReadStore.FindByEmail(ctx, email)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			// Indistinguishable from a bad password on purpose.
			return nil, ErrInvalidCredentials
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if !view.IsActive {
		return nil, ErrUserInactive
	}

	if cerr := password.Compare(storedHash, plainPassword); cerr != nil {
		if errors.Is(cerr, password.ErrMismatch) {
			return nil, ErrInvalidCredentials
		}
		return nil, errs.Wrap(cerr, "failed to compare password")
	}

	role, err := domuser.NewRole(view.Role)
	if err != nil {
		return nil, errs.Wrap(err, "stored role is invalid")
	}
	token, err := uc.jwtService.GenerateToken(view.ID, role)
	if err != nil {
		return nil, errs.Wrap(err, "failed to generate token")
	}

	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Users().UpdateLastLogin(ctx, tx.DB(), view.ID)
	})
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	return &LoginResult{Token: token, User: view}, nil
}
