package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/golfworks/fittings/internal/apperror"
	"github.com/golfworks/fittings/internal/auth"
	"github.com/golfworks/fittings/internal/model"
	"github.com/golfworks/fittings/internal/observability"
	"github.com/golfworks/fittings/internal/pagination"
	"github.com/golfworks/fittings/internal/repository"
)

const (
	msgUserNotFound = "User not found"
	msgEmailInUse   = "Email already in use"
)

// IdentityService handles registration, login and profile management.
type IdentityService struct {
	users  repository.UserRepository
	tokens *auth.TokenManager
}

func NewIdentityService(users repository.UserRepository, tokens *auth.TokenManager) *IdentityService {
	return &IdentityService{users: users, tokens: tokens}
}

type RegisterInput struct {
	Name         string
	Email        string
	Password     string
	Phone        string
	Address      string
	GolfClubSize string
}

type LoginResult struct {
	Token    string     `json:"token"`
	Role     model.Role `json:"role"`
	UserID   uuid.UUID  `json:"userId"`
	Email    string     `json:"email"`
	Username string     `json:"username"`
}

// UserPatch is a partial profile update. Role is honoured only by UpdateUser.
type UserPatch struct {
	Name         *string
	Email        *string
	Password     *string
	Phone        *string
	Address      *string
	GolfClubSize *string
	Role         *string
}

// Register creates a consumer account. A duplicate email is rejected both by
// the lookup and by the unique index, whichever trips first.
func (s *IdentityService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	if strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return nil, apperror.InvalidInput("Email and password are required")
	}

	if _, err := s.users.FindByEmail(ctx, in.Email); err == nil {
		return nil, apperror.InvalidInput(msgEmailInUse)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.Internal("find user by email", err)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, apperror.Internal("hash password", err)
	}

	u := &model.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Phone:        in.Phone,
		Address:      in.Address,
		GolfClubSize: in.GolfClubSize,
		Role:         model.RoleConsumer,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, emailErr("create user", err)
	}

	observability.IncUserRegistered()
	observability.LoggerFromContext(ctx).Info().Str("user_id", u.ID.String()).Msg("user registered")
	return u, nil
}

func (s *IdentityService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, apperror.InvalidInput("Email and password are required")
	}

	u, err := s.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.Internal("find user by email", err)
	}
	if u == nil || !auth.CheckPassword(u.PasswordHash, password) {
		return nil, apperror.Unauthorized("Invalid credentials")
	}

	token, err := s.tokens.Issue(u)
	if err != nil {
		return nil, apperror.Internal("issue token", err)
	}
	return &LoginResult{
		Token:    token,
		Role:     u.Role,
		UserID:   u.ID,
		Email:    u.Email,
		Username: u.Name,
	}, nil
}

func (s *IdentityService) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr("get user", msgUserNotFound, err)
	}
	return u, nil
}

func (s *IdentityService) ListUsers(ctx context.Context, req pagination.Request) (pagination.Page[model.User], error) {
	users, total, err := s.users.List(ctx, req.Limit, req.Offset())
	if err != nil {
		return pagination.Page[model.User]{}, storeErr("list users", msgUserNotFound, err)
	}
	return newPage(users, req, total), nil
}

// UpdateUser is the admin edit and may change the role.
func (s *IdentityService) UpdateUser(ctx context.Context, id uuid.UUID, patch UserPatch) (*model.User, error) {
	updates, err := s.profileUpdates(patch)
	if err != nil {
		return nil, err
	}
	if patch.Role != nil {
		role, err := model.ParseRole(*patch.Role)
		if err != nil {
			return nil, apperror.InvalidInput("Invalid role. Must be one of: consumer, admin")
		}
		updates["role"] = role
	}
	return s.apply(ctx, id, updates)
}

// UpdateMe is the self-service edit; a role change is forbidden.
func (s *IdentityService) UpdateMe(ctx context.Context, id uuid.UUID, patch UserPatch) (*model.User, error) {
	if patch.Role != nil {
		return nil, apperror.Forbidden("Role can only be changed by an admin")
	}
	updates, err := s.profileUpdates(patch)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, id, updates)
}

func (s *IdentityService) profileUpdates(patch UserPatch) (map[string]any, error) {
	updates := map[string]any{}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Email != nil {
		if strings.TrimSpace(*patch.Email) == "" {
			return nil, apperror.InvalidInput("Email must not be empty")
		}
		updates["email"] = *patch.Email
	}
	if patch.Password != nil {
		if *patch.Password == "" {
			return nil, apperror.InvalidInput("Password must not be empty")
		}
		hash, err := auth.HashPassword(*patch.Password)
		if err != nil {
			return nil, apperror.Internal("hash password", err)
		}
		updates["password_hash"] = hash
	}
	if patch.Phone != nil {
		updates["phone"] = *patch.Phone
	}
	if patch.Address != nil {
		updates["address"] = *patch.Address
	}
	if patch.GolfClubSize != nil {
		updates["golf_club_size"] = *patch.GolfClubSize
	}
	return updates, nil
}

func (s *IdentityService) apply(ctx context.Context, id uuid.UUID, updates map[string]any) (*model.User, error) {
	u, err := s.users.Update(ctx, id, updates)
	if err != nil {
		return nil, emailErr("update user", err)
	}
	return u, nil
}

func emailErr(op string, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperror.InvalidInput(msgEmailInUse)
	}
	return storeErr(op, msgUserNotFound, err)
}
