package accounts

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/auth"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/config"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/db"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/db/models"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/enums"
	pkgerrors "github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/errors"
	"github.com/nguyenphucthienan111/pharmacos-server-be-sub000/pkg/security"
)

const invalidCredentialsMessage = "invalid credentials"

// Service is account registration, login, and profile management.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
	CreateStaff(ctx context.Context, input CreateStaffInput) (*models.User, error)
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
	Profile(ctx context.Context, userID uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*models.User, error)
}

type rateLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

type service struct {
	repo     Repository
	limiter  rateLimiter
	jwtCfg   config.JWTConfig
	pwCfg    config.PasswordConfig
	limitCfg config.AuthRateLimitConfig
	now      func() time.Time
}

// NewService builds the accounts service with the required dependencies.
func NewService(repo Repository, limiter rateLimiter, jwtCfg config.JWTConfig, pwCfg config.PasswordConfig, limitCfg config.AuthRateLimitConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("accounts repository required")
	}
	if limiter == nil {
		return nil, fmt.Errorf("rate limiter required")
	}
	return &service{
		repo:     repo,
		limiter:  limiter,
		jwtCfg:   jwtCfg,
		pwCfg:    pwCfg,
		limitCfg: limitCfg,
		now:      time.Now,
	}, nil
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	return s.register(ctx, input, enums.RoleCustomer)
}

func (s *service) CreateStaff(ctx context.Context, input CreateStaffInput) (*models.User, error) {
	if input.Role != enums.RoleStaff && input.Role != enums.RoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "role must be staff or admin")
	}
	return s.register(ctx, input.RegisterInput, input.Role)
}

func (s *service) register(ctx context.Context, input RegisterInput, role enums.Role) (*models.User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if len(username) < 3 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username must be at least 3 characters")
	}
	if !strings.Contains(email, "@") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid email")
	}
	if len(input.Password) < 8 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
	}

	hash, err := security.HashPassword(input.Password, s.pwCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user := &models.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		FullName:     input.FullName,
		Phone:        input.Phone,
		Address:      input.Address,
		IsActive:     true,
	}
	created, err := s.repo.Create(ctx, user)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "username or email already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}
	created.PasswordHash = ""
	return created, nil
}

func (s *service) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	identifier := strings.ToLower(strings.TrimSpace(input.Identifier))
	if identifier == "" || input.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	if err := s.allowLogin(ctx, identifier, input.ClientIP); err != nil {
		return nil, err
	}

	user, err := s.repo.FindByIdentifier(ctx, identifier)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	if !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	ok, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil || !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	now := s.now()
	token, err := auth.MintAccessToken(s.jwtCfg, now, auth.AccessTokenPayload{
		UserID:   user.ID,
		Role:     user.Role,
		Username: user.Username,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint token")
	}

	user.PasswordHash = ""
	return &LoginResult{
		Token:     token,
		ExpiresAt: now.Add(time.Duration(s.jwtCfg.ExpirationMinutes) * time.Minute),
		User:      user,
	}, nil
}

// allowLogin applies the per-identifier and per-IP fixed windows. Limiter
// outages fail open: a login should not depend on redis being up.
func (s *service) allowLogin(ctx context.Context, identifier, clientIP string) error {
	allowed, _, err := s.limiter.FixedWindowAllow(ctx, "login:id:"+identifier, int64(s.limitCfg.LoginEmailLimit), s.limitCfg.LoginWindow)
	if err == nil && !allowed {
		return pkgerrors.New(pkgerrors.CodeRateLimit, "too many login attempts")
	}
	if clientIP != "" {
		allowed, _, err = s.limiter.FixedWindowAllow(ctx, "login:ip:"+clientIP, int64(s.limitCfg.LoginIPLimit), s.limitCfg.LoginWindow)
		if err == nil && !allowed {
			return pkgerrors.New(pkgerrors.CodeRateLimit, "too many login attempts")
		}
	}
	return nil
}

func (s *service) Profile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*models.User, error) {
	updates := map[string]any{}
	if input.FullName != nil {
		updates["full_name"] = *input.FullName
	}
	if input.Phone != nil {
		updates["phone"] = *input.Phone
	}
	if input.Address != nil {
		updates["address"] = *input.Address
	}
	if len(updates) == 0 {
		return s.Profile(ctx, userID)
	}
	if err := s.repo.Update(ctx, userID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update profile")
	}
	return s.Profile(ctx, userID)
}
