package service

import (
	"context"
	"errors"

	"github.com/emartin/storefront-backend/config"
	"github.com/emartin/storefront-backend/internal/app/model"
	"github.com/emartin/storefront-backend/internal/app/repository"
	"github.com/emartin/storefront-backend/pkg/logger"
	"github.com/emartin/storefront-backend/pkg/redis"
	"github.com/emartin/storefront-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidRole        = errors.New("invalid role")
)

type AuthService interface {
	Register(email, password, name string) (*model.User, *util.TokenPair, error)
	Login(email, password string) (*model.User, *util.TokenPair, error)
	Logout(ctx context.Context, token string) error
	RefreshTokens(refreshToken string) (*util.TokenPair, error)
	GetProfile(userID uint) (*model.User, error)
	UpdateProfile(userID uint, name, password string) (*model.User, error)
	UpdateUserRole(actorRole model.UserRole, targetUserID uint, role model.UserRole, permissions []string) (*model.User, error)
	ListUsers(limit, offset int) ([]model.User, int64, error)
}

type authService struct {
	userRepo repository.UserRepository
	jwtCfg   config.JWTConfig
}

func NewAuthService(userRepo repository.UserRepository, jwtCfg config.JWTConfig) AuthService {
	return &authService{
		userRepo: userRepo,
		jwtCfg:   jwtCfg,
	}
}

func (s *authService) Register(email, password, name string) (*model.User, *util.TokenPair, error) {
	logger.Info("Registering new user", map[string]interface{}{
		"email": email,
	})

	_, err := s.userRepo.FindByEmail(email)
	if err == nil {
		logger.Warn("Registration failed: email already exists", map[string]interface{}{
			"email": email,
		})
		return nil, nil, ErrEmailExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, err
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		logger.Error("Failed to hash password", err, nil)
		return nil, nil, err
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Role:         model.RoleUser,
	}

	if err := s.userRepo.Create(user); err != nil {
		logger.Error("Failed to create user", err, map[string]interface{}{
			"email": email,
		})
		return nil, nil, err
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("User registered successfully", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})
	return user, tokens, nil
}

func (s *authService) Login(email, password string) (*model.User, *util.TokenPair, error) {
	logger.Info("User login attempt", map[string]interface{}{
		"email": email,
	})

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Login failed: user not found", map[string]interface{}{
				"email": email,
			})
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if !util.VerifyPassword(user.PasswordHash, password) {
		logger.Warn("Login failed: wrong password", map[string]interface{}{
			"email": email,
		})
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("User logged in successfully", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})
	return user, tokens, nil
}

// Logout blacklists the presented access token for the remainder of
// its lifetime.
func (s *authService) Logout(ctx context.Context, token string) error {
	logger.Info("User logout", nil)

	claims, err := util.ValidateToken(token, s.jwtCfg.Secret)
	if err != nil {
		// An already invalid token has nothing to revoke.
		return nil
	}

	remaining := claims.ExpiresAt.Time.Sub(claims.IssuedAt.Time)
	if remaining <= 0 {
		return nil
	}

	if redis.GetClient() == nil {
		logger.Warn("Token blacklist unavailable, skipping revocation", nil)
		return nil
	}

	return redis.BlacklistToken(ctx, token, remaining)
}

func (s *authService) RefreshTokens(refreshToken string) (*util.TokenPair, error) {
	claims, err := util.ValidateToken(refreshToken, s.jwtCfg.Secret)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return s.issueTokens(user)
}

func (s *authService) GetProfile(userID uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) UpdateProfile(userID uint, name, password string) (*model.User, error) {
	logger.Info("Updating user profile", map[string]interface{}{
		"user_id": userID,
	})

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if name != "" {
		user.Name = name
	}
	if password != "" {
		hash, err := util.HashPassword(password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.userRepo.Update(user); err != nil {
		logger.Error("Failed to update profile", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	return user, nil
}

// UpdateUserRole changes a user's role and permission set. Only
// superadmins may do this; roles outside the closed set are rejected.
func (s *authService) UpdateUserRole(actorRole model.UserRole, targetUserID uint, role model.UserRole, permissions []string) (*model.User, error) {
	logger.Info("Updating user role", map[string]interface{}{
		"target_user_id": targetUserID,
		"new_role":       role,
	})

	if actorRole != model.RoleSuperadmin {
		logger.Warn("Role update denied: superadmin required", map[string]interface{}{
			"actor_role": actorRole,
		})
		return nil, ErrForbidden
	}

	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	user, err := s.userRepo.FindByID(targetUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	user.Role = role
	user.Permissions = permissions

	if err := s.userRepo.Update(user); err != nil {
		logger.Error("Failed to update user role", err, map[string]interface{}{
			"target_user_id": targetUserID,
		})
		return nil, err
	}

	logger.Info("User role updated successfully", map[string]interface{}{
		"target_user_id": targetUserID,
		"role":           role,
	})
	return user, nil
}

func (s *authService) ListUsers(limit, offset int) ([]model.User, int64, error) {
	return s.userRepo.FindAll(limit, offset)
}

func (s *authService) issueTokens(user *model.User) (*util.TokenPair, error) {
	tokens, err := util.GenerateTokenPair(
		user.ID,
		user.Email,
		string(user.Role),
		s.jwtCfg.Secret,
		s.jwtCfg.AccessTokenExpiry,
		s.jwtCfg.RefreshTokenExpiry,
	)
	if err != nil {
		logger.Error("Failed to generate token pair", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, err
	}
	return tokens, nil
}
