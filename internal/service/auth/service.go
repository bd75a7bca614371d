package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/jwt"
	userservice "github.com/cmlabs-hris/timeclock-backend-go/internal/service/user"
	"github.com/go-chi/jwtauth/v5"
	"golang.org/x/crypto/bcrypt"
)

const tokenTypeBearer = "bearer"

type AuthServiceImpl struct {
	user.UserRepository
	userService user.UserService
	jwt.Service
}

func NewAuthService(userRepository user.UserRepository, userService user.UserService, jwtService jwt.Service) auth.AuthService {
	return &AuthServiceImpl{
		UserRepository: userRepository,
		userService:    userService,
		Service:        jwtService,
	}
}

// Register implements auth.AuthService.
func (a *AuthServiceImpl) Register(ctx context.Context, req auth.RegisterRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	hashed, err := userservice.HashPassword(req.Password)
	if err != nil {
		return auth.TokenResponse{}, err
	}

	created, err := a.userService.Register(ctx, user.User{
		Name:           strings.TrimSpace(req.Name),
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash:   hashed,
		Role:           user.RoleUser,
		DailyWorkHours: user.DefaultDailyWorkHours,
		LunchDuration:  user.DefaultLunchDuration,
		Active:         true,
	})
	if err != nil {
		return auth.TokenResponse{}, err
	}

	slog.Info("user registered", "user_id", created.ID)
	return a.issue(created)
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	userData, err := a.UserRepository.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(userData.PasswordHash), []byte(req.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	if !userData.Active {
		return auth.TokenResponse{}, user.ErrUserInactive
	}

	return a.issue(userData)
}

// Me implements auth.AuthService.
func (a *AuthServiceImpl) Me(ctx context.Context, actor user.Actor) (user.UserResponse, error) {
	userData, err := a.UserRepository.GetByID(ctx, actor.UserID)
	if err != nil {
		return user.UserResponse{}, err
	}
	return user.NewUserResponse(userData), nil
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context, token string) error {
	parsed, err := jwtauth.VerifyToken(a.Service.JWTAuth(), token)
	if err != nil {
		return auth.ErrInvalidToken
	}
	a.Service.RevokeToken(token, parsed.Expiration().Unix())
	return nil
}

func (a *AuthServiceImpl) issue(u user.User) (auth.TokenResponse, error) {
	accessToken, _, err := a.Service.GenerateAccessToken(u)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}
	return auth.TokenResponse{
		AccessToken: accessToken,
		TokenType:   tokenTypeBearer,
		ExpiresIn:   a.Service.ExpiresIn(),
		User:        user.NewUserResponse(u),
	}, nil
}
