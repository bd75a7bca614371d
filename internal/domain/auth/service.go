package auth

import (
	"context"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/user"
)

type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (TokenResponse, error)
	Login(ctx context.Context, req LoginRequest) (TokenResponse, error)
	Me(ctx context.Context, actor user.Actor) (user.UserResponse, error)
	// Logout revokes the presented access token.
	Logout(ctx context.Context, token string) error
}
