package jwt

import (
	"errors"
	"sync"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/clock"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const TokenTypeAccess = "access"

var ErrInvalidClaims = errors.New("token claims are missing or malformed")

type Service interface {
	GenerateAccessToken(u user.User) (token string, expiresAt int64, err error)
	// ExpiresIn is the lifetime of access tokens in seconds.
	ExpiresIn() int64
	JWTAuth() *jwtauth.JWTAuth
	RevokeToken(token string, expiresAt int64)
	IsTokenRevoked(token string) bool
}

type JWTService struct {
	accessTTL     time.Duration
	tokenAuth     *jwtauth.JWTAuth
	clock         clock.Clock
	revokedTokens map[string]int64
	mu            sync.RWMutex
}

func NewJWTService(secretKey string, accessTokenExpirationTime string, clk clock.Clock) (Service, error) {
	ttl, err := time.ParseDuration(accessTokenExpirationTime)
	if err != nil {
		return nil, err
	}
	return &JWTService{
		accessTTL:     ttl,
		tokenAuth:     jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		clock:         clk,
		revokedTokens: make(map[string]int64),
	}, nil
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWTService) ExpiresIn() int64 {
	return int64(j.accessTTL / time.Second)
}

func (j *JWTService) GenerateAccessToken(u user.User) (token string, expiresAt int64, err error) {
	now := j.clock.Now()
	expiresAt = now.Add(j.accessTTL).Unix()

	claims := map[string]interface{}{
		"user_id":    u.ID,
		"email":      u.Email,
		"company_id": valueOrNil(u.CompanyID),
		"role":       string(u.Role),
		"is_admin":   u.IsAdmin(),
		"type":       TokenTypeAccess,
		"iat":        now.Unix(),
		"exp":        expiresAt,
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

// RevokeToken blocks token until expiresAt. Expired entries are dropped on
// each call so the list only holds tokens that could still verify.
func (j *JWTService) RevokeToken(token string, expiresAt int64) {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := j.clock.Now().Unix()
	for t, exp := range j.revokedTokens {
		if exp < now {
			delete(j.revokedTokens, t)
		}
	}
	j.revokedTokens[token] = expiresAt
}

func (j *JWTService) IsTokenRevoked(token string) bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	_, revoked := j.revokedTokens[token]
	return revoked
}

// ActorFromClaims rebuilds the caller identity from verified access-token claims.
func ActorFromClaims(claims map[string]interface{}) (user.Actor, error) {
	if t, _ := claims["type"].(string); t != TokenTypeAccess {
		return user.Actor{}, ErrInvalidClaims
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return user.Actor{}, ErrInvalidClaims
	}
	role, ok := claims["role"].(string)
	if !ok || !user.Role(role).IsValid() {
		return user.Actor{}, ErrInvalidClaims
	}

	actor := user.Actor{UserID: userID, Role: user.Role(role)}
	if companyID, ok := claims["company_id"].(string); ok && companyID != "" {
		actor.CompanyID = &companyID
	}
	return actor, nil
}

func valueOrNil(value *string) interface{} {
	if value == nil {
		return nil
	}
	return *value
}
