package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rupeedesk/cbs-admin/internal/permission"
)

// User is the authenticated identity carried through request contexts and
// returned by login. Permissions are derived from the role on load and never
// persisted.
type User struct {
	ID             string             `json:"id"`
	Username       string             `json:"username"`
	Email          string             `json:"email"`
	FullName       string             `json:"full_name"`
	Role           permission.Role    `json:"role"`
	BranchName     string             `json:"branch_name,omitempty"`
	BranchCode     string             `json:"branch_code,omitempty"`
	DepartmentName string             `json:"department_name,omitempty"`
	IsLocked       bool               `json:"is_locked"`
	PasswordHash   string             `json:"-"`
	Permissions    []permission.Grant `json:"permissions"`
}

// UserDirectory is the live credential store the session layer validates
// against. A locked or deleted record must be reflected here immediately so
// in-flight sessions degrade to anonymous.
type UserDirectory interface {
	FindByUsername(username string) (*User, error)
	GetByID(id string) (*User, error)
}

var ErrUserNotFound = errors.New("user not found")

// TokenGenerator creates and validates session tokens.
type TokenGenerator interface {
	GenerateAccessToken(userID, username string) (string, error)
	GenerateRefreshToken(userID, username string) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// LoginResult pairs the issued tokens with the authenticated identity so the
// console can render role-scoped navigation without a second round trip.
type LoginResult struct {
	User   *User      `json:"user"`
	Tokens AuthTokens `json:"tokens"`
}

// Claims represents JWT token claims
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type JWTTokenGenerator struct {
	AccessTokenSecret  []byte
	RefreshTokenSecret []byte
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
}

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrUserLocked         = errors.New("user account is locked")
)

type ctxKey string

const ContextUserKey ctxKey = "user"

func UserFromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(ContextUserKey).(*User)
	return u, ok
}

func ContextWithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, ContextUserKey, u)
}
