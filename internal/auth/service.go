package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Service performs authentication-related business logic.
type Service struct {
	directory      UserDirectory
	tokenGenerator TokenGenerator
}

func NewService(directory UserDirectory, tokenGen TokenGenerator) *Service {
	return &Service{
		directory:      directory,
		tokenGenerator: tokenGen,
	}
}

func NewJWTTokenGenerator(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *JWTTokenGenerator {
	return &JWTTokenGenerator{
		AccessTokenSecret:  []byte(accessSecret),
		RefreshTokenSecret: []byte(refreshSecret),
		AccessTokenTTL:     accessTTL,
		RefreshTokenTTL:    refreshTTL,
	}
}

// Authenticate validates credentials against the live directory and returns
// the identity plus a token pair. Username matching is case-insensitive;
// locked accounts never authenticate.
func (s *Service) Authenticate(dto LoginDTO) (LoginResult, error) {
	if err := dto.Validate(); err != nil {
		return LoginResult{}, err
	}

	u, err := s.directory.FindByUsername(dto.Username)
	if err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(dto.Password)); err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}

	if u.IsLocked {
		return LoginResult{}, ErrUserLocked
	}

	tokens, err := s.issueTokens(u)
	if err != nil {
		return LoginResult{}, err
	}

	return LoginResult{User: u, Tokens: tokens}, nil
}

// RefreshTokens validates the refresh token, re-checks the user against the
// live directory and returns a fresh token pair. A locked or removed user
// cannot refresh.
func (s *Service) RefreshTokens(refreshToken string) (AuthTokens, error) {
	claims, err := s.tokenGenerator.ValidateToken(refreshToken)
	if err != nil {
		return AuthTokens{}, err
	}

	u, err := s.directory.GetByID(claims.UserID)
	if err != nil {
		return AuthTokens{}, ErrInvalidToken
	}
	if u.IsLocked {
		return AuthTokens{}, ErrUserLocked
	}

	return s.issueTokens(u)
}

// ValidateAccessToken validates access token and returns claims
func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokenGenerator.ValidateToken(tokenString)
}

// CurrentUser re-validates a session's user id against the live directory.
// Locked or vanished records surface as errors so callers can force logout.
func (s *Service) CurrentUser(userID string) (*User, error) {
	u, err := s.directory.GetByID(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	if u.IsLocked {
		return nil, ErrUserLocked
	}
	return u, nil
}

func (s *Service) issueTokens(u *User) (AuthTokens, error) {
	accessToken, err := s.tokenGenerator.GenerateAccessToken(u.ID, u.Username)
	if err != nil {
		return AuthTokens{}, err
	}

	refreshToken, err := s.tokenGenerator.GenerateRefreshToken(u.ID, u.Username)
	if err != nil {
		return AuthTokens{}, err
	}

	return AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// GenerateAccessToken creates a new access token
func (j *JWTTokenGenerator) GenerateAccessToken(userID, username string) (string, error) {
	return j.signed(userID, username, j.AccessTokenTTL, j.AccessTokenSecret)
}

// GenerateRefreshToken creates a new refresh token
func (j *JWTTokenGenerator) GenerateRefreshToken(userID, username string) (string, error) {
	return j.signed(userID, username, j.RefreshTokenTTL, j.RefreshTokenSecret)
}

func (j *JWTTokenGenerator) signed(userID, username string, ttl time.Duration, secret []byte) (string, error) {
	expiresAt := time.Now().Add(ttl)

	claims := &Claims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(secret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ValidateToken validates a JWT token and returns claims
func (j *JWTTokenGenerator) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		// Refresh tokens are distinguishable by their longer remaining
		// lifetime; try the refresh secret for those.
		if claims, ok := token.Claims.(*Claims); ok {
			if claims.ExpiresAt != nil && time.Until(claims.ExpiresAt.Time) > j.AccessTokenTTL {
				return j.RefreshTokenSecret, nil
			}
		}
		return j.AccessTokenSecret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}

// HashPassword creates a bcrypt hash of the password using the given cost.
func HashPassword(password string, cost int) (string, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
