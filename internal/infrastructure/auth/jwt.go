package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/store/backend/internal/infrastructure/config"
)

// Role separates administrator console tokens from partner tokens.
type Role string

const (
	RoleAdmin   Role = "admin"
	RolePartner Role = "partner"
)

// Common errors
var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrInvalidClaims    = errors.New("invalid token claims")
	ErrWrongRole        = errors.New("token role does not grant access")
)

// Claims represents custom JWT claims
type Claims struct {
	jwt.RegisteredClaims
	Role      Role   `json:"role"`
	ProfileID string `json:"profile_id,omitempty"`
}

// JWTService handles JWT token operations
type JWTService struct {
	secret     []byte
	expiration time.Duration
	issuer     string
}

// NewJWTService creates a new JWT service
func NewJWTService(cfg config.JWTConfig) *JWTService {
	return &JWTService{
		secret:     []byte(cfg.Secret),
		expiration: cfg.Expiration,
		issuer:     cfg.Issuer,
	}
}

// GenerateAdminToken issues a token for the administrator console
func (s *JWTService) GenerateAdminToken() (string, time.Time, error) {
	return s.generate(RoleAdmin, "")
}

// GeneratePartnerToken issues a token bound to a partner profile
func (s *JWTService) GeneratePartnerToken(profileID uuid.UUID) (string, time.Time, error) {
	return s.generate(RolePartner, profileID.String())
}

func (s *JWTService) generate(role Role, profileID string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.expiration)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    s.issuer,
			Subject:   profileID,
			Audience:  jwt.ClaimStrings{s.issuer},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Role:      role,
		ProfileID: profileID,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// Validate parses a token and returns its claims
func (s *JWTService) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		if errors.Is(err, jwt.ErrTokenNotValidYet) {
			return nil, ErrTokenNotYetValid
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}
	return claims, nil
}

// ValidateRole parses a token and checks its role
func (s *JWTService) ValidateRole(tokenString string, role Role) (*Claims, error) {
	claims, err := s.Validate(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Role != role {
		return nil, ErrWrongRole
	}
	if role == RolePartner && claims.ProfileID == "" {
		return nil, ErrInvalidClaims
	}
	return claims, nil
}

// GetProfileUUID extracts and parses the profile ID from claims
func (c *Claims) GetProfileUUID() (uuid.UUID, error) {
	return uuid.Parse(c.ProfileID)
}
