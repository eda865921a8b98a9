package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/store/backend/internal/infrastructure/auth"
	"github.com/store/backend/internal/interfaces/http/dto"
)

// JWT context keys
const (
	JWTClaimsKey    = "jwt_claims"
	JWTProfileIDKey = "jwt_profile_id"
	AuthHeaderKey   = "Authorization"
	BearerPrefix    = "Bearer "
)

// RequireAdmin guards admin console routes with an admin token.
func RequireAdmin(jwtService *auth.JWTService) gin.HandlerFunc {
	return requireRole(jwtService, auth.RoleAdmin)
}

// RequirePartner guards partner cabinet routes with a partner token and
// stores the profile ID for handlers.
func RequirePartner(jwtService *auth.JWTService) gin.HandlerFunc {
	return requireRole(jwtService, auth.RolePartner)
}

func requireRole(jwtService *auth.JWTService, role auth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			abortUnauthorized(c, auth.ErrInvalidToken)
			return
		}

		claims, err := jwtService.ValidateRole(token, role)
		if err != nil {
			abortUnauthorized(c, err)
			return
		}

		c.Set(JWTClaimsKey, claims)
		if claims.ProfileID != "" {
			c.Set(JWTProfileIDKey, claims.ProfileID)
		}
		c.Next()
	}
}

// OptionalPartner extracts partner claims when a valid partner token is
// present and lets the request through either way. Checkout and basket
// use it to switch anonymous visitors to wholesale pricing.
func OptionalPartner(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}

		claims, err := jwtService.ValidateRole(token, auth.RolePartner)
		if err != nil {
			c.Next()
			return
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(JWTProfileIDKey, claims.ProfileID)
		c.Next()
	}
}

// GetProfileID retrieves the authenticated partner's profile ID from
// the gin context. Returns uuid.Nil when the request is anonymous.
func GetProfileID(c *gin.Context) uuid.UUID {
	raw, exists := c.Get(JWTProfileIDKey)
	if !exists {
		return uuid.Nil
	}
	str, ok := raw.(string)
	if !ok {
		return uuid.Nil
	}
	id, err := uuid.Parse(str)
	if err != nil {
		return uuid.Nil
	}
	return id
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader(AuthHeaderKey)
	if header == "" || !strings.HasPrefix(header, BearerPrefix) {
		return "", false
	}
	token := strings.TrimPrefix(header, BearerPrefix)
	return token, token != ""
}

func abortUnauthorized(c *gin.Context, err error) {
	code := dto.ErrCodeUnauthorized
	message := "Authentication required"

	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		code = dto.ErrCodeTokenExpired
		message = "Token has expired"
	case errors.Is(err, auth.ErrWrongRole):
		code = dto.ErrCodeForbidden
		message = "Token does not grant access to this resource"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrInvalidClaims),
		errors.Is(err, auth.ErrTokenNotYetValid):
		code = dto.ErrCodeTokenInvalid
		message = "Invalid token"
	}

	status := http.StatusUnauthorized
	if code == dto.ErrCodeForbidden {
		status = http.StatusForbidden
	}
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(code, message))
}
