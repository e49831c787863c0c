package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/barberconnect/internal/config"
	"github.com/BruksfildServices01/barberconnect/internal/httperr"
)

const (
	ContextUserID   = "userID"
	ContextShopID   = "shopID"
	ContextUserRole = "userRole"
)

func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httperr.Unauthorized(c, "missing_authorization_header", "Sign in to continue.")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			httperr.Unauthorized(c, "invalid_authorization_header", "Malformed Authorization header.")
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenMalformed
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			httperr.Unauthorized(c, "invalid_token", "Your session has expired.")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			httperr.Unauthorized(c, "invalid_token_claims", "Your session has expired.")
			return
		}

		sub, _ := claims["sub"].(string)
		shop, _ := claims["shopId"].(string)
		role, _ := claims["role"].(string)

		userID, err1 := uuid.Parse(sub)
		shopID, err2 := uuid.Parse(shop)
		if err1 != nil || err2 != nil {
			httperr.Unauthorized(c, "invalid_token_payload", "Your session has expired.")
			return
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextShopID, shopID)
		c.Set(ContextUserRole, role)

		c.Next()
	}
}

// ShopID returns the tenant of the signed-in user.
func ShopID(c *gin.Context) uuid.UUID {
	return c.MustGet(ContextShopID).(uuid.UUID)
}

func UserID(c *gin.Context) uuid.UUID {
	return c.MustGet(ContextUserID).(uuid.UUID)
}

// RequireRole rejects users whose token role is not one of roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextUserRole)
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		httperr.Forbidden(c, "forbidden", "You are not allowed to do this.")
	}
}
