package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-manager-api/internal/constants"
	apierrors "github.com/yukikurage/task-manager-api/internal/errors"
	"github.com/yukikurage/task-manager-api/internal/services"
)

// RequireAuth checks the bearer token in the Authorization header
func RequireAuth(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		plainToken, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			apierrors.Respond(c, apierrors.Unauthenticated())
			return
		}

		user, token, err := authService.Authenticate(plainToken)
		if err != nil {
			if errors.Is(err, services.ErrInvalidToken) {
				apierrors.Respond(c, apierrors.Unauthenticated())
				return
			}
			apierrors.Respond(c, apierrors.Internal(err))
			return
		}

		// Store ids in context for easy access in handlers
		c.Set(constants.ContextKeyUserID, user.ID)
		c.Set(constants.ContextKeyTokenID, token.ID)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	return uint64FromContext(c, constants.ContextKeyUserID)
}

// GetTokenID retrieves the ID of the token used for the current request
func GetTokenID(c *gin.Context) (uint64, bool) {
	return uint64FromContext(c, constants.ContextKeyTokenID)
}

func uint64FromContext(c *gin.Context, key string) (uint64, bool) {
	value, exists := c.Get(key)
	if !exists {
		return 0, false
	}

	switch v := value.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}
