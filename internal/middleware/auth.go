package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	iauth "github.com/AiMagic5000/508-ministry-dashboard/internal/auth"
	"github.com/AiMagic5000/508-ministry-dashboard/internal/services"
	appErrors "github.com/AiMagic5000/508-ministry-dashboard/pkg/errors"
	"github.com/AiMagic5000/508-ministry-dashboard/pkg/response"
)

const (
	CtxClaimsKey         = "authClaims"
	CtxClerkUserIDKey    = "clerkUserID"
	CtxUserIDKey         = "userID"
	CtxOrganizationIDKey = "organizationID"
	CtxUserRoleKey       = "userRole"
)

// Auth enforces provider session authentication and resolves the caller to a
// provisioned user. Callers whose webhook has not been delivered yet get a 403
// rather than a 401, so clients can distinguish the two.
func Auth(verifier *iauth.SessionVerifier, users *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := c.GetHeader("Authorization")
		if len(authz) < 8 || !strings.EqualFold(authz[:7], "Bearer ") {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		token := strings.TrimSpace(authz[7:])
		claims, err := verifier.Verify(token)
		if err != nil {
			// Normalise all validation failures to 401
			c.Header("WWW-Authenticate", "Bearer")
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		user, err := users.GetByClerkID(c.Request.Context(), claims.Subject)
		if err != nil {
			if errors.Is(err, services.ErrUserNotFound) {
				response.Error(c, appErrors.ErrTenantNotProvisioned)
			} else {
				response.Error(c, appErrors.ErrInternalServer.WithInternal(err))
			}
			c.Abort()
			return
		}

		// Propagate identity into request context
		c.Set(CtxClaimsKey, claims)
		c.Set(CtxClerkUserIDKey, claims.Subject)
		c.Set(CtxUserIDKey, user.ID)
		c.Set(CtxOrganizationIDKey, user.OrganizationID)
		c.Set(CtxUserRoleKey, user.Role)

		c.Next()
	}
}

// RequireOwner restricts a route to the organization owner.
func RequireOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		if role := c.GetString(CtxUserRoleKey); role != "owner" {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}
