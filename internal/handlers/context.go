package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/AiMagic5000/508-ministry-dashboard/internal/middleware"
)

// requestContext safely returns the request context with a background fallback for tests.
func requestContext(c *gin.Context) context.Context {
	if c == nil {
		return context.Background()
	}
	if req := c.Request; req != nil {
		return req.Context()
	}
	return context.Background()
}

// tenantID returns the organization resolved by the auth middleware.
func tenantID(c *gin.Context) string {
	return c.GetString(middleware.CtxOrganizationIDKey)
}

// currentUserID returns the local user id resolved by the auth middleware.
func currentUserID(c *gin.Context) string {
	return c.GetString(middleware.CtxUserIDKey)
}

// clerkUserID returns the provider identity of the caller.
func clerkUserID(c *gin.Context) string {
	return c.GetString(middleware.CtxClerkUserIDKey)
}
