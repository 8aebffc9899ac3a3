package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/hihello1226/our-ledger/internal/core/domain"
)

// userIDKey is the key used to store the authenticated user's ID in the request context.
const userIDKey = contextKey("userID")

// membershipKey is the Gin context key of the resolved household membership.
const membershipKey = "membership"

// GetUserIDFromContext retrieves the authenticated user ID.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userID, ok := c.Request.Context().Value(userIDKey).(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}

// GetMembershipFromContext retrieves the household membership stored by RequireHousehold.
func GetMembershipFromContext(c *gin.Context) (domain.Membership, bool) {
	v, exists := c.Get(membershipKey)
	if !exists {
		return domain.Membership{}, false
	}
	m, ok := v.(domain.Membership)
	return m, ok
}
