package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hihello1226/our-ledger/internal/apperrors"
	"github.com/hihello1226/our-ledger/internal/core/domain"
)

// MembershipResolver finds the household of an authenticated user.
type MembershipResolver interface {
	ResolveMembership(ctx context.Context, userID string) (*domain.Membership, error)
}

// RequireHousehold resolves the caller's household membership and stores it for handlers.
// It must run after AuthMiddleware.
func RequireHousehold(resolver MembershipResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())
		userID, ok := GetUserIDFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		membership, err := resolver.ResolveMembership(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "You don't belong to any household"})
				return
			}
			logger.Error("Failed to resolve household membership", slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve household"})
			return
		}

		c.Set(membershipKey, *membership)
		ctx := WithLogger(c.Request.Context(), logger.With(slog.String("household_id", membership.Household.HouseholdID)))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
