package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/eduardoinoa18/memorybox/pkg/configs"
)

type planKey struct{}

// parsePlan maps the X-Plan header value to a tier. Unknown values
// fall back to the configured default so a stale client never gets a
// larger quota than intended.
func parsePlan(s string, def configs.PlanTier) configs.PlanTier {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(configs.TierFree):
		return configs.TierFree
	case string(configs.TierPremium):
		return configs.TierPremium
	case string(configs.TierFamily):
		return configs.TierFamily
	default:
		return def
	}
}

// PlanMiddleware resolves the requester's plan tier from the X-Plan
// header (populated upstream from the billing service) and injects it
// into the gin context and the request context.
func PlanMiddleware(cfg configs.UploadConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		tier := parsePlan(c.GetHeader("X-Plan"), cfg.DefaultTier)
		c.Set("plan", tier)
		ctx := context.WithValue(c.Request.Context(), planKey{}, tier)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// GetPlan returns the requester's plan tier.
func GetPlan(c *gin.Context) configs.PlanTier {
	if v, ok := c.Get("plan"); ok {
		if tier, ok2 := v.(configs.PlanTier); ok2 {
			return tier
		}
	}

	if v := c.Request.Context().Value(planKey{}); v != nil {
		if tier, ok := v.(configs.PlanTier); ok {
			return tier
		}
	}

	return configs.TierFree
}

// PlanFromContext returns the plan tier carried by a plain context,
// defaulting to free.
func PlanFromContext(ctx context.Context) configs.PlanTier {
	if v := ctx.Value(planKey{}); v != nil {
		if tier, ok := v.(configs.PlanTier); ok {
			return tier
		}
	}

	return configs.TierFree
}
