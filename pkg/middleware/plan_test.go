package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/eduardoinoa18/memorybox/pkg/configs"
)

func TestParsePlan(t *testing.T) {
	tests := []struct {
		header string
		want   configs.PlanTier
	}{
		{"free", configs.TierFree},
		{"premium", configs.TierPremium},
		{"family", configs.TierFamily},
		{"PREMIUM", configs.TierPremium},
		{"  family  ", configs.TierFamily},
		{"", configs.TierFree},
		{"platinum", configs.TierFree},
	}

	for _, tt := range tests {
		if got := parsePlan(tt.header, configs.TierFree); got != tt.want {
			t.Errorf("parsePlan(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}

func TestPlanMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := configs.UploadConfig{DefaultTier: configs.TierFree}

	var (
		seen    configs.PlanTier
		seenCtx configs.PlanTier
	)

	r := gin.New()
	r.Use(PlanMiddleware(cfg))
	r.GET("/", func(c *gin.Context) {
		seen = GetPlan(c)
		seenCtx = PlanFromContext(c.Request.Context())
		c.Status(200)
	})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Plan", "premium")
	r.ServeHTTP(httptest.NewRecorder(), req)

	if seen != configs.TierPremium {
		t.Errorf("GetPlan = %q, want premium", seen)
	}

	if seenCtx != configs.TierPremium {
		t.Errorf("PlanFromContext = %q, want premium", seenCtx)
	}

	// Unknown header falls back to the default quota.
	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Plan", "enterprise")
	r.ServeHTTP(httptest.NewRecorder(), req)

	if seen != configs.TierFree {
		t.Errorf("unknown plan resolved to %q, want free", seen)
	}
}
