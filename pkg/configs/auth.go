package configs

import "github.com/spf13/viper"

// AuthConfig controls identity checks (oauth2-proxy injected headers first).
type AuthConfig struct {
	Enabled       bool     `mapstructure:"enabled"`         // enable auth checks
	SkipPaths     []string `mapstructure:"skip_paths"`      // path prefixes that skip auth
	DevAllowQuery bool     `mapstructure:"dev_allow_query"` // allow ?user= fallback in development
}

func (c *AuthConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("auth.enabled", true)
	v.SetDefault("auth.dev_allow_query", true)
	v.SetDefault("auth.skip_paths", []string{
		"/metrics",
		"/debug/pprof",
		"/api/v1/health",
		"/swagger",
	})
}
