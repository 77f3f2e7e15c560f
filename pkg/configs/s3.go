package configs

import (
	"fmt"

	"github.com/spf13/viper"
)

// S3Config holds object storage (MinIO / S3-compatible) settings.
type S3Config struct {
	Endpoint        string   `mapstructure:"endpoint"`
	AccessKeyID     string   `mapstructure:"access_key_id"`
	SecretAccessKey string   `mapstructure:"secret_access_key"`
	UseSSL          bool     `mapstructure:"use_ssl"`
	Buckets         []string `mapstructure:"buckets"`
	Region          string   `mapstructure:"region"`
	// PublicBaseURL, when set, is used to build durable public download URLs
	// instead of the raw endpoint (e.g. a CDN front).
	PublicBaseURL string `mapstructure:"public_base_url"`
}

const (
	DefaultS3Endpoint        = "localhost:9000"
	DefaultS3AccessKeyID     = "minioadmin"
	DefaultS3SecretAccessKey = "minioadmin"
	DefaultS3UseSSL          = false
	DefaultS3Bucket          = "memorybox"
	DefaultS3Region          = "us-east-1"
)

// GetEndpointURL returns the full endpoint URL with scheme.
func (c *S3Config) GetEndpointURL() string {
	scheme := "http"
	if c.UseSSL {
		scheme = "https"
	}

	return fmt.Sprintf("%s://%s", scheme, c.Endpoint)
}

// GetPublicBaseURL returns the base URL for public object links.
func (c *S3Config) GetPublicBaseURL() string {
	if c.PublicBaseURL != "" {
		return c.PublicBaseURL
	}

	return c.GetEndpointURL()
}

// setDefaults applies object storage defaults.
func (c *S3Config) setDefaults(v *viper.Viper) {
	v.SetDefault("s3.endpoint", DefaultS3Endpoint)
	v.SetDefault("s3.access_key_id", DefaultS3AccessKeyID)
	v.SetDefault("s3.secret_access_key", DefaultS3SecretAccessKey)
	v.SetDefault("s3.use_ssl", DefaultS3UseSSL)
	v.SetDefault("s3.buckets", []string{DefaultS3Bucket})
	v.SetDefault("s3.region", DefaultS3Region)
	v.SetDefault("s3.public_base_url", "")
}
