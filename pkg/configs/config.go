// Package configs manages application configuration: server, database,
// object storage, queue, cache, upload policy and observability sections.
// Multiple formats are supported (YAML, JSON, TOML, dotenv) with optional
// hot reload.
//
// Example:
//
//	err := configs.InitConfig("./")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	cfg := configs.GetConfig()
//	fmt.Println(cfg.Server.Port)
package configs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// AppVersion is reported to external systems (S3 app info, tracing resource).
const AppVersion = "1.0.0"

type (
	// AppConfig is the root application configuration.
	AppConfig struct {
		DB             DBConfig             `mapstructure:"db"`
		S3             S3Config             `mapstructure:"s3"`
		MQ             MQConfig             `mapstructure:"mq"`
		KV             KVConfig             `mapstructure:"kv"`
		Server         ServerConfig         `mapstructure:"server"`
		Log            LogConfig            `mapstructure:"log"`
		Upload         UploadConfig         `mapstructure:"upload"`
		Metrics        MetricsConfig        `mapstructure:"metrics"`
		Tracing        TracingConfig        `mapstructure:"tracing"`
		RateLimit      RateLimitConfig      `mapstructure:"rate_limit"`
		CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`
		Auth           AuthConfig           `mapstructure:"auth"`
		Events         EventsConfig         `mapstructure:"events"`
	}
)

var (
	// globalConfig is the resolved configuration instance.
	globalConfig AppConfig
	// appViper is the global viper instance.
	appViper *viper.Viper
)

// InitConfig loads the application configuration from a file or directory,
// applying defaults first and enabling hot reload when configured.
func InitConfig(path string) error {
	appViper = viper.New()
	setAllDefaults(appViper)

	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		// A concrete file; viper detects the type from the extension.
		appViper.SetConfigFile(path)
	} else {
		appViper.SetConfigName("config")
		appViper.AddConfigPath(path)
		appViper.AddConfigPath(path + "/configs")

		exts := []string{"yaml", "yml", "json", "toml", "env", "dotenv"}

		for _, ext := range exts {
			cfg := filepath.Join(path, "config."+ext)
			if _, err := os.Stat(cfg); err == nil {
				appViper.SetConfigFile(cfg)

				break
			}
		}
	}

	appViper.AutomaticEnv()
	appViper.SetEnvPrefix("MEMORYBOX")

	if err := appViper.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	if err := appViper.Unmarshal(&globalConfig); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := globalConfig.Upload.Validate(); err != nil {
		return fmt.Errorf("invalid upload config: %w", err)
	}

	reloadConfigs(appViper, globalConfig.Server.ReloadConfig)

	return nil
}

// setAllDefaults applies defaults for every configuration section.
func setAllDefaults(v *viper.Viper) {
	var (
		serverConfig ServerConfig
		dbConfig     DBConfig
		s3Config     S3Config
		mqConfig     MQConfig
		kvConfig     KVConfig
		logConfig    LogConfig
		uploadConfig UploadConfig
		metricsCfg   MetricsConfig
		tracingCfg   TracingConfig
		rlConfig     RateLimitConfig
		cbConfig     CircuitBreakerConfig
		authConfig   AuthConfig
		eventsConfig EventsConfig
	)

	serverConfig.setDefaults(v)
	dbConfig.setDefaults(v)
	s3Config.setDefaults(v)
	mqConfig.setDefaults(v)
	kvConfig.setDefaults(v)
	logConfig.setDefaults(v)
	uploadConfig.setDefaults(v)
	metricsCfg.setDefaults(v)
	tracingCfg.setDefaults(v)
	rlConfig.setDefaults(v)
	cbConfig.setDefaults(v)
	authConfig.setDefaults(v)
	eventsConfig.setDefaults(v)
}

func reloadConfigs(v *viper.Viper, isHotReload bool) {
	if !isHotReload {
		return
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		fmt.Println("Config file changed:", e.Name)
		fmt.Println("Reloading configuration...")

		if err := v.Unmarshal(&globalConfig); err != nil {
			fmt.Printf("Error reloading config: %v\n", err)
		}
	})
	v.WatchConfig()
}

// GetConfig returns the global configuration instance.
func GetConfig() *AppConfig {
	return &globalConfig
}

func GetViper() *viper.Viper {
	return appViper
}
