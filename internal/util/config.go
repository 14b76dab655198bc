package util

import (
	"fmt"
	"time"
	
	"github.com/spf13/viper"
)

const (
	TriggerModeListen = "listen"
	TriggerModeHTTP   = "http"
	TriggerModeBoth   = "both"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	FirebaseProjectID     string        `mapstructure:"FIREBASE_PROJECT_ID"`
	GoogleCredentialsFile string        `mapstructure:"GOOGLE_APPLICATION_CREDENTIALS"`
	HTTPServerAddress     string        `mapstructure:"HTTP_SERVER_ADDRESS"`
	RedisServerAddress    string        `mapstructure:"REDIS_SERVER_ADDRESS"`
	TriggerMode           string        `mapstructure:"TRIGGER_MODE"`
	TriggerAudience       string        `mapstructure:"TRIGGER_AUDIENCE"`
	NotificationTimezone  string        `mapstructure:"NOTIFICATION_TIMEZONE"`
	AndroidChannelID      string        `mapstructure:"ANDROID_CHANNEL_ID"`
	EventDedupTTL         time.Duration `mapstructure:"EVENT_DEDUP_TTL"`
	WorkerConcurrency     int           `mapstructure:"WORKER_CONCURRENCY"`
	NotificationMaxRetry  int           `mapstructure:"NOTIFICATION_MAX_RETRY"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	
	// Set defaults for non-sensitive config
	v.SetDefault("GOOGLE_APPLICATION_CREDENTIALS", "")
	v.SetDefault("HTTP_SERVER_ADDRESS", "0.0.0.0:8080")
	v.SetDefault("TRIGGER_MODE", TriggerModeBoth)
	v.SetDefault("TRIGGER_AUDIENCE", "")
	v.SetDefault("NOTIFICATION_TIMEZONE", "UTC")
	v.SetDefault("ANDROID_CHANNEL_ID", "default_channel")
	v.SetDefault("EVENT_DEDUP_TTL", "24h")
	v.SetDefault("WORKER_CONCURRENCY", 10)
	v.SetDefault("NOTIFICATION_MAX_RETRY", 3)
	
	// Prefer environment variables over config file
	v.AutomaticEnv()
	
	// Load config file
	v.SetConfigFile(path)
	v.SetConfigType("env")
	if err = v.ReadInConfig(); err != nil {
		return
	}
	
	// Unmarshal config into struct
	err = v.UnmarshalExact(&config)
	if err != nil {
		return
	}
	
	// Validate required configuration
	err = validateConfig(config)
	return
}

func validateConfig(config Config) error {
	if config.FirebaseProjectID == "" {
		return fmt.Errorf("FIREBASE_PROJECT_ID is required")
	}
	if config.RedisServerAddress == "" {
		return fmt.Errorf("REDIS_SERVER_ADDRESS is required")
	}
	
	switch config.TriggerMode {
	case TriggerModeListen, TriggerModeHTTP, TriggerModeBoth:
	default:
		return fmt.Errorf("TRIGGER_MODE must be one of %q, %q or %q", TriggerModeListen, TriggerModeHTTP, TriggerModeBoth)
	}
	
	if _, err := time.LoadLocation(config.NotificationTimezone); err != nil {
		return fmt.Errorf("NOTIFICATION_TIMEZONE is invalid: %w", err)
	}
	if config.EventDedupTTL <= 0 {
		return fmt.Errorf("EVENT_DEDUP_TTL must be positive")
	}
	if config.WorkerConcurrency <= 0 {
		return fmt.Errorf("WORKER_CONCURRENCY must be positive")
	}
	
	return nil
}

// Location returns the timezone used to evaluate do-not-disturb windows.
func (config Config) Location() *time.Location {
	loc, err := time.LoadLocation(config.NotificationTimezone)
	if err != nil {
		return time.UTC
	}
	
	return loc
}

func (config Config) ListenEnabled() bool {
	return config.TriggerMode == TriggerModeListen || config.TriggerMode == TriggerModeBoth
}

func (config Config) HTTPEnabled() bool {
	return config.TriggerMode == TriggerModeHTTP || config.TriggerMode == TriggerModeBoth
}
