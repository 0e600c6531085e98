package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	JWT          JWTConfig
	RateLimit    RateLimitConfig
	CORS         CORSConfig
	UsageAPI     UsageAPIConfig
	InventoryAPI InventoryAPIConfig
	Directory    DirectoryConfig
	Report       ReportConfig
	MQTT         MQTTConfig
	Operators    string
}

type ServerConfig struct {
	Port        string
	Host        string
	Environment string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

type RateLimitConfig struct {
	GeneralRPS   float64 // Requests per second for general endpoints
	GeneralBurst int     // Burst size for general endpoints
}

type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

// UsageAPIConfig points at the router management API that serves daily
// bandwidth usage.
type UsageAPIConfig struct {
	TokenURL     string
	BaseURL      string
	UsagePath    string
	ClientID     string
	ClientSecret string
	WANID        string
	Timeout      time.Duration
}

// InventoryAPIConfig points at the stock inventory API used to resolve device
// locations. Enrichment is off unless both LookupURL and ClientID are set.
type InventoryAPIConfig struct {
	TokenURL     string
	LookupURL    string
	ClientID     string
	ClientSecret string
	Timeout      time.Duration
}

type DirectoryConfig struct {
	Path     string
	SkipRows int
}

type ReportConfig struct {
	ThresholdGiB      float64
	MaxLookbackDays   int
	DiagnosticLogPath string
}

type MQTTConfig struct {
	Broker      string
	ClientID    string
	Username    string
	Password    string
	ReportTopic string
	QoS         int
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AddConfigPath(".")
	if homeDir, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(homeDir)
	}
	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		log.Printf("Warning: config file not found: %v. Falling back to environment variables only.", err)
	}

	config := &Config{
		Server: ServerConfig{
			Port:        viper.GetString("SERVER_PORT"),
			Host:        viper.GetString("SERVER_HOST"),
			Environment: viper.GetString("ENVIRONMENT"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			DBName:   viper.GetString("DB_NAME"),
			SSLMode:  viper.GetString("DB_SSLMODE"),
		},
		JWT: JWTConfig{
			Secret:      viper.GetString("JWT_SECRET"),
			ExpiryHours: viper.GetInt("JWT_EXPIRY_HOURS"),
		},
		RateLimit: RateLimitConfig{
			GeneralRPS:   viper.GetFloat64("RATE_LIMIT_GENERAL_RPS"),
			GeneralBurst: viper.GetInt("RATE_LIMIT_GENERAL_BURST"),
		},
		CORS: CORSConfig{
			AllowedOrigins:   viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods:   viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders:   viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
			ExposedHeaders:   viper.GetStringSlice("CORS_EXPOSED_HEADERS"),
			AllowCredentials: viper.GetBool("CORS_ALLOW_CREDENTIALS"),
			MaxAge:           viper.GetInt("CORS_MAX_AGE"),
		},
		UsageAPI: UsageAPIConfig{
			TokenURL:     viper.GetString("USAGE_API_TOKEN_URL"),
			BaseURL:      viper.GetString("USAGE_API_BASE_URL"),
			UsagePath:    viper.GetString("USAGE_API_USAGE_PATH"),
			ClientID:     viper.GetString("USAGE_API_CLIENT_ID"),
			ClientSecret: viper.GetString("USAGE_API_CLIENT_SECRET"),
			WANID:        viper.GetString("USAGE_API_WAN_ID"),
			Timeout:      viper.GetDuration("USAGE_API_TIMEOUT"),
		},
		InventoryAPI: InventoryAPIConfig{
			TokenURL:     viper.GetString("INVENTORY_API_TOKEN_URL"),
			LookupURL:    viper.GetString("INVENTORY_API_LOOKUP_URL"),
			ClientID:     viper.GetString("INVENTORY_API_CLIENT_ID"),
			ClientSecret: viper.GetString("INVENTORY_API_CLIENT_SECRET"),
			Timeout:      viper.GetDuration("INVENTORY_API_TIMEOUT"),
		},
		Directory: DirectoryConfig{
			Path:     viper.GetString("DEVICE_DIRECTORY_PATH"),
			SkipRows: viper.GetInt("DEVICE_DIRECTORY_SKIP_ROWS"),
		},
		Report: ReportConfig{
			ThresholdGiB:      viper.GetFloat64("REPORT_THRESHOLD_GIB"),
			MaxLookbackDays:   viper.GetInt("REPORT_MAX_LOOKBACK_DAYS"),
			DiagnosticLogPath: viper.GetString("DIAGNOSTIC_LOG_PATH"),
		},
		MQTT: MQTTConfig{
			Broker:      viper.GetString("MQTT_BROKER"),
			ClientID:    viper.GetString("MQTT_CLIENT_ID"),
			Username:    viper.GetString("MQTT_USERNAME"),
			Password:    viper.GetString("MQTT_PASSWORD"),
			ReportTopic: viper.GetString("MQTT_REPORT_TOPIC"),
			QoS:         viper.GetInt("MQTT_QOS"),
		},
		Operators: viper.GetString("OPERATORS"),
	}

	return config, nil
}

func setDefaults() {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("JWT_EXPIRY_HOURS", 8)
	viper.SetDefault("RATE_LIMIT_GENERAL_RPS", 5)
	viper.SetDefault("RATE_LIMIT_GENERAL_BURST", 10)
	viper.SetDefault("CORS_ALLOWED_METHODS", []string{"GET", "POST", "OPTIONS"})
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{"Authorization", "Content-Type", "X-Request-ID"})
	viper.SetDefault("USAGE_API_TOKEN_URL", "https://api.ic.peplink.com/api/oauth2/token")
	viper.SetDefault("USAGE_API_USAGE_PATH", "/bandwidth_usage")
	viper.SetDefault("USAGE_API_WAN_ID", "0")
	viper.SetDefault("USAGE_API_TIMEOUT", 60*time.Second)
	viper.SetDefault("INVENTORY_API_TIMEOUT", 30*time.Second)
	viper.SetDefault("DEVICE_DIRECTORY_PATH", "deviceID.xlsx")
	viper.SetDefault("DEVICE_DIRECTORY_SKIP_ROWS", 3)
	viper.SetDefault("REPORT_THRESHOLD_GIB", 3.0)
	viper.SetDefault("REPORT_MAX_LOOKBACK_DAYS", 60)
	viper.SetDefault("DIAGNOSTIC_LOG_PATH", "token_errors.log")
	viper.SetDefault("MQTT_CLIENT_ID", "cellular-usage-report")
	viper.SetDefault("MQTT_REPORT_TOPIC", "cellular/usage/reports")
	viper.SetDefault("MQTT_QOS", 1)
}

func (c *DatabaseConfig) Enabled() bool {
	return c.Host != "" && c.DBName != ""
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// UsageURL joins the base URL with the daily usage path.
func (c *UsageAPIConfig) UsageURL() string {
	return c.BaseURL + c.UsagePath
}

func (c *InventoryAPIConfig) Enabled() bool {
	return c.LookupURL != "" && c.ClientID != ""
}

func (c *MQTTConfig) Enabled() bool {
	return c.Broker != ""
}
