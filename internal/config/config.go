package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Site     SiteConfig
	Hubtel   HubtelConfig
	Nonce    NonceConfig
	Telegram TelegramConfig
}

type ServerConfig struct {
	Port int
	Env  string // "development", "production"
}

type DatabaseConfig struct {
	Host    string
	Port    string
	Name    string
	User    string
	Pass    string
	Charset string
}

type RedisConfig struct {
	Addr string
	Pass string
	DB   int
}

// SiteConfig holds the public URLs of the donation site. BaseURL is the
// externally reachable origin Hubtel calls back to; the page entries may be
// absolute URLs or paths relative to BaseURL.
type SiteConfig struct {
	BaseURL      string
	CheckoutPage string
	SuccessPage  string
	FailedPage   string
}

type HubtelConfig struct {
	APIID       string
	APIKey      string
	AccountID   string
	LogoURL     string
	BaseURL     string
	InsecureTLS bool
}

type NonceConfig struct {
	Secret string
	TTL    time.Duration
}

type TelegramConfig struct {
	Token         string
	ReportChannel string
}

// Load reads configuration from .env file and environment variables.
func Load() (*Config, error) {
	// Load .env file (ignore error if missing)
	_ = godotenv.Load()

	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("APP_PORT", 8080)
	viper.SetDefault("APP_ENV", "production")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "3306")
	viper.SetDefault("DB_CHARSET", "utf8mb4")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("HUBTEL_BASE_URL", "https://api.hubtel.com/v2/pos/")
	viper.SetDefault("HUBTEL_INSECURE_TLS", false)
	viper.SetDefault("NONCE_TTL", "15m")
	viper.SetDefault("SITE_CHECKOUT_PAGE", "/donations/new")
	viper.SetDefault("SITE_SUCCESS_PAGE", "/donations/confirm")
	viper.SetDefault("SITE_FAILED_PAGE", "/donations/failed")

	nonceTTL, err := time.ParseDuration(viper.GetString("NONCE_TTL"))
	if err != nil {
		nonceTTL = 15 * time.Minute
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: viper.GetInt("APP_PORT"),
			Env:  viper.GetString("APP_ENV"),
		},
		Database: DatabaseConfig{
			Host:    viper.GetString("DB_HOST"),
			Port:    viper.GetString("DB_PORT"),
			Name:    viper.GetString("DB_NAME"),
			User:    viper.GetString("DB_USER"),
			Pass:    viper.GetString("DB_PASS"),
			Charset: viper.GetString("DB_CHARSET"),
		},
		Redis: RedisConfig{
			Addr: viper.GetString("REDIS_ADDR"),
			Pass: viper.GetString("REDIS_PASS"),
			DB:   viper.GetInt("REDIS_DB"),
		},
		Site: SiteConfig{
			BaseURL:      viper.GetString("SITE_BASE_URL"),
			CheckoutPage: viper.GetString("SITE_CHECKOUT_PAGE"),
			SuccessPage:  viper.GetString("SITE_SUCCESS_PAGE"),
			FailedPage:   viper.GetString("SITE_FAILED_PAGE"),
		},
		Hubtel: HubtelConfig{
			APIID:       viper.GetString("HUBTEL_API_ID"),
			APIKey:      viper.GetString("HUBTEL_API_KEY"),
			AccountID:   viper.GetString("HUBTEL_ACCOUNT_ID"),
			LogoURL:     viper.GetString("HUBTEL_LOGO_URL"),
			BaseURL:     viper.GetString("HUBTEL_BASE_URL"),
			InsecureTLS: viper.GetBool("HUBTEL_INSECURE_TLS"),
		},
		Nonce: NonceConfig{
			Secret: viper.GetString("NONCE_SECRET"),
			TTL:    nonceTTL,
		},
		Telegram: TelegramConfig{
			Token:         viper.GetString("TELEGRAM_BOT_TOKEN"),
			ReportChannel: viper.GetString("TELEGRAM_REPORT_CHANNEL"),
		},
	}

	return cfg, nil
}

// Validate checks the settings without which no checkout may be attempted.
// Missing Hubtel credentials abort startup instead of failing on the first
// donor request.
func (c *Config) Validate() error {
	if c.Hubtel.APIID == "" || c.Hubtel.APIKey == "" {
		return fmt.Errorf("config: HUBTEL_API_ID and HUBTEL_API_KEY are required")
	}
	if c.Hubtel.AccountID == "" {
		return fmt.Errorf("config: HUBTEL_ACCOUNT_ID is required")
	}
	if c.Site.BaseURL == "" {
		return fmt.Errorf("config: SITE_BASE_URL is required")
	}
	if c.Nonce.Secret == "" {
		return fmt.Errorf("config: NONCE_SECRET is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("config: DB_NAME is required")
	}
	return nil
}

// DSN returns the MySQL DSN string for GORM.
func (d *DatabaseConfig) DSN() string {
	return d.User + ":" + d.Pass + "@tcp(" + d.Host + ":" + d.Port + ")/" + d.Name + "?charset=" + d.Charset + "&parseTime=True&loc=Local"
}
