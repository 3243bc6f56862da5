package common

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every setting the site reads at startup.
type Config struct {
	Port              string        `mapstructure:"PORT"`
	Env               string        `mapstructure:"ENV"`
	APIBaseURL        string        `mapstructure:"API_BASE_URL"`
	APITimeout        time.Duration `mapstructure:"API_TIMEOUT"`
	SiteURL           string        `mapstructure:"SITE_URL"`
	SessionSecret     string        `mapstructure:"SESSION_SECRET"`
	TokenDB           string        `mapstructure:"TOKEN_DB"`
	CacheDir          string        `mapstructure:"CACHE_DIR"`
	HomeRevalidate    time.Duration `mapstructure:"HOME_REVALIDATE"`
	ContactResetAfter time.Duration `mapstructure:"CONTACT_RESET_AFTER"`
	ContactRatePerMin int           `mapstructure:"CONTACT_RATE_PER_MIN"`
	VisitorTTL        time.Duration `mapstructure:"VISITOR_TTL"`
	AllowedOrigins    string        `mapstructure:"ALLOWED_ORIGINS"`
}

var defaults = map[string]any{
	"PORT":                 "8080",
	"ENV":                  "development",
	"API_BASE_URL":         "https://api.barkloungetr.com",
	"API_TIMEOUT":          "10s",
	"SITE_URL":             "https://barkloungetr.com",
	"SESSION_SECRET":       "",
	"TOKEN_DB":             "",
	"CACHE_DIR":            "cache",
	"HOME_REVALIDATE":      "10m",
	"CONTACT_RESET_AFTER":  "3s",
	"CONTACT_RATE_PER_MIN": 5,
	"VISITOR_TTL":          "30m",
	"ALLOWED_ORIGINS":      "",
}

// LoadConfig reads .env (if present) and the process environment.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables only")
	}

	v := viper.New()
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	cfg.SiteURL = strings.TrimRight(cfg.SiteURL, "/")
	return cfg, nil
}

// IsProduction reports whether the site runs with ENV=production.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// Origins splits ALLOWED_ORIGINS on commas.
func (c Config) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
