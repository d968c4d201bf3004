// internal/infrastructure/config/config.go
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// App
	AppVersion string
	LogLevel   string

	// Server
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	APIKey       string

	// MongoDB (price history). Empty URI keeps history in memory.
	MongoURI      string
	MongoDB       string
	MongoUser     string
	MongoPassword string

	// PostgreSQL (search history). Empty DSN disables search history.
	PostgresURI string

	// Providers
	EnabledProviders []string
	Amadeus          AmadeusConfig
	Tequila          TequilaConfig

	// Aggregation & scoring
	ExcludedCarriers  []string
	PriceReference    float64
	DefaultCurrency   string
	SideEffectTimeout time.Duration

	// Generative text
	LLM LLMConfig
}

// AmadeusConfig configures the Amadeus offer provider
type AmadeusConfig struct {
	BaseURL           string
	ClientID          string
	ClientSecret      string
	Timeout           time.Duration
	TokenExpiryMargin time.Duration
	RequestsPerSecond float64
}

// TequilaConfig configures the Kiwi Tequila offer provider
type TequilaConfig struct {
	BaseURL           string
	APIKey            string
	Timeout           time.Duration
	RequestsPerSecond float64
}

// LLMConfig configures the optional generative price refinement
type LLMConfig struct {
	Enabled bool
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		AppVersion:   getEnv("APP_VERSION", "1.0.0"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		Port:         getEnv("PORT", "8080"),
		ReadTimeout:  time.Duration(getEnvAsInt("READ_TIMEOUT", 30)) * time.Second,
		WriteTimeout: time.Duration(getEnvAsInt("WRITE_TIMEOUT", 30)) * time.Second,
		APIKey:       getEnv("API_KEY", ""),

		MongoURI:      getEnv("MONGODB_DSN", ""),
		MongoDB:       getEnv("MONGO_DB", "flightscout"),
		MongoUser:     getEnv("MONGO_USER", ""),
		MongoPassword: getEnv("MONGO_PASSWORD", ""),

		PostgresURI: getEnv("POSTGRES_DSN", ""),

		EnabledProviders: getEnvAsList("ENABLED_PROVIDERS", []string{"amadeus"}),
		Amadeus: AmadeusConfig{
			BaseURL:           getEnv("AMADEUS_BASE_URL", "https://test.api.amadeus.com"),
			ClientID:          getEnv("AMADEUS_CLIENT_ID", ""),
			ClientSecret:      getEnv("AMADEUS_CLIENT_SECRET", ""),
			Timeout:           time.Duration(getEnvAsInt("AMADEUS_TIMEOUT", 15)) * time.Second,
			TokenExpiryMargin: time.Duration(getEnvAsInt("AMADEUS_TOKEN_MARGIN", 300)) * time.Second,
			RequestsPerSecond: getEnvAsFloat("AMADEUS_RPS", 10),
		},
		Tequila: TequilaConfig{
			BaseURL:           getEnv("TEQUILA_BASE_URL", "https://api.tequila.kiwi.com"),
			APIKey:            getEnv("TEQUILA_API_KEY", ""),
			Timeout:           time.Duration(getEnvAsInt("TEQUILA_TIMEOUT", 15)) * time.Second,
			RequestsPerSecond: getEnvAsFloat("TEQUILA_RPS", 5),
		},

		// freight-only carriers never sell seats
		ExcludedCarriers:  getEnvAsList("EXCLUDED_CARRIERS", []string{"5X", "FX", "QY", "5Y", "K4", "CV"}),
		PriceReference:    getEnvAsFloat("PRICE_REFERENCE", 500),
		DefaultCurrency:   strings.ToUpper(getEnv("DEFAULT_CURRENCY", "EUR")),
		SideEffectTimeout: time.Duration(getEnvAsInt("SIDE_EFFECT_TIMEOUT", 10)) * time.Second,

		LLM: LLMConfig{
			Enabled: getEnvAsBool("LLM_ENABLED", false),
			BaseURL: getEnv("LLM_BASE_URL", "https://api.openai.com/v1"),
			APIKey:  getEnv("LLM_API_KEY", ""),
			Model:   getEnv("LLM_MODEL", "gpt-4o-mini"),
			Timeout: time.Duration(getEnvAsInt("LLM_TIMEOUT", 8)) * time.Second,
		},
	}

	for i, p := range config.EnabledProviders {
		config.EnabledProviders[i] = strings.ToLower(p)
	}
	for i, c := range config.ExcludedCarriers {
		config.ExcludedCarriers[i] = strings.ToUpper(c)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate rejects configurations that cannot run. Missing provider
// credentials are valid: those providers answer with mock offers.
func (c *Config) Validate() error {
	var errs []error
	if c.PriceReference <= 0 {
		errs = append(errs, fmt.Errorf("PRICE_REFERENCE must be positive, got %v", c.PriceReference))
	}
	if len(c.DefaultCurrency) != 3 {
		errs = append(errs, fmt.Errorf("DEFAULT_CURRENCY must be a 3-letter code, got %q", c.DefaultCurrency))
	}
	if len(c.EnabledProviders) == 0 {
		errs = append(errs, errors.New("ENABLED_PROVIDERS must name at least one provider"))
	}
	for _, p := range c.EnabledProviders {
		if p != "amadeus" && p != "tequila" {
			errs = append(errs, fmt.Errorf("unknown provider %q in ENABLED_PROVIDERS", p))
		}
	}
	for name, raw := range map[string]string{"AMADEUS_BASE_URL": c.Amadeus.BaseURL, "TEQUILA_BASE_URL": c.Tequila.BaseURL, "LLM_BASE_URL": c.LLM.BaseURL} {
		if u, err := url.Parse(raw); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("%s is not an absolute URL: %q", name, raw))
		}
	}
	if c.LLM.Enabled && c.LLM.Timeout >= c.WriteTimeout {
		errs = append(errs, fmt.Errorf("LLM_TIMEOUT (%s) must be shorter than WRITE_TIMEOUT (%s)", c.LLM.Timeout, c.WriteTimeout))
	}
	return errors.Join(errs...)
}

// Helper functions to get environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma separated value; entries are trimmed and empty ones dropped.
// The literal value "none" yields an empty list.
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := strings.TrimSpace(getEnv(key, ""))
	if valueStr == "" {
		return defaultValue
	}
	if strings.EqualFold(valueStr, "none") {
		return []string{}
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
