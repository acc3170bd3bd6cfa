package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override (RECEIPT_PRINTER_DRIVER)
const EnvPrefix = "RECEIPT"

// DefaultLogoURL is the hotel logo printed above every receipt
const DefaultLogoURL = "https://res.cloudinary.com/dzi8kxyze/image/upload/v1724162969/qclo5v2qhzra7sxmda05.png"

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Log       LogConfig
	Printer   PrinterConfig
	Logo      LogoConfig
	Business  BusinessConfig
	HTTP      HTTPConfig
	Telemetry TelemetryConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string `validate:"required"`
	Env  string `validate:"required"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `validate:"oneof=debug info warn error"`
	Format string `validate:"oneof=json console"`
	Output string // stdout, stderr, or file path; empty keeps the command's default
}

// PrinterConfig selects the printer driver and its options
type PrinterConfig struct {
	Driver          string            `validate:"omitempty,oneof=gdi cups png pdf"` // empty picks the platform driver
	DefaultName     string            // printer used when a request names none
	OutputDir       string            // png and pdf virtual printers
	Timeout         time.Duration     `validate:"gt=0"`
	LPBinary        string            `validate:"required"`
	LPStatBinary    string            `validate:"required"`
	LPOptions       []string          // passed to lp as -o values
	FontFiles       map[string]string // face name -> TTF path
	SystemFonts     bool
	MinPageWidth    int `validate:"gte=0"`
	MaxPageWidth    int `validate:"gte=0"`
	MaxPageHeight   int `validate:"gte=0"`
	ChromeRemoteURL string
	NoSandbox       bool
}

// LogoConfig locates the logo image
type LogoConfig struct {
	URL        string        `validate:"required,url"`
	Timeout    time.Duration `validate:"gt=0"`
	MaxBytes   int64         `validate:"gt=0"`
	Cloudinary CloudinaryConfig
}

// CloudinaryConfig builds the logo URL from a Cloudinary asset when set
type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
	PublicID  string
}

// BusinessConfig is the header printed under the logo
type BusinessConfig struct {
	Name    string   `validate:"required"`
	Address []string `validate:"dive,required"`
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	Port            string        `validate:"required,numeric"`
	ReadTimeout     time.Duration `validate:"gt=0"`
	WriteTimeout    time.Duration `validate:"gt=0"`
	IdleTimeout     time.Duration `validate:"gt=0"`
	ShutdownTimeout time.Duration `validate:"gt=0"`
	MaxBodySize     int64         `validate:"gt=0"`
}

// TelemetryConfig exports spans and logs over OTLP gRPC. Disabled by default.
type TelemetryConfig struct {
	Enabled           bool
	LogsEnabled       bool
	CollectorEndpoint string  `validate:"required_if=Enabled true"`
	SamplingRatio     float64 `validate:"gte=0,lte=1"`
	ServiceName       string
	Insecure          bool
}

// LoadFile loads configuration from a config file and environment variables.
// Priority (highest to lowest):
// 1. Environment variables with RECEIPT_ prefix (e.g., RECEIPT_PRINTER_DRIVER)
// 2. The file at path, or config.toml in the working directory or /etc/receipt
// 3. Built-in defaults
//
// An empty path searches the default locations and tolerates a missing file.
// An explicit path must exist.
func LoadFile(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/receipt")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetDefault("telemetry.collector_endpoint", "localhost:4317")
	v.SetDefault("telemetry.sampling_ratio", 1.0)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Printer: PrinterConfig{
			Driver:          strings.ToLower(v.GetString("printer.driver")),
			DefaultName:     v.GetString("printer.default_name"),
			OutputDir:       v.GetString("printer.output_dir"),
			Timeout:         v.GetDuration("printer.timeout"),
			LPBinary:        v.GetString("printer.lp_binary"),
			LPStatBinary:    v.GetString("printer.lpstat_binary"),
			LPOptions:       v.GetStringSlice("printer.lp_options"),
			FontFiles:       v.GetStringMapString("printer.font_files"),
			SystemFonts:     v.GetBool("printer.system_fonts"),
			MinPageWidth:    v.GetInt("printer.min_page_width"),
			MaxPageWidth:    v.GetInt("printer.max_page_width"),
			MaxPageHeight:   v.GetInt("printer.max_page_height"),
			ChromeRemoteURL: v.GetString("printer.chrome_remote_url"),
			NoSandbox:       v.GetBool("printer.no_sandbox"),
		},
		Logo: LogoConfig{
			URL:      v.GetString("logo.url"),
			Timeout:  v.GetDuration("logo.timeout"),
			MaxBytes: v.GetInt64("logo.max_bytes"),
			Cloudinary: CloudinaryConfig{
				CloudName: v.GetString("logo.cloudinary.cloud_name"),
				APIKey:    v.GetString("logo.cloudinary.api_key"),
				APISecret: v.GetString("logo.cloudinary.api_secret"),
				PublicID:  v.GetString("logo.cloudinary.public_id"),
			},
		},
		Business: BusinessConfig{
			Name:    v.GetString("business.name"),
			Address: v.GetStringSlice("business.address"),
		},
		HTTP: HTTPConfig{
			Port:            v.GetString("http.port"),
			ReadTimeout:     v.GetDuration("http.read_timeout"),
			WriteTimeout:    v.GetDuration("http.write_timeout"),
			IdleTimeout:     v.GetDuration("http.idle_timeout"),
			ShutdownTimeout: v.GetDuration("http.shutdown_timeout"),
			MaxBodySize:     v.GetInt64("http.max_body_size"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			LogsEnabled:       v.GetBool("telemetry.logs_enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "receipt"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Printer.DefaultName == "" {
		cfg.Printer.DefaultName = "POS-80-test1"
	}
	if cfg.Printer.Timeout == 0 {
		cfg.Printer.Timeout = 60 * time.Second
	}
	if cfg.Printer.LPBinary == "" {
		cfg.Printer.LPBinary = "lp"
	}
	if cfg.Printer.LPStatBinary == "" {
		cfg.Printer.LPStatBinary = "lpstat"
	}
	if cfg.Logo.URL == "" {
		cfg.Logo.URL = DefaultLogoURL
	}
	if cfg.Logo.Timeout == 0 {
		cfg.Logo.Timeout = 30 * time.Second
	}
	if cfg.Logo.MaxBytes == 0 {
		cfg.Logo.MaxBytes = 10 << 20 // 10MB
	}
	if cfg.Business.Name == "" {
		cfg.Business.Name = "TIMELESS APARTMENTS AND BAR"
		if len(cfg.Business.Address) == 0 {
			cfg.Business.Address = []string{"62 LANDBRIDGE AVENUE", "ONIRU, LAGOS STATE"}
		}
	}
	if cfg.HTTP.Port == "" {
		cfg.HTTP.Port = "8080"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		// A print waits on the logo host and the spooler
		cfg.HTTP.WriteTimeout = 120 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.ShutdownTimeout == 0 {
		cfg.HTTP.ShutdownTimeout = 30 * time.Second
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 1 << 20 // 1MB
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = cfg.App.Name
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// validate performs validation on the configuration
func (c *Config) validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed on '%s'", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if (c.Printer.Driver == "png" || c.Printer.Driver == "pdf") && c.Printer.OutputDir == "" {
		return fmt.Errorf("printer.output_dir is required for the %s driver", c.Printer.Driver)
	}

	cld := c.Logo.Cloudinary
	if cld.CloudName != "" || cld.PublicID != "" {
		if cld.CloudName == "" || cld.PublicID == "" {
			return fmt.Errorf("logo.cloudinary needs both cloud_name and public_id")
		}
	}

	if c.App.Env == "production" && c.Log.Format != "json" {
		return fmt.Errorf("log.format must be json in production")
	}

	return nil
}
