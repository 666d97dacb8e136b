package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Storage StorageConfig `koanf:"storage"`
	OTLP    OTLPConfig    `koanf:"otlp"`
}

type ServerConfig struct {
	Host             string        `koanf:"host"`
	Port             string        `koanf:"port" validate:"required,numeric"`
	FrontendURL      string        `koanf:"frontendurl"`
	BodyLimitBytes   int64         `koanf:"bodylimitbytes" validate:"gte=0"`
	DurationMetricMS bool          `koanf:"durationmetricms"`
	ReadTimeout      time.Duration `koanf:"readtimeout" validate:"gt=0"`
	WriteTimeout     time.Duration `koanf:"writetimeout" validate:"gt=0"`
	IdleTimeout      time.Duration `koanf:"idletimeout" validate:"gt=0"`
	ShutdownTimeout  time.Duration `koanf:"shutdowntimeout" validate:"gt=0"`
}

type StorageConfig struct {
	Driver        string `koanf:"driver" validate:"oneof=memory file redis"`
	Dir           string `koanf:"dir" validate:"required_if=Driver file"`
	Layout        string `koanf:"layout" validate:"oneof=combined split"`
	RedisAddr     string `koanf:"redisaddr" validate:"required_if=Driver redis"`
	RedisPassword string `koanf:"redispassword"`
	RedisDB       int    `koanf:"redisdb" validate:"gte=0"`
	RedisPrefix   string `koanf:"redisprefix"`
}

type OTLPConfig struct {
	Enabled     bool   `koanf:"enabled"`
	Endpoint    string `koanf:"endpoint" validate:"required_if=Enabled true"`
	ServiceName string `koanf:"servicename" validate:"required"`
	Environment string `koanf:"environment"`
	LogLevel    string `koanf:"loglevel" validate:"oneof=debug info warn error DEBUG INFO WARN ERROR"`
}

// Addr returns the listen address
func (c ServerConfig) Addr() string {
	return c.Host + ":" + c.Port
}

func (c Config) String() string {
	return fmt.Sprintf("server=%s, storage.driver=%s, storage.dir=%s, storage.layout=%s, storage.redis=%s, otlp.enabled=%t, otlp.endpoint=%s",
		c.Server.Addr(),
		c.Storage.Driver,
		c.Storage.Dir,
		c.Storage.Layout,
		c.Storage.RedisAddr,
		c.OTLP.Enabled,
		c.OTLP.Endpoint,
	)
}

const (
	defaultConfigFile = "config.yaml"
	defaultEnvFile    = ".env"
)

func defaults() map[string]any {
	return map[string]any{
		"server.host":             "0.0.0.0",
		"server.port":             "8080",
		"server.frontendurl":      "http://localhost:3000",
		"server.bodylimitbytes":   int64(10 << 20),
		"server.durationmetricms": false,
		"server.readtimeout":      "15s",
		"server.writetimeout":     "15s",
		"server.idletimeout":      "60s",
		"server.shutdowntimeout":  "10s",
		"storage.driver":          "file",
		"storage.dir":             "data",
		"storage.layout":          "combined",
		"storage.redisaddr":       "localhost:6379",
		"storage.redisdb":         0,
		"storage.redisprefix":     "cafe",
		"otlp.enabled":            false,
		"otlp.endpoint":           "localhost:4317",
		"otlp.servicename":        "cafe-inventory-api",
		"otlp.environment":        "development",
		"otlp.loglevel":           "info",
	}
}

// envKeys maps environment variables onto config keys. Variables not listed are ignored.
var envKeys = map[string]string{
	"SERVER_HOST":                 "server.host",
	"SERVER_PORT":                 "server.port",
	"PORT":                        "server.port",
	"FRONTEND_URL":                "server.frontendurl",
	"BODY_LIMIT_BYTES":            "server.bodylimitbytes",
	"DURATION_METRIC_MS":          "server.durationmetricms",
	"SHUTDOWN_TIMEOUT":            "server.shutdowntimeout",
	"STORAGE_DRIVER":              "storage.driver",
	"DATA_DIR":                    "storage.dir",
	"STORAGE_LAYOUT":              "storage.layout",
	"REDIS_ADDR":                  "storage.redisaddr",
	"REDIS_PASSWORD":              "storage.redispassword",
	"REDIS_DB":                    "storage.redisdb",
	"REDIS_PREFIX":                "storage.redisprefix",
	"OTEL_ENABLED":                "otlp.enabled",
	"OTEL_EXPORTER_OTLP_ENDPOINT": "otlp.endpoint",
	"OTEL_SERVICE_NAME":           "otlp.servicename",
	"OTEL_ENVIRONMENT":            "otlp.environment",
	"LOG_LEVEL":                   "otlp.loglevel",
}

func envKey(name string) string {
	return envKeys[strings.ToUpper(name)]
}

// LoadConfig layers defaults, the YAML file, .env and the process
// environment, in increasing priority.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	configFile := os.Getenv("CONFIG_FILE")
	if configFile == "" {
		configFile = defaultConfigFile
	}
	if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", configFile, err)
	}

	if envFile, err := godotenv.Read(defaultEnvFile); err == nil {
		fromFile := make(map[string]any, len(envFile))
		for name, value := range envFile {
			if key := envKey(name); key != "" {
				fromFile[key] = value
			}
		}
		if err := k.Load(confmap.Provider(fromFile, "."), nil); err != nil {
			return nil, fmt.Errorf("load %s: %w", defaultEnvFile, err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read %s: %w", defaultEnvFile, err)
	}

	if err := k.Load(env.Provider("", ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the loaded values against their struct tags
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
