package sample

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.akshayshah.org/webreactive/internal/logging"
)

// EnvPrefix prefixes every environment variable the sample reads.
const EnvPrefix = "WEBREACTIVE_"

var (
	ErrInvalidStaticPrefix = errors.New("static prefix must start with / and not end with /")
	ErrInvalidGinMode      = errors.New("gin mode must be debug, release, or test")
)

type Config struct {
	Address         string        `env:"ADDRESS" envDefault:"127.0.0.1:8080"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	GinMode         string        `env:"GIN_MODE" envDefault:"release"`
	StaticPrefix    string        `env:"STATIC_PREFIX" envDefault:"/static"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// ParseConfig reads the configuration from environ, or from the process
// environment if environ is nil.
func ParseConfig(environ map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{
		Prefix:      EnvPrefix,
		Environment: environ,
	}); err != nil {
		return Config{}, fmt.Errorf("error parsing environment variables: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig is ParseConfig over the process environment, with variables from
// envFile filling in anything the environment doesn't set.
func LoadConfig(envFile string) (Config, error) {
	if envFile == "" {
		return ParseConfig(nil)
	}
	fileVars, err := godotenv.Read(envFile)
	if err != nil {
		return Config{}, fmt.Errorf("error loading .env file: %w", err)
	}
	environ := environMap(os.Environ())
	for k, v := range fileVars {
		if _, ok := environ[k]; !ok {
			environ[k] = v
		}
	}
	return ParseConfig(environ)
}

// Validate rejects values the router or logger can't use. Call it again after
// overriding fields.
func (c Config) Validate() error {
	switch c.GinMode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidGinMode, c.GinMode)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if !strings.HasPrefix(c.StaticPrefix, "/") || (len(c.StaticPrefix) > 1 && strings.HasSuffix(c.StaticPrefix, "/")) {
		return fmt.Errorf("%w: %q", ErrInvalidStaticPrefix, c.StaticPrefix)
	}
	return nil
}

func environMap(environ []string) map[string]string {
	m := make(map[string]string, len(environ))
	for _, kv := range environ {
		if k, v, ok := strings.Cut(kv, "="); ok {
			m[k] = v
		}
	}
	return m
}
