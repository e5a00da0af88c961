package env

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"

	"github.com/luma/ldds/protocol"
)

var ErrInvalidConfig = errors.New("Invalid config")

type Config struct {
	Host            string        `env:"LDDS_HOST" toml:"host"`
	Port            int           `env:"LDDS_PORT,default=16003" toml:"port"`
	Timeout         time.Duration `env:"LDDS_TIMEOUT,default=30s" toml:"timeout"`
	ProtocolVersion int           `env:"LDDS_PROTOCOL_VERSION,default=14" toml:"protocol_version"`

	User     string `env:"LDDS_USER" toml:"user"`
	Password string `env:"LDDS_PASSWORD" toml:"password" json:"-"`

	// Criteria is a search criteria file, either text or JSON.
	Criteria string `env:"LDDS_CRITERIA" toml:"criteria"`

	// Interval is how long `start` waits between retrievals.
	Interval time.Duration `env:"LDDS_INTERVAL,default=5m" toml:"interval"`

	// RecordLimit is how many records `start` keeps per DCP address, 0 for
	// no limit.
	RecordLimit int `env:"LDDS_RECORD_LIMIT,default=1000" toml:"record_limit"`

	NATSURL     string `env:"LDDS_NATS_URL" toml:"nats_url"`
	NATSSubject string `env:"LDDS_NATS_SUBJECT,default=ldds" toml:"nats_subject"`

	Debug     bool `env:"LDDS_DEBUG" toml:"debug"`
	DebugHTTP bool `env:"LDDS_DEBUG_HTTP" toml:"debug_http"`
}

// LoadConfig reads .env.local, then the environment, then the TOML file at
// path if one is given. Keys set in the file win over the environment.
func LoadConfig(ctx context.Context, path string) (*Config, error) {
	config := Config{}

	if err := godotenv.Load(".env.local"); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("Failed to load .env.local: %w", err)
		}
	}

	if err := envconfig.Process(ctx, &config); err != nil {
		return nil, err
	}

	if path != "" {
		if err := config.LoadFile(path); err != nil {
			return nil, err
		}
	}

	return &config, nil
}

// LoadFile overlays the keys present in the TOML file at path onto c.
func (c *Config) LoadFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	md, err := toml.Decode(string(b), c)
	if err != nil {
		return fmt.Errorf("Failed to parse '%s': %w", path, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) != 0 {
		return fmt.Errorf("%w: undecoded keys in %s: %v", ErrInvalidConfig, path, undecoded)
	}

	return nil
}

func (c *Config) Validate() error {
	switch {
	case c.Host == "":
		return fmt.Errorf("%w: no LRGS host", ErrInvalidConfig)

	case c.Port < 1 || c.Port > 65535:
		return fmt.Errorf("%w: port %d out of range", ErrInvalidConfig, c.Port)

	case c.Timeout <= 0:
		return fmt.Errorf("%w: timeout must be positive", ErrInvalidConfig)

	case c.ProtocolVersion < protocol.Version1 || c.ProtocolVersion > protocol.LatestVersion:
		return fmt.Errorf("%w: protocol version %d not in %d..%d",
			ErrInvalidConfig, c.ProtocolVersion, protocol.Version1, protocol.LatestVersion)

	case c.User == "":
		return fmt.Errorf("%w: no user", ErrInvalidConfig)
	}

	return nil
}
