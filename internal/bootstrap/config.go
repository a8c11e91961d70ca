package bootstrap

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	StoreMemory = "memory"
	StoreMongo  = "mongo"
	StoreSQLite = "sqlite"
)

type Config struct {
	ServerPort     string        `mapstructure:"SERVER_PORT"`
	StoreDriver    string        `mapstructure:"STORE_DRIVER"`
	MongoUri       string        `mapstructure:"MONGO_URI"`
	MongoDatabase  string        `mapstructure:"MONGO_DATABASE"`
	SqlitePath     string        `mapstructure:"SQLITE_PATH"`
	RedisUrl       string        `mapstructure:"REDIS_URL"`
	RedisPassword  string        `mapstructure:"REDIS_PASSWORD"`
	SnapshotTTL    time.Duration `mapstructure:"SNAPSHOT_TTL"`
	IsLocalCors    bool          `mapstructure:"LOCAL_CORS"`
	LogDevelopment bool          `mapstructure:"LOG_DEVELOPMENT"`
}

var defaults = map[string]any{
	"SERVER_PORT":     ":8080",
	"STORE_DRIVER":    StoreMemory,
	"MONGO_URI":       "mongodb://localhost:27017",
	"MONGO_DATABASE":  "goban",
	"SQLITE_PATH":     "goban.db",
	"REDIS_URL":       "",
	"REDIS_PASSWORD":  "",
	"SNAPSHOT_TTL":    "1h",
	"LOCAL_CORS":      false,
	"LOG_DEVELOPMENT": false,
}

// Setup reads cfgPath when it exists. Environment variables win over the file.
func Setup(cfgPath string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", cfgPath, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	c.StoreDriver = strings.ToLower(strings.TrimSpace(c.StoreDriver))
	switch c.StoreDriver {
	case StoreMemory, StoreMongo, StoreSQLite:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.SnapshotTTL < 0 {
		return fmt.Errorf("SNAPSHOT_TTL must not be negative")
	}
	return nil
}
