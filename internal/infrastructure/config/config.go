package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

type Config struct {
	Port         string `env:"PORT,          default=8080"`
	Env          string `env:"ENV,           default=development"`
	LogLevel     string `env:"LOG_LEVEL,     default=info"`
	ClientSecret string `env:"CLIENT_SECRET"`
	StoreBackend string `env:"STORE_BACKEND, default=memory"`

	ActivityWorkers int `env:"ACTIVITY_WORKERS, default=4"`

	Auth  AuthConfig
	Album AlbumConfig
	Mongo MongoConfig
	Redis RedisConfig
}

type AuthConfig struct {
	SessionTTL       time.Duration `env:"SESSION_TTL,        default=24h"`
	RememberTTL      time.Duration `env:"REMEMBER_TTL,       default=720h"`
	BcryptCost       int           `env:"BCRYPT_COST,        default=10"`
	AllowAdminSignup bool          `env:"ALLOW_ADMIN_SIGNUP, default=false"`
}

type AlbumConfig struct {
	Dir         string `env:"ALBUM_DIR,         default=src/img"`
	PublicPath  string `env:"ALBUM_PUBLIC_PATH, default=/src/img"`
	Description string `env:"ALBUM_DESCRIPTION"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=dkv3_site"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
	Prefix   string `env:"REDIS_PREFIX,   default=dkv3:"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom reads configuration through l, so tests can supply a map.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects combinations the server cannot start with.
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case BackendMemory, BackendRedis, BackendMongo:
	default:
		return fmt.Errorf("config: unknown STORE_BACKEND %q", c.StoreBackend)
	}
	if !c.IsDevelopment() && c.ClientSecret == "" {
		return fmt.Errorf("config: CLIENT_SECRET is required outside development")
	}
	if c.ActivityWorkers < 1 {
		return fmt.Errorf("config: ACTIVITY_WORKERS must be at least 1")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
