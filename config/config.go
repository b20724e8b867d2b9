package config

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Database struct {
		Host         string `mapstructure:"host"`
		Port         string `mapstructure:"port"`
		User         string `mapstructure:"user"`
		Password     string `mapstructure:"password"`
		Name         string `mapstructure:"name"`
		SSLMode      string `mapstructure:"sslmode"`
		MaxOpenConns int    `mapstructure:"max_open_conns"`
	} `mapstructure:"database"`
	Server struct {
		Port            string        `mapstructure:"port"`
		ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	} `mapstructure:"server"`
	JWT struct {
		SecretKey string        `mapstructure:"secret_key"`
		TTL       time.Duration `mapstructure:"ttl"`
	} `mapstructure:"jwt"`
	Redis struct {
		Enabled  bool          `mapstructure:"enabled"`
		Host     string        `mapstructure:"host"`
		Port     string        `mapstructure:"port"`
		Password string        `mapstructure:"password"`
		DB       int           `mapstructure:"db"`
		CacheTTL time.Duration `mapstructure:"cache_ttl"`
	} `mapstructure:"redis"`
	Ledger struct {
		MigrateOnStart bool `mapstructure:"migrate_on_start"`
	} `mapstructure:"ledger"`
}

var AppConfig Config

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "ledger")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.shutdown_timeout", 5*time.Second)
	v.SetDefault("jwt.secret_key", "")
	v.SetDefault("jwt.ttl", time.Hour)
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.cache_ttl", 10*time.Minute)
	v.SetDefault("ledger.migrate_on_start", true)
}

// Load reads config.yml from path, overlays environment variables
// (DATABASE_HOST, REDIS_ENABLED, ...) and returns the result. A missing file is
// not an error: defaults and the environment are enough to run.
func Load(path string) (Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	var cfg Config
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// LoadConfig populates AppConfig and exits the process on failure.
func LoadConfig(path string) {
	cfg, err := Load(path)
	if err != nil {
		log.Fatalf("Unable to load configuration, %v", err)
	}
	AppConfig = cfg
}

// DSN renders the database section as a lib/pq connection string.
func (c Config) DSN() string {
	db := c.Database
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		db.Host, db.Port, db.User, db.Password, db.Name, db.SSLMode)
}

// MigrationURL renders the database section in the URL form golang-migrate expects.
func (c Config) MigrationURL() string {
	db := c.Database
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(db.User, db.Password),
		Host:     db.Host + ":" + db.Port,
		Path:     "/" + db.Name,
		RawQuery: "sslmode=" + db.SSLMode,
	}
	return u.String()
}
