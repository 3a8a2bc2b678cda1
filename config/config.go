package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vnkhanh/grade-explorer/models"
)

type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	TimeZone string `mapstructure:"timezone"`
}

// Enabled reports whether a database was configured at all.
func (c DBConfig) Enabled() bool {
	return c.Host != ""
}

func (c DBConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.TimeZone,
	)
}

type SupabaseConfig struct {
	URL    string `mapstructure:"url"`
	Key    string `mapstructure:"key"`
	Bucket string `mapstructure:"bucket"`
}

type Config struct {
	Port            string               `mapstructure:"port"`
	LogLevel        string               `mapstructure:"log_level"`
	DataDir         string               `mapstructure:"data_dir"`
	CORSOrigins     []string             `mapstructure:"cors_origins"`
	RefreshInterval time.Duration        `mapstructure:"refresh_interval"` // 0 disables periodic reloads
	DB              DBConfig             `mapstructure:"db"`
	Supabase        SupabaseConfig       `mapstructure:"supabase"`
	Datasets        []models.DatasetSpec `mapstructure:"datasets"`
}

// Load reads .env, the environment and the optional YAML config file.
// Environment variables win over the file.
func Load(configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		zap.L().Debug("no .env file found")
	}

	v := viper.New()
	v.SetDefault("port", "8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("data_dir", "data")
	v.SetDefault("cors_origins", []string{"http://localhost:5173"})
	v.SetDefault("refresh_interval", "0s")
	v.SetDefault("db.port", "5432")
	v.SetDefault("db.timezone", "Asia/Kolkata")
	v.SetDefault("supabase.bucket", "uploads")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range []string{
		"port", "log_level", "data_dir", "cors_origins", "refresh_interval",
		"db.host", "db.port", "db.user", "db.password", "db.name", "db.timezone",
		"supabase.url", "supabase.key", "supabase.bucket",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	if configFile == "" {
		configFile = v.GetString("config_file")
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if len(cfg.CORSOrigins) == 1 && strings.Contains(cfg.CORSOrigins[0], ",") {
		cfg.CORSOrigins = strings.Split(cfg.CORSOrigins[0], ",")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	seen := make(map[string]bool)
	for i, ds := range c.Datasets {
		if ds.Name == "" {
			return fmt.Errorf("dataset #%d has no name", i+1)
		}
		if ds.Source == "" {
			return fmt.Errorf("dataset %q has no source", ds.Name)
		}
		if seen[ds.Name] {
			return fmt.Errorf("dataset %q is declared twice", ds.Name)
		}
		seen[ds.Name] = true
		switch ds.Features.Missing {
		case "", models.MissingLast, models.MissingFirst:
		default:
			return fmt.Errorf("dataset %q: unknown missing policy %q", ds.Name, ds.Features.Missing)
		}
	}
	return nil
}

var ErrNoDatabase = errors.New("database is not configured")

// InitDB connects to Postgres, sets up pooling and migrates the models.
func InitDB(c DBConfig) (*gorm.DB, error) {
	if !c.Enabled() {
		return nil, ErrNoDatabase
	}

	db, err := gorm.Open(postgres.Open(c.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB from gorm: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(&models.Elective{}); err != nil {
		return nil, fmt.Errorf("automigrate: %w", err)
	}
	zap.L().Info("postgreSQL connected & migrated")
	return db, nil
}
