package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/at-ishikawa/recall/internal/scheduler"
)

const (
	StoreDriverMemory = "memory"
	StoreDriverYAML   = "yaml"
	StoreDriverSQLite = "sqlite"
	StoreDriverMySQL  = "mysql"
	StoreDriverRedis  = "redis"
)

type Config struct {
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Store     StoreConfig     `mapstructure:"store"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Server    ServerConfig    `mapstructure:"server"`
	Remote    RemoteConfig    `mapstructure:"remote"`
	Review    ReviewConfig    `mapstructure:"review"`
	Report    ReportConfig    `mapstructure:"report"`
}

type SchedulerConfig struct {
	Intervals IntervalsConfig `mapstructure:"intervals"`
}

// IntervalsConfig holds the base interval of each difficulty.
type IntervalsConfig struct {
	Again time.Duration `mapstructure:"again" validate:"gt=0"`
	Hard  time.Duration `mapstructure:"hard" validate:"gt=0"`
	Good  time.Duration `mapstructure:"good" validate:"gt=0"`
	Easy  time.Duration `mapstructure:"easy" validate:"gt=0"`
}

// Table builds the immutable interval table shared by every scheduler of the process.
func (c IntervalsConfig) Table() (*scheduler.IntervalTable, error) {
	return scheduler.NewIntervalTable(c.Again, c.Hard, c.Good, c.Easy)
}

type StoreConfig struct {
	Driver     string `mapstructure:"driver" validate:"oneof=memory yaml sqlite mysql redis"`
	YAMLFile   string `mapstructure:"yaml_file" validate:"required_if=Driver yaml"`
	SQLitePath string `mapstructure:"sqlite_path" validate:"required_if=Driver sqlite"`
}

type DatabaseConfig struct {
	Host            string            `mapstructure:"host"`
	Port            int               `mapstructure:"port"`
	Database        string            `mapstructure:"database"`
	Username        string            `mapstructure:"username"`
	Password        string            `mapstructure:"password"`
	TLS             bool              `mapstructure:"tls"`
	Params          map[string]string `mapstructure:"params"`
	MaxOpenConns    int               `mapstructure:"max_open_conns"`
	MaxIdleConns    int               `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int               `mapstructure:"conn_max_lifetime_seconds"`
}

type RedisConfig struct {
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db" validate:"gte=0"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

type ServerConfig struct {
	Port int        `mapstructure:"port" validate:"gte=0,lte=65535"`
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// RemoteConfig points the CLI at a running recall server instead of a local store.
type RemoteConfig struct {
	URL     string        `mapstructure:"url" validate:"omitempty,url"`
	Timeout time.Duration `mapstructure:"timeout" validate:"gte=0"`
}

type ReviewConfig struct {
	MaxRetryAttempts uint          `mapstructure:"max_retry_attempts" validate:"gte=1"`
	RetryDelay       time.Duration `mapstructure:"retry_delay" validate:"gte=0"`
	DueLimit         int           `mapstructure:"due_limit" validate:"gte=0"`
}

type ReportConfig struct {
	TemplatePath    string `mapstructure:"template_path" validate:"omitempty,file"`
	OutputDirectory string `mapstructure:"output_directory" validate:"omitempty,outdir"`
}

type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/recall")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
	}, nil
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	v.SetDefault("scheduler.intervals.again", scheduler.DefaultAgainInterval)
	v.SetDefault("scheduler.intervals.hard", scheduler.DefaultHardInterval)
	v.SetDefault("scheduler.intervals.good", scheduler.DefaultGoodInterval)
	v.SetDefault("scheduler.intervals.easy", scheduler.DefaultEasyInterval)
	v.SetDefault("store.driver", StoreDriverYAML)
	v.SetDefault("store.yaml_file", filepath.Join("data", "schedule.yml"))
	v.SetDefault("store.sqlite_path", filepath.Join("data", "recall.db"))
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.database", "recall")
	v.SetDefault("database.username", "user")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.key_prefix", "recall")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("remote.timeout", 10*time.Second)
	v.SetDefault("review.max_retry_attempts", 3)
	v.SetDefault("review.retry_delay", 50*time.Millisecond)
	v.SetDefault("review.due_limit", 0)
	v.SetDefault("report.output_directory", filepath.Join("outputs", "reports"))

	// Secrets are bound to environment variables only
	if err := v.BindEnv("database.password", "DB_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind DB_PASSWORD environment variable: %w", err)
	}
	if err := v.BindEnv("redis.password", "REDIS_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind REDIS_PASSWORD environment variable: %w", err)
	}
	if err := v.BindEnv("remote.url", "RECALL_SERVER_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind RECALL_SERVER_URL environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := loader.validator.Struct(cfg); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMsgs []string
		for _, e := range validationErrors {
			errorMsgs = append(errorMsgs, e.Translate(loader.translator))
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errorMsgs, ", "))
	}

	return &cfg, nil
}
