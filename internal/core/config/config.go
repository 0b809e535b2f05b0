package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host              string `mapstructure:"host"`
	Port              int    `mapstructure:"port"`
	ReadTimeoutSec    int    `mapstructure:"read_timeout_sec"`
	WriteTimeoutSec   int    `mapstructure:"write_timeout_sec"`
	IdleTimeoutSec    int    `mapstructure:"idle_timeout_sec"`
	HandlerTimeoutSec int    `mapstructure:"handler_timeout_sec"`
}

type App struct {
	Name  string `mapstructure:"name"`
	Env   string `mapstructure:"env"`
	HTTP  HTTP   `mapstructure:"http"`
	Admin HTTP   `mapstructure:"admin"`
}

type LogFile struct {
	Enable     bool   `mapstructure:"enable"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

type Log struct {
	Level string  `mapstructure:"level"`
	JSON  bool    `mapstructure:"json"`
	File  LogFile `mapstructure:"file"`
}

type JWT struct {
	Secret             string `mapstructure:"secret"`
	Issuer             string `mapstructure:"issuer"`
	Audience           string `mapstructure:"audience"`
	AccessTokenTTLMin  int    `mapstructure:"access_token_ttl_min"`
	RefreshTokenTTLDay int    `mapstructure:"refresh_token_ttl_day"`
}

func (j JWT) AccessTTL() time.Duration  { return time.Duration(j.AccessTokenTTLMin) * time.Minute }
func (j JWT) RefreshTTL() time.Duration { return time.Duration(j.RefreshTokenTTLDay) * 24 * time.Hour }

type Redis struct {
	Enable    bool   `mapstructure:"enable"`
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	TTLMin    int    `mapstructure:"ttl_min"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

type DB struct {
	Driver             string `mapstructure:"driver"`
	DSN                string `mapstructure:"dsn"`
	Username           string `mapstructure:"username"`
	Password           string `mapstructure:"password"`
	MaxOpenConns       int    `mapstructure:"max_open_conns"`
	MaxIdleConns       int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeMin int    `mapstructure:"conn_max_lifetime_min"`
	AutoMigrate        bool   `mapstructure:"auto_migrate"`
	Seed               bool   `mapstructure:"seed"`
	LogLevel           string `mapstructure:"log_level"`
	PrepareStmt        bool   `mapstructure:"prepare_stmt"`
}

// RateLimit 每分钟请求数
type RateLimit struct {
	GeneralPerMin int `mapstructure:"general_per_min"`
	AuthPerMin    int `mapstructure:"auth_per_min"`
}

type Seed struct {
	AdminEmail    string `mapstructure:"admin_email"`
	AdminPassword string `mapstructure:"admin_password"`
}

type Config struct {
	App       App       `mapstructure:"app"`
	Log       Log       `mapstructure:"log"`
	JWT       JWT       `mapstructure:"jwt"`
	DB        DB        `mapstructure:"db"`
	Redis     Redis     `mapstructure:"redis"`
	RateLimit RateLimit `mapstructure:"ratelimit"`
	Seed      Seed      `mapstructure:"seed"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "realestate-api")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 8080)
	v.SetDefault("app.http.read_timeout_sec", 15)
	v.SetDefault("app.http.write_timeout_sec", 15)
	v.SetDefault("app.http.idle_timeout_sec", 60)
	v.SetDefault("app.http.handler_timeout_sec", 10)
	v.SetDefault("app.admin.host", "127.0.0.1")
	v.SetDefault("app.admin.port", 8081)
	v.SetDefault("app.admin.read_timeout_sec", 15)
	v.SetDefault("app.admin.write_timeout_sec", 15)
	v.SetDefault("app.admin.idle_timeout_sec", 60)
	v.SetDefault("app.admin.handler_timeout_sec", 10)
	v.SetDefault("log.level", "info")
	v.SetDefault("jwt.issuer", "realestate-api")
	v.SetDefault("jwt.access_token_ttl_min", 30)
	v.SetDefault("jwt.refresh_token_ttl_day", 7)
	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "file:realestate.db?_foreign_keys=1")
	v.SetDefault("db.max_open_conns", 1)
	v.SetDefault("db.max_idle_conns", 1)
	v.SetDefault("db.log_level", "warn")
	v.SetDefault("redis.ttl_min", 30)
	v.SetDefault("redis.key_prefix", "estate:")
	v.SetDefault("ratelimit.general_per_min", 100)
	v.SetDefault("ratelimit.auth_per_min", 5)
}

// Read 读取 yaml + APP_ 前缀环境变量；path 为空时依次取 CONFIG_PATH、./configs/config.local.yaml
func Read(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.JWT.Secret == "" {
		return nil, fmt.Errorf("jwt.secret is required")
	}
	return &c, nil
}

func Load(path string) *Config {
	c, err := Read(path)
	if err != nil {
		log.Fatalf("%v", err)
	}
	return c
}
