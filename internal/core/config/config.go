package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	ReadTimeoutSec  int    `mapstructure:"read_timeout_sec"`
	WriteTimeoutSec int    `mapstructure:"write_timeout_sec"`
	IdleTimeoutSec  int    `mapstructure:"idle_timeout_sec"`
}

type AdminHTTP struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type App struct {
	Name  string    `mapstructure:"name"`
	Env   string    `mapstructure:"env"`
	HTTP  HTTP      `mapstructure:"http"`
	Admin AdminHTTP `mapstructure:"admin"`
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
	Secret            string `mapstructure:"secret"`
	Issuer            string `mapstructure:"issuer"`
	AccessTokenTTLMin int    `mapstructure:"access_token_ttl_min"`
}

// Security 密码哈希的 pepper 与 bcrypt 成本
type Security struct {
	Secret     string `mapstructure:"secret"`
	BcryptCost int    `mapstructure:"bcrypt_cost"`
}

// Seed 启动时对齐的唯一管理员
type Seed struct {
	AdminEmail    string `mapstructure:"admin_email"`
	AdminPassword string `mapstructure:"admin_password"`
	AdminName     string `mapstructure:"admin_name"`
}

type DB struct {
	Driver             string `mapstructure:"driver"` // postgres / mysql / sqlite / mongo
	DSN                string `mapstructure:"dsn"`
	Name               string `mapstructure:"name"` // mongo 库名
	Username           string `mapstructure:"username"`
	Password           string `mapstructure:"password"`
	MaxOpenConns       int    `mapstructure:"max_open_conns"`
	MaxIdleConns       int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeMin int    `mapstructure:"conn_max_lifetime_min"`
	AutoMigrate        bool   `mapstructure:"auto_migrate"`
	LogLevel           string `mapstructure:"log_level"`
}

type Redis struct {
	Addr           string `mapstructure:"addr"` // 为空则不启用缓存
	Password       string `mapstructure:"password"`
	DB             int    `mapstructure:"db"`
	ProductsTTLSec int    `mapstructure:"products_ttl_sec"`
}

type MQ struct {
	URL      string `mapstructure:"url"` // 为空则不发事件
	Exchange string `mapstructure:"exchange"`
}

type Trace struct {
	Endpoint    string `mapstructure:"endpoint"` // OTLP gRPC，为空则不导出
	ServiceName string `mapstructure:"service_name"`
}

type Limits struct {
	RPS            float64 `mapstructure:"rps"`
	Burst          int     `mapstructure:"burst"`
	PerIPRPS       float64 `mapstructure:"per_ip_rps"`
	PerIPBurst     int     `mapstructure:"per_ip_burst"`
	MaxInFlight    int64   `mapstructure:"max_in_flight"`
	MaxBodyBytes   int64   `mapstructure:"max_body_bytes"`
	RequestTimeout int     `mapstructure:"request_timeout_sec"`
}

type Config struct {
	App      App      `mapstructure:"app"`
	Log      Log      `mapstructure:"log"`
	JWT      JWT      `mapstructure:"jwt"`
	Security Security `mapstructure:"security"`
	Seed     Seed     `mapstructure:"seed"`
	DB       DB       `mapstructure:"db"`
	Redis    Redis    `mapstructure:"redis"`
	MQ       MQ       `mapstructure:"mq"`
	Trace    Trace    `mapstructure:"trace"`
	Limits   Limits   `mapstructure:"limits"`
}

const DefaultSecret = "super-secret-key"

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "fruito-api")
	v.SetDefault("app.env", "dev")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 8000)
	v.SetDefault("app.http.read_timeout_sec", 5)
	v.SetDefault("app.http.write_timeout_sec", 10)
	v.SetDefault("app.http.idle_timeout_sec", 60)
	v.SetDefault("app.admin.host", "127.0.0.1")
	v.SetDefault("app.admin.port", 8001)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("log.file.enable", false)
	v.SetDefault("log.file.filename", "logs/app.log")
	v.SetDefault("log.file.max_size_mb", 100)
	v.SetDefault("log.file.max_backups", 7)
	v.SetDefault("log.file.max_age_days", 30)
	v.SetDefault("log.file.compress", true)

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.issuer", "fruito-api")
	v.SetDefault("jwt.access_token_ttl_min", 120)

	v.SetDefault("security.secret", DefaultSecret)
	v.SetDefault("security.bcrypt_cost", 0)

	v.SetDefault("seed.admin_email", "admin@fruito.local")
	v.SetDefault("seed.admin_password", "change-me-admin")
	v.SetDefault("seed.admin_name", "Admin")

	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "")
	v.SetDefault("db.name", "")
	v.SetDefault("db.username", "")
	v.SetDefault("db.password", "")
	v.SetDefault("db.max_open_conns", 50)
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.conn_max_lifetime_min", 30)
	v.SetDefault("db.auto_migrate", true)
	v.SetDefault("db.log_level", "warn")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.products_ttl_sec", 60)

	v.SetDefault("mq.url", "")
	v.SetDefault("mq.exchange", "fruito.exchange")

	v.SetDefault("trace.endpoint", "")
	v.SetDefault("trace.service_name", "fruito-api")

	v.SetDefault("limits.rps", 200)
	v.SetDefault("limits.burst", 400)
	v.SetDefault("limits.per_ip_rps", 20)
	v.SetDefault("limits.per_ip_burst", 40)
	v.SetDefault("limits.max_in_flight", 300)
	v.SetDefault("limits.max_body_bytes", 1<<20)
	v.SetDefault("limits.request_timeout_sec", 10)
}

// 兼容老部署的环境变量名
func bindLegacyEnv(v *viper.Viper) {
	_ = v.BindEnv("security.secret", "APP_SECURITY_SECRET", "SECRET_KEY")
	_ = v.BindEnv("db.dsn", "APP_DB_DSN", "DATABASE_URL")
	_ = v.BindEnv("db.name", "APP_DB_NAME", "DATABASE_NAME")
	_ = v.BindEnv("app.http.port", "APP_APP_HTTP_PORT", "PORT")
}

// Load 读取 yaml + 环境变量；配置文件不存在时只用默认值和环境变量
func Load(path string) (*Config, error) {
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
	bindLegacyEnv(v)

	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) Validate() error {
	switch c.DB.Driver {
	case "postgres", "mysql", "sqlite":
	case "mongo":
		if c.DB.DSN == "" || c.DB.Name == "" {
			return errors.New("config: mongo requires db.dsn and db.name")
		}
	default:
		return fmt.Errorf("config: unsupported db.driver %q", c.DB.Driver)
	}
	if c.Seed.AdminEmail == "" || c.Seed.AdminPassword == "" {
		return errors.New("config: seed.admin_email and seed.admin_password are required")
	}
	if c.App.HTTP.Port <= 0 {
		return fmt.Errorf("config: invalid app.http.port %d", c.App.HTTP.Port)
	}
	return nil
}

// JWTSecret 未单独配置时复用 security.secret
func (c *Config) JWTSecret() string {
	if c.JWT.Secret != "" {
		return c.JWT.Secret
	}
	return c.Security.Secret
}

func (c *Config) IsProd() bool { return c.App.Env == "prod" || c.App.Env == "production" }
