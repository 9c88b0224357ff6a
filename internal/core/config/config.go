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
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
}

type AdminHTTP struct {
	Host string
	Port int
}

type App struct {
	Name           string
	Env            string
	HTTP           HTTP
	Admin          AdminHTTP
	AllowedOrigins []string
}

type Rotate struct {
	Enable     bool
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type Log struct {
	Level  string
	JSON   bool
	Rotate Rotate
}

type JWT struct {
	Secret            string
	Issuer            string
	AccessTokenTTLMin int
}

func (j JWT) TTL() time.Duration { return time.Duration(j.AccessTokenTTLMin) * time.Minute }

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type Cache struct {
	Enable bool
	Prefix string
	TTLSec int
}

func (c Cache) TTL() time.Duration { return time.Duration(c.TTLSec) * time.Second }

type DB struct {
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
	SlowThresholdMs    int
}

// Payment 选择支付实现：stripe 或 local。
// EnrollOn 指定唯一负责开通课程的确认通道：webhook 或 client
type Payment struct {
	Provider      string
	SecretKey     string
	WebhookSecret string
	Currency      string
	EnrollOn      string
}

type Casdoor struct {
	Endpoint     string
	ClientID     string
	ClientSecret string
	Certificate  string
	Organization string
	Application  string
}

// Identity 选择登录断言的校验方式：casdoor 或 hmac
type Identity struct {
	Provider string
	Secret   string
	Issuer   string
	Casdoor  Casdoor
}

type Limits struct {
	RatePerSec        float64
	Burst             int
	MaxConcurrent     int64
	MaxBodyBytes      int64
	RequestTimeoutSec int
	ContactPerMinute  int
}

type Config struct {
	App      App
	Log      Log
	JWT      JWT
	DB       DB
	Redis    Redis `mapstructure:"redis"`
	Cache    Cache
	Payment  Payment
	Identity Identity
	Limits   Limits
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "studio-marketplace")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 8080)
	v.SetDefault("app.http.readTimeoutSec", 15)
	v.SetDefault("app.http.writeTimeoutSec", 15)
	v.SetDefault("app.http.idleTimeoutSec", 60)
	v.SetDefault("app.admin.host", "127.0.0.1")
	v.SetDefault("app.admin.port", 8081)
	v.SetDefault("log.level", "info")
	v.SetDefault("jwt.issuer", "studio-marketplace")
	v.SetDefault("jwt.accessTokenTTLMin", 7*24*60)
	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "file:studio.db?_pragma=foreign_keys(1)")
	v.SetDefault("db.maxOpenConns", 20)
	v.SetDefault("db.maxIdleConns", 10)
	v.SetDefault("db.connMaxLifetimeMin", 30)
	v.SetDefault("db.logLevel", "warn")
	v.SetDefault("db.slowThresholdMs", 200)
	v.SetDefault("cache.prefix", "studio:")
	v.SetDefault("cache.ttlSec", 60)
	v.SetDefault("payment.provider", "local")
	v.SetDefault("payment.currency", "usd")
	v.SetDefault("payment.enrollOn", "webhook")
	v.SetDefault("identity.provider", "hmac")
	v.SetDefault("limits.ratePerSec", 50)
	v.SetDefault("limits.burst", 100)
	v.SetDefault("limits.maxConcurrent", 256)
	v.SetDefault("limits.maxBodyBytes", 1<<20)
	v.SetDefault("limits.requestTimeoutSec", 10)
	v.SetDefault("limits.contactPerMinute", 5)
}

// Load 读取 path（为空时取 CONFIG_PATH 或本地默认文件），
// 再用 APP_* 环境变量覆盖，例如 APP_DB_DSN
func Load(path string) (*Config, error) {
	v := viper.New()
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
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

func MustLoad(path string) *Config {
	c, err := Load(path)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return c
}

func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("config: jwt.secret is required")
	}
	switch c.Payment.Provider {
	case "local":
	case "stripe":
		if c.Payment.SecretKey == "" || c.Payment.WebhookSecret == "" {
			return fmt.Errorf("config: payment.secretKey and payment.webhookSecret are required for stripe")
		}
	default:
		return fmt.Errorf("config: unknown payment.provider %q", c.Payment.Provider)
	}
	switch c.Payment.EnrollOn {
	case "", "webhook", "client":
	default:
		return fmt.Errorf("config: unknown payment.enrollOn %q", c.Payment.EnrollOn)
	}
	switch c.Identity.Provider {
	case "hmac":
		if c.Identity.Secret == "" {
			return fmt.Errorf("config: identity.secret is required for hmac")
		}
	case "casdoor":
		if c.Identity.Casdoor.Endpoint == "" || c.Identity.Casdoor.Certificate == "" {
			return fmt.Errorf("config: identity.casdoor.endpoint and certificate are required")
		}
	default:
		return fmt.Errorf("config: unknown identity.provider %q", c.Identity.Provider)
	}
	return nil
}
