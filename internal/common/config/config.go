// Package config 读取 YAML 配置文件、.env 与环境变量
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// 支持的数据库驱动
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// defaultJWTSecret 仅供本地开发，release 模式下拒绝启动
const defaultJWTSecret = "change-me-frontdesk-secret"

var (
	loaded  *Config
	loadErr error
	once    sync.Once
)

// Config 应用配置
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Crypto    CryptoConfig    `mapstructure:"crypto"`
	Logger    LoggerConfig    `mapstructure:"logger"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Business  BusinessConfig  `mapstructure:"business"`
}

type ServerConfig struct {
	Name            string `mapstructure:"name"`
	Mode            string `mapstructure:"mode"` // debug | release | test
	Port            int    `mapstructure:"port"`
	ReadTimeout     int    `mapstructure:"read_timeout"`
	WriteTimeout    int    `mapstructure:"write_timeout"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig sqlite 只用 Path，其余驱动使用网络连接参数
type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	Path            string `mapstructure:"path"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	Name            string `mapstructure:"name"`
	SSLMode         string `mapstructure:"sslmode"`
	Timezone        string `mapstructure:"timezone"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
	LogMode         bool   `mapstructure:"log_mode"`
	SlowThreshold   int    `mapstructure:"slow_threshold"`
}

// DSN 按驱动拼接连接串
func (d *DatabaseConfig) DSN() string {
	switch d.Driver {
	case DriverPostgres:
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
			d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode, d.Timezone)
	case DriverMySQL:
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			d.User, d.Password, d.Host, d.Port, d.Name)
	}
	if d.Path == ":memory:" {
		return d.Path
	}
	return "file:" + d.Path + "?_foreign_keys=on"
}

type RedisConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Password     string `mapstructure:"password"`
	DB           int    `mapstructure:"db"`
	PoolSize     int    `mapstructure:"pool_size"`
	MinIdleConns int    `mapstructure:"min_idle_conns"`
	DialTimeout  int    `mapstructure:"dial_timeout"`
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
}

func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// JWTConfig 有效期单位为小时
type JWTConfig struct {
	Secret             string `mapstructure:"secret"`
	AccessTokenExpire  int    `mapstructure:"access_token_expire"`
	RefreshTokenExpire int    `mapstructure:"refresh_token_expire"`
	Issuer             string `mapstructure:"issuer"`
}

func (j *JWTConfig) AccessTokenDuration() time.Duration {
	return time.Duration(j.AccessTokenExpire) * time.Hour
}

func (j *JWTConfig) RefreshTokenDuration() time.Duration {
	return time.Duration(j.RefreshTokenExpire) * time.Hour
}

type CryptoConfig struct {
	BcryptCost int `mapstructure:"bcrypt_cost"`
}

// LoggerConfig Output 取值 stdout | file | both，文件按 MaxSize(MB) 滚动
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
	Caller     bool   `mapstructure:"caller"`
}

type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
	Path      string `mapstructure:"path"`
}

type TracingConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	ServiceName string  `mapstructure:"service_name"`
	Endpoint    string  `mapstructure:"endpoint"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerSecond int  `mapstructure:"requests_per_second"`
	Burst             int  `mapstructure:"burst"`
	LoginPerMinute    int  `mapstructure:"login_per_minute"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type BusinessConfig struct {
	FrontDesk FrontDeskConfig `mapstructure:"frontdesk"`
}

// FrontDeskConfig 前台业务参数，时间间隔单位为秒
type FrontDeskConfig struct {
	StatsCacheTTL        int    `mapstructure:"stats_cache_ttl"`
	DefaultAdminUsername string `mapstructure:"default_admin_username"`
	DefaultAdminPassword string `mapstructure:"default_admin_password"`
	SeedSampleRooms      bool   `mapstructure:"seed_sample_rooms"`
	SchedulerEnabled     bool   `mapstructure:"scheduler_enabled"`
	GaugeRefreshInterval int    `mapstructure:"gauge_refresh_interval"`
	OverdueScanInterval  int    `mapstructure:"overdue_scan_interval"`
}

func (f *FrontDeskConfig) StatsCacheDuration() time.Duration {
	return time.Duration(f.StatsCacheTTL) * time.Second
}

func (f *FrontDeskConfig) GaugeRefreshDuration() time.Duration {
	return time.Duration(f.GaugeRefreshInterval) * time.Second
}

func (f *FrontDeskConfig) OverdueScanDuration() time.Duration {
	return time.Duration(f.OverdueScanInterval) * time.Second
}

// Load 进程内只读取并校验一次
func Load(configPath string) (*Config, error) {
	once.Do(func() {
		loaded, loadErr = New(configPath)
		if loadErr == nil {
			loadErr = loaded.Validate()
		}
	})
	return loaded, loadErr
}

// New 读取配置，优先级: 环境变量 > .env > 配置文件 > 默认值
func New(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("读取 .env 失败: %w", err)
	}

	v := viper.New()
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}
	return cfg, nil
}

// Validate 检查启动前必须满足的配置
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite, DriverPostgres, DriverMySQL:
	default:
		return fmt.Errorf("不支持的数据库驱动: %q", c.Database.Driver)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("无效的端口: %d", c.Server.Port)
	}
	if c.JWT.Secret == "" {
		return errors.New("jwt.secret 不能为空")
	}
	if c.IsRelease() && c.JWT.Secret == defaultJWTSecret {
		return errors.New("release 模式必须配置 jwt.secret")
	}
	switch c.Logger.Output {
	case "stdout", "file", "both":
	default:
		return fmt.Errorf("无效的日志输出: %q", c.Logger.Output)
	}
	return nil
}

// IsRelease production 视同 release
func (c *Config) IsRelease() bool {
	return c.Server.Mode == "release" || c.Server.Mode == "production"
}

// GinMode 对应的 gin 运行模式
func (c *Config) GinMode() string {
	switch {
	case c.IsRelease():
		return gin.ReleaseMode
	case c.Server.Mode == "test":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}

var defaults = map[string]interface{}{
	"server.name":             "hotel-frontdesk",
	"server.mode":             "debug",
	"server.port":             8080,
	"server.read_timeout":     30,
	"server.write_timeout":    30,
	"server.shutdown_timeout": 10,

	"database.driver":            DriverSQLite,
	"database.path":              "./data/hotel.db",
	"database.host":              "localhost",
	"database.port":              5432,
	"database.user":              "hotel",
	"database.password":          "hotel",
	"database.name":              "hotel",
	"database.sslmode":           "disable",
	"database.timezone":          "UTC",
	"database.max_idle_conns":    1,
	"database.max_open_conns":    1,
	"database.conn_max_lifetime": 60,
	"database.log_mode":          false,
	"database.slow_threshold":    200,

	"redis.enabled":        false,
	"redis.host":           "localhost",
	"redis.port":           6379,
	"redis.password":       "",
	"redis.db":             0,
	"redis.pool_size":      10,
	"redis.min_idle_conns": 1,
	"redis.dial_timeout":   5,
	"redis.read_timeout":   3,
	"redis.write_timeout":  3,

	"jwt.secret":               defaultJWTSecret,
	"jwt.access_token_expire":  12,
	"jwt.refresh_token_expire": 168,
	"jwt.issuer":               "hotel-frontdesk",

	"crypto.bcrypt_cost": 10,

	"logger.level":       "info",
	"logger.format":      "console",
	"logger.output":      "stdout",
	"logger.file_path":   "./logs/frontdesk.log",
	"logger.max_size":    50,
	"logger.max_backups": 5,
	"logger.max_age":     30,
	"logger.compress":    true,
	"logger.caller":      true,

	"metrics.enabled":   true,
	"metrics.namespace": "frontdesk",
	"metrics.path":      "/metrics",

	"tracing.enabled":      false,
	"tracing.service_name": "hotel-frontdesk",
	"tracing.sample_rate":  1.0,

	"ratelimit.enabled":             true,
	"ratelimit.requests_per_second": 50,
	"ratelimit.burst":               100,
	"ratelimit.login_per_minute":    10,

	"cors.allowed_origins":   []string{"*"},
	"cors.allowed_methods":   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
	"cors.allowed_headers":   []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
	"cors.exposed_headers":   []string{"X-Request-ID"},
	"cors.allow_credentials": true,
	"cors.max_age":           86400,

	"business.frontdesk.stats_cache_ttl":        30,
	"business.frontdesk.default_admin_username": "admin",
	"business.frontdesk.default_admin_password": "1234",
	"business.frontdesk.seed_sample_rooms":      true,
	"business.frontdesk.scheduler_enabled":      true,
	"business.frontdesk.gauge_refresh_interval": 60,
	"business.frontdesk.overdue_scan_interval":  300,
}
