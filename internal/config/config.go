package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/aybjewelry-client/internal/logger"

	"github.com/spf13/viper"
)

// Config 应用配置结构
type Config struct {
	Mode    string        `mapstructure:"mode"` // debug / release
	API     APIConfig     `mapstructure:"api"`
	Log     LogConfig     `mapstructure:"log"`
	Session SessionConfig `mapstructure:"session"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Shop    ShopConfig    `mapstructure:"shop"`
}

// APIConfig 后端 REST 接口配置
type APIConfig struct {
	BaseURL   string `mapstructure:"base_url"`   // 后端地址
	TimeoutMS int    `mapstructure:"timeout_ms"` // 请求超时（毫秒）
}

// Timeout 返回请求超时时长
func (c APIConfig) Timeout() time.Duration {
	if c.TimeoutMS <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

// LogConfig 日志配置
type LogConfig struct {
	Dir        string `mapstructure:"dir"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// ToLoggerOptions 转换为 logger 配置
func (c LogConfig) ToLoggerOptions() logger.Options {
	return logger.Options{
		Dir:        c.Dir,
		Filename:   c.Filename,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
		Compress:   c.Compress,
	}
}

// SessionConfig 本地会话存储配置
type SessionConfig struct {
	Dir string `mapstructure:"dir"` // 会话文件目录，空则使用用户配置目录
}

// RedisConfig 商品目录缓存配置
type RedisConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Password        string `mapstructure:"password"`
	DB              int    `mapstructure:"db"`
	Prefix          string `mapstructure:"prefix"`
	CacheTTLSeconds int    `mapstructure:"cache_ttl_seconds"`
}

// CacheTTL 返回商品缓存 TTL
func (c RedisConfig) CacheTTL() time.Duration {
	if c.CacheTTLSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// ShopConfig 店铺配置
type ShopConfig struct {
	Currency string `mapstructure:"currency"` // 货币代码
}

// Load 从 config.yml 加载配置
func Load() *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./etc")
	viper.AddConfigPath("../")

	viper.SetDefault("mode", "debug")
	viper.SetDefault("api.base_url", "http://127.0.0.1:4000")
	viper.SetDefault("api.timeout_ms", 15000)
	viper.SetDefault("log.dir", "")
	viper.SetDefault("log.filename", "storefront.log")
	viper.SetDefault("log.max_size_mb", 50)
	viper.SetDefault("log.max_backups", 5)
	viper.SetDefault("log.max_age_days", 14)
	viper.SetDefault("log.compress", true)
	viper.SetDefault("session.dir", "")
	viper.SetDefault("redis.enabled", false)
	viper.SetDefault("redis.host", "127.0.0.1")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.prefix", "ayb")
	viper.SetDefault("redis.cache_ttl_seconds", 300)
	viper.SetDefault("shop.currency", "AMD")

	// 环境变量支持（api.base_url -> API_BASE_URL）
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		logger.Warnw("config_file_read_failed",
			"error", err,
			"fallback", "env_or_defaults",
		)
	} else {
		logger.Infow("config_file_loaded", "file", viper.ConfigFileUsed())
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		logger.Errorw("config_unmarshal_failed", "error", err)
		panic(fmt.Errorf("配置解析失败: %w", err))
	}

	return &cfg
}
