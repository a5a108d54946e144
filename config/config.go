package config

import (
	"bytes"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"

	"planner/tracker"
)

// Config 应用配置
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Log       LogConfig       `mapstructure:"log"`
	Tracker   TrackerConfig   `mapstructure:"tracker"`
	Recurring RecurringConfig `mapstructure:"recurring"`
	Email     EmailConfig     `mapstructure:"email"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port         string          `mapstructure:"port"`
	Mode         string          `mapstructure:"mode"`
	BaseURL      string          `mapstructure:"base_url"`
	ReadTimeout  time.Duration   `mapstructure:"read_timeout"`
	WriteTimeout time.Duration   `mapstructure:"write_timeout"`
	RateLimit    RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig 写接口限流
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	Charset         string        `mapstructure:"charset"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	LogLevel        string        `mapstructure:"log_level"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// TrackerConfig 打卡与任务相关的业务规则
type TrackerConfig struct {
	Timezone       string `mapstructure:"timezone"`
	SubtaskCascade string `mapstructure:"subtask_cascade"`
	StreakPolicy   string `mapstructure:"streak_policy"`

	Location *time.Location        `mapstructure:"-"`
	Cascade  tracker.CascadePolicy `mapstructure:"-"`
	Streak   tracker.StreakPolicy  `mapstructure:"-"`
}

// RecurringConfig 周期性支出自动生成
type RecurringConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Cron    string `mapstructure:"cron"`
}

// EmailConfig 邮件配置
type EmailConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
	AlertTo  string `mapstructure:"alert_to"`
}

// MetricsConfig 指标配置
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

var (
	// GlobalConfig 全局配置实例
	GlobalConfig *Config
)

// LoadConfig 加载配置
// 优先级: 环境变量 > 外部配置文件 > 嵌入的默认配置
// configPath: 可选的外部配置文件路径
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	// 1. 首先加载嵌入的默认配置
	if err := v.ReadConfig(bytes.NewReader(DefaultConfigYAML)); err != nil {
		return nil, fmt.Errorf("读取内置配置失败: %w", err)
	}
	log.Println("已加载内置默认配置")

	// 2. 尝试加载外部配置文件（可选，用于覆盖默认配置）
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.MergeInConfig(); err != nil {
			log.Printf("警告: 无法读取指定配置文件 %s: %v", configPath, err)
		} else {
			log.Printf("已合并外部配置文件: %s", configPath)
		}
	} else {
		externalViper := viper.New()
		externalViper.SetConfigName("config")
		externalViper.SetConfigType("yaml")
		externalViper.AddConfigPath(".")
		externalViper.AddConfigPath("./config")
		externalViper.AddConfigPath("/etc/planner")
		externalViper.AddConfigPath("$HOME/.planner")

		if err := externalViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(externalViper.AllSettings()); err != nil {
				log.Printf("警告: 合并外部配置失败: %v", err)
			} else {
				log.Printf("已合并外部配置文件: %s", externalViper.ConfigFileUsed())
			}
		}
	}

	// 3. 支持环境变量覆盖，如 PLANNER_DATABASE_HOST
	v.SetEnvPrefix("PLANNER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}
	if err := cfg.resolve(); err != nil {
		return nil, err
	}

	GlobalConfig = &cfg

	return &cfg, nil
}

// resolve 校验业务规则并填充派生字段
func (c *Config) resolve() error {
	loc, err := tracker.LoadLocation(c.Tracker.Timezone)
	if err != nil {
		return fmt.Errorf("时区配置错误 %q: %w", c.Tracker.Timezone, err)
	}
	c.Tracker.Location = loc

	if c.Tracker.Cascade, err = tracker.ParseCascadePolicy(c.Tracker.SubtaskCascade); err != nil {
		return err
	}
	if c.Tracker.Streak, err = tracker.ParseStreakPolicy(c.Tracker.StreakPolicy); err != nil {
		return err
	}

	if c.Server.RateLimit.Requests <= 0 {
		c.Server.RateLimit.Requests = 60
	}
	if c.Server.RateLimit.Window <= 0 {
		c.Server.RateLimit.Window = time.Minute
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	return nil
}

// GetConfig 获取全局配置
func GetConfig() *Config {
	if GlobalConfig == nil {
		panic("配置未初始化，请先调用 LoadConfig")
	}
	return GlobalConfig
}

// PrintConfig 打印当前配置（隐藏敏感信息）
func PrintConfig() {
	if GlobalConfig == nil {
		return
	}
	log.Printf("当前配置:")
	log.Printf("  服务器: %s (模式: %s)", GlobalConfig.Server.Port, GlobalConfig.Server.Mode)
	log.Printf("  数据库: %s@%s:%s/%s",
		GlobalConfig.Database.Username,
		GlobalConfig.Database.Host,
		GlobalConfig.Database.Port,
		GlobalConfig.Database.DBName)
	log.Printf("  时区: %s  子任务联动: %s  连续天数规则: %s",
		GlobalConfig.Tracker.Location,
		GlobalConfig.Tracker.Cascade,
		GlobalConfig.Tracker.Streak)
	log.Printf("  周期支出自动生成: %v (%s)", GlobalConfig.Recurring.Enabled, GlobalConfig.Recurring.Cron)
	log.Printf("  邮件服务: %v", GlobalConfig.Email.Enabled)
}
