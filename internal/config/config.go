/**
 * 配置管理
 * @author: sun977
 * @date: 2026.03.16
 * @description: 配置管理，负责加载和管理所有配置。
 * 扫描策略 (scan.policy) 是安全边界的一部分，加载时必须校验。
 */
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"neorecon/internal/core/lib/safeurl"
)

// Config 全局配置
type Config struct {
	// 应用配置
	App *AppConfig `yaml:"app" mapstructure:"app"`

	// 日志配置
	Log *LogConfig `yaml:"log" mapstructure:"log"`

	// 扫描配置
	Scan *ScanConfig `yaml:"scan" mapstructure:"scan"`
}

// AppConfig 应用配置
type AppConfig struct {
	Name        string `yaml:"name" mapstructure:"name"`               // 应用名称
	Version     string `yaml:"version" mapstructure:"version"`         // 应用版本
	Environment string `yaml:"environment" mapstructure:"environment"` // 运行环境
	Debug       bool   `yaml:"debug" mapstructure:"debug"`             // 调试模式
	Timezone    string `yaml:"timezone" mapstructure:"timezone"`       // 时区
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string `yaml:"level" mapstructure:"level"`             // 日志级别 (debug/info/warn/error)
	Format     string `yaml:"format" mapstructure:"format"`           // 日志格式 (json/text)
	Output     string `yaml:"output" mapstructure:"output"`           // 日志输出 (stdout/file/both)
	FilePath   string `yaml:"file_path" mapstructure:"file_path"`     // 日志文件路径
	MaxSize    int    `yaml:"max_size" mapstructure:"max_size"`       // 最大文件大小（MB）
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"` // 最大备份数
	MaxAge     int    `yaml:"max_age" mapstructure:"max_age"`         // 最大保留天数
	Compress   bool   `yaml:"compress" mapstructure:"compress"`       // 是否压缩
	Caller     bool   `yaml:"caller" mapstructure:"caller"`           // 是否显示调用者信息
}

// ScanConfig 扫描配置
type ScanConfig struct {
	// 出站访问策略，所有扫描器共享
	Policy safeurl.Policy `yaml:"policy" mapstructure:"policy"`

	// 子域名枚举配置
	Subdomain SubdomainConfig `yaml:"subdomain" mapstructure:"subdomain"`

	// 站点爬取配置
	Crawler CrawlerConfig `yaml:"crawler" mapstructure:"crawler"`
}

// SubdomainConfig 子域名枚举配置
type SubdomainConfig struct {
	BatchSize      int           `yaml:"batch_size" mapstructure:"batch_size"`           // 每批并发探测数
	DNSTimeout     time.Duration `yaml:"dns_timeout" mapstructure:"dns_timeout"`         // 单次 DNS 解析超时
	ProbeTimeout   time.Duration `yaml:"probe_timeout" mapstructure:"probe_timeout"`     // 单次 HTTP HEAD 超时
	MaxDiscoveries int           `yaml:"max_discoveries" mapstructure:"max_discoveries"` // 早停阈值
	WildcardFilter string        `yaml:"wildcard_filter" mapstructure:"wildcard_filter"` // 泛解析过滤 (ip-equality/off)
}

// CrawlerConfig 站点爬取配置
type CrawlerConfig struct {
	BatchSize    int           `yaml:"batch_size" mapstructure:"batch_size"`       // 每批并发抓取数
	MaxPages     int           `yaml:"max_pages" mapstructure:"max_pages"`         // 页数上限
	TimeBudget   time.Duration `yaml:"time_budget" mapstructure:"time_budget"`     // 单次爬取墙钟预算
	FetchTimeout time.Duration `yaml:"fetch_timeout" mapstructure:"fetch_timeout"` // 单次页面抓取超时
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"` // 响应体读取上限
}

// LoadConfig 加载配置
func LoadConfig(configPath ...string) (*Config, error) {
	var path string
	if len(configPath) > 0 && configPath[0] != "" {
		path = configPath[0]
	}

	loader := NewConfigLoader(path, "NEORECON")
	config, err := loader.LoadConfig()
	if err != nil {
		return nil, err
	}

	// 设置全局配置
	globalConfig = config
	return config, nil
}

// ParseConfigFile 直接解析单个配置文件 (yaml/json)，不合并环境变量与默认值
// 用于校验一份配置文件本身是否合法
func ParseConfigFile(path string) (*Config, error) {
	cfg := &Config{}
	if err := loadConfigFile(cfg, path); err != nil {
		return nil, err
	}
	if err := validateScanConfig(cfg.Scan); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadConfigFile 从配置文件加载
func loadConfigFile(cfg *Config, configPath string) error {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return fmt.Errorf("config file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// 根据文件扩展名选择解析方式
	ext := filepath.Ext(configPath)
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse YAML config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse JSON config: %w", err)
		}
	default:
		return fmt.Errorf("unsupported config file format: %s", ext)
	}

	return nil
}

// validateScanConfig 校验扫描配置
// 策略字段是安全边界，取值非法时拒绝整个配置而不是悄悄回落
func validateScanConfig(scan *ScanConfig) error {
	if scan == nil {
		return fmt.Errorf("scan config is required")
	}

	if scan.Policy.MaxRedirects < 0 {
		return fmt.Errorf("invalid scan.policy.max_redirects: %d", scan.Policy.MaxRedirects)
	}
	for _, proto := range scan.Policy.AllowedProtocols {
		if proto != "http" && proto != "https" {
			return fmt.Errorf("unsupported protocol in scan.policy.allowed_protocols: %s", proto)
		}
	}

	switch scan.Subdomain.WildcardFilter {
	case "", "ip-equality", "off":
	default:
		return fmt.Errorf("invalid scan.subdomain.wildcard_filter: %s", scan.Subdomain.WildcardFilter)
	}

	if scan.Subdomain.BatchSize < 0 || scan.Crawler.BatchSize < 0 {
		return fmt.Errorf("batch size cannot be negative")
	}
	if scan.Crawler.MaxPages < 0 {
		return fmt.Errorf("invalid scan.crawler.max_pages: %d", scan.Crawler.MaxPages)
	}

	return nil
}

// GetConfig 获取配置（单例模式）
var globalConfig *Config

func GetConfig() *Config {
	if globalConfig == nil {
		var err error
		globalConfig, err = LoadConfig("")
		if err != nil {
			panic(fmt.Sprintf("Failed to load config: %v", err))
		}
	}
	return globalConfig
}

// ReloadConfig 重新加载配置
func ReloadConfig() error {
	newConfig, err := LoadConfig("")
	if err != nil {
		return err
	}

	globalConfig = newConfig
	return nil
}
