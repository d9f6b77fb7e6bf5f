package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// ConfigLoader 配置加载器
type ConfigLoader struct {
	configPath string
	envPrefix  string
	viper      *viper.Viper
}

// NewConfigLoader 创建配置加载器
func NewConfigLoader(configPath, envPrefix string) *ConfigLoader {
	if envPrefix == "" {
		envPrefix = "NEORECON"
	}

	return &ConfigLoader{
		configPath: configPath,
		envPrefix:  envPrefix,
		viper:      viper.New(),
	}
}

// LoadConfig 加载配置
func (cl *ConfigLoader) LoadConfig() (*Config, error) {
	// 先加载 .env 文件，使其中的变量对 viper 可见
	_ = InitGlobalEnvLoader()

	// 设置配置文件类型
	cl.viper.SetConfigType("yaml")

	// 设置环境变量前缀
	cl.viper.SetEnvPrefix(cl.envPrefix)
	cl.viper.AutomaticEnv()
	cl.viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 绑定环境变量
	cl.bindEnvVars()

	// 设置默认值
	cl.setDefaults()

	// 加载配置文件 (缺失不算错误，环境变量与默认值足以运行)
	if err := cl.loadConfigFile(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	// 解析配置
	var config Config
	if err := cl.viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 验证配置
	if err := cl.validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// loadConfigFile 加载配置文件
func (cl *ConfigLoader) loadConfigFile() error {
	if cl.configPath == "" {
		// 尝试从环境变量获取配置文件路径
		if envPath := os.Getenv("NEORECON_CONFIG_PATH"); envPath != "" {
			cl.configPath = envPath
		} else {
			// 默认配置文件路径
			cl.configPath = "./configs"
		}
	}

	// 获取环境
	env := cl.getEnvironment()

	// 设置配置文件搜索路径
	cl.viper.AddConfigPath(cl.configPath)
	cl.viper.AddConfigPath("./configs")
	cl.viper.AddConfigPath(".")

	// 尝试加载环境特定的配置文件
	configName := fmt.Sprintf("config.%s", env)
	cl.viper.SetConfigName(configName)

	if err := cl.viper.ReadInConfig(); err != nil {
		// 如果环境特定配置文件不存在，尝试加载默认配置文件
		cl.viper.SetConfigName("config")
		if err := cl.viper.ReadInConfig(); err != nil {
			return err
		}
	}

	return nil
}

// getEnvironment 获取运行环境
func (cl *ConfigLoader) getEnvironment() string {
	env := os.Getenv("NEORECON_ENV")
	if env == "" {
		env = os.Getenv("GO_ENV")
	}
	if env == "" {
		env = "development"
	}
	return env
}

// bindEnvVars 绑定环境变量
func (cl *ConfigLoader) bindEnvVars() {
	// App配置
	cl.viper.BindEnv("app.name", "NEORECON_APP_NAME")
	cl.viper.BindEnv("app.version", "NEORECON_APP_VERSION")
	cl.viper.BindEnv("app.environment", "NEORECON_APP_ENVIRONMENT")
	cl.viper.BindEnv("app.debug", "NEORECON_APP_DEBUG")
	cl.viper.BindEnv("app.timezone", "NEORECON_APP_TIMEZONE")

	// 日志配置
	cl.viper.BindEnv("log.level", "NEORECON_LOG_LEVEL")
	cl.viper.BindEnv("log.file_path", "NEORECON_LOG_FILE_PATH")

	// 扫描策略
	cl.viper.BindEnv("scan.policy.allow_private_ips", "NEORECON_SCAN_ALLOW_PRIVATE_IPS")
	cl.viper.BindEnv("scan.policy.max_redirects", "NEORECON_SCAN_MAX_REDIRECTS")

	// 枚举/爬取参数
	cl.viper.BindEnv("scan.subdomain.wildcard_filter", "NEORECON_SCAN_WILDCARD_FILTER")
	cl.viper.BindEnv("scan.crawler.max_pages", "NEORECON_SCAN_MAX_PAGES")
	cl.viper.BindEnv("scan.crawler.time_budget", "NEORECON_SCAN_TIME_BUDGET")
}

// setDefaults 设置默认值
func (cl *ConfigLoader) setDefaults() {
	// App默认值
	cl.viper.SetDefault("app.name", "NeoRecon")
	cl.viper.SetDefault("app.version", "1.0.0")
	cl.viper.SetDefault("app.environment", "development")
	cl.viper.SetDefault("app.debug", false)
	cl.viper.SetDefault("app.timezone", "UTC")

	// 日志默认值
	cl.viper.SetDefault("log.level", "info")
	cl.viper.SetDefault("log.format", "json")
	cl.viper.SetDefault("log.output", "stdout")
	cl.viper.SetDefault("log.file_path", "./logs/neorecon.log")
	cl.viper.SetDefault("log.max_size", 100)
	cl.viper.SetDefault("log.max_backups", 3)
	cl.viper.SetDefault("log.max_age", 28)
	cl.viper.SetDefault("log.compress", true)
	cl.viper.SetDefault("log.caller", true)

	// 扫描策略默认值 (拒绝私有地址，只放行 http/https)
	cl.viper.SetDefault("scan.policy.allow_private_ips", false)
	cl.viper.SetDefault("scan.policy.allowed_protocols", []string{"http", "https"})
	cl.viper.SetDefault("scan.policy.blocked_hosts", []string{
		"localhost",
		"localhost.localdomain",
		"metadata.google.internal",
		"169.254.169.254",
		"metadata.azure.com",
	})
	cl.viper.SetDefault("scan.policy.max_redirects", 5)

	// 子域名枚举默认值
	cl.viper.SetDefault("scan.subdomain.batch_size", 10)
	cl.viper.SetDefault("scan.subdomain.dns_timeout", "3s")
	cl.viper.SetDefault("scan.subdomain.probe_timeout", "3s")
	cl.viper.SetDefault("scan.subdomain.max_discoveries", 20)
	cl.viper.SetDefault("scan.subdomain.wildcard_filter", "ip-equality")

	// 站点爬取默认值
	cl.viper.SetDefault("scan.crawler.batch_size", 5)
	cl.viper.SetDefault("scan.crawler.max_pages", 50)
	cl.viper.SetDefault("scan.crawler.time_budget", "30s")
	cl.viper.SetDefault("scan.crawler.fetch_timeout", "8s")
	cl.viper.SetDefault("scan.crawler.max_body_bytes", 512000)
}

// validateConfig 验证配置
func (cl *ConfigLoader) validateConfig(config *Config) error {
	if config.App == nil || config.App.Name == "" {
		return fmt.Errorf("app name is required")
	}

	return validateScanConfig(config.Scan)
}

// GetConfigPath 获取配置文件路径
func (cl *ConfigLoader) GetConfigPath() string {
	return cl.viper.ConfigFileUsed()
}

// LoadConfigFromFile 从指定文件加载配置
func LoadConfigFromFile(configFile string) (*Config, error) {
	configPath := filepath.Dir(configFile)
	loader := NewConfigLoader(configPath, "NEORECON")
	return loader.LoadConfig()
}
