package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Log      LogConfig
	Backup   BackupConfig
}

type AppConfig struct {
	Name          string
	Env           string
	AttachmentDir string `mapstructure:"attachment_dir"`
}

type DatabaseConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	DBName    string `mapstructure:"dbname"`
	Charset   string
	Collation string
	PoolSize  int `mapstructure:"pool_size"`
}

type LogConfig struct {
	Level    string
	Format   string
	Output   string
	FilePath string `mapstructure:"file_path"`
}

type BackupConfig struct {
	MysqldumpPath string `mapstructure:"mysqldump_path"`
	MysqlPath     string `mapstructure:"mysql_path"`
}

// Load 加载配置文件
// configPath 可以是配置文件路径，也可以是包含 app.yaml 的目录
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if isDir(configPath) {
		v.AddConfigPath(configPath)
		v.SetConfigName("app")
	} else {
		v.SetConfigFile(configPath)
	}
	v.AutomaticEnv()

	// 默认值
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.charset", "utf8mb4")
	v.SetDefault("database.collation", "utf8mb4_unicode_ci")
	v.SetDefault("database.pool_size", 5)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("app.attachment_dir", "attachments")
	v.SetDefault("backup.mysqldump_path", "mysqldump")
	v.SetDefault("backup.mysql_path", "mysql")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	return config, nil
}

// 检查是否是目录
func isDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// GetDSN 获取数据库连接字符串
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&collation=%s&parseTime=true&loc=Local",
		c.Username, c.Password, c.Host, c.Port, c.DBName, c.Charset, c.Collation)
}
