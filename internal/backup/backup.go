package backup

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/myysophia/maintmanager-backend/internal/config"
	"github.com/myysophia/maintmanager-backend/internal/logger"
	"go.uber.org/zap"
)

// Manager 数据库备份/恢复管理器
// 调用外部的 mysqldump / mysql 工具，成功以退出码 0 为准，
// 失败信息取工具的标准错误输出
type Manager struct {
	settings *config.DatabaseConfig
	tools    *config.BackupConfig
}

// NewManager 创建备份管理器
func NewManager(settings *config.DatabaseConfig, tools *config.BackupConfig) *Manager {
	return &Manager{settings: settings, tools: tools}
}

// dumpArgs mysqldump 的调用参数
func (m *Manager) dumpArgs() []string {
	return []string{
		fmt.Sprintf("--host=%s", m.settings.Host),
		fmt.Sprintf("--port=%d", m.settings.Port),
		fmt.Sprintf("--user=%s", m.settings.Username),
		fmt.Sprintf("--password=%s", m.settings.Password),
		"--single-transaction",
		"--routines",
		"--triggers",
		m.settings.DBName,
	}
}

// restoreArgs mysql 的调用参数
func (m *Manager) restoreArgs() []string {
	return []string{
		fmt.Sprintf("--host=%s", m.settings.Host),
		fmt.Sprintf("--port=%d", m.settings.Port),
		fmt.Sprintf("--user=%s", m.settings.Username),
		fmt.Sprintf("--password=%s", m.settings.Password),
		m.settings.DBName,
	}
}

// Backup 将数据库转储到 outputPath
func (m *Manager) Backup(outputPath string) error {
	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("创建备份文件失败: %w", err)
	}
	defer out.Close()

	var stderr bytes.Buffer
	cmd := exec.Command(m.tools.MysqldumpPath, m.dumpArgs()...)
	cmd.Stdout = out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("备份失败: %s", strings.TrimSpace(stderr.String()))
	}

	logger.Info("数据库备份完成", zap.String("output", outputPath))
	return nil
}

// Restore 从 inputPath 恢复数据库
func (m *Manager) Restore(inputPath string) error {
	in, err := os.Open(inputPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("备份文件不存在: %s", inputPath)
		}
		return fmt.Errorf("打开备份文件失败: %w", err)
	}
	defer in.Close()

	var stderr bytes.Buffer
	cmd := exec.Command(m.tools.MysqlPath, m.restoreArgs()...)
	cmd.Stdin = in
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("恢复失败: %s", strings.TrimSpace(stderr.String()))
	}

	logger.Info("数据库恢复完成", zap.String("input", inputPath))
	return nil
}
