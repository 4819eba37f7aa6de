package backup

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/myysophia/maintmanager-backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testManager() *Manager {
	return NewManager(
		&config.DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     3306,
			Username: "maint",
			Password: "secret",
			DBName:   "maintdb",
		},
		&config.BackupConfig{MysqldumpPath: "mysqldump", MysqlPath: "mysql"},
	)
}

func TestDumpArgs(t *testing.T) {
	m := testManager()

	args := m.dumpArgs()
	assert.Equal(t, []string{
		"--host=127.0.0.1",
		"--port=3306",
		"--user=maint",
		"--password=secret",
		"--single-transaction",
		"--routines",
		"--triggers",
		"maintdb",
	}, args)
}

func TestRestoreArgs(t *testing.T) {
	m := testManager()

	args := m.restoreArgs()
	assert.Equal(t, []string{
		"--host=127.0.0.1",
		"--port=3306",
		"--user=maint",
		"--password=secret",
		"maintdb",
	}, args)
}

func TestRestoreMissingFile(t *testing.T) {
	m := testManager()

	err := m.Restore(filepath.Join(t.TempDir(), "missing.sql"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "备份文件不存在")
}

func TestBackupToolFailure(t *testing.T) {
	m := NewManager(
		&config.DatabaseConfig{Host: "127.0.0.1", Port: 3306, Username: "maint", Password: "secret", DBName: "maintdb"},
		&config.BackupConfig{MysqldumpPath: "false", MysqlPath: "false"},
	)

	outputPath := filepath.Join(t.TempDir(), "backup.sql")
	err := m.Backup(outputPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "备份失败")

	// 失败时输出文件已创建但失败本身要如实上报
	_, statErr := os.Stat(outputPath)
	assert.NoError(t, statErr)
}

func TestRestoreToolFailure(t *testing.T) {
	inputPath := filepath.Join(t.TempDir(), "backup.sql")
	require.NoError(t, os.WriteFile(inputPath, []byte("-- dump"), 0644))

	m := NewManager(
		&config.DatabaseConfig{Host: "127.0.0.1", Port: 3306, Username: "maint", Password: "secret", DBName: "maintdb"},
		&config.BackupConfig{MysqldumpPath: "false", MysqlPath: "false"},
	)

	err := m.Restore(inputPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "恢复失败")
}
