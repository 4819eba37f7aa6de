package db

import (
	"errors"
	"fmt"

	"github.com/myysophia/maintmanager-backend/internal/config"
	"github.com/myysophia/maintmanager-backend/internal/db/models"
	"github.com/myysophia/maintmanager-backend/internal/logger"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// ErrPoolUnavailable 连接池不可用
// 连接池构建失败或已关闭时，任何试图获取连接的操作都返回该错误
var ErrPoolUnavailable = errors.New("数据库连接池不可用，请检查配置")

// DB 数据库连接池管理器
// 显式构造并注入到各仓库，生命周期为 New -> Close
type DB struct {
	gorm *gorm.DB
	cfg  *config.DatabaseConfig
}

// New 创建数据库连接池
func New(cfg *config.DatabaseConfig) (*DB, error) {
	gormConfig := &gorm.Config{
		// 事务边界由 Transaction 显式控制
		SkipDefaultTransaction: true,
	}

	gdb, err := gorm.Open(mysql.Open(cfg.GetDSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("获取数据库实例失败: %w", err)
	}

	poolSize := cfg.PoolSize
	if poolSize <= 0 {
		poolSize = 5
	}
	sqlDB.SetMaxOpenConns(poolSize)
	sqlDB.SetMaxIdleConns(poolSize)

	logger.Info("数据库连接池初始化成功")
	return &DB{gorm: gdb, cfg: cfg}, nil
}

// NewWithGorm 使用现成的 gorm 连接构建管理器，测试用
func NewWithGorm(gdb *gorm.DB, cfg *config.DatabaseConfig) *DB {
	return &DB{gorm: gdb, cfg: cfg}
}

// Transaction 在一个事务中执行 fn
// fn 返回 nil 时提交，返回错误时回滚并原样返回该错误，连接总会归还连接池
func (d *DB) Transaction(fn func(tx *gorm.DB) error) error {
	if d == nil || d.gorm == nil {
		return ErrPoolUnavailable
	}
	return d.gorm.Transaction(fn)
}

// Session 获取一个查询会话，纯读操作不需要事务边界
func (d *DB) Session() (*gorm.DB, error) {
	if d == nil || d.gorm == nil {
		return nil, ErrPoolUnavailable
	}
	return d.gorm, nil
}

// Migrate 按模型定义建表，首次部署时手动调用
func (d *DB) Migrate() error {
	if d == nil || d.gorm == nil {
		return ErrPoolUnavailable
	}
	return d.gorm.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Department{},
		&models.Maintenance{},
		&models.Attachment{},
		&models.ActivityLog{},
	)
}

// Settings 返回原始连接配置，仅供备份/恢复协作方使用
func (d *DB) Settings() *config.DatabaseConfig {
	return d.cfg
}

// Close 关闭连接池
func (d *DB) Close() error {
	if d == nil || d.gorm == nil {
		return nil
	}
	sqlDB, err := d.gorm.DB()
	if err != nil {
		return err
	}
	d.gorm = nil
	return sqlDB.Close()
}
