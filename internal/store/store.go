package store

import (
	"github.com/myysophia/maintmanager-backend/internal/audit"
	"github.com/myysophia/maintmanager-backend/internal/backup"
	"github.com/myysophia/maintmanager-backend/internal/config"
	"github.com/myysophia/maintmanager-backend/internal/db"
	"github.com/myysophia/maintmanager-backend/internal/repository"
)

// Store UI 层访问持久状态的唯一入口
// 聚合各仓库、操作日志和备份管理器，由桌面外壳在启动时构造一次
type Store struct {
	Records     *repository.RecordRepository
	Users       *repository.UserRepository
	Departments *repository.DepartmentRepository
	Reports     *repository.ReportRepository
	Audit       *audit.Logger
	Backup      *backup.Manager

	db *db.DB
}

// New 构造 Store
func New(database *db.DB, cfg *config.Config) *Store {
	auditLogger := audit.NewLogger(database)

	return &Store{
		Records:     repository.NewRecordRepository(database, auditLogger, cfg.App.AttachmentDir),
		Users:       repository.NewUserRepository(database, auditLogger),
		Departments: repository.NewDepartmentRepository(database, auditLogger),
		Reports:     repository.NewReportRepository(database),
		Audit:       auditLogger,
		Backup:      backup.NewManager(database.Settings(), &cfg.Backup),
		db:          database,
	}
}

// Close 关闭底层连接池
func (s *Store) Close() error {
	return s.db.Close()
}
