package audit

import (
	"time"

	"github.com/myysophia/maintmanager-backend/internal/db"
	"github.com/myysophia/maintmanager-backend/internal/db/models"
	"github.com/myysophia/maintmanager-backend/internal/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Logger 操作日志记录器
type Logger struct {
	db *db.DB
}

// NewLogger 创建操作日志记录器
func NewLogger(database *db.DB) *Logger {
	return &Logger{db: database}
}

// LogEntry 带操作者用户名的日志行
// 操作者账号被永久删除后 username 为空，日志行本身保留
type LogEntry struct {
	ID          uint      `json:"id"`
	Username    *string   `json:"username"`
	Action      string    `json:"action"`
	RecordType  string    `json:"record_type"`
	RecordID    uint      `json:"record_id"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

// Record 在调用方的事务内追加一条操作日志
// 与所描述的变更一起提交或回滚。description 只放固定短语，
// 用户可控的值通过结构化字段进入应用日志，避免注入下游日志消费方
func (l *Logger) Record(tx *gorm.DB, actorID uint, action, recordType string, recordID uint, description string) error {
	entry := &models.ActivityLog{
		Action:      action,
		RecordType:  recordType,
		RecordID:    recordID,
		Description: description,
	}
	if actorID != 0 {
		entry.UserID = &actorID
	}

	if err := tx.Create(entry).Error; err != nil {
		return err
	}

	logger.Info("记录操作日志",
		zap.Uint("actor_id", actorID),
		zap.String("action", action),
		zap.String("record_type", recordType),
		zap.Uint("record_id", recordID))
	return nil
}

// FetchActivityLog 获取最近的操作日志，按时间倒序
func (l *Logger) FetchActivityLog(limit int) ([]LogEntry, error) {
	session, err := l.db.Session()
	if err != nil {
		return nil, err
	}

	var entries []LogEntry
	err = session.Table("activity_log al").
		Select("al.id, u.username, al.action, al.record_type, al.record_id, al.description, al.timestamp").
		Joins("LEFT JOIN users u ON al.user_id = u.id").
		Order("al.timestamp DESC").
		Limit(limit).
		Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// RecordHistory 获取单条维护记录的操作历史，按时间倒序
func (l *Logger) RecordHistory(recordID uint) ([]LogEntry, error) {
	session, err := l.db.Session()
	if err != nil {
		return nil, err
	}

	var entries []LogEntry
	err = session.Table("activity_log al").
		Select("al.id, u.username, al.action, al.record_type, al.record_id, al.description, al.timestamp").
		Joins("LEFT JOIN users u ON al.user_id = u.id").
		Where("al.record_type = ? AND al.record_id = ?", models.RecordTypeMaintenance, recordID).
		Order("al.timestamp DESC").
		Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
