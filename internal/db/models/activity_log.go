package models

import "time"

// 操作类型常量
const (
	ActionInsert  = "INSERT"
	ActionUpdate  = "UPDATE"
	ActionTrash   = "TRASH"
	ActionRestore = "RESTORE"
	ActionDelete  = "DELETE"
)

// 实体类型常量
const (
	RecordTypeMaintenance = "maintenance"
	RecordTypeAttachment  = "attachment"
	RecordTypeUser        = "user"
	RecordTypeDepartment  = "department"
)

// ActivityLog 操作日志模型，只追加，应用层从不修改或删除
type ActivityLog struct {
	ID          uint      `gorm:"column:id;primarykey" json:"id"`
	UserID      *uint     `gorm:"column:user_id;index" json:"user_id"`
	Action      string    `gorm:"column:action;size:20;not null" json:"action"`
	RecordType  string    `gorm:"column:record_type;size:50" json:"record_type"`
	RecordID    uint      `gorm:"column:record_id" json:"record_id"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	Timestamp   time.Time `gorm:"column:timestamp;autoCreateTime" json:"timestamp"`
}

// TableName 指定表名
func (ActivityLog) TableName() string {
	return "activity_log"
}
