package repository

import (
	"os"

	"github.com/myysophia/maintmanager-backend/internal/audit"
	"github.com/myysophia/maintmanager-backend/internal/db"
	"github.com/myysophia/maintmanager-backend/internal/db/models"
	"github.com/myysophia/maintmanager-backend/internal/logger"
	"github.com/myysophia/maintmanager-backend/internal/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RecordRepository 维护记录仓库
type RecordRepository struct {
	db            *db.DB
	audit         *audit.Logger
	attachmentDir string
}

// NewRecordRepository 创建维护记录仓库
func NewRecordRepository(database *db.DB, auditLogger *audit.Logger, attachmentDir string) *RecordRepository {
	return &RecordRepository{
		db:            database,
		audit:         auditLogger,
		attachmentDir: attachmentDir,
	}
}

// RecordData 维护记录的九个业务字段
// 具名结构体代替位置参数，避免字段顺序错位
type RecordData struct {
	Date       string `json:"date" validate:"required,datetime=2006-01-02"`
	Type       string `json:"type" validate:"required"`
	Device     string `json:"device" validate:"required"`
	Technician string `json:"technician" validate:"required"`
	Procedures string `json:"procedures"`
	Materials  string `json:"materials"`
	Notes      string `json:"notes"`
	Warnings   string `json:"warnings"`
	Department string `json:"department" validate:"required"`
}

func (d *RecordData) toModel() *models.Maintenance {
	return &models.Maintenance{
		Date:       d.Date,
		Type:       d.Type,
		Device:     d.Device,
		Technician: d.Technician,
		Procedures: d.Procedures,
		Materials:  d.Materials,
		Notes:      d.Notes,
		Warnings:   d.Warnings,
		Department: d.Department,
	}
}

func (d *RecordData) toColumns() map[string]interface{} {
	return map[string]interface{}{
		"date":       d.Date,
		"type":       d.Type,
		"device":     d.Device,
		"technician": d.Technician,
		"procedures": d.Procedures,
		"materials":  d.Materials,
		"notes":      d.Notes,
		"warnings":   d.Warnings,
		"department": d.Department,
	}
}

// Insert 新增维护记录，返回新记录 ID
func (r *RecordRepository) Insert(data *RecordData, actorID uint) (uint, error) {
	if err := utils.Validate(data); err != nil {
		return 0, Business(err.Error())
	}

	record := data.toModel()
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(record).Error; err != nil {
			return err
		}
		return r.audit.Record(tx, actorID, models.ActionInsert, models.RecordTypeMaintenance, record.ID, "添加维护记录")
	})
	if err != nil {
		return 0, err
	}

	logger.Info("新增维护记录",
		zap.Uint("record_id", record.ID),
		zap.String("device", data.Device),
		zap.String("department", data.Department))
	return record.ID, nil
}

// FetchActive 获取未删除的维护记录，可按科室精确过滤，ID 倒序
func (r *RecordRepository) FetchActive(department string) ([]models.Maintenance, error) {
	session, err := r.db.Session()
	if err != nil {
		return nil, err
	}

	query := session.Where("is_deleted = ?", false)
	if department != "" {
		query = query.Where("department = ?", department)
	}

	var records []models.Maintenance
	if err := query.Order("id DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Update 按 ID 整行覆盖九个业务字段，有行受影响时才记日志
func (r *RecordRepository) Update(id uint, data *RecordData, actorID uint) error {
	if err := utils.Validate(data); err != nil {
		return Business(err.Error())
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Maintenance{}).Where("id = ?", id).Updates(data.toColumns())
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		return r.audit.Record(tx, actorID, models.ActionUpdate, models.RecordTypeMaintenance, id, "更新维护记录")
	})
}

// SoftDelete 将维护记录移入回收站
func (r *RecordRepository) SoftDelete(id uint, actorID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Maintenance{}).Where("id = ?", id).Update("is_deleted", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		return r.audit.Record(tx, actorID, models.ActionTrash, models.RecordTypeMaintenance, id, "将维护记录移入回收站")
	})
}

// FetchDeleted 获取回收站中的维护记录，ID 倒序
func (r *RecordRepository) FetchDeleted() ([]models.Maintenance, error) {
	session, err := r.db.Session()
	if err != nil {
		return nil, err
	}

	var records []models.Maintenance
	if err := session.Where("is_deleted = ?", true).Order("id DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Restore 从回收站恢复维护记录
func (r *RecordRepository) Restore(id uint, actorID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Maintenance{}).Where("id = ?", id).Update("is_deleted", false)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		return r.audit.Record(tx, actorID, models.ActionRestore, models.RecordTypeMaintenance, id, "从回收站恢复维护记录")
	})
}

// PermanentlyDelete 永久删除维护记录及其全部附件
// 记录删除和附件行删除在同一事务内，记录不在回收站时整个操作不做任何变更。
// 附件文件在事务提交后从磁盘移除，删除失败只告警不回滚
func (r *RecordRepository) PermanentlyDelete(id uint, actorID uint) error {
	var orphanedFiles []string

	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND is_deleted = ?", id, true).Delete(&models.Maintenance{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// 记录不存在或尚未软删除
			return nil
		}

		var attachments []models.Attachment
		if err := tx.Where("maintenance_id = ?", id).Find(&attachments).Error; err != nil {
			return err
		}
		if err := tx.Where("maintenance_id = ?", id).Delete(&models.Attachment{}).Error; err != nil {
			return err
		}
		for _, a := range attachments {
			orphanedFiles = append(orphanedFiles, a.StoredFilepath)
		}

		return r.audit.Record(tx, actorID, models.ActionDelete, models.RecordTypeMaintenance, id, "永久删除维护记录")
	})
	if err != nil {
		return err
	}

	for _, path := range orphanedFiles {
		removeStoredFile(path)
	}
	return nil
}

// removeStoredFile 尽力删除附件文件，文件不存在视为已完成
func removeStoredFile(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.Warn("删除附件文件失败", zap.String("path", path), zap.Error(err))
	}
}
