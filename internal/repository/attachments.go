package repository

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/myysophia/maintmanager-backend/internal/db/models"
	"github.com/myysophia/maintmanager-backend/internal/logger"
	"github.com/myysophia/maintmanager-backend/internal/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// StoreAttachmentFile 将源文件复制到附件目录，返回落盘路径
// 文件名由时间戳加随机 UUID 组成，避免同名覆盖
func (r *RecordRepository) StoreAttachmentFile(srcPath string) (string, error) {
	if err := os.MkdirAll(r.attachmentDir, 0755); err != nil {
		return "", fmt.Errorf("创建附件目录失败: %w", err)
	}

	src, err := os.Open(srcPath)
	if err != nil {
		return "", fmt.Errorf("打开源文件失败: %w", err)
	}
	defer src.Close()

	storedPath := filepath.Join(r.attachmentDir, utils.GenerateStoredFilename(filepath.Ext(srcPath)))
	dst, err := os.Create(storedPath)
	if err != nil {
		return "", fmt.Errorf("创建附件文件失败: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(storedPath)
		return "", fmt.Errorf("复制附件文件失败: %w", err)
	}
	return storedPath, nil
}

// AddAttachment 为维护记录登记一个附件，返回新附件 ID
func (r *RecordRepository) AddAttachment(maintenanceID uint, originalFilename, storedFilepath string, actorID uint) (uint, error) {
	attachment := &models.Attachment{
		MaintenanceID:    maintenanceID,
		OriginalFilename: originalFilename,
		StoredFilepath:   storedFilepath,
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(attachment).Error; err != nil {
			return err
		}
		return r.audit.Record(tx, actorID, models.ActionInsert, models.RecordTypeAttachment, attachment.ID, "添加附件")
	})
	if err != nil {
		return 0, err
	}

	logger.Info("新增附件",
		zap.Uint("attachment_id", attachment.ID),
		zap.Uint("maintenance_id", maintenanceID),
		zap.String("original_filename", originalFilename))
	return attachment.ID, nil
}

// AttachmentsForRecord 获取维护记录的全部附件，ID 升序
func (r *RecordRepository) AttachmentsForRecord(maintenanceID uint) ([]models.Attachment, error) {
	session, err := r.db.Session()
	if err != nil {
		return nil, err
	}

	var attachments []models.Attachment
	if err := session.Where("maintenance_id = ?", maintenanceID).Order("id").Find(&attachments).Error; err != nil {
		return nil, err
	}
	return attachments, nil
}

// DeleteAttachment 删除附件的数据库记录和磁盘文件
// 附件不存在时返回业务失败；文件在数据库事务提交后移除，不存在视为已完成
func (r *RecordRepository) DeleteAttachment(attachmentID uint, actorID uint) error {
	var attachment models.Attachment

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", attachmentID).First(&attachment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return Business("附件不存在")
			}
			return err
		}

		if err := tx.Where("id = ?", attachmentID).Delete(&models.Attachment{}).Error; err != nil {
			return err
		}
		return r.audit.Record(tx, actorID, models.ActionDelete, models.RecordTypeAttachment, attachmentID, "删除附件")
	})
	if err != nil {
		return err
	}

	removeStoredFile(attachment.StoredFilepath)
	logger.Info("删除附件",
		zap.Uint("attachment_id", attachmentID),
		zap.Uint("maintenance_id", attachment.MaintenanceID),
		zap.String("original_filename", attachment.OriginalFilename))
	return nil
}
