package models

// Attachment 附件模型，stored_filepath 指向本地文件系统上的副本
type Attachment struct {
	ID               uint   `gorm:"column:id;primarykey" json:"id"`
	MaintenanceID    uint   `gorm:"column:maintenance_id;index;not null" json:"maintenance_id"`
	OriginalFilename string `gorm:"column:original_filename;size:255;not null" json:"original_filename"`
	StoredFilepath   string `gorm:"column:stored_filepath;size:500;not null" json:"stored_filepath"`
}

// TableName 指定表名
func (Attachment) TableName() string {
	return "attachments"
}
