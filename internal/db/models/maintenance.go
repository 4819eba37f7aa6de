package models

// Maintenance 维护记录模型
type Maintenance struct {
	ID         uint   `gorm:"column:id;primarykey" json:"id"`
	Date       string `gorm:"column:date;size:10;not null" json:"date"` // YYYY-MM-DD
	Type       string `gorm:"column:type;size:100" json:"type"`
	Device     string `gorm:"column:device;size:100" json:"device"`
	Technician string `gorm:"column:technician;size:100" json:"technician"`
	Procedures string `gorm:"column:procedures;type:text" json:"procedures"`
	Materials  string `gorm:"column:materials;type:text" json:"materials"`
	Notes      string `gorm:"column:notes;type:text" json:"notes"`
	Warnings   string `gorm:"column:warnings;type:text" json:"warnings"`
	Department string `gorm:"column:department;size:100" json:"department"`
	IsDeleted  bool   `gorm:"column:is_deleted;default:false" json:"is_deleted"`
}

// TableName 指定表名
func (Maintenance) TableName() string {
	return "maintenance"
}
