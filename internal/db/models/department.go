package models

// Department 科室模型
// name 同时作为 users 和 maintenance 表的逻辑外键，必须保持唯一
type Department struct {
	ID   uint   `gorm:"column:id;primarykey" json:"id"`
	Name string `gorm:"column:name;size:100;uniqueIndex;not null" json:"name"`
}

// TableName 指定表名
func (Department) TableName() string {
	return "departments"
}
