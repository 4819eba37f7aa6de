package models

// Role 角色模型，只读的查找表
type Role struct {
	ID       uint   `gorm:"column:id;primarykey" json:"id"`
	RoleName string `gorm:"column:role_name;size:50;uniqueIndex;not null" json:"role_name"`
}

// TableName 指定表名
func (Role) TableName() string {
	return "roles"
}
