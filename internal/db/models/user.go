package models

import (
	"golang.org/x/crypto/bcrypt"
)

// User 用户模型
type User struct {
	ID           uint   `gorm:"column:id;primarykey" json:"id"`
	Username     string `gorm:"column:username;size:50;not null" json:"username"`
	PasswordHash string `gorm:"column:password_hash;size:255;not null" json:"-"`
	RoleID       uint   `gorm:"column:role_id;not null" json:"role_id"`
	Department   string `gorm:"column:department;size:100" json:"department"`
	IsDeleted    bool   `gorm:"column:is_deleted;default:false" json:"is_deleted"`
}

// SetPassword 设置密码
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

// CheckPassword 验证密码
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}
