package repository

import (
	"errors"

	"github.com/myysophia/maintmanager-backend/internal/audit"
	"github.com/myysophia/maintmanager-backend/internal/db"
	"github.com/myysophia/maintmanager-backend/internal/db/models"
	"github.com/myysophia/maintmanager-backend/internal/logger"
	"github.com/myysophia/maintmanager-backend/internal/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UserRepository 用户仓库
type UserRepository struct {
	db    *db.DB
	audit *audit.Logger
}

// NewUserRepository 创建用户仓库
func NewUserRepository(database *db.DB, auditLogger *audit.Logger) *UserRepository {
	return &UserRepository{db: database, audit: auditLogger}
}

// Identity 认证通过后返回的身份信息
type Identity struct {
	ID         uint   `json:"id"`
	RoleID     uint   `json:"role_id"`
	Department string `json:"department"`
}

// UserRow 带角色名的用户列表行
type UserRow struct {
	ID         uint   `json:"id"`
	Username   string `json:"username"`
	RoleName   string `json:"role_name"`
	Department string `json:"department"`
}

// VerifyCredentials 校验用户名和密码
// 只在未删除用户中查找，密码用 bcrypt 比对。凭证不匹配返回 (nil, nil)
func (r *UserRepository) VerifyCredentials(username, password string) (*Identity, error) {
	session, err := r.db.Session()
	if err != nil {
		return nil, err
	}

	var user models.User
	err = session.Where("username = ? AND is_deleted = ?", username, false).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if !user.CheckPassword(password) {
		logger.Warn("密码校验失败", zap.String("username", username))
		return nil, nil
	}

	return &Identity{ID: user.ID, RoleID: user.RoleID, Department: user.Department}, nil
}

// RoleNameByID 按 ID 查角色名，角色不存在返回空串
func (r *UserRepository) RoleNameByID(roleID uint) (string, error) {
	session, err := r.db.Session()
	if err != nil {
		return "", err
	}

	var role models.Role
	err = session.Where("id = ?", roleID).First(&role).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return role.RoleName, nil
}

// AddUser 新增用户，返回新用户 ID
// 先校验角色存在和用户名在未删除用户中唯一，两者不满足都按业务失败返回
func (r *UserRepository) AddUser(username, password, roleName, department string, actorID uint) (uint, error) {
	creds := struct {
		Username string `json:"username" validate:"required,min=3,max=50"`
		Password string `json:"password" validate:"required,min=6,max=64"`
	}{username, password}
	if err := utils.Validate(&creds); err != nil {
		return 0, Business(err.Error())
	}

	user := &models.User{Username: username, Department: department}
	if err := user.SetPassword(password); err != nil {
		return 0, err
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var role models.Role
		if err := tx.Where("role_name = ?", roleName).First(&role).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return Business("用户角色不存在")
			}
			return err
		}
		user.RoleID = role.ID

		var count int64
		if err := tx.Model(&models.User{}).
			Where("username = ? AND is_deleted = ?", username, false).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return Business("用户名已存在")
		}

		if err := tx.Create(user).Error; err != nil {
			return err
		}
		return r.audit.Record(tx, actorID, models.ActionInsert, models.RecordTypeUser, user.ID, "添加用户")
	})
	if err != nil {
		return 0, err
	}

	logger.Info("新增用户",
		zap.Uint("user_id", user.ID),
		zap.String("username", username),
		zap.String("role", roleName))
	return user.ID, nil
}

// UpdateUser 更新用户的角色和科室，newPassword 非空时同时改密
func (r *UserRepository) UpdateUser(userID uint, roleName, department, newPassword string, actorID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var role models.Role
		if err := tx.Where("role_name = ?", roleName).First(&role).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return Business("所选角色无效")
			}
			return err
		}

		columns := map[string]interface{}{
			"role_id":    role.ID,
			"department": department,
		}
		if newPassword != "" {
			user := &models.User{}
			if err := user.SetPassword(newPassword); err != nil {
				return err
			}
			columns["password_hash"] = user.PasswordHash
		}

		result := tx.Model(&models.User{}).Where("id = ?", userID).Updates(columns)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		return r.audit.Record(tx, actorID, models.ActionUpdate, models.RecordTypeUser, userID, "更新用户资料")
	})
}

// DeleteUser 将用户移入回收站，禁止删除自己的账号
func (r *UserRepository) DeleteUser(userID uint, actorID uint) error {
	if userID == actorID {
		return Business("不能删除自己的账号")
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.User{}).Where("id = ?", userID).Update("is_deleted", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return Business("未找到该用户")
		}
		return r.audit.Record(tx, actorID, models.ActionTrash, models.RecordTypeUser, userID, "将用户移入回收站")
	})
}

// FetchDeletedUsers 获取回收站中的用户，ID 升序
func (r *UserRepository) FetchDeletedUsers() ([]UserRow, error) {
	return r.fetchUsers(true)
}

// FetchAllUsers 获取全部未删除用户，ID 升序
func (r *UserRepository) FetchAllUsers() ([]UserRow, error) {
	return r.fetchUsers(false)
}

func (r *UserRepository) fetchUsers(deleted bool) ([]UserRow, error) {
	session, err := r.db.Session()
	if err != nil {
		return nil, err
	}

	var rows []UserRow
	err = session.Table("users u").
		Select("u.id, u.username, r.role_name, u.department").
		Joins("JOIN roles r ON u.role_id = r.id").
		Where("u.is_deleted = ?", deleted).
		Order("u.id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// RestoreUser 从回收站恢复用户
func (r *UserRepository) RestoreUser(userID uint, actorID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.User{}).Where("id = ?", userID).Update("is_deleted", false)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		return r.audit.Record(tx, actorID, models.ActionRestore, models.RecordTypeUser, userID, "从回收站恢复用户")
	})
}

// PermanentlyDeleteUser 永久删除用户，只对已在回收站中的用户生效
func (r *UserRepository) PermanentlyDeleteUser(userID uint, actorID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND is_deleted = ?", userID, true).Delete(&models.User{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		return r.audit.Record(tx, actorID, models.ActionDelete, models.RecordTypeUser, userID, "永久删除用户")
	})
}
