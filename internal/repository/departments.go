package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/myysophia/maintmanager-backend/internal/audit"
	"github.com/myysophia/maintmanager-backend/internal/db"
	"github.com/myysophia/maintmanager-backend/internal/db/models"
	"github.com/myysophia/maintmanager-backend/internal/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DepartmentRepository 科室仓库
type DepartmentRepository struct {
	db    *db.DB
	audit *audit.Logger
}

// NewDepartmentRepository 创建科室仓库
func NewDepartmentRepository(database *db.DB, auditLogger *audit.Logger) *DepartmentRepository {
	return &DepartmentRepository{db: database, audit: auditLogger}
}

// MySQL 1062: 唯一键冲突
func isDuplicateKey(err error) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == 1062
}

// GetAll 获取全部科室名称，按名称排序
func (r *DepartmentRepository) GetAll() ([]string, error) {
	session, err := r.db.Session()
	if err != nil {
		return nil, err
	}

	var names []string
	if err := session.Model(&models.Department{}).Order("name").Pluck("name", &names).Error; err != nil {
		return nil, err
	}
	return names, nil
}

// Add 新增科室，重名按业务失败返回
func (r *DepartmentRepository) Add(name string, actorID uint) (uint, error) {
	department := &models.Department{Name: name}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(department).Error; err != nil {
			if isDuplicateKey(err) {
				return Business("该科室已存在")
			}
			return err
		}
		return r.audit.Record(tx, actorID, models.ActionInsert, models.RecordTypeDepartment, department.ID, "添加科室")
	})
	if err != nil {
		return 0, err
	}

	logger.Info("新增科室", zap.Uint("department_id", department.ID), zap.String("name", name))
	return department.ID, nil
}

// Update 重命名科室，新名称与现有科室冲突时按业务失败返回
func (r *DepartmentRepository) Update(departmentID uint, newName string, actorID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Department{}).Where("id = ?", departmentID).Update("name", newName)
		if result.Error != nil {
			if isDuplicateKey(result.Error) {
				return Business("该科室名称已被使用")
			}
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		return r.audit.Record(tx, actorID, models.ActionUpdate, models.RecordTypeDepartment, departmentID, "重命名科室")
	})
}

// Delete 删除科室
// 科室名称是 users 和 maintenance 的逻辑外键，仍被未删除的
// 用户或维护记录引用时拒绝删除，两种情况返回各自的原因
func (r *DepartmentRepository) Delete(departmentID uint, actorID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var department models.Department
		if err := tx.Where("id = ?", departmentID).First(&department).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return Business("科室不存在")
			}
			return err
		}

		var userCount int64
		if err := tx.Model(&models.User{}).
			Where("department = ? AND is_deleted = ?", department.Name, false).
			Count(&userCount).Error; err != nil {
			return err
		}
		if userCount > 0 {
			return Business("该科室已分配给现有用户，无法删除")
		}

		var recordCount int64
		if err := tx.Model(&models.Maintenance{}).
			Where("department = ? AND is_deleted = ?", department.Name, false).
			Count(&recordCount).Error; err != nil {
			return err
		}
		if recordCount > 0 {
			return Business("该科室已被维护记录使用，无法删除")
		}

		if err := tx.Where("id = ?", departmentID).Delete(&models.Department{}).Error; err != nil {
			return err
		}
		return r.audit.Record(tx, actorID, models.ActionDelete, models.RecordTypeDepartment, departmentID, "删除科室")
	})
}

// IDByName 按名称查科室 ID，不存在返回 0
func (r *DepartmentRepository) IDByName(name string) (uint, error) {
	session, err := r.db.Session()
	if err != nil {
		return 0, err
	}

	var department models.Department
	err = session.Where("name = ?", name).First(&department).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return department.ID, nil
}
