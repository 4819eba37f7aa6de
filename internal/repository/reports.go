package repository

import (
	"time"

	"github.com/myysophia/maintmanager-backend/internal/db"
	"github.com/myysophia/maintmanager-backend/internal/db/models"
	"gorm.io/gorm"
)

// ReportRepository 报表与检索查询，纯读
type ReportRepository struct {
	db *db.DB
}

// NewReportRepository 创建报表仓库
func NewReportRepository(database *db.DB) *ReportRepository {
	return &ReportRepository{db: database}
}

// SearchFilters 高级检索条件，零值字段不参与过滤
type SearchFilters struct {
	DateFrom   string `json:"date_from"`
	DateTo     string `json:"date_to"`
	Department string `json:"department"`
	Keyword    string `json:"keyword"`
}

// GroupCount 分组统计行
type GroupCount struct {
	Name  string `gorm:"column:name" json:"name"`
	Count int64  `gorm:"column:count" json:"count"`
}

// SearchRecords 组合可选过滤条件检索未删除的维护记录，ID 倒序
// 关键字在 device、procedures、materials、notes、warnings 五列上做子串匹配
func (r *ReportRepository) SearchRecords(filters SearchFilters) ([]models.Maintenance, error) {
	session, err := r.db.Session()
	if err != nil {
		return nil, err
	}

	query := session.Where("is_deleted = ?", false)
	if filters.DateFrom != "" && filters.DateTo != "" {
		query = query.Where("date BETWEEN ? AND ?", filters.DateFrom, filters.DateTo)
	}
	if filters.Department != "" {
		query = query.Where("department = ?", filters.Department)
	}
	if filters.Keyword != "" {
		kw := "%" + filters.Keyword + "%"
		query = query.Where(
			"device LIKE ? OR procedures LIKE ? OR materials LIKE ? OR notes LIKE ? OR warnings LIKE ?",
			kw, kw, kw, kw, kw)
	}

	var records []models.Maintenance
	if err := query.Order("id DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func periodQuery(session *gorm.DB, dateFrom, dateTo, department string) *gorm.DB {
	query := session.Model(&models.Maintenance{}).
		Where("is_deleted = ?", false).
		Where("date BETWEEN ? AND ?", dateFrom, dateTo)
	if department != "" {
		query = query.Where("department = ?", department)
	}
	return query
}

// CountInPeriod 统计日期范围内的未删除记录数，可按科室过滤
func (r *ReportRepository) CountInPeriod(dateFrom, dateTo, department string) (int64, error) {
	session, err := r.db.Session()
	if err != nil {
		return 0, err
	}

	var count int64
	if err := periodQuery(session, dateFrom, dateTo, department).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// AvgPerDay 计算日期范围内的日均记录数
// 范围按天数含两端计算；日期无法解析或跨度非正时返回 0 而不是报错
func (r *ReportRepository) AvgPerDay(dateFrom, dateTo, department string) (float64, error) {
	from, err := time.Parse("2006-01-02", dateFrom)
	if err != nil {
		return 0, nil
	}
	to, err := time.Parse("2006-01-02", dateTo)
	if err != nil {
		return 0, nil
	}

	days := int(to.Sub(from).Hours()/24) + 1
	if days <= 0 {
		return 0, nil
	}

	total, err := r.CountInPeriod(dateFrom, dateTo, department)
	if err != nil {
		return 0, err
	}
	if total == 0 {
		return 0, nil
	}
	return float64(total) / float64(days), nil
}

// RecordsPerDepartment 按科室分组统计日期范围内的记录数，数量倒序
func (r *ReportRepository) RecordsPerDepartment(dateFrom, dateTo string) ([]GroupCount, error) {
	session, err := r.db.Session()
	if err != nil {
		return nil, err
	}

	var rows []GroupCount
	err = periodQuery(session, dateFrom, dateTo, "").
		Select("department AS name, COUNT(*) AS count").
		Group("department").
		Order("count DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// DeviceTypeCounts 按设备类型分组统计，数量倒序
func (r *ReportRepository) DeviceTypeCounts(dateFrom, dateTo, department string) ([]GroupCount, error) {
	session, err := r.db.Session()
	if err != nil {
		return nil, err
	}

	var rows []GroupCount
	err = periodQuery(session, dateFrom, dateTo, department).
		Select("type AS name, COUNT(*) AS count").
		Group("type").
		Order("count DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// TechnicianCounts 按技术员分组统计，数量倒序
func (r *ReportRepository) TechnicianCounts(dateFrom, dateTo, department string) ([]GroupCount, error) {
	session, err := r.db.Session()
	if err != nil {
		return nil, err
	}

	var rows []GroupCount
	err = periodQuery(session, dateFrom, dateTo, department).
		Select("technician AS name, COUNT(*) AS count").
		Group("technician").
		Order("count DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// TotalRecordCount 未删除维护记录总数
func (r *ReportRepository) TotalRecordCount() (int64, error) {
	session, err := r.db.Session()
	if err != nil {
		return 0, err
	}

	var count int64
	if err := session.Model(&models.Maintenance{}).Where("is_deleted = ?", false).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// TotalUserCount 未删除用户总数
func (r *ReportRepository) TotalUserCount() (int64, error) {
	session, err := r.db.Session()
	if err != nil {
		return 0, err
	}

	var count int64
	if err := session.Model(&models.User{}).Where("is_deleted = ?", false).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// UserRoleCount 指定角色的未删除用户数
func (r *ReportRepository) UserRoleCount(roleName string) (int64, error) {
	session, err := r.db.Session()
	if err != nil {
		return 0, err
	}

	var count int64
	err = session.Table("users u").
		Joins("JOIN roles r ON u.role_id = r.id").
		Where("r.role_name = ? AND u.is_deleted = ?", roleName, false).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
