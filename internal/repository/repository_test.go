package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/myysophia/maintmanager-backend/internal/audit"
	"github.com/myysophia/maintmanager-backend/internal/db"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// newMockDB 用 sqlmock 连接撑起一个 gorm 实例，测试仓库层生成的 SQL
func newMockDB(t *testing.T) (*db.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockConn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockConn.Close() })

	dialector := mysql.New(mysql.Config{
		Conn:                      mockConn,
		SkipInitializeWithVersion: true,
	})
	gdb, err := gorm.Open(dialector, &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	return db.NewWithGorm(gdb, nil), mock
}

func newRecordRepo(t *testing.T, attachmentDir string) (*RecordRepository, sqlmock.Sqlmock) {
	database, mock := newMockDB(t)
	return NewRecordRepository(database, audit.NewLogger(database), attachmentDir), mock
}

func newUserRepo(t *testing.T) (*UserRepository, sqlmock.Sqlmock) {
	database, mock := newMockDB(t)
	return NewUserRepository(database, audit.NewLogger(database)), mock
}

func newDepartmentRepo(t *testing.T) (*DepartmentRepository, sqlmock.Sqlmock) {
	database, mock := newMockDB(t)
	return NewDepartmentRepository(database, audit.NewLogger(database)), mock
}

func newReportRepo(t *testing.T) (*ReportRepository, sqlmock.Sqlmock) {
	database, mock := newMockDB(t)
	return NewReportRepository(database), mock
}

func validRecord() *RecordData {
	return &RecordData{
		Date:       "2025-06-01",
		Type:       "预防性维护",
		Device:     "呼吸机",
		Technician: "张工",
		Procedures: "清洁过滤器",
		Materials:  "过滤器 x1",
		Notes:      "",
		Warnings:   "",
		Department: "ICU",
	}
}
