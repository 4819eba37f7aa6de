package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetAllDepartments(t *testing.T) {
	repo, mock := newDepartmentRepo(t)

	rows := sqlmock.NewRows([]string{"name"}).
		AddRow("ICU").
		AddRow("放射科")

	mock.ExpectQuery("SELECT `name` FROM `departments`").WillReturnRows(rows)

	names, err := repo.GetAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"ICU", "放射科"}, names)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddDepartment(t *testing.T) {
	t.Run("成功新增", func(t *testing.T) {
		repo, mock := newDepartmentRepo(t)

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO `departments`").WillReturnResult(sqlmock.NewResult(6, 1))
		mock.ExpectExec("INSERT INTO `activity_log`").WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		id, err := repo.Add("检验科", 1)
		require.NoError(t, err)
		assert.Equal(t, uint(6), id)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("重名按业务失败返回", func(t *testing.T) {
		repo, mock := newDepartmentRepo(t)

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO `departments`").
			WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'ICU' for key 'name'"})
		mock.ExpectRollback()

		_, err := repo.Add("ICU", 1)
		require.Error(t, err)
		assert.True(t, IsBusiness(err))
		assert.Equal(t, "该科室已存在", err.Error())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUpdateDepartment(t *testing.T) {
	t.Run("成功重命名", func(t *testing.T) {
		repo, mock := newDepartmentRepo(t)

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE `departments` SET").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO `activity_log`").WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		require.NoError(t, repo.Update(6, "检验中心", 1))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("新名称冲突", func(t *testing.T) {
		repo, mock := newDepartmentRepo(t)

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE `departments` SET").
			WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
		mock.ExpectRollback()

		err := repo.Update(6, "ICU", 1)
		require.Error(t, err)
		assert.True(t, IsBusiness(err))
		assert.Equal(t, "该科室名称已被使用", err.Error())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDeleteDepartment(t *testing.T) {
	departmentRow := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{"id", "name"}).AddRow(6, "ICU")
	}

	t.Run("仍被现有用户使用时拒绝", func(t *testing.T) {
		repo, mock := newDepartmentRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT (.+) FROM `departments`").WillReturnRows(departmentRow())
		mock.ExpectQuery("SELECT count(.+) FROM `users`").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
		mock.ExpectRollback()

		err := repo.Delete(6, 1)
		require.Error(t, err)
		assert.True(t, IsBusiness(err))
		assert.Equal(t, "该科室已分配给现有用户，无法删除", err.Error())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("仍被维护记录使用时拒绝", func(t *testing.T) {
		repo, mock := newDepartmentRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT (.+) FROM `departments`").WillReturnRows(departmentRow())
		mock.ExpectQuery("SELECT count(.+) FROM `users`").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery("SELECT count(.+) FROM `maintenance`").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
		mock.ExpectRollback()

		err := repo.Delete(6, 1)
		require.Error(t, err)
		assert.True(t, IsBusiness(err))
		assert.Equal(t, "该科室已被维护记录使用，无法删除", err.Error())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("无引用时删除并记日志", func(t *testing.T) {
		repo, mock := newDepartmentRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT (.+) FROM `departments`").WillReturnRows(departmentRow())
		mock.ExpectQuery("SELECT count(.+) FROM `users`").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery("SELECT count(.+) FROM `maintenance`").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectExec("DELETE FROM `departments`").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO `activity_log`").WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		require.NoError(t, repo.Delete(6, 1))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("科室不存在", func(t *testing.T) {
		repo, mock := newDepartmentRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT (.+) FROM `departments`").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectRollback()

		err := repo.Delete(99, 1)
		require.Error(t, err)
		assert.True(t, IsBusiness(err))
		assert.Equal(t, "科室不存在", err.Error())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestIDByName(t *testing.T) {
	repo, mock := newDepartmentRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM `departments`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(6, "ICU"))

	id, err := repo.IDByName("ICU")
	require.NoError(t, err)
	assert.Equal(t, uint(6), id)

	mock.ExpectQuery("SELECT (.+) FROM `departments`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	id, err = repo.IDByName("不存在的科室")
	require.NoError(t, err)
	assert.Equal(t, uint(0), id)
}
