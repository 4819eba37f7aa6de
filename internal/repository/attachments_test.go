package repository

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreAttachmentFile(t *testing.T) {
	srcDir := t.TempDir()
	srcPath := filepath.Join(srcDir, "report.pdf")
	require.NoError(t, os.WriteFile(srcPath, []byte("content"), 0644))

	attachmentDir := filepath.Join(t.TempDir(), "attachments")
	repo, _ := newRecordRepo(t, attachmentDir)

	storedPath, err := repo.StoreAttachmentFile(srcPath)
	require.NoError(t, err)
	assert.Equal(t, attachmentDir, filepath.Dir(storedPath))
	assert.Equal(t, ".pdf", filepath.Ext(storedPath))

	data, err := os.ReadFile(storedPath)
	require.NoError(t, err)
	assert.Equal(t, []byte("content"), data)

	// 同一源文件再存一次得到不同的落盘名
	secondPath, err := repo.StoreAttachmentFile(srcPath)
	require.NoError(t, err)
	assert.NotEqual(t, storedPath, secondPath)
}

func TestAddAttachment(t *testing.T) {
	repo, mock := newRecordRepo(t, "")

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `attachments`").WillReturnResult(sqlmock.NewResult(4, 1))
	mock.ExpectExec("INSERT INTO `activity_log`").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	id, err := repo.AddAttachment(7, "report.pdf", "/data/attachments/x.pdf", 3)
	require.NoError(t, err)
	assert.Equal(t, uint(4), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttachmentsForRecord(t *testing.T) {
	repo, mock := newRecordRepo(t, "")

	rows := sqlmock.NewRows([]string{"id", "maintenance_id", "original_filename", "stored_filepath"}).
		AddRow(2, 7, "before.jpg", "/data/a.jpg").
		AddRow(5, 7, "after.jpg", "/data/b.jpg")

	mock.ExpectQuery("SELECT (.+) FROM `attachments`").
		WithArgs(7).
		WillReturnRows(rows)

	attachments, err := repo.AttachmentsForRecord(7)
	require.NoError(t, err)
	require.Len(t, attachments, 2)
	// ID 升序
	assert.Equal(t, uint(2), attachments[0].ID)
	assert.Equal(t, "before.jpg", attachments[0].OriginalFilename)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteAttachment(t *testing.T) {
	t.Run("附件不存在返回业务失败", func(t *testing.T) {
		repo, mock := newRecordRepo(t, "")

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT (.+) FROM `attachments`").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectRollback()

		err := repo.DeleteAttachment(99, 3)
		require.Error(t, err)
		assert.True(t, IsBusiness(err))
		assert.Equal(t, "附件不存在", err.Error())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("删除数据库记录和磁盘文件", func(t *testing.T) {
		dir := t.TempDir()
		storedFile := filepath.Join(dir, "x.pdf")
		require.NoError(t, os.WriteFile(storedFile, []byte("x"), 0644))

		repo, mock := newRecordRepo(t, dir)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT (.+) FROM `attachments`").
			WillReturnRows(sqlmock.NewRows([]string{"id", "maintenance_id", "original_filename", "stored_filepath"}).
				AddRow(4, 7, "report.pdf", storedFile))
		mock.ExpectExec("DELETE FROM `attachments`").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO `activity_log`").WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		require.NoError(t, repo.DeleteAttachment(4, 3))
		assert.NoError(t, mock.ExpectationsWereMet())

		_, err := os.Stat(storedFile)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("文件已不在磁盘上时仍然成功", func(t *testing.T) {
		repo, mock := newRecordRepo(t, "")

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT (.+) FROM `attachments`").
			WillReturnRows(sqlmock.NewRows([]string{"id", "maintenance_id", "original_filename", "stored_filepath"}).
				AddRow(4, 7, "report.pdf", "/nonexistent/x.pdf"))
		mock.ExpectExec("DELETE FROM `attachments`").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO `activity_log`").WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		require.NoError(t, repo.DeleteAttachment(4, 3))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
