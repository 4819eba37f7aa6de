package utils

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// GenerateStoredFilename 生成附件落盘用的唯一文件名
// ext 是文件扩展名，例如 ".pdf", ".jpg"
// 格式为 年月日_时分秒_随机UUID.扩展名
// 例如: 20250830_143045_550e8400-e29b-41d4-a716-446655440000.pdf
func GenerateStoredFilename(ext string) string {
	now := time.Now()
	return fmt.Sprintf("%s_%s_%s%s",
		now.Format("20060102"),
		now.Format("150405"),
		uuid.New().String(),
		ext,
	)
}
