package util

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// GenerateUniqueFilename 生成唯一的文件名，保留原扩展名
func GenerateUniqueFilename(originalFilename string) string {
	ext := strings.ToLower(filepath.Ext(originalFilename))
	return uuid.NewString() + ext
}

// IsAllowedUpload 只接受图片和 PDF
func IsAllowedUpload(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp", ".pdf":
		return true
	}
	return false
}
