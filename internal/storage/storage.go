// Package storage 上传文件（头像、宠物照片、认证材料）
package storage

import (
	"context"
	"fmt"
	"mime/multipart"
	"path"
	"strings"

	"github.com/HanniPham13/PawPalAPI-sub000/config"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/util"
)

// Storage 保存上传的文件并返回可访问的 URL
type Storage interface {
	UploadFile(ctx context.Context, file *multipart.FileHeader, key string) (string, error)
}

// NewStorage 按 STORAGE_DRIVER 选择存储后端
func NewStorage(ctx context.Context, cfg config.Config) (Storage, error) {
	switch strings.ToLower(cfg.StorageDriver) {
	case "", "local":
		return NewLocalStorage(cfg.LocalStoragePath, strings.TrimRight(cfg.BackendURL, "/")+"/uploads")
	case "s3":
		return NewS3Client(cfg.S3Region, cfg.S3Bucket)
	case "gcs":
		return NewGCSClient(ctx, cfg.GCSBucketName, cfg.GCSCredentialsFile)
	}
	return nil, fmt.Errorf("未知的存储驱动: %s", cfg.StorageDriver)
}

// ObjectKey 为上传文件生成唯一的存储路径，如 pets/12/<uuid>.jpg
func ObjectKey(prefix string, ownerID int, filename string) string {
	return path.Join(prefix, fmt.Sprint(ownerID), util.GenerateUniqueFilename(filename))
}
