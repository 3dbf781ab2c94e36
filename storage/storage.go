// Package storage 定义对象存储的通用接口，作为按名称加载数据集的远端来源。
package storage

import (
	"context"
	"io"
)

// Storage 定义了对象存储的通用接口，支持多驱动扩展。
type Storage interface {
	// Upload 上传对象
	Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error

	// Download 下载对象，调用方负责关闭
	Download(ctx context.Context, objectName string) (io.ReadCloser, error)

	// Exists 检查对象是否存在
	Exists(ctx context.Context, objectName string) (bool, error)

	// Delete 删除对象
	Delete(ctx context.Context, objectName string) error
}
