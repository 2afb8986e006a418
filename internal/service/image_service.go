package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"path"
	"strings"

	"github.com/avocadev/blog-api/internal/model"
	"github.com/avocadev/blog-api/internal/storage"
	"github.com/avocadev/blog-api/internal/store"
)

// ImageService 图片服务，处理编辑器粘贴触发的独立上传
type ImageService struct {
	images       store.ImageStore
	blobs        storage.ObjectStore
	maxFileSize  int64
	allowedTypes []string
}

// NewImageService 创建图片服务
func NewImageService(images store.ImageStore, blobs storage.ObjectStore, maxFileSize int64, allowedTypes []string) *ImageService {
	return &ImageService{
		images:       images,
		blobs:        blobs,
		maxFileSize:  maxFileSize,
		allowedTypes: allowedTypes,
	}
}

// checkFile 校验文件大小和扩展名
func (s *ImageService) checkFile(fh *multipart.FileHeader) error {
	if s.maxFileSize > 0 && fh.Size > s.maxFileSize {
		return fmt.Errorf("%w: 文件大小超过限制", ErrValidation)
	}
	if len(s.allowedTypes) == 0 {
		return nil
	}
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(fh.Filename), "."))
	for _, t := range s.allowedTypes {
		if ext == strings.ToLower(t) {
			return nil
		}
	}
	return fmt.Errorf("%w: 不支持的文件类型 %s", ErrValidation, ext)
}

// Upload 上传图片并登记图片行，imageID 由客户端生成
func (s *ImageService) Upload(ctx context.Context, authorID, imageID string, fh *multipart.FileHeader) (string, error) {
	if imageID == "" {
		return "", fmt.Errorf("%w: 缺少图片ID", ErrValidation)
	}
	// 图片ID来自客户端，拼入对象路径前必须排除路径穿越
	if strings.ContainsAny(imageID, `/\`) || strings.Contains(imageID, "..") {
		return "", fmt.Errorf("%w: 非法的图片ID", ErrValidation)
	}
	if err := s.checkFile(fh); err != nil {
		return "", err
	}

	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("打开上传文件失败: %v", err)
	}
	defer f.Close()

	key := uploadKey(imageID, fh.Filename)
	fileURL, err := s.blobs.Put(ctx, key, f)
	if err != nil {
		return "", fmt.Errorf("上传图片失败: %v", err)
	}

	image := &model.Image{
		ImageID: imageID,
		FileURL: fileURL,
	}
	if authorID != "" {
		image.AuthorID = &authorID
	}
	if err := s.images.Insert(ctx, image); err != nil {
		// 行写入失败时回收刚上传的对象
		if delErr := s.blobs.Delete(ctx, key); delErr != nil {
			return "", fmt.Errorf("写入图片记录失败: %v (回收对象也失败: %v)", err, delErr)
		}
		return "", fmt.Errorf("写入图片记录失败: %v", err)
	}
	return fileURL, nil
}
