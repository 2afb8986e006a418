package task

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/avocadev/blog-api/internal/logger"
	"github.com/avocadev/blog-api/internal/storage"
	"github.com/avocadev/blog-api/internal/store"
)

// Sweeper 孤儿图片清理任务
// 建稿回滚和改稿剔除都只是尽力而为，失败会留下无主的图片对象和行，
// 定时把超过宽限期、既无文章关联又未被用作缩略图的图片连对象带行清掉
type Sweeper struct {
	images store.ImageStore
	blobs  storage.ObjectStore
	grace  time.Duration
	cron   *cron.Cron
}

// NewSweeper 创建清理任务
func NewSweeper(images store.ImageStore, blobs storage.ObjectStore, grace time.Duration) *Sweeper {
	return &Sweeper{
		images: images,
		blobs:  blobs,
		grace:  grace,
		cron:   cron.New(),
	}
}

// Start 按 cron 表达式启动定时清理
func (s *Sweeper) Start(spec string) error {
	if _, err := s.cron.AddFunc(spec, func() {
		if err := s.SweepOnce(context.Background()); err != nil {
			logger.Errorf("孤儿图片清理失败: %v", err)
		}
	}); err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

// Stop 停止定时任务，等待在跑的清理结束
func (s *Sweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// SweepOnce 执行一轮清理，返回首个致命错误
// 单张图片清理失败不中断本轮，只记日志
func (s *Sweeper) SweepOnce(ctx context.Context) error {
	before := time.Now().Add(-s.grace)
	orphans, err := s.images.ListOrphans(ctx, before)
	if err != nil {
		return err
	}

	cleaned := 0
	for _, img := range orphans {
		if err := s.blobs.Delete(ctx, s.blobs.Key(img.FileURL)); err != nil {
			logger.Warnf("删除孤儿图片对象失败: image_id=%s err=%v", img.ImageID, err)
			continue
		}
		if err := s.images.Delete(ctx, img.ImageID); err != nil {
			logger.Warnf("删除孤儿图片记录失败: image_id=%s err=%v", img.ImageID, err)
			continue
		}
		cleaned++
	}

	if cleaned > 0 {
		logger.Infof("孤儿图片清理完成: 清理 %d 张", cleaned)
	}
	return nil
}
