package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/avocadev/blog-api/internal/dto"
	"github.com/avocadev/blog-api/internal/logger"
	"github.com/avocadev/blog-api/internal/markdown"
	"github.com/avocadev/blog-api/internal/model"
	"github.com/avocadev/blog-api/internal/storage"
	"github.com/avocadev/blog-api/internal/store"
	"github.com/avocadev/blog-api/pkg/cache"
)

// ErrValidation 参数校验失败
var ErrValidation = errors.New("参数校验失败")

// ArticleService 文章服务
// 编排 Markdown 对象、缩略图对象、插图对象与三张关系表的读写
type ArticleService struct {
	articles store.ArticleStore
	images   store.ImageStore
	blobs    storage.ObjectStore
	cache    cache.Cache
	search   *SearchService
	sf       singleflight.Group
}

// NewArticleService 创建文章服务
func NewArticleService(articles store.ArticleStore, images store.ImageStore, blobs storage.ObjectStore, c cache.Cache, search *SearchService) *ArticleService {
	return &ArticleService{
		articles: articles,
		images:   images,
		blobs:    blobs,
		cache:    c,
		search:   search,
	}
}

// 对象路径规则
func articleBlobKey(articleID string) string {
	return "posts/" + articleID + "/index.md"
}

func thumbnailKey(articleID, filename string) string {
	return "thumbnails/" + articleID + fileExt(filename)
}

func uploadKey(imageID, filename string) string {
	return "uploads/" + imageID + fileExt(filename)
}

func fileExt(filename string) string {
	ext := path.Ext(filename)
	if ext == "" {
		ext = ".png"
	}
	return ext
}

// uploadedImage 本次请求中新上传的插图
type uploadedImage struct {
	imageID string
	fileURL string
}

func (s *ArticleService) putFile(ctx context.Context, fh *multipart.FileHeader, key string) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("打开上传文件失败: %v", err)
	}
	defer f.Close()
	return s.blobs.Put(ctx, key, f)
}

// uploadInlineImages 上传正文插图并把占位符改写为公开URL
// 占位符在每张图之间互不相同，直接做全文替换
// undo 为 nil 时不记录补偿动作（改稿路径不回滚）
func (s *ArticleService) uploadInlineImages(ctx context.Context, undo *undoStack, inline []dto.InlineImage, body string) (string, []uploadedImage, error) {
	var uploaded []uploadedImage
	for _, img := range inline {
		imageID := uuid.NewString()
		key := uploadKey(imageID, img.File.Filename)
		fileURL, err := s.putFile(ctx, img.File, key)
		if err != nil {
			return "", nil, fmt.Errorf("上传正文插图失败: %v", err)
		}
		if undo != nil {
			undo.Push("回滚删除插图对象 "+key, func(ctx context.Context) error {
				return s.blobs.Delete(ctx, key)
			})
		}
		body = strings.ReplaceAll(body, img.Token, fileURL)
		uploaded = append(uploaded, uploadedImage{imageID: imageID, fileURL: fileURL})
	}
	return body, uploaded, nil
}

// Create 建稿
// 先传对象后写行，任一步失败则逆序执行补偿动作
func (s *ArticleService) Create(ctx context.Context, authorID string, cmd *dto.ArticleCreateCommand) (string, error) {
	if err := cmd.Validate(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrValidation, err)
	}

	articleID := uuid.NewString()
	undo := newUndoStack()

	fail := func(err error) (string, error) {
		warnings := undo.Rollback(ctx)
		for _, w := range warnings {
			logger.Warnf("建稿回滚动作失败: %s", w)
		}
		return "", err
	}

	// 1. 缩略图
	var thumbnailURL *string
	if cmd.Thumbnail != nil {
		key := thumbnailKey(articleID, cmd.Thumbnail.Filename)
		fileURL, err := s.putFile(ctx, cmd.Thumbnail, key)
		if err != nil {
			return fail(fmt.Errorf("上传缩略图失败: %v", err))
		}
		undo.Push("回滚删除缩略图对象 "+key, func(ctx context.Context) error {
			return s.blobs.Delete(ctx, key)
		})

		thumbImage := &model.Image{
			ImageID:  uuid.NewString(),
			AuthorID: &authorID,
			FileURL:  fileURL,
		}
		if err := s.images.Insert(ctx, thumbImage); err != nil {
			return fail(fmt.Errorf("写入缩略图记录失败: %v", err))
		}
		undo.Push("回滚删除缩略图记录 "+thumbImage.ImageID, func(ctx context.Context) error {
			return s.images.Delete(ctx, thumbImage.ImageID)
		})
		thumbnailURL = &fileURL
	}

	// 2. 正文插图与占位符改写
	body, uploaded, err := s.uploadInlineImages(ctx, undo, cmd.InlineImages, cmd.Content)
	if err != nil {
		return fail(err)
	}

	// 3. 组装并上传 Markdown 对象
	date := cmd.Date
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	matter := markdown.Matter{
		Title: cmd.Title,
		Date:  date,
		Tags:  cmd.Tags,
	}
	if thumbnailURL != nil {
		matter.Image = *thumbnailURL
	}
	document, err := markdown.Compose(matter, body)
	if err != nil {
		return fail(err)
	}
	blobKey := articleBlobKey(articleID)
	if _, err := s.blobs.Put(ctx, blobKey, strings.NewReader(document)); err != nil {
		return fail(fmt.Errorf("上传文章内容失败: %v", err))
	}
	undo.Push("回滚删除文章对象 "+blobKey, func(ctx context.Context) error {
		return s.blobs.Delete(ctx, blobKey)
	})

	// 4. 写文章行
	article := &model.Article{
		ArticleID:    articleID,
		AuthorID:     authorID,
		Title:        cmd.Title,
		FileURL:      blobKey,
		ThumbnailURL: thumbnailURL,
		Status:       "published",
		Tags:         cmd.Tags,
	}
	if err := s.articles.Insert(ctx, article); err != nil {
		return fail(fmt.Errorf("写入文章记录失败: %v", err))
	}
	undo.Push("回滚删除文章记录 "+articleID, func(ctx context.Context) error {
		return s.articles.Delete(ctx, articleID)
	})

	// 5. 插图行与关联行
	for _, img := range uploaded {
		image := &model.Image{
			ImageID:  img.imageID,
			AuthorID: &authorID,
			FileURL:  img.fileURL,
		}
		if err := s.images.Insert(ctx, image); err != nil {
			return fail(fmt.Errorf("写入插图记录失败: %v", err))
		}
		imageID := img.imageID
		undo.Push("回滚删除插图记录 "+imageID, func(ctx context.Context) error {
			return s.images.Delete(ctx, imageID)
		})

		if err := s.images.Link(ctx, articleID, imageID); err != nil {
			return fail(fmt.Errorf("写入文章插图关联失败: %v", err))
		}
		undo.Push("回滚删除文章插图关联 "+imageID, func(ctx context.Context) error {
			return s.images.Unlink(ctx, articleID, imageID)
		})
	}

	s.invalidateListCaches(ctx)
	s.indexArticle(ctx, article, body)
	return articleID, nil
}

// Update 改稿
// 先按子串比对剔除正文不再引用的插图，再上传新插图并覆盖写对象和行
// 与建稿不同，改稿路径不做补偿回滚
func (s *ArticleService) Update(ctx context.Context, cmd *dto.ArticleUpdateCommand) error {
	if err := cmd.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	article, err := s.articles.Get(ctx, cmd.Slug)
	if err != nil {
		return err
	}

	// 1. 剔除孤儿插图：公开URL不再出现在新正文中的关联图
	// 注意这里是原始正文的子串比对，代码块里的URL文本也会被算作引用
	associated, err := s.images.ListByArticle(ctx, article.ArticleID)
	if err != nil {
		return err
	}
	for _, img := range associated {
		if strings.Contains(cmd.Content, img.FileURL) {
			continue
		}
		if err := s.blobs.Delete(ctx, s.blobs.Key(img.FileURL)); err != nil {
			return fmt.Errorf("删除失引插图对象失败: %v", err)
		}
		if err := s.images.Unlink(ctx, article.ArticleID, img.ImageID); err != nil {
			return err
		}
		if err := s.images.Delete(ctx, img.ImageID); err != nil {
			return err
		}
	}

	// 2. 新插图上传与占位符改写
	body, uploaded, err := s.uploadInlineImages(ctx, nil, cmd.InlineImages, cmd.Content)
	if err != nil {
		return err
	}

	// 3. 缩略图
	thumbnailURL := article.ThumbnailURL
	if cmd.IsThumbnailChange {
		if article.ThumbnailURL != nil {
			if err := s.blobs.Delete(ctx, s.blobs.Key(*article.ThumbnailURL)); err != nil &&
				!errors.Is(err, storage.ErrObjectNotFound) {
				return fmt.Errorf("删除旧缩略图对象失败: %v", err)
			}
		}
		thumbnailURL = nil
		if cmd.Thumbnail != nil {
			key := thumbnailKey(article.ArticleID, cmd.Thumbnail.Filename)
			fileURL, err := s.putFile(ctx, cmd.Thumbnail, key)
			if err != nil {
				return fmt.Errorf("上传新缩略图失败: %v", err)
			}
			thumbImage := &model.Image{
				ImageID:  uuid.NewString(),
				AuthorID: &article.AuthorID,
				FileURL:  fileURL,
			}
			if err := s.images.Insert(ctx, thumbImage); err != nil {
				return fmt.Errorf("写入新缩略图记录失败: %v", err)
			}
			thumbnailURL = &fileURL
		}
	}

	// 4. 覆盖写 Markdown 对象
	matter := markdown.Matter{
		Title: cmd.Title,
		Date:  cmd.Date,
		Tags:  cmd.Tags,
	}
	if thumbnailURL != nil {
		matter.Image = *thumbnailURL
	}
	document, err := markdown.Compose(matter, body)
	if err != nil {
		return err
	}
	if _, err := s.blobs.Put(ctx, articleBlobKey(article.ArticleID), strings.NewReader(document)); err != nil {
		return fmt.Errorf("覆盖写文章内容失败: %v", err)
	}

	// 5. 更新文章行
	article.Title = cmd.Title
	article.ThumbnailURL = thumbnailURL
	article.Tags = cmd.Tags
	if err := s.articles.Update(ctx, article); err != nil {
		return err
	}

	// 6. 新插图行与关联行
	for _, img := range uploaded {
		image := &model.Image{
			ImageID:  img.imageID,
			AuthorID: &article.AuthorID,
			FileURL:  img.fileURL,
		}
		if err := s.images.Insert(ctx, image); err != nil {
			return fmt.Errorf("写入插图记录失败: %v", err)
		}
		if err := s.images.Link(ctx, article.ArticleID, img.imageID); err != nil {
			return fmt.Errorf("写入文章插图关联失败: %v", err)
		}
	}

	s.invalidateDetailCache(ctx, article.ArticleID)
	s.invalidateListCaches(ctx)
	s.indexArticle(ctx, article, body)
	return nil
}

// Delete 删稿
// 逐阶段执行，任一阶段失败即中止并报告失败阶段
// 先删对象后删行，避免出现指向缺失对象的行
func (s *ArticleService) Delete(ctx context.Context, slug string) error {
	article, err := s.articles.Get(ctx, slug)
	if err != nil {
		return err
	}

	// 1. 收集关联插图
	associated, err := s.images.ListByArticle(ctx, article.ArticleID)
	if err != nil {
		return fmt.Errorf("查询关联插图阶段失败: %v", err)
	}

	// 2. 删除插图对象
	for _, img := range associated {
		if err := s.blobs.Delete(ctx, s.blobs.Key(img.FileURL)); err != nil {
			return fmt.Errorf("删除插图对象阶段失败: %v", err)
		}
	}

	// 3. 删除文章对象
	if err := s.blobs.Delete(ctx, articleBlobKey(article.ArticleID)); err != nil &&
		!errors.Is(err, storage.ErrObjectNotFound) {
		return fmt.Errorf("删除文章对象阶段失败: %v", err)
	}

	// 4. 删除缩略图对象及其记录
	if article.ThumbnailURL != nil {
		if err := s.blobs.Delete(ctx, s.blobs.Key(*article.ThumbnailURL)); err != nil &&
			!errors.Is(err, storage.ErrObjectNotFound) {
			return fmt.Errorf("删除缩略图对象阶段失败: %v", err)
		}
		if thumb, err := s.images.GetByURL(ctx, *article.ThumbnailURL); err == nil {
			if err := s.images.Delete(ctx, thumb.ImageID); err != nil {
				return fmt.Errorf("删除缩略图记录阶段失败: %v", err)
			}
		} else if !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("查询缩略图记录阶段失败: %v", err)
		}
	}

	// 5. 删除关联行和插图行
	if err := s.images.DeleteLinksByArticle(ctx, article.ArticleID); err != nil {
		return fmt.Errorf("删除文章插图关联阶段失败: %v", err)
	}
	for _, img := range associated {
		if err := s.images.Delete(ctx, img.ImageID); err != nil {
			return fmt.Errorf("删除插图记录阶段失败: %v", err)
		}
	}

	// 6. 删除文章行
	if err := s.articles.Delete(ctx, article.ArticleID); err != nil {
		return fmt.Errorf("删除文章记录阶段失败: %v", err)
	}

	s.invalidateDetailCache(ctx, article.ArticleID)
	s.invalidateListCaches(ctx)
	s.removeFromIndex(ctx, article.ArticleID)
	return nil
}

// GetDetail 读稿
// 先查缓存，未命中时经 singleflight 收敛并发读，再读对象、解析、渲染
func (s *ArticleService) GetDetail(ctx context.Context, slug string) (*dto.PostDetail, error) {
	cacheKey := fmt.Sprintf(cache.PostDetailKey, slug)
	if s.cache != nil {
		var detail dto.PostDetail
		if err := s.cache.GetJSON(ctx, cacheKey, &detail); err == nil {
			return &detail, nil
		}
	}

	result, err, _ := s.sf.Do(slug, func() (interface{}, error) {
		data, err := s.blobs.Get(ctx, articleBlobKey(slug))
		if err != nil {
			return nil, err
		}
		matter, body, err := markdown.Parse(string(data))
		if err != nil {
			return nil, err
		}
		html, err := markdown.Render(body)
		if err != nil {
			return nil, err
		}
		detail := &dto.PostDetail{
			Slug:        slug,
			Title:       matter.Title,
			Description: matter.Description,
			Date:        matter.Date,
			Image:       matter.Image,
			Tags:        matter.Tags,
			Content:     body,
			ContentHTML: html,
		}
		if s.cache != nil {
			if err := s.cache.SetJSON(ctx, cacheKey, detail, cache.PostDetailExpiration); err != nil {
				logger.Warnf("写入详情缓存失败: %v", err)
			}
		}
		return detail, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*dto.PostDetail), nil
}

// List 全量分页列表，按创建时间倒序
func (s *ArticleService) List(ctx context.Context, page int) (*dto.PageData, error) {
	cacheKey := fmt.Sprintf(cache.PostListKey, s.listCacheVersion(ctx), page)
	if s.cache != nil {
		var cached dto.PageData
		if err := s.cache.GetJSON(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	articles, err := s.articles.List(ctx)
	if err != nil {
		return nil, err
	}
	data := buildPageData(articles, page)
	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, cacheKey, data, cache.PostListExpiration); err != nil {
			logger.Warnf("写入列表缓存失败: %v", err)
		}
	}
	return data, nil
}

// ListByTag 标签过滤列表，标签做大小写敏感的精确匹配
func (s *ArticleService) ListByTag(ctx context.Context, tag string, page int) (*dto.PageData, error) {
	articles, err := s.articles.List(ctx)
	if err != nil {
		return nil, err
	}
	var filtered []model.Article
	for _, a := range articles {
		for _, t := range a.Tags {
			if t == tag {
				filtered = append(filtered, a)
				break
			}
		}
	}
	return buildPageData(filtered, page), nil
}

func buildPageData(articles []model.Article, page int) *dto.PageData {
	window := BuildPageWindow(page, len(articles))
	posts := make([]dto.PostItem, 0, PageSize)
	for _, a := range clampSlice(articles, window) {
		posts = append(posts, toPostItem(a))
	}
	return &dto.PageData{
		Posts:       posts,
		CurrentPage: window.CurrentPage,
		TotalPages:  window.TotalPages,
		Pages:       window.Pages,
		Total:       len(articles),
	}
}

func toPostItem(a model.Article) dto.PostItem {
	item := dto.PostItem{
		Slug:  a.ArticleID,
		Title: a.Title,
		Date:  a.CreatedAt.Format("2006-01-02"),
		Tags:  make([]string, 0, len(a.Tags)),
	}
	if a.ThumbnailURL != nil {
		item.Image = *a.ThumbnailURL
	}
	// 剔除空白标签
	for _, t := range a.Tags {
		if strings.TrimSpace(t) != "" {
			item.Tags = append(item.Tags, t)
		}
	}
	return item
}

func (s *ArticleService) invalidateDetailCache(ctx context.Context, slug string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, fmt.Sprintf(cache.PostDetailKey, slug)); err != nil {
		logger.Warnf("删除详情缓存失败: %v", err)
	}
}

// listCacheVersion 读取列表缓存版本号，未命中视为0
func (s *ArticleService) listCacheVersion(ctx context.Context) int64 {
	if s.cache == nil {
		return 0
	}
	v, err := s.cache.Get(ctx, cache.PostListVersionKey)
	if err != nil {
		return 0
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func (s *ArticleService) invalidateListCaches(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cache.TagCountKey); err != nil {
		logger.Warnf("删除标签统计缓存失败: %v", err)
	}
	// 递增版本号让所有页码的旧列表缓存一次性失效
	next := s.listCacheVersion(ctx) + 1
	if err := s.cache.Set(ctx, cache.PostListVersionKey, strconv.FormatInt(next, 10), 0); err != nil {
		logger.Warnf("更新列表缓存版本失败: %v", err)
	}
}

// indexArticle 写入搜索索引，失败只记日志
func (s *ArticleService) indexArticle(ctx context.Context, article *model.Article, content string) {
	if s.search == nil {
		return
	}
	if err := s.search.IndexArticle(ctx, article.ToSearchDocument(content)); err != nil {
		logger.Warnf("写入搜索索引失败: %v", err)
	}
}

func (s *ArticleService) removeFromIndex(ctx context.Context, articleID string) {
	if s.search == nil {
		return
	}
	if err := s.search.DeleteArticle(ctx, articleID); err != nil {
		logger.Warnf("删除搜索索引失败: %v", err)
	}
}
