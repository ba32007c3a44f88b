package posts

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/anoixa/postboard/database/models"
	postsrepo "github.com/anoixa/postboard/database/repo/posts"
	"github.com/anoixa/postboard/storage"
	"github.com/anoixa/postboard/utils"
	"gorm.io/gorm"
)

// Service 文章服务
type Service struct {
	repo        *postsrepo.Repository
	storage     storage.Provider
	baseURL     string
	maxFiles    int
	maxFileSize int64
}

// Options 服务选项
type Options struct {
	BaseURL     string
	MaxFiles    int
	MaxFileSize int64
}

// NewService 创建文章服务
func NewService(repo *postsrepo.Repository, provider storage.Provider, opts Options) *Service {
	if opts.MaxFiles <= 0 {
		opts.MaxFiles = 12
	}
	return &Service{
		repo:        repo,
		storage:     provider,
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		maxFiles:    opts.MaxFiles,
		maxFileSize: opts.MaxFileSize,
	}
}

// List 分页查询文章，filter 非空白时按原值与标题精确匹配
func (s *Service) List(ctx context.Context, page, pageSize int, filter string) (*ListResult, error) {
	page, pageSize = NormalizePagination(page, pageSize)
	offset := pageSize * (page - 1)

	if strings.TrimSpace(filter) == "" {
		filter = ""
	}

	items, total, err := s.repo.ListPosts(ctx, offset, pageSize, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	if items == nil {
		items = []*models.Post{}
	}

	return &ListResult{Count: total, Posts: items}, nil
}

// Get 获取单篇文章
func (s *Service) Get(ctx context.Context, id string) (*models.Post, error) {
	post, err := s.repo.GetPostByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return post, nil
}

// FrontPage 最新的已发布首页文章
func (s *Service) FrontPage(ctx context.Context) ([]*models.Post, error) {
	return s.listPublished(ctx, true)
}

// Newest 最新的已发布文章
func (s *Service) Newest(ctx context.Context) ([]*models.Post, error) {
	return s.listPublished(ctx, false)
}

func (s *Service) listPublished(ctx context.Context, frontPageOnly bool) ([]*models.Post, error) {
	items, err := s.repo.ListPublished(ctx, frontPageOnly, ShowcaseLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list published posts: %w", err)
	}
	if items == nil {
		items = []*models.Post{}
	}
	return items, nil
}

// Create 创建文章，封面图和图库在同一事务中写入
func (s *Service) Create(ctx context.Context, input *CreateInput, author *models.User) (*models.Post, error) {
	post := &models.Post{
		Title:       input.Title,
		Content:     input.Content,
		Description: input.Description,
		IsFrontPage: input.IsFrontPage,
		IsPublished: input.IsPublished,
	}

	if author != nil {
		post.AuthorID = &author.ID
	}

	if !input.FrontImage.IsEmpty() {
		front, err := newFrontImage(input.FrontImage)
		if err != nil {
			return nil, err
		}
		post.FrontImage = front
	}

	for i := range input.Gallery {
		img, err := newGalleryImage(&input.Gallery[i])
		if err != nil {
			return nil, err
		}
		post.Gallery = append(post.Gallery, *img)
	}

	if err := s.repo.CreatePost(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	log.Printf("[Posts] Post %s created by %s", post.ID, authorLabel(author))
	return s.Get(ctx, post.ID)
}

// Update 更新文章
// 先在一个事务中完成全部行变更，提交后再尽力删除被移除图片的文件
func (s *Service) Update(ctx context.Context, id string, input *UpdateInput, user *models.User) (*models.Post, error) {
	post, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Title != "" {
		post.Title = input.Title
	}
	if input.Content != "" {
		post.Content = input.Content
	}
	if input.Description != "" {
		post.Description = input.Description
	}
	post.IsPublished = input.IsPublished
	post.IsFrontPage = input.IsFrontPage

	plan := newUpdatePlan(post)

	if err := plan.applyFrontImage(input.FrontImage); err != nil {
		return nil, err
	}
	if input.Gallery != nil {
		if err := plan.applyGallery(input.Gallery); err != nil {
			return nil, err
		}
	}
	plan.applyDeletions(input.DeletedFrontImage, input.DeletedGalleryImages)

	if err := s.repo.ApplyChangeset(ctx, plan.changes); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	s.deleteFiles(ctx, plan.removedFiles)

	log.Printf("[Posts] Post %s updated by %s", id, authorLabel(user))
	return s.Get(ctx, id)
}

// Delete 删除文章及其图片，返回删除前加载的文章
func (s *Service) Delete(ctx context.Context, id string, user *models.User) (*models.Post, error) {
	post, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.DeletePost(ctx, post); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to delete post: %w", err)
	}

	s.deleteFiles(ctx, post.Filenames())

	log.Printf("[Posts] Post %s deleted by %s", id, authorLabel(user))
	return post, nil
}

// deleteFiles 尽力删除文件，失败只记录日志
func (s *Service) deleteFiles(ctx context.Context, filenames []string) {
	// 数据库已提交，请求取消不应中断清理
	ctx = context.WithoutCancel(ctx)

	for _, name := range filenames {
		if err := s.storage.DeleteWithContext(ctx, name); err != nil {
			log.Printf("[Posts] Failed to delete file %s: %v", utils.SanitizeLogMessage(name), err)
		}
	}
}

func newFrontImage(in *ImageInput) (*models.FrontImage, error) {
	if err := validateImageRef(in); err != nil {
		return nil, err
	}
	return &models.FrontImage{Filename: in.Filename, Src: in.Src}, nil
}

func newGalleryImage(in *ImageInput) (*models.GalleryImage, error) {
	if err := validateImageRef(in); err != nil {
		return nil, err
	}
	return &models.GalleryImage{Filename: in.Filename, Src: in.Src}, nil
}

// validateImageRef 新图片必须带有 src 和合法的存储文件名
func validateImageRef(in *ImageInput) error {
	if strings.TrimSpace(in.Src) == "" {
		return fmt.Errorf("%w: src is required", ErrInvalidImageRef)
	}
	if !storage.IsValidIdentifier(in.Filename) {
		return fmt.Errorf("%w: bad filename %q", ErrInvalidImageRef, in.Filename)
	}
	return nil
}

func authorLabel(user *models.User) string {
	if user == nil {
		return "anonymous"
	}
	return utils.SanitizeLogEmail(user.Email)
}
