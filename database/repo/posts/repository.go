package posts

import (
	"context"
	"fmt"

	"github.com/anoixa/postboard/database"
	"github.com/anoixa/postboard/database/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository 文章仓库 - 封装文章聚合的全部数据库操作
type Repository struct {
	db *gorm.DB
}

// NewRepository 创建新的文章仓库
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func preloadGallery(db *gorm.DB) *gorm.DB {
	return db.Order("created_on ASC, id ASC")
}

// ListPosts 分页查询文章，title 非空时按标题精确匹配
func (r *Repository) ListPosts(ctx context.Context, offset, limit int, title string) ([]*models.Post, int64, error) {
	var posts []*models.Post
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Post{})
	if title != "" {
		query = query.Where("title = ?", title)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("FrontImage").
		Preload("Gallery", preloadGallery).
		Order("created_on DESC").
		Offset(offset).
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}

// ListPublished 最新的已发布文章，frontPageOnly 为 true 时只返回首页文章
func (r *Repository) ListPublished(ctx context.Context, frontPageOnly bool, limit int) ([]*models.Post, error) {
	var posts []*models.Post

	query := r.db.WithContext(ctx).Where("is_published = ?", true)
	if frontPageOnly {
		query = query.Where("is_front_page = ?", true)
	}

	err := query.
		Preload("FrontImage").
		Order("created_on DESC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

// GetPostByID 获取文章及封面图和图库
func (r *Repository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Preload("FrontImage").
		Preload("Gallery", preloadGallery).
		First(&post, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// CreatePost 在同一事务中写入封面图、文章和图库
func (r *Repository) CreatePost(ctx context.Context, post *models.Post) error {
	return database.TransactionWithContext(ctx, r.db, func(tx *gorm.DB) error {
		if post.FrontImage != nil {
			if err := tx.Create(post.FrontImage).Error; err != nil {
				return fmt.Errorf("failed to create front image: %w", err)
			}
			post.FrontImageID = &post.FrontImage.ID
		}

		if err := tx.Omit(clause.Associations).Create(post).Error; err != nil {
			return fmt.Errorf("failed to create post: %w", err)
		}

		if len(post.Gallery) > 0 {
			for i := range post.Gallery {
				post.Gallery[i].PostID = post.ID
			}
			if err := tx.Create(&post.Gallery).Error; err != nil {
				return fmt.Errorf("failed to create gallery images: %w", err)
			}
		}
		return nil
	})
}

// Changeset 一次文章更新涉及的全部行变更
type Changeset struct {
	Post *models.Post

	// NewFrontImage 非空时创建并替换当前封面
	NewFrontImage *models.FrontImage
	// ClearFrontImage 解除文章与封面的关联
	ClearFrontImage bool

	NewGallery []models.GalleryImage

	DeleteFrontImageIDs []string
	DeleteGalleryIDs    []string
}

// ApplyChangeset 在同一事务中应用文章更新
func (r *Repository) ApplyChangeset(ctx context.Context, cs *Changeset) error {
	post := cs.Post
	return database.TransactionWithContext(ctx, r.db, func(tx *gorm.DB) error {
		switch {
		case cs.NewFrontImage != nil:
			if err := tx.Create(cs.NewFrontImage).Error; err != nil {
				return fmt.Errorf("failed to create front image: %w", err)
			}
			post.FrontImageID = &cs.NewFrontImage.ID
		case cs.ClearFrontImage:
			post.FrontImageID = nil
		}

		result := tx.Model(&models.Post{}).Where("id = ?", post.ID).Updates(map[string]interface{}{
			"title":          post.Title,
			"content":        post.Content,
			"description":    post.Description,
			"is_published":   post.IsPublished,
			"is_front_page":  post.IsFrontPage,
			"front_image_id": post.FrontImageID,
		})
		if result.Error != nil {
			return fmt.Errorf("failed to update post: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if len(cs.NewGallery) > 0 {
			for i := range cs.NewGallery {
				cs.NewGallery[i].PostID = post.ID
			}
			if err := tx.Create(&cs.NewGallery).Error; err != nil {
				return fmt.Errorf("failed to create gallery images: %w", err)
			}
		}

		if len(cs.DeleteGalleryIDs) > 0 {
			err := tx.Where("post_id = ? AND id IN ?", post.ID, cs.DeleteGalleryIDs).
				Delete(&models.GalleryImage{}).Error
			if err != nil {
				return fmt.Errorf("failed to delete gallery images: %w", err)
			}
		}

		if len(cs.DeleteFrontImageIDs) > 0 {
			if err := tx.Where("id IN ?", cs.DeleteFrontImageIDs).Delete(&models.FrontImage{}).Error; err != nil {
				return fmt.Errorf("failed to delete front image: %w", err)
			}
		}
		return nil
	})
}

// DeletePost 在同一事务中删除图库、文章和封面图
func (r *Repository) DeletePost(ctx context.Context, post *models.Post) error {
	return database.TransactionWithContext(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.GalleryImage{}).Error; err != nil {
			return fmt.Errorf("failed to delete gallery images: %w", err)
		}

		result := tx.Delete(&models.Post{}, "id = ?", post.ID)
		if result.Error != nil {
			return fmt.Errorf("failed to delete post: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if post.FrontImageID != nil {
			if err := tx.Delete(&models.FrontImage{}, "id = ?", *post.FrontImageID).Error; err != nil {
				return fmt.Errorf("failed to delete front image: %w", err)
			}
		}
		return nil
	})
}

// ReferencedFilenames 返回所有被图片记录引用的文件名
func (r *Repository) ReferencedFilenames(ctx context.Context) (map[string]struct{}, error) {
	var front, gallery []string

	if err := r.db.WithContext(ctx).Model(&models.FrontImage{}).Pluck("filename", &front).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(&models.GalleryImage{}).Pluck("filename", &gallery).Error; err != nil {
		return nil, err
	}

	refs := make(map[string]struct{}, len(front)+len(gallery))
	for _, name := range front {
		refs[name] = struct{}{}
	}
	for _, name := range gallery {
		refs[name] = struct{}{}
	}
	return refs, nil
}
