package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post 文章聚合根，持有封面图和图库
type Post struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Title       string    `gorm:"size:100;not null" json:"title"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	Description string    `gorm:"size:1000;not null" json:"description"`
	IsPublished bool      `gorm:"not null;index:idx_posts_published_created,priority:1" json:"isPublished"`
	IsFrontPage bool      `gorm:"not null" json:"isFrontPage"`
	CreatedOn   time.Time `gorm:"autoCreateTime;index:idx_posts_published_created,priority:2" json:"createdOn"`

	AuthorID *string `gorm:"size:36;index" json:"authorId,omitempty"`
	Author   *User   `gorm:"foreignKey:AuthorID;constraint:OnDelete:SET NULL" json:"-"`

	FrontImageID *string        `gorm:"size:36;index" json:"-"`
	FrontImage   *FrontImage    `gorm:"foreignKey:FrontImageID;constraint:OnDelete:SET NULL" json:"frontImage"`
	Gallery      []GalleryImage `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"gallery"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// Filenames 返回聚合内所有图片的存储文件名
func (p *Post) Filenames() []string {
	names := make([]string, 0, len(p.Gallery)+1)
	if p.FrontImage != nil {
		names = append(names, p.FrontImage.Filename)
	}
	for _, img := range p.Gallery {
		names = append(names, img.Filename)
	}
	return names
}
