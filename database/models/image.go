package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FrontImage 文章封面图
type FrontImage struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Filename  string    `gorm:"size:255;not null;index" json:"filename"`
	Src       string    `gorm:"size:1024;not null" json:"src"`
	CreatedOn time.Time `gorm:"autoCreateTime" json:"createdOn"`
}

func (i *FrontImage) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	return nil
}

// GalleryImage 文章图库中的图片，随文章级联删除
type GalleryImage struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	PostID    string    `gorm:"size:36;not null;index" json:"postId"`
	Filename  string    `gorm:"size:255;not null;index" json:"filename"`
	Src       string    `gorm:"size:1024;not null" json:"src"`
	CreatedOn time.Time `gorm:"autoCreateTime" json:"createdOn"`
}

func (i *GalleryImage) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	return nil
}
