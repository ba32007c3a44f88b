package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/plugin/optimisticlock"
)

type User struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	Roles     []Role    `gorm:"many2many:user_roles;" json:"roles,omitempty"`
	Posts     []Post    `gorm:"foreignKey:AuthorID" json:"-"`
	CreatedOn time.Time `gorm:"autoCreateTime" json:"createdOn"`
	UpdatedOn time.Time `gorm:"autoUpdateTime" json:"updatedOn"`

	Version optimisticlock.Version `json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}

// HasRole 检查用户是否拥有指定角色
func (u *User) HasRole(name string) bool {
	for _, r := range u.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}
