package models

const (
	RoleBasic = "Basic"
	RoleAdmin = "Admin"
)

// DefaultRoles 迁移时写入的角色
var DefaultRoles = []string{RoleBasic, RoleAdmin}

type Role struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:50;uniqueIndex;not null" json:"name"`
}
