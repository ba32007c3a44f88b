package accounts

import (
	"context"
	"errors"
	"fmt"

	"github.com/anoixa/postboard/database"
	"github.com/anoixa/postboard/database/models"
	"gorm.io/gorm"
)

// ErrUserNotFound 用户不存在错误
var ErrUserNotFound = errors.New("user not found")

// ErrVersionConflict 乐观锁冲突，记录已被其他请求修改
var ErrVersionConflict = errors.New("user was modified concurrently")

// Repository 账户仓库 - 封装所有账户相关的数据库操作
type Repository struct {
	db *gorm.DB
}

// NewRepository 创建新的账户仓库
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateUser 创建用户并关联指定角色
// 邮箱重复时返回 gorm.ErrDuplicatedKey（需开启 TranslateError）
func (r *Repository) CreateUser(ctx context.Context, user *models.User, roleNames ...string) error {
	return database.TransactionWithContext(ctx, r.db, func(tx *gorm.DB) error {
		if len(roleNames) > 0 {
			var roles []models.Role
			if err := tx.Where("name IN ?", roleNames).Find(&roles).Error; err != nil {
				return fmt.Errorf("failed to load roles: %w", err)
			}
			if len(roles) != len(roleNames) {
				return fmt.Errorf("roles %v are not all seeded, run migrate first", roleNames)
			}
			user.Roles = roles
		}

		return tx.Omit("Roles.*").Create(user).Error
	})
}

// GetUserByEmail 通过邮箱获取用户
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Preload("Roles").Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UpdatePassword 更新密码哈希，版本号不匹配时返回 ErrVersionConflict
func (r *Repository) UpdatePassword(ctx context.Context, user *models.User, hash string) error {
	result := r.db.WithContext(ctx).Model(user).Updates(models.User{Password: hash})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrVersionConflict
	}
	return nil
}
