package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/anoixa/postboard/database/models"
	"github.com/anoixa/postboard/database/repo/accounts"
	"github.com/anoixa/postboard/utils"
	cryptopackage "github.com/anoixa/postboard/utils/crypto"

	"gorm.io/gorm"
)

var (
	ErrEmailTaken     = errors.New("email is already registered")
	ErrBadCredentials = errors.New("wrong credentials")
)

// dummyHash 未知邮箱时参与比较的哈希，使两条失败路径耗时一致
var (
	dummyHash     string
	dummyHashOnce sync.Once
)

func timingDummyHash() string {
	dummyHashOnce.Do(func() {
		hash, err := cryptopackage.GenerateFromPassword("postboard-timing-equalizer")
		if err != nil {
			log.Printf("[Auth] Failed to prepare dummy hash: %v", err)
			return
		}
		dummyHash = hash
	})
	return dummyHash
}

// RegisterInput 注册请求
type RegisterInput struct {
	Name     string `json:"name" binding:"required,notblank,min=2,max=100"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

// Credentials 登录凭据
type Credentials struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResult 登录结果
type AuthResult struct {
	User      *models.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

// Service 用户注册、登录与令牌校验
type Service struct {
	repo    *accounts.Repository
	jwt     *JWTService
	compare func(password, hash string) (bool, error)
}

// NewService 创建认证服务
func NewService(repo *accounts.Repository, jwtService *JWTService) *Service {
	return &Service{
		repo:    repo,
		jwt:     jwtService,
		compare: cryptopackage.ComparePasswordAndHash,
	}
}

// Register 注册用户并分配 Basic 角色
func (s *Service) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	return s.createUser(ctx, input, models.RoleBasic)
}

// CreateAdmin 创建拥有 Basic 与 Admin 角色的用户
func (s *Service) CreateAdmin(ctx context.Context, input RegisterInput) (*models.User, error) {
	return s.createUser(ctx, input, models.RoleBasic, models.RoleAdmin)
}

func (s *Service) createUser(ctx context.Context, input RegisterInput, roles ...string) (*models.User, error) {
	hash, err := cryptopackage.GenerateFromPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:     strings.TrimSpace(input.Name),
		Email:    normalizeEmail(input.Email),
		Password: hash,
	}

	if err := s.repo.CreateUser(ctx, user, roles...); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Printf("[Auth] User registered: %s", utils.SanitizeLogEmail(user.Email))
	return user, nil
}

// SignIn 校验邮箱与密码，返回匹配的用户
func (s *Service) SignIn(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.repo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, accounts.ErrUserNotFound) {
			if hash := timingDummyHash(); hash != "" {
				_, _ = s.compare(password, hash)
			}
			return nil, ErrBadCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	ok, err := s.compare(password, user.Password)
	if err != nil {
		log.Printf("[Auth] Stored hash for %s is unreadable: %v", utils.SanitizeLogEmail(user.Email), err)
		return nil, ErrBadCredentials
	}
	if !ok {
		return nil, ErrBadCredentials
	}

	if cryptopackage.NeedsRehash(user.Password) {
		s.rehash(ctx, user, password)
	}

	return user, nil
}

// rehash 成本参数变化后的透明升级，失败不影响登录
func (s *Service) rehash(ctx context.Context, user *models.User, password string) {
	hash, err := cryptopackage.GenerateFromPassword(password)
	if err != nil {
		log.Printf("[Auth] Failed to rehash password: %v", err)
		return
	}
	if err := s.repo.UpdatePassword(ctx, user, hash); err != nil {
		log.Printf("[Auth] Failed to store rehashed password: %v", err)
	}
}

// Authenticate 登录并签发访问令牌
func (s *Service) Authenticate(ctx context.Context, creds Credentials) (*AuthResult, error) {
	user, err := s.SignIn(ctx, creds.Email, creds.Password)
	if err != nil {
		return nil, err
	}

	token, expiry, err := s.jwt.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: user, Token: token, ExpiresAt: expiry}, nil
}

// ValidateToken 根据令牌声明中的邮箱加载用户
func (s *Service) ValidateToken(ctx context.Context, claims *TokenClaims) (*models.User, error) {
	if claims == nil || claims.Email == "" {
		return nil, ErrInvalidToken
	}

	user, err := s.repo.GetUserByEmail(ctx, claims.Email)
	if err != nil {
		if errors.Is(err, accounts.ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return user, nil
}

// ChangePassword 重置用户密码
func (s *Service) ChangePassword(ctx context.Context, email, newPassword string) error {
	user, err := s.repo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return err
	}

	hash, err := cryptopackage.GenerateFromPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.repo.UpdatePassword(ctx, user, hash)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
