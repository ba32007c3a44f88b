package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/anoixa/postboard/database/models"

	"github.com/golang-jwt/jwt/v5"
)

const minSecretLength = 32

// ErrInvalidToken 令牌无法解析、签名错误或已过期
var ErrInvalidToken = errors.New("invalid token")

// TokenClaims 访问令牌声明
type TokenClaims struct {
	Email  string
	UserID string
	Exp    int64
	Iat    int64
}

// JWTService JWT 签发与校验
type JWTService struct {
	secret    []byte
	expiresIn time.Duration
	now       func() time.Time
}

// NewJWTService 创建 JWT 服务，密钥长度至少 32 字符
func NewJWTService(secret string, expiresIn time.Duration) (*JWTService, error) {
	if len(secret) < minSecretLength {
		return nil, fmt.Errorf("JWT secret must be at least %d characters long, got %d", minSecretLength, len(secret))
	}
	if expiresIn <= 0 {
		expiresIn = 24 * time.Hour
	}

	return &JWTService{
		secret:    []byte(secret),
		expiresIn: expiresIn,
		now:       time.Now,
	}, nil
}

// GenerateAccessToken 为用户签发 HS256 访问令牌
func (s *JWTService) GenerateAccessToken(user *models.User) (string, time.Time, error) {
	if user == nil || user.Email == "" {
		return "", time.Time{}, errors.New("cannot issue token without user email")
	}

	now := s.now()
	expiry := now.Add(s.expiresIn)
	claims := jwt.MapClaims{
		"email": user.Email,
		"sub":   user.ID,
		"iat":   now.Unix(),
		"exp":   expiry.Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	return token, expiry, nil
}

// ParseToken 解析并校验令牌，返回其中的声明
func (s *JWTService) ParseToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	email, _ := claims["email"].(string)
	if email == "" {
		return nil, fmt.Errorf("%w: missing email claim", ErrInvalidToken)
	}
	sub, _ := claims["sub"].(string)
	exp, _ := claims["exp"].(float64)
	iat, _ := claims["iat"].(float64)

	return &TokenClaims{
		Email:  email,
		UserID: sub,
		Exp:    int64(exp),
		Iat:    int64(iat),
	}, nil
}
