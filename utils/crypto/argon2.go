package cryptopackage

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/argon2"
)

// ErrInvalidHash 哈希字符串格式错误
var ErrInvalidHash = errors.New("invalid argon2id hash")

// Params Argon2id 成本参数
type Params struct {
	Memory      uint32 // KiB
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultParams 交互式登录场景的参数
var DefaultParams = Params{
	Memory:      64 * 1024,
	Iterations:  2,
	Parallelism: 4,
	SaltLength:  16,
	KeyLength:   32,
}

// GenerateFromPassword 使用默认参数哈希密码
func GenerateFromPassword(password string) (string, error) {
	return GenerateWithParams(password, DefaultParams)
}

// GenerateWithParams 使用指定参数哈希密码，返回 PHC 格式字符串
// $argon2id$v=19$m=65536,t=2,p=4$<salt>$<hash>
func GenerateWithParams(password string, p Params) (string, error) {
	salt := make([]byte, p.SaltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, p.Iterations, p.Memory, p.Parallelism, p.KeyLength)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.Memory, p.Iterations, p.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// ComparePasswordAndHash 常量时间比较明文密码与哈希
func ComparePasswordAndHash(password, encodedHash string) (bool, error) {
	p, salt, key, err := decodeHash(encodedHash)
	if err != nil {
		return false, err
	}

	computed := argon2.IDKey([]byte(password), salt, p.Iterations, p.Memory, p.Parallelism, p.KeyLength)
	return subtle.ConstantTimeCompare(key, computed) == 1, nil
}

// NeedsRehash 判断哈希是否使用了与 DefaultParams 不同的成本参数
func NeedsRehash(encodedHash string) bool {
	p, _, _, err := decodeHash(encodedHash)
	if err != nil {
		return true
	}
	return p.Memory != DefaultParams.Memory ||
		p.Iterations != DefaultParams.Iterations ||
		p.Parallelism != DefaultParams.Parallelism ||
		p.KeyLength != DefaultParams.KeyLength
}

func decodeHash(encodedHash string) (Params, []byte, []byte, error) {
	var p Params

	// "", "argon2id", "v=..", "m=..,t=..,p=..", salt, hash
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return p, nil, nil, fmt.Errorf("%w: unexpected format", ErrInvalidHash)
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return p, nil, nil, fmt.Errorf("%w: version: %v", ErrInvalidHash, err)
	}
	if version != argon2.Version {
		return p, nil, nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidHash, version)
	}

	var parallelism uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.Memory, &p.Iterations, &parallelism); err != nil {
		return p, nil, nil, fmt.Errorf("%w: parameters: %v", ErrInvalidHash, err)
	}
	if parallelism == 0 || parallelism > 255 || p.Iterations == 0 {
		return p, nil, nil, fmt.Errorf("%w: parameters out of range", ErrInvalidHash)
	}
	p.Parallelism = uint8(parallelism)

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return p, nil, nil, fmt.Errorf("%w: salt: %v", ErrInvalidHash, err)
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return p, nil, nil, fmt.Errorf("%w: hash: %v", ErrInvalidHash, err)
	}
	if len(key) == 0 {
		return p, nil, nil, fmt.Errorf("%w: empty hash", ErrInvalidHash)
	}
	p.SaltLength = uint32(len(salt))
	p.KeyLength = uint32(len(key))

	return p, salt, key, nil
}
