package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/go-redis/redis/v8"
)

var (
	ErrNotFound = errors.New("otp not found or expired")
	ErrMismatch = errors.New("otp mismatch")
)

// Store 密码重置 OTP 存储。
// 写入即带 TTL，验证通过立即删除，过期由 Redis 负责回收。
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

// Generate 生成 6 位数字 OTP
func Generate() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

func (s *Store) key(email string) string {
	return "otp:reset:" + email
}

// Set 写入 OTP 并设置过期时间，同邮箱重复请求覆盖旧值
func (s *Store) Set(ctx context.Context, email, code string) error {
	return s.client.Set(ctx, s.key(email), code, s.ttl).Err()
}

// Verify 校验 OTP；匹配成功时删除，保证一次性使用
func (s *Store) Verify(ctx context.Context, email, code string) error {
	stored, err := s.client.Get(ctx, s.key(email)).Result()
	if err == redis.Nil {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if stored != code {
		return ErrMismatch
	}
	return s.client.Del(ctx, s.key(email)).Err()
}
