package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/qs3c/gym_go_server/config"
	"github.com/qs3c/gym_go_server/internal/model/dto"
	"github.com/qs3c/gym_go_server/internal/pkg/jwt"
	"github.com/qs3c/gym_go_server/internal/pkg/otp"
	"github.com/qs3c/gym_go_server/internal/repository"
	"github.com/qs3c/gym_go_server/internal/testutil"
)

// fakeOTPSender 捕获发出的 OTP，供测试回填
type fakeOTPSender struct {
	mu       sync.Mutex
	lastTo   string
	lastCode string
}

func (f *fakeOTPSender) SendResetOTP(to, name, code string, expireMinutes int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastTo = to
	f.lastCode = code
	return nil
}

func setupAuthService(t *testing.T, db *gorm.DB) (*AuthService, *fakeOTPSender, func()) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpireHours = 24
	cfg.Notification.OTPExpireMinutes = 10

	sender := &fakeOTPSender{}
	svc := NewAuthService(
		repository.NewUserRepository(db),
		repository.NewAdminRepository(db),
		otp.NewStore(client, 10*time.Minute),
		sender,
		cfg,
	)

	cleanup := func() {
		client.Close()
		mr.Close()
	}
	return svc, sender, cleanup
}

func TestAuthService_Login_User(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc, _, cleanup := setupAuthService(t, db)
	defer cleanup()

	hash := testutil.HashPassword(t, "secret123")
	user := testutil.TestUser(t, db,
		testutil.WithEmail("member@example.com"),
		testutil.WithPasswordHash(hash))

	resp, err := svc.Login(&dto.LoginRequest{Email: "member@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, jwt.RoleUser, resp.Role)
	assert.Equal(t, user.ID, resp.User.ID)

	claims, err := jwt.ParseToken(resp.Token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, jwt.RoleUser, claims.Role)
}

func TestAuthService_Login_Admin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc, _, cleanup := setupAuthService(t, db)
	defer cleanup()

	hash := testutil.HashPassword(t, "admin123")
	admin := testutil.TestAdmin(t, db, "admin@gym.com", hash)

	resp, err := svc.Login(&dto.LoginRequest{Email: "admin@gym.com", Password: "admin123"})
	require.NoError(t, err)
	assert.Equal(t, jwt.RoleAdmin, resp.Role)

	claims, err := jwt.ParseToken(resp.Token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, claims.UserID)
	assert.Equal(t, jwt.RoleAdmin, claims.Role)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc, _, cleanup := setupAuthService(t, db)
	defer cleanup()

	hash := testutil.HashPassword(t, "secret123")
	testutil.TestUser(t, db,
		testutil.WithEmail("member@example.com"),
		testutil.WithPasswordHash(hash))

	_, err := svc.Login(&dto.LoginRequest{Email: "member@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(&dto.LoginRequest{Email: "unknown@example.com", Password: "whatever"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Register(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc, _, cleanup := setupAuthService(t, db)
	defer cleanup()

	resp, err := svc.Register(&dto.RegisterRequest{
		Name:     "Sunita",
		Email:    "sunita@example.com",
		Password: "secret123",
		Phone:    "9876543210",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, jwt.RoleUser, resp.Role)
	// 无国家码默认 +91
	assert.Equal(t, "+919876543210", resp.User.Phone)

	// 注册后可直接登录
	_, err = svc.Login(&dto.LoginRequest{Email: "sunita@example.com", Password: "secret123"})
	assert.NoError(t, err)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc, _, cleanup := setupAuthService(t, db)
	defer cleanup()

	testutil.TestUser(t, db, testutil.WithEmail("taken@example.com"))

	_, err := svc.Register(&dto.RegisterRequest{
		Name:     "Dup",
		Email:    "taken@example.com",
		Password: "secret123",
	})
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestAuthService_Register_AdminEmailBlocked(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc, _, cleanup := setupAuthService(t, db)
	defer cleanup()

	testutil.TestAdmin(t, db, "admin@gym.com", "hash")

	_, err := svc.Register(&dto.RegisterRequest{
		Name:     "Sneaky",
		Email:    "admin@gym.com",
		Password: "secret123",
	})
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestAuthService_ForgotAndResetPassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc, sender, cleanup := setupAuthService(t, db)
	defer cleanup()

	hash := testutil.HashPassword(t, "oldpass")
	testutil.TestUser(t, db,
		testutil.WithEmail("reset@example.com"),
		testutil.WithPasswordHash(hash))

	ctx := context.Background()
	require.NoError(t, svc.ForgotPassword(ctx, "reset@example.com"))
	require.NotEmpty(t, sender.lastCode)
	assert.Equal(t, "reset@example.com", sender.lastTo)

	require.NoError(t, svc.ResetPassword(ctx, &dto.ResetPasswordRequest{
		Email:       "reset@example.com",
		OTP:         sender.lastCode,
		NewPassword: "newpass123",
	}))

	// 旧密码失效，新密码可登录
	_, err := svc.Login(&dto.LoginRequest{Email: "reset@example.com", Password: "oldpass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(&dto.LoginRequest{Email: "reset@example.com", Password: "newpass123"})
	assert.NoError(t, err)

	// OTP 一次性使用
	err = svc.ResetPassword(ctx, &dto.ResetPasswordRequest{
		Email:       "reset@example.com",
		OTP:         sender.lastCode,
		NewPassword: "again",
	})
	assert.ErrorIs(t, err, ErrInvalidOTP)
}

func TestAuthService_ForgotPassword_UnknownEmailSilent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc, sender, cleanup := setupAuthService(t, db)
	defer cleanup()

	// 不泄露邮箱是否注册
	require.NoError(t, svc.ForgotPassword(context.Background(), "ghost@example.com"))
	assert.Empty(t, sender.lastCode)
}

func TestAuthService_ResetPassword_WrongOTP(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc, _, cleanup := setupAuthService(t, db)
	defer cleanup()

	testutil.TestUser(t, db, testutil.WithEmail("reset@example.com"))

	err := svc.ResetPassword(context.Background(), &dto.ResetPasswordRequest{
		Email:       "reset@example.com",
		OTP:         "000000",
		NewPassword: "newpass",
	})
	assert.ErrorIs(t, err, ErrInvalidOTP)
}
