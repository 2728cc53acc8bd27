package testutil

import (
	"fmt"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/qs3c/gym_go_server/internal/model"
)

// HashPassword 生成 bcrypt 哈希，失败直接终止测试
func HashPassword(t *testing.T, password string) string {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	return string(hash)
}

// TestUser 创建测试会员
func TestUser(t *testing.T, db *gorm.DB, opts ...func(*model.User)) *model.User {
	t.Helper()

	user := &model.User{
		Name:         fmt.Sprintf("Test User %d", time.Now().UnixNano()%10000),
		Email:        fmt.Sprintf("test_%d@example.com", time.Now().UnixNano()),
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuvwxyz123456", // bcrypt hash placeholder
	}

	for _, opt := range opts {
		opt(user)
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return user
}

// WithName 设置姓名
func WithName(name string) func(*model.User) {
	return func(u *model.User) {
		u.Name = name
	}
}

// WithEmail 设置邮箱
func WithEmail(email string) func(*model.User) {
	return func(u *model.User) {
		u.Email = email
	}
}

// WithPhone 设置手机号
func WithPhone(phone string) func(*model.User) {
	return func(u *model.User) {
		u.Phone = &phone
	}
}

// WithPasswordHash 设置密码哈希
func WithPasswordHash(hash string) func(*model.User) {
	return func(u *model.User) {
		u.PasswordHash = hash
	}
}

// TestAdmin 创建测试管理员
func TestAdmin(t *testing.T, db *gorm.DB, email, passwordHash string) *model.Admin {
	t.Helper()

	admin := &model.Admin{
		Username:     fmt.Sprintf("admin_%d", time.Now().UnixNano()%10000),
		Email:        email,
		PasswordHash: passwordHash,
	}

	if err := db.Create(admin).Error; err != nil {
		t.Fatalf("Failed to create test admin: %v", err)
	}

	return admin
}

// TestMembership 创建测试会籍，默认 Monthly、今天起一个月、active
func TestMembership(t *testing.T, db *gorm.DB, userID int64, opts ...func(*model.Membership)) *model.Membership {
	t.Helper()

	now := time.Now()
	membership := &model.Membership{
		UserID:    userID,
		PlanType:  "Monthly",
		StartDate: now,
		EndDate:   now.AddDate(0, 1, 0),
		Status:    model.MembershipStatusActive,
		Amount:    1500,
	}

	for _, opt := range opts {
		opt(membership)
	}

	if err := db.Create(membership).Error; err != nil {
		t.Fatalf("Failed to create test membership: %v", err)
	}

	return membership
}

// WithPlanType 设置套餐类型
func WithPlanType(planType string) func(*model.Membership) {
	return func(m *model.Membership) {
		m.PlanType = planType
	}
}

// WithEndDate 设置到期日
func WithEndDate(endDate time.Time) func(*model.Membership) {
	return func(m *model.Membership) {
		m.EndDate = endDate
	}
}

// WithStatus 设置状态
func WithStatus(status model.MembershipStatus) func(*model.Membership) {
	return func(m *model.Membership) {
		m.Status = status
	}
}

// WithAmount 设置金额
func WithAmount(amount float64) func(*model.Membership) {
	return func(m *model.Membership) {
		m.Amount = amount
	}
}

// TestNotification 创建测试通知
func TestNotification(t *testing.T, db *gorm.DB, userID int64, membershipID *int64, typ model.NotificationType, message string) *model.Notification {
	t.Helper()

	n := &model.Notification{
		UserID:       userID,
		MembershipID: membershipID,
		Message:      message,
		Type:         typ,
	}

	if err := db.Create(n).Error; err != nil {
		t.Fatalf("Failed to create test notification: %v", err)
	}

	return n
}
