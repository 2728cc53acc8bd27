package service

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/qs3c/gym_go_server/internal/model"
	"github.com/qs3c/gym_go_server/internal/repository"
	"github.com/qs3c/gym_go_server/internal/testutil"
)

// fakeEmailSender 记录投递调用，可注入失败
type fakeEmailSender struct {
	mu         sync.Mutex
	sent       []string
	adminSent  []string
	failAlways bool
}

func (f *fakeEmailSender) SendExpiry(to, name, planType string, endDate time.Time, daysRemaining int, expired bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAlways {
		return errors.New("smtp unavailable")
	}
	f.sent = append(f.sent, to)
	return nil
}

func (f *fakeEmailSender) SendAdminExpiryAlert(userName, userEmail, planType string, endDate time.Time, daysRemaining int, expired bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAlways {
		return errors.New("smtp unavailable")
	}
	f.adminSent = append(f.adminSent, userEmail)
	return nil
}

type fakeMessageSender struct {
	mu   sync.Mutex
	sent []string
}

func (f *fakeMessageSender) SendExpiry(phone, name, planType string, endDate time.Time, daysRemaining int, expired bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, phone)
	return nil
}

type fakePusher struct {
	mu     sync.Mutex
	pushed []*model.Notification
}

func (f *fakePusher) PushNotification(n *model.Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pushed = append(f.pushed, n)
}

func setupNotificationService(t *testing.T, db *gorm.DB) (*NotificationService, *fakeEmailSender, *fakeMessageSender, *fakePusher) {
	t.Helper()

	membershipRepo := repository.NewMembershipRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	email := &fakeEmailSender{}
	messenger := &fakeMessageSender{}
	pusher := &fakePusher{}

	svc := NewNotificationService(membershipRepo, notificationRepo, email, messenger, pusher)
	return svc, email, messenger, pusher
}

func TestNotificationService_RunSweep_Warning5Day(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc, email, messenger, pusher := setupNotificationService(t, db)

	user := testutil.TestUser(t, db, testutil.WithPhone("+919876543210"))
	m := testutil.TestMembership(t, db, user.ID,
		testutil.WithEndDate(time.Now().AddDate(0, 0, 5)))

	count := svc.RunSweep()
	assert.Equal(t, 1, count)

	var n model.Notification
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&n).Error)
	assert.Equal(t, model.NotificationTypeWarning5Day, n.Type)
	require.NotNil(t, n.MembershipID)
	assert.Equal(t, m.ID, *n.MembershipID)
	assert.Contains(t, n.Message, "expires in 5 day(s)")

	// 双通道 + 管理员抄送 + 实时推送
	assert.Equal(t, []string{user.Email}, email.sent)
	assert.Equal(t, []string{user.Email}, email.adminSent)
	assert.Equal(t, []string{"+919876543210"}, messenger.sent)
	require.Len(t, pusher.pushed, 1)
	assert.Equal(t, n.ID, pusher.pushed[0].ID)
}

func TestNotificationService_RunSweep_Warning2Day(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc, _, _, _ := setupNotificationService(t, db)

	user := testutil.TestUser(t, db)
	testutil.TestMembership(t, db, user.ID,
		testutil.WithEndDate(time.Now().AddDate(0, 0, 2)))

	count := svc.RunSweep()
	assert.Equal(t, 1, count)

	var n model.Notification
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&n).Error)
	assert.Equal(t, model.NotificationTypeWarning2Day, n.Type)
}

func TestNotificationService_RunSweep_Expired(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc, _, _, _ := setupNotificationService(t, db)

	user := testutil.TestUser(t, db)
	m := testutil.TestMembership(t, db, user.ID,
		testutil.WithEndDate(time.Now().AddDate(0, 0, -1)))

	count := svc.RunSweep()
	assert.Equal(t, 1, count)

	// 会籍状态翻转为 expired
	var updated model.Membership
	require.NoError(t, db.First(&updated, m.ID).Error)
	assert.Equal(t, model.MembershipStatusExpired, updated.Status)

	var n model.Notification
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&n).Error)
	assert.Equal(t, model.NotificationTypeExpired, n.Type)
	assert.Contains(t, n.Message, "EXPIRED")
}

func TestNotificationService_RunSweep_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc, _, _, _ := setupNotificationService(t, db)

	user := testutil.TestUser(t, db)
	testutil.TestMembership(t, db, user.ID,
		testutil.WithEndDate(time.Now().AddDate(0, 0, 5)))

	assert.Equal(t, 1, svc.RunSweep())
	// 同一小时内再扫一遍，不应重复通知
	assert.Equal(t, 0, svc.RunSweep())

	var total int64
	require.NoError(t, db.Model(&model.Notification{}).Count(&total).Error)
	assert.Equal(t, int64(1), total)
}

func TestNotificationService_RunSweep_ExistingExpiredNotificationNoWrites(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc, email, messenger, pusher := setupNotificationService(t, db)

	user := testutil.TestUser(t, db, testutil.WithPhone("+919876543210"))
	// 上轮扫描已发过 expired 通知但状态翻转没成（比如写库中断），
	// 会籍仍是 active：本轮只能跳过，不能重发也不能再写
	m := testutil.TestMembership(t, db, user.ID,
		testutil.WithEndDate(time.Now().AddDate(0, 0, -1)))
	testutil.TestNotification(t, db, user.ID, &m.ID, model.NotificationTypeExpired, "already sent")

	assert.Equal(t, 0, svc.RunSweep())

	var updated model.Membership
	require.NoError(t, db.First(&updated, m.ID).Error)
	assert.Equal(t, model.MembershipStatusActive, updated.Status)

	var total int64
	require.NoError(t, db.Model(&model.Notification{}).Count(&total).Error)
	assert.Equal(t, int64(1), total)

	assert.Empty(t, email.sent)
	assert.Empty(t, email.adminSent)
	assert.Empty(t, messenger.sent)
	assert.Empty(t, pusher.pushed)
}

func TestNotificationService_RunSweep_ConcurrentInsertTreatedAsNotified(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc, email, _, pusher := setupNotificationService(t, db)

	user := testutil.TestUser(t, db)
	m := testutil.TestMembership(t, db, user.ID,
		testutil.WithEndDate(time.Now().AddDate(0, 0, 5)))

	// 在去重快查之后、落库之前抢先插入同类型通知，
	// 模拟另一实例的并发扫描，逼出唯一索引冲突
	raced := false
	err := db.Callback().Create().Before("gorm:create").Register("race_duplicate", func(tx *gorm.DB) {
		if raced {
			return
		}
		if _, ok := tx.Statement.Dest.(*model.Notification); !ok {
			return
		}
		raced = true
		dup := &model.Notification{
			UserID:       user.ID,
			MembershipID: &m.ID,
			Message:      "raced",
			Type:         model.NotificationTypeWarning5Day,
		}
		require.NoError(t, tx.Session(&gorm.Session{NewDB: true}).Create(dup).Error)
	})
	require.NoError(t, err)

	// 冲突按已通知处理：不计数、不投递、不推送
	assert.Equal(t, 0, svc.RunSweep())
	assert.True(t, raced)

	var total int64
	require.NoError(t, db.Model(&model.Notification{}).Count(&total).Error)
	assert.Equal(t, int64(1), total)

	assert.Empty(t, email.sent)
	assert.Empty(t, pusher.pushed)
}

func TestNotificationService_RunSweep_ProgressesThroughWindows(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc, _, _, _ := setupNotificationService(t, db)

	user := testutil.TestUser(t, db)
	m := testutil.TestMembership(t, db, user.ID,
		testutil.WithEndDate(time.Now().AddDate(0, 0, 5)))

	assert.Equal(t, 1, svc.RunSweep())

	// 时间推进到 2 天窗口：类型不同，允许再次通知
	require.NoError(t, db.Model(&model.Membership{}).Where("id = ?", m.ID).
		Update("end_date", time.Now().AddDate(0, 0, 2)).Error)
	assert.Equal(t, 1, svc.RunSweep())

	// 最终到期
	require.NoError(t, db.Model(&model.Membership{}).Where("id = ?", m.ID).
		Update("end_date", time.Now().AddDate(0, 0, -1)).Error)
	assert.Equal(t, 1, svc.RunSweep())

	var types []string
	require.NoError(t, db.Model(&model.Notification{}).
		Where("membership_id = ?", m.ID).Order("id").Pluck("type", &types).Error)
	assert.Equal(t, []string{"warning_5day", "warning_2day", "expired"}, types)
}

func TestNotificationService_RunSweep_SkipsExpiredStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc, _, _, _ := setupNotificationService(t, db)

	user := testutil.TestUser(t, db)
	// 已经是 expired 状态的会籍不在快照里
	testutil.TestMembership(t, db, user.ID,
		testutil.WithEndDate(time.Now().AddDate(0, 0, -10)),
		testutil.WithStatus(model.MembershipStatusExpired))

	assert.Equal(t, 0, svc.RunSweep())
}

func TestNotificationService_RunSweep_HealthyMembershipUntouched(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc, email, _, _ := setupNotificationService(t, db)

	user := testutil.TestUser(t, db)
	testutil.TestMembership(t, db, user.ID,
		testutil.WithEndDate(time.Now().AddDate(0, 0, 30)))

	assert.Equal(t, 0, svc.RunSweep())
	assert.Empty(t, email.sent)
}

func TestNotificationService_RunSweep_DeliveryFailureStillCounts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	membershipRepo := repository.NewMembershipRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	email := &fakeEmailSender{failAlways: true}
	svc := NewNotificationService(membershipRepo, notificationRepo, email, nil, nil)

	user := testutil.TestUser(t, db)
	testutil.TestMembership(t, db, user.ID,
		testutil.WithEndDate(time.Now().AddDate(0, 0, 1)))

	// 投递失败不影响计数，通知照常落库
	assert.Equal(t, 1, svc.RunSweep())

	var total int64
	require.NoError(t, db.Model(&model.Notification{}).Count(&total).Error)
	assert.Equal(t, int64(1), total)
}

func TestNotificationService_RunSweep_NoPhoneSkipsWhatsApp(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc, _, messenger, _ := setupNotificationService(t, db)

	user := testutil.TestUser(t, db) // 没有手机号
	testutil.TestMembership(t, db, user.ID,
		testutil.WithEndDate(time.Now().AddDate(0, 0, 2)))

	assert.Equal(t, 1, svc.RunSweep())
	assert.Empty(t, messenger.sent)
}

func TestNotificationService_MarkRead(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc, _, _, _ := setupNotificationService(t, db)

	user := testutil.TestUser(t, db)
	other := testutil.TestUser(t, db)
	n := testutil.TestNotification(t, db, user.ID, nil, model.NotificationTypeWarning2Day, "test")

	// 别人的通知标不了
	err := svc.MarkRead(n.ID, other.ID)
	assert.ErrorIs(t, err, ErrNotificationNotFound)

	require.NoError(t, svc.MarkRead(n.ID, user.ID))

	list, err := svc.ListForUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), list.UnreadCount)
	require.Len(t, list.Notifications, 1)
	assert.True(t, list.Notifications[0].IsRead)
}

func TestNotificationService_MarkAllRead(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc, _, _, _ := setupNotificationService(t, db)

	user := testutil.TestUser(t, db)
	m := testutil.TestMembership(t, db, user.ID)
	testutil.TestNotification(t, db, user.ID, &m.ID, model.NotificationTypeWarning5Day, "a")
	testutil.TestNotification(t, db, user.ID, &m.ID, model.NotificationTypeWarning2Day, "b")

	list, err := svc.ListForUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), list.UnreadCount)

	require.NoError(t, svc.MarkAllRead(user.ID))

	list, err = svc.ListForUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), list.UnreadCount)
}

func TestNotificationService_ListForAdmin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc, _, _, _ := setupNotificationService(t, db)

	user := testutil.TestUser(t, db, testutil.WithName("Amit"))
	testutil.TestNotification(t, db, user.ID, nil, model.NotificationTypeExpired, "expired msg")

	items, err := svc.ListForAdmin()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Amit", items[0].UserName)
	assert.Equal(t, user.Email, items[0].UserEmail)
	assert.Equal(t, "expired", items[0].Type)
}
