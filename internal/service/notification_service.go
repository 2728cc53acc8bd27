package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/gym_go_server/internal/model"
	"github.com/qs3c/gym_go_server/internal/model/dto"
	"github.com/qs3c/gym_go_server/internal/repository"
)

var ErrNotificationNotFound = errors.New("通知不存在")

// EmailSender 邮件投递方，失败只记日志不中断扫描
type EmailSender interface {
	SendExpiry(to, name, planType string, endDate time.Time, daysRemaining int, expired bool) error
	SendAdminExpiryAlert(userName, userEmail, planType string, endDate time.Time, daysRemaining int, expired bool) error
}

// MessageSender WhatsApp 投递方
type MessageSender interface {
	SendExpiry(phone, name, planType string, endDate time.Time, daysRemaining int, expired bool) error
}

// NotificationPusher 站内实时推送
type NotificationPusher interface {
	PushNotification(n *model.Notification)
}

type NotificationService struct {
	membershipRepo   *repository.MembershipRepository
	notificationRepo *repository.NotificationRepository
	email            EmailSender
	messenger        MessageSender
	pusher           NotificationPusher
}

func NewNotificationService(
	membershipRepo *repository.MembershipRepository,
	notificationRepo *repository.NotificationRepository,
	email EmailSender,
	messenger MessageSender,
	pusher NotificationPusher,
) *NotificationService {
	return &NotificationService{
		membershipRepo:   membershipRepo,
		notificationRepo: notificationRepo,
		email:            email,
		messenger:        messenger,
		pusher:           pusher,
	}
}

// RunSweep 对全部 active 会籍做一次到期扫描。
// 返回本次新建通知的数量；投递成败不影响计数。
// 快照读失败时记日志并返回 0，下次扫描自然补上
func (s *NotificationService) RunSweep() int {
	now := time.Now()

	rows, err := s.membershipRepo.ListActiveWithUsers()
	if err != nil {
		log.Printf("Sweep aborted: failed to load active memberships: %v", err)
		return 0
	}

	count := 0
	for i := range rows {
		if s.processMembership(&rows[i], now) {
			count++
		}
	}

	return count
}

// processMembership 单个会籍的分级+去重+落库+投递，自包含，
// 失败不影响其他会籍
func (s *NotificationService) processMembership(row *repository.ActiveMembershipRow, now time.Time) bool {
	daysRemaining, class := ClassifyMembership(row.EndDate, now)
	typ, ok := class.NotificationType()
	if !ok {
		return false
	}

	// 去重账本快查；真正的权威是 (membership_id, type) 唯一索引
	exists, err := s.notificationRepo.ExistsForMembership(row.ID, typ)
	if err != nil {
		log.Printf("Sweep: dedup check failed for membership %d: %v", row.ID, err)
		return false
	}
	if exists {
		return false
	}

	expired := class == ExpiryExpired
	if expired {
		if err := s.membershipRepo.SetStatus(row.ID, model.MembershipStatusExpired); err != nil {
			log.Printf("Sweep: failed to expire membership %d: %v", row.ID, err)
			return false
		}
		log.Printf("Membership %d marked as expired", row.ID)
	}

	membershipID := row.ID
	n := &model.Notification{
		UserID:       row.UserID,
		MembershipID: &membershipID,
		Message:      composeExpiryMessage(row.PlanType, daysRemaining, expired),
		Type:         typ,
	}
	if err := s.notificationRepo.Create(n); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// 并发扫描已插入同类型通知，按已通知处理
			return false
		}
		log.Printf("Sweep: failed to insert notification for membership %d: %v", row.ID, err)
		return false
	}

	s.deliver(row, daysRemaining, expired)

	if s.pusher != nil {
		s.pusher.PushNotification(n)
	}

	log.Printf("Notified %s: %s", row.UserName, n.Type)
	return true
}

// deliver 双通道尽力投递，任一通道失败不影响另一通道
func (s *NotificationService) deliver(row *repository.ActiveMembershipRow, daysRemaining int, expired bool) {
	if expired {
		daysRemaining = 0
	}

	if s.email != nil {
		if err := s.email.SendExpiry(row.UserEmail, row.UserName, row.PlanType, row.EndDate, daysRemaining, expired); err != nil {
			log.Printf("Failed to send expiry email to %s: %v", row.UserEmail, err)
		}
		if err := s.email.SendAdminExpiryAlert(row.UserName, row.UserEmail, row.PlanType, row.EndDate, daysRemaining, expired); err != nil {
			log.Printf("Failed to send admin expiry alert for %s: %v", row.UserEmail, err)
		}
	}

	if s.messenger != nil && row.UserPhone != nil && *row.UserPhone != "" {
		if err := s.messenger.SendExpiry(*row.UserPhone, row.UserName, row.PlanType, row.EndDate, daysRemaining, expired); err != nil {
			log.Printf("Failed to send whatsapp to %s: %v", *row.UserPhone, err)
		}
	}
}

func composeExpiryMessage(planType string, daysRemaining int, expired bool) string {
	if expired {
		return fmt.Sprintf("Your %s membership has EXPIRED! Please renew to continue.", planType)
	}
	return fmt.Sprintf("Your %s membership expires in %d day(s)!", planType, daysRemaining)
}

// ListForUser 会员通知列表（最新 50 条）+ 未读数
func (s *NotificationService) ListForUser(userID int64) (*dto.NotificationList, error) {
	ns, err := s.notificationRepo.ListByUser(userID, 50)
	if err != nil {
		return nil, err
	}
	unread, err := s.notificationRepo.CountUnread(userID)
	if err != nil {
		return nil, err
	}
	return &dto.NotificationList{Notifications: ns, UnreadCount: unread}, nil
}

// MarkRead 标记单条已读，通知必须属于该会员
func (s *NotificationService) MarkRead(id, userID int64) error {
	ok, err := s.notificationRepo.MarkRead(id, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotificationNotFound
	}
	return nil
}

func (s *NotificationService) MarkAllRead(userID int64) error {
	return s.notificationRepo.MarkAllRead(userID)
}

// ListForAdmin 管理端通知列表（最新 100 条）
func (s *NotificationService) ListForAdmin() ([]dto.AdminNotificationItem, error) {
	rows, err := s.notificationRepo.ListWithUsers(100)
	if err != nil {
		return nil, err
	}

	items := make([]dto.AdminNotificationItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, dto.AdminNotificationItem{
			ID:           row.ID,
			UserID:       row.UserID,
			UserName:     row.UserName,
			UserEmail:    row.UserEmail,
			MembershipID: row.MembershipID,
			Message:      row.Message,
			Type:         string(row.Type),
			IsRead:       row.IsRead,
			CreatedAt:    row.CreatedAt.Format(time.RFC3339),
		})
	}
	return items, nil
}
