package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/gym_go_server/internal/model"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// NotificationUserRow 管理端通知列表行
type NotificationUserRow struct {
	ID           int64
	UserID       int64
	UserName     string
	UserEmail    string
	MembershipID *int64
	Message      string
	Type         model.NotificationType
	IsRead       bool
	CreatedAt    time.Time
}

// Create 插入通知。(membership_id, type) 唯一索引冲突时
// 返回 gorm.ErrDuplicatedKey，调用方视为"已通知过"
func (r *NotificationRepository) Create(n *model.Notification) error {
	return r.db.Create(n).Error
}

// ExistsForMembership 去重账本查询：该会籍是否已有此类型的通知
func (r *NotificationRepository) ExistsForMembership(membershipID int64, typ model.NotificationType) (bool, error) {
	var count int64
	err := r.db.Model(&model.Notification{}).
		Where("membership_id = ? AND type = ?", membershipID, typ).
		Count(&count).Error
	return count > 0, err
}

func (r *NotificationRepository) ListByUser(userID int64, limit int) ([]model.Notification, error) {
	var ns []model.Notification
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").Limit(limit).Find(&ns).Error
	return ns, err
}

func (r *NotificationRepository) CountUnread(userID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// MarkRead 标记已读，通知必须属于该会员
func (r *NotificationRepository) MarkRead(id, userID int64) (bool, error) {
	result := r.db.Model(&model.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	return result.RowsAffected > 0, result.Error
}

func (r *NotificationRepository) MarkAllRead(userID int64) error {
	return r.db.Model(&model.Notification{}).
		Where("user_id = ?", userID).
		Update("is_read", true).Error
}

// ListWithUsers 管理端通知列表，最新的在前
func (r *NotificationRepository) ListWithUsers(limit int) ([]NotificationUserRow, error) {
	var rows []NotificationUserRow
	err := r.db.Model(&model.Notification{}).
		Select("notifications.id, notifications.user_id, users.name AS user_name, users.email AS user_email, notifications.membership_id, notifications.message, notifications.type, notifications.is_read, notifications.created_at").
		Joins("JOIN users ON users.id = notifications.user_id").
		Order("notifications.created_at DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *NotificationRepository) CountSince(since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&model.Notification{}).
		Where("created_at >= ?", since).
		Count(&count).Error
	return count, err
}
