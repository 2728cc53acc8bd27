package model

import (
	"time"
)

// NotificationType 通知类型，(membership_id, type) 组合唯一，
// 保证同一次会籍的同一种到期提醒最多只发一次
type NotificationType string

const (
	NotificationTypeWarning5Day NotificationType = "warning_5day"
	NotificationTypeWarning2Day NotificationType = "warning_2day"
	NotificationTypeExpired     NotificationType = "expired"
)

type Notification struct {
	ID           int64            `gorm:"primaryKey" json:"id"`
	UserID       int64            `gorm:"not null;index" json:"user_id"`
	MembershipID *int64           `gorm:"uniqueIndex:idx_membership_type" json:"membership_id,omitempty"`
	Message      string           `gorm:"type:text;not null" json:"message"`
	Type         NotificationType `gorm:"size:30;not null;uniqueIndex:idx_membership_type" json:"type"`
	IsRead       bool             `gorm:"default:false" json:"is_read"`
	CreatedAt    time.Time        `json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
