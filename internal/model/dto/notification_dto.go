package dto

import (
	"github.com/qs3c/gym_go_server/internal/model"
)

// NotificationList 会员通知列表（含未读数）
type NotificationList struct {
	Notifications []model.Notification `json:"notifications"`
	UnreadCount   int64                `json:"unread_count"`
}

// AdminNotificationItem 管理端通知列表项（连接会员信息）
type AdminNotificationItem struct {
	ID           int64   `json:"id"`
	UserID       int64   `json:"user_id"`
	UserName     string  `json:"user_name"`
	UserEmail    string  `json:"user_email"`
	MembershipID *int64  `json:"membership_id,omitempty"`
	Message      string  `json:"message"`
	Type         string  `json:"type"`
	IsRead       bool    `json:"is_read"`
	CreatedAt    string  `json:"created_at"`
}

// SweepResult 手动触发到期扫描的结果
type SweepResult struct {
	NotificationsSent int `json:"notifications_sent"`
}
