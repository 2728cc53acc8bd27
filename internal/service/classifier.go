package service

import (
	"math"
	"time"

	"github.com/qs3c/gym_go_server/internal/model"
)

// ExpiryClass 会籍到期分级
type ExpiryClass int

const (
	ExpiryNone ExpiryClass = iota
	ExpiryWarning5Day
	ExpiryWarning2Day
	ExpiryExpired
)

// NotificationType 分级对应的通知类型；ExpiryNone 无动作
func (c ExpiryClass) NotificationType() (model.NotificationType, bool) {
	switch c {
	case ExpiryWarning5Day:
		return model.NotificationTypeWarning5Day, true
	case ExpiryWarning2Day:
		return model.NotificationTypeWarning2Day, true
	case ExpiryExpired:
		return model.NotificationTypeExpired, true
	default:
		return "", false
	}
}

// ClassifyMembership 纯分级函数。
// daysRemaining = ceil((end_date - now) / 24h)：
//
//	<= 0 → expired（第 0 天按已到期处理，不再发 2 天提醒）
//	4..6 → warning_5day
//	1..3 → warning_2day
//	其余 → none
//
// 两个提醒窗口互不重叠且覆盖 1..6 的每一天
func ClassifyMembership(endDate, now time.Time) (int, ExpiryClass) {
	daysRemaining := int(math.Ceil(endDate.Sub(now).Hours() / 24))

	switch {
	case daysRemaining <= 0:
		return daysRemaining, ExpiryExpired
	case daysRemaining >= 4 && daysRemaining <= 6:
		return daysRemaining, ExpiryWarning5Day
	case daysRemaining >= 1 && daysRemaining <= 3:
		return daysRemaining, ExpiryWarning2Day
	default:
		return daysRemaining, ExpiryNone
	}
}
