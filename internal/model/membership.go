package model

import (
	"time"
)

// MembershipStatus 会籍状态，只有 active -> expired 单向流转
type MembershipStatus string

const (
	MembershipStatusActive  MembershipStatus = "active"
	MembershipStatusExpired MembershipStatus = "expired"
)

type Membership struct {
	ID        int64            `gorm:"primaryKey" json:"id"`
	UserID    int64            `gorm:"not null;index" json:"user_id"`
	PlanType  string           `gorm:"size:50;not null" json:"plan_type"` // Monthly, Quarterly, Yearly
	StartDate time.Time        `gorm:"not null" json:"start_date"`
	EndDate   time.Time        `gorm:"not null;index" json:"end_date"`
	Status    MembershipStatus `gorm:"size:20;default:active;index" json:"status"`
	Amount    float64          `gorm:"type:decimal(10,2);not null" json:"amount"`
	CreatedAt time.Time        `json:"created_at"`
}

func (Membership) TableName() string {
	return "memberships"
}
