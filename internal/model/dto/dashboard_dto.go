package dto

// DashboardStats 管理端首页统计
type DashboardStats struct {
	TotalMembers        int64   `json:"total_members"`
	ActiveMemberships   int64   `json:"active_memberships"`
	ExpiringMemberships int64   `json:"expiring_memberships"` // 7 天内到期
	TotalRevenue        float64 `json:"total_revenue"`
	RecentNotifications int64   `json:"recent_notifications"` // 最近 7 天
}
