package dto

// CreateMembershipRequest 管理员为会员开通会籍请求
type CreateMembershipRequest struct {
	UserID    int64   `json:"user_id" binding:"required"`
	PlanType  string  `json:"plan_type" binding:"required,max=50"`
	StartDate string  `json:"start_date" binding:"required"` // 2006-01-02
	EndDate   string  `json:"end_date" binding:"required"`
	Amount    float64 `json:"amount" binding:"required,gt=0"`
}

// UpdateMembershipRequest 管理员修改会籍请求，零值字段不更新
type UpdateMembershipRequest struct {
	PlanType  *string  `json:"plan_type,omitempty" binding:"omitempty,max=50"`
	StartDate *string  `json:"start_date,omitempty"`
	EndDate   *string  `json:"end_date,omitempty"`
	Amount    *float64 `json:"amount,omitempty" binding:"omitempty,gt=0"`
	Status    *string  `json:"status,omitempty" binding:"omitempty,oneof=active expired"`
}

// MembershipListItem 会籍列表项（连接会员信息）
type MembershipListItem struct {
	ID        int64   `json:"id"`
	UserID    int64   `json:"user_id"`
	UserName  string  `json:"user_name"`
	UserEmail string  `json:"user_email"`
	PlanType  string  `json:"plan_type"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	Status    string  `json:"status"`
	Amount    float64 `json:"amount"`
	CreatedAt string  `json:"created_at"`
}

// CurrentMembership 会员当前会籍（含剩余天数）
type CurrentMembership struct {
	HasMembership bool            `json:"has_membership"`
	Membership    *MembershipInfo `json:"membership,omitempty"`
}

// MembershipInfo 会籍详情
type MembershipInfo struct {
	ID            int64   `json:"id"`
	PlanType      string  `json:"plan_type"`
	StartDate     string  `json:"start_date"`
	EndDate       string  `json:"end_date"`
	Status        string  `json:"status"`
	Amount        float64 `json:"amount"`
	DaysRemaining int     `json:"days_remaining"`
	IsExpiring    bool    `json:"is_expiring"`
	IsExpired     bool    `json:"is_expired"`
}
