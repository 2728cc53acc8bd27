package dto

// CreateMemberRequest 管理员新增会员请求
type CreateMemberRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"omitempty,max=20"`
	Password string `json:"password" binding:"required,min=6,max=64"`
}

// UpdateMemberRequest 管理员更新会员请求，零值字段不更新
type UpdateMemberRequest struct {
	Name     *string `json:"name,omitempty" binding:"omitempty,min=2,max=100"`
	Email    *string `json:"email,omitempty" binding:"omitempty,email"`
	Phone    *string `json:"phone,omitempty" binding:"omitempty,max=20"`
	Password *string `json:"password,omitempty" binding:"omitempty,min=6,max=64"`
}

// MemberListItem 会员列表项（左连接当前会籍）
type MemberListItem struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	Phone        *string  `json:"phone,omitempty"`
	CreatedAt    string   `json:"created_at"`
	MembershipID *int64   `json:"membership_id,omitempty"`
	PlanType     *string  `json:"plan_type,omitempty"`
	StartDate    *string  `json:"start_date,omitempty"`
	EndDate      *string  `json:"end_date,omitempty"`
	Status       *string  `json:"status,omitempty"`
	Amount       *float64 `json:"amount,omitempty"`
}

// UpdateProfileRequest 会员更新个人资料请求
type UpdateProfileRequest struct {
	Name            *string `json:"name,omitempty" binding:"omitempty,min=2,max=100"`
	Phone           *string `json:"phone,omitempty" binding:"omitempty,max=20"`
	CurrentPassword string  `json:"current_password,omitempty"`
	NewPassword     string  `json:"new_password,omitempty" binding:"omitempty,min=6,max=64"`
}
