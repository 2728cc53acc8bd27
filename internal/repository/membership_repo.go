package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/gym_go_server/internal/model"
)

type MembershipRepository struct {
	db *gorm.DB
}

func NewMembershipRepository(db *gorm.DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

// ActiveMembershipRow 到期扫描用的快照行（连接会员联系方式）
type ActiveMembershipRow struct {
	ID        int64
	UserID    int64
	PlanType  string
	StartDate time.Time
	EndDate   time.Time
	Status    model.MembershipStatus
	Amount    float64
	UserName  string
	UserEmail string
	UserPhone *string
}

// MembershipUserRow 管理端会籍列表行
type MembershipUserRow struct {
	ID        int64
	UserID    int64
	UserName  string
	UserEmail string
	PlanType  string
	StartDate time.Time
	EndDate   time.Time
	Status    model.MembershipStatus
	Amount    float64
	CreatedAt time.Time
}

// CreateForUser 开通会籍；同一会员最多一条 active，
// 先把已有 active 会籍降级为 expired，再插入新记录
func (r *MembershipRepository) CreateForUser(m *model.Membership) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&model.Membership{}).
			Where("user_id = ? AND status = ?", m.UserID, model.MembershipStatusActive).
			Update("status", model.MembershipStatusExpired).Error
		if err != nil {
			return err
		}
		m.Status = model.MembershipStatusActive
		return tx.Create(m).Error
	})
}

func (r *MembershipRepository) GetByID(id int64) (*model.Membership, error) {
	var m model.Membership
	err := r.db.Where("id = ?", id).First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListActiveWithUsers 全部 active 会籍的快照读，到期扫描的输入
func (r *MembershipRepository) ListActiveWithUsers() ([]ActiveMembershipRow, error) {
	var rows []ActiveMembershipRow
	err := r.db.Model(&model.Membership{}).
		Select("memberships.id, memberships.user_id, memberships.plan_type, memberships.start_date, memberships.end_date, memberships.status, memberships.amount, users.name AS user_name, users.email AS user_email, users.phone AS user_phone").
		Joins("JOIN users ON users.id = memberships.user_id").
		Where("memberships.status = ?", model.MembershipStatusActive).
		Scan(&rows).Error
	return rows, err
}

// ListWithUsers 管理端会籍列表，按到期日升序
func (r *MembershipRepository) ListWithUsers() ([]MembershipUserRow, error) {
	var rows []MembershipUserRow
	err := r.db.Model(&model.Membership{}).
		Select("memberships.id, memberships.user_id, users.name AS user_name, users.email AS user_email, memberships.plan_type, memberships.start_date, memberships.end_date, memberships.status, memberships.amount, memberships.created_at").
		Joins("JOIN users ON users.id = memberships.user_id").
		Order("memberships.end_date ASC").
		Scan(&rows).Error
	return rows, err
}

// GetActiveByUser 会员当前 active 会籍（到期日最晚的一条）
func (r *MembershipRepository) GetActiveByUser(userID int64) (*model.Membership, error) {
	var m model.Membership
	err := r.db.Where("user_id = ? AND status = ?", userID, model.MembershipStatusActive).
		Order("end_date DESC").First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MembershipRepository) ListByUser(userID int64) ([]model.Membership, error) {
	var ms []model.Membership
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&ms).Error
	return ms, err
}

func (r *MembershipRepository) UpdateFields(id int64, fields map[string]interface{}) error {
	return r.db.Model(&model.Membership{}).Where("id = ?", id).Updates(fields).Error
}

// SetStatus 翻转会籍状态（到期扫描把 active 置为 expired）
func (r *MembershipRepository) SetStatus(id int64, status model.MembershipStatus) error {
	return r.db.Model(&model.Membership{}).Where("id = ?", id).
		Update("status", status).Error
}

func (r *MembershipRepository) CountActive(now time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&model.Membership{}).
		Where("status = ? AND end_date >= ?", model.MembershipStatusActive, now).
		Count(&count).Error
	return count, err
}

// CountExpiringWithin 统计 now 起 days 天内到期的 active 会籍
func (r *MembershipRepository) CountExpiringWithin(now time.Time, days int) (int64, error) {
	var count int64
	deadline := now.AddDate(0, 0, days)
	err := r.db.Model(&model.Membership{}).
		Where("status = ? AND end_date BETWEEN ? AND ?", model.MembershipStatusActive, now, deadline).
		Count(&count).Error
	return count, err
}

func (r *MembershipRepository) SumAmount() (float64, error) {
	var total float64
	err := r.db.Model(&model.Membership{}).
		Select("COALESCE(SUM(amount), 0)").Scan(&total).Error
	return total, err
}
