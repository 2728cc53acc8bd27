package service

import (
	"errors"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/gym_go_server/internal/model"
	"github.com/qs3c/gym_go_server/internal/model/dto"
	"github.com/qs3c/gym_go_server/internal/repository"
)

var (
	ErrMembershipNotFound = errors.New("会籍不存在")
	ErrInvalidDate        = errors.New("日期格式错误，应为 YYYY-MM-DD")
)

const dateLayout = "2006-01-02"

type MembershipService struct {
	membershipRepo *repository.MembershipRepository
	userRepo       *repository.UserRepository
}

func NewMembershipService(
	membershipRepo *repository.MembershipRepository,
	userRepo *repository.UserRepository,
) *MembershipService {
	return &MembershipService{
		membershipRepo: membershipRepo,
		userRepo:       userRepo,
	}
}

// Create 管理员开通会籍，同一会员已有的 active 会籍自动降级为 expired
func (s *MembershipService) Create(req *dto.CreateMembershipRequest) (*model.Membership, error) {
	if _, err := s.userRepo.GetByID(req.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return nil, ErrInvalidDate
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return nil, ErrInvalidDate
	}

	m := &model.Membership{
		UserID:    req.UserID,
		PlanType:  req.PlanType,
		StartDate: start,
		EndDate:   end,
		Amount:    req.Amount,
	}
	if err := s.membershipRepo.CreateForUser(m); err != nil {
		return nil, err
	}
	return m, nil
}

// Update 管理员修改会籍，nil 字段不更新
func (s *MembershipService) Update(id int64, req *dto.UpdateMembershipRequest) error {
	if _, err := s.membershipRepo.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMembershipNotFound
		}
		return err
	}

	fields := map[string]interface{}{}
	if req.PlanType != nil {
		fields["plan_type"] = *req.PlanType
	}
	if req.StartDate != nil {
		start, err := time.Parse(dateLayout, *req.StartDate)
		if err != nil {
			return ErrInvalidDate
		}
		fields["start_date"] = start
	}
	if req.EndDate != nil {
		end, err := time.Parse(dateLayout, *req.EndDate)
		if err != nil {
			return ErrInvalidDate
		}
		fields["end_date"] = end
	}
	if req.Amount != nil {
		fields["amount"] = *req.Amount
	}
	if req.Status != nil {
		fields["status"] = model.MembershipStatus(*req.Status)
	}

	if len(fields) == 0 {
		return nil
	}
	return s.membershipRepo.UpdateFields(id, fields)
}

// List 管理端会籍列表
func (s *MembershipService) List() ([]dto.MembershipListItem, error) {
	rows, err := s.membershipRepo.ListWithUsers()
	if err != nil {
		return nil, err
	}

	items := make([]dto.MembershipListItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, dto.MembershipListItem{
			ID:        row.ID,
			UserID:    row.UserID,
			UserName:  row.UserName,
			UserEmail: row.UserEmail,
			PlanType:  row.PlanType,
			StartDate: row.StartDate.Format(dateLayout),
			EndDate:   row.EndDate.Format(dateLayout),
			Status:    string(row.Status),
			Amount:    row.Amount,
			CreatedAt: row.CreatedAt.Format(time.RFC3339),
		})
	}
	return items, nil
}

// GetCurrent 会员当前会籍，从今天零点起算剩余天数
func (s *MembershipService) GetCurrent(userID int64) (*dto.CurrentMembership, error) {
	m, err := s.membershipRepo.GetActiveByUser(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &dto.CurrentMembership{HasMembership: false}, nil
		}
		return nil, err
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	daysRemaining := int(math.Ceil(m.EndDate.Sub(today).Hours() / 24))

	return &dto.CurrentMembership{
		HasMembership: true,
		Membership: &dto.MembershipInfo{
			ID:            m.ID,
			PlanType:      m.PlanType,
			StartDate:     m.StartDate.Format(dateLayout),
			EndDate:       m.EndDate.Format(dateLayout),
			Status:        string(m.Status),
			Amount:        m.Amount,
			DaysRemaining: daysRemaining,
			IsExpiring:    daysRemaining <= 7,
			IsExpired:     daysRemaining < 0,
		},
	}, nil
}

// GetHistory 会员历史会籍，新到旧
func (s *MembershipService) GetHistory(userID int64) ([]model.Membership, error) {
	return s.membershipRepo.ListByUser(userID)
}
