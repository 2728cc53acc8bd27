package service

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/qs3c/gym_go_server/internal/model"
	"github.com/qs3c/gym_go_server/internal/model/dto"
	"github.com/qs3c/gym_go_server/internal/repository"
)

var ErrUserNotFound = errors.New("会员不存在")

// MemberService 管理端会员 CRUD
type MemberService struct {
	userRepo *repository.UserRepository
}

func NewMemberService(userRepo *repository.UserRepository) *MemberService {
	return &MemberService{userRepo: userRepo}
}

// List 会员列表，附带最近一次会籍
func (s *MemberService) List() ([]dto.MemberListItem, error) {
	users, err := s.userRepo.List()
	if err != nil {
		return nil, err
	}

	items := make([]dto.MemberListItem, 0, len(users))
	for i := range users {
		user := &users[i]
		item := dto.MemberListItem{
			ID:        user.ID,
			Name:      user.Name,
			Email:     user.Email,
			Phone:     user.Phone,
			CreatedAt: user.CreatedAt.Format(time.RFC3339),
		}
		if len(user.Memberships) > 0 {
			m := user.Memberships[0]
			status := string(m.Status)
			start := m.StartDate.Format("2006-01-02")
			end := m.EndDate.Format("2006-01-02")
			item.MembershipID = &m.ID
			item.PlanType = &m.PlanType
			item.StartDate = &start
			item.EndDate = &end
			item.Status = &status
			item.Amount = &m.Amount
		}
		items = append(items, item)
	}
	return items, nil
}

// Get 单个会员及其全部会籍记录
func (s *MemberService) Get(id int64) (*model.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// Create 管理员新增会员
func (s *MemberService) Create(req *dto.CreateMemberRequest) (*model.User, error) {
	exists, err := s.userRepo.ExistsByEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        normalizePhone(req.Phone),
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailExists
		}
		return nil, err
	}
	return user, nil
}

// Update 管理员更新会员，nil 字段不更新
func (s *MemberService) Update(id int64, req *dto.UpdateMemberRequest) error {
	if _, err := s.Get(id); err != nil {
		return err
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Email != nil {
		user, err := s.userRepo.GetByEmail(*req.Email)
		if err == nil && user.ID != id {
			return ErrEmailExists
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		fields["email"] = *req.Email
	}
	if req.Phone != nil {
		fields["phone"] = normalizePhone(*req.Phone)
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		fields["password_hash"] = string(hash)
	}

	if len(fields) == 0 {
		return nil
	}
	return s.userRepo.UpdateFields(id, fields)
}

// Delete 删除会员，级联删除会籍和通知
func (s *MemberService) Delete(id int64) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	return s.userRepo.Delete(id)
}
