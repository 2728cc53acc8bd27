package service

import (
	"time"

	"github.com/qs3c/gym_go_server/internal/model/dto"
	"github.com/qs3c/gym_go_server/internal/repository"
)

// DashboardService 管理端首页统计
type DashboardService struct {
	userRepo         *repository.UserRepository
	membershipRepo   *repository.MembershipRepository
	notificationRepo *repository.NotificationRepository
}

func NewDashboardService(
	userRepo *repository.UserRepository,
	membershipRepo *repository.MembershipRepository,
	notificationRepo *repository.NotificationRepository,
) *DashboardService {
	return &DashboardService{
		userRepo:         userRepo,
		membershipRepo:   membershipRepo,
		notificationRepo: notificationRepo,
	}
}

// GetStats 汇总会员数、有效/将到期会籍数、总收入和近 7 天通知数
func (s *DashboardService) GetStats() (*dto.DashboardStats, error) {
	now := time.Now()

	totalMembers, err := s.userRepo.Count()
	if err != nil {
		return nil, err
	}
	activeMemberships, err := s.membershipRepo.CountActive(now)
	if err != nil {
		return nil, err
	}
	expiringMemberships, err := s.membershipRepo.CountExpiringWithin(now, 7)
	if err != nil {
		return nil, err
	}
	totalRevenue, err := s.membershipRepo.SumAmount()
	if err != nil {
		return nil, err
	}
	recentNotifications, err := s.notificationRepo.CountSince(now.AddDate(0, 0, -7))
	if err != nil {
		return nil, err
	}

	return &dto.DashboardStats{
		TotalMembers:        totalMembers,
		ActiveMemberships:   activeMemberships,
		ExpiringMemberships: expiringMemberships,
		TotalRevenue:        totalRevenue,
		RecentNotifications: recentNotifications,
	}, nil
}
