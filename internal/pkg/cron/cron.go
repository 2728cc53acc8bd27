package cron

import (
	"log"
	"time"

	"github.com/qs3c/gym_go_server/internal/service"
)

// Service 到期扫描的定时驱动：启动时立即扫一次，之后按固定周期触发。
// 不做互斥，重叠触发靠通知表的唯一索引保证不重复
type Service struct {
	notificationService *service.NotificationService
	interval            time.Duration
	stopChan            chan struct{}
}

func NewService(notificationService *service.NotificationService, intervalHours int) *Service {
	if intervalHours <= 0 {
		intervalHours = 1
	}
	return &Service{
		notificationService: notificationService,
		interval:            time.Duration(intervalHours) * time.Hour,
		stopChan:            make(chan struct{}),
	}
}

// Start 启动定时任务
func (s *Service) Start() {
	go s.runExpirySweep()
	log.Printf("Expiry sweep scheduler started (interval: %s)", s.interval)
}

// Stop 停止定时任务
func (s *Service) Stop() {
	close(s.stopChan)
	log.Println("Expiry sweep scheduler stopped")
}

func (s *Service) runExpirySweep() {
	// 进程启动即扫一次
	log.Println("Initial expiry check...")
	count := s.notificationService.RunSweep()
	log.Printf("Initial expiry check done: %d notification(s) sent", count)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			log.Println("Running scheduled expiry check...")
			count := s.notificationService.RunSweep()
			log.Printf("Expiry check done: %d notification(s) sent", count)
		}
	}
}

// RunNow 立即执行一次扫描（管理端手动触发），与定时触发语义完全一致
func (s *Service) RunNow() int {
	return s.notificationService.RunSweep()
}
