package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/gym_go_server/internal/api/middleware"
	"github.com/qs3c/gym_go_server/internal/model/dto"
	"github.com/qs3c/gym_go_server/internal/pkg/cron"
	"github.com/qs3c/gym_go_server/internal/pkg/response"
	"github.com/qs3c/gym_go_server/internal/service"
)

// NotificationHandler 会员通知查询 + 管理端通知管理
type NotificationHandler struct {
	notificationService *service.NotificationService
	cronService         *cron.Service
}

func NewNotificationHandler(
	notificationService *service.NotificationService,
	cronService *cron.Service,
) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		cronService:         cronService,
	}
}

// ListForUser 会员通知列表 + 未读数
// GET /api/user/notifications
func (h *NotificationHandler) ListForUser(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	list, err := h.notificationService.ListForUser(userID)
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.Success(c, list)
}

// MarkRead 标记单条通知已读
// PUT /api/user/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的通知 ID")
		return
	}

	if err := h.notificationService.MarkRead(id, userID); err != nil {
		if errors.Is(err, service.ErrNotificationNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.SuccessWithMessage(c, "已标记为已读", nil)
}

// MarkAllRead 全部标记已读
// PUT /api/user/notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	if err := h.notificationService.MarkAllRead(userID); err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessWithMessage(c, "全部通知已标记为已读", nil)
}

// ListForAdmin 管理端通知列表
// GET /api/admin/notifications
func (h *NotificationHandler) ListForAdmin(c *gin.Context) {
	items, err := h.notificationService.ListForAdmin()
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.Success(c, items)
}

// TriggerSweep 手动触发一次到期扫描，与定时触发语义一致
// POST /api/admin/notifications/check
func (h *NotificationHandler) TriggerSweep(c *gin.Context) {
	count := h.cronService.RunNow()
	response.SuccessWithMessage(c, "扫描完成", &dto.SweepResult{NotificationsSent: count})
}
