package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/gym_go_server/internal/api/middleware"
	"github.com/qs3c/gym_go_server/internal/model/dto"
	"github.com/qs3c/gym_go_server/internal/pkg/response"
	"github.com/qs3c/gym_go_server/internal/service"
)

// UserHandler 会员自助接口
type UserHandler struct {
	userService       *service.UserService
	membershipService *service.MembershipService
}

func NewUserHandler(
	userService *service.UserService,
	membershipService *service.MembershipService,
) *UserHandler {
	return &UserHandler{
		userService:       userService,
		membershipService: membershipService,
	}
}

// GetProfile 个人资料
// GET /api/user/profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	info, err := h.userService.GetProfile(userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}
	response.Success(c, info)
}

// UpdateProfile 更新资料（改密码需验证当前密码）
// PUT /api/user/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	if err := h.userService.UpdateProfile(userID, &req); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrWrongPassword):
			response.AuthError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "资料更新成功", nil)
}

// GetMembership 当前会籍（含剩余天数）
// GET /api/user/membership
func (h *UserHandler) GetMembership(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	current, err := h.membershipService.GetCurrent(userID)
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.Success(c, current)
}

// GetMembershipHistory 历史会籍
// GET /api/user/membership/history
func (h *UserHandler) GetMembershipHistory(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	history, err := h.membershipService.GetHistory(userID)
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.Success(c, history)
}
