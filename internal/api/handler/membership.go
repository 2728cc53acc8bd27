package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/gym_go_server/internal/model/dto"
	"github.com/qs3c/gym_go_server/internal/pkg/response"
	"github.com/qs3c/gym_go_server/internal/service"
)

// MembershipHandler 管理端会籍管理
type MembershipHandler struct {
	membershipService *service.MembershipService
}

func NewMembershipHandler(membershipService *service.MembershipService) *MembershipHandler {
	return &MembershipHandler{
		membershipService: membershipService,
	}
}

// List 会籍列表
// GET /api/admin/memberships
func (h *MembershipHandler) List(c *gin.Context) {
	items, err := h.membershipService.List()
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.Success(c, items)
}

// Create 开通会籍
// POST /api/admin/memberships
func (h *MembershipHandler) Create(c *gin.Context) {
	var req dto.CreateMembershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	m, err := h.membershipService.Create(&req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrInvalidDate):
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "会籍开通成功", m)
}

// Update 修改会籍
// PUT /api/admin/memberships/:id
func (h *MembershipHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的会籍 ID")
		return
	}

	var req dto.UpdateMembershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	if err := h.membershipService.Update(id, &req); err != nil {
		switch {
		case errors.Is(err, service.ErrMembershipNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrInvalidDate):
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "会籍更新成功", nil)
}
