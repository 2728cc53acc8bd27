package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/gym_go_server/internal/model/dto"
	"github.com/qs3c/gym_go_server/internal/pkg/response"
	"github.com/qs3c/gym_go_server/internal/service"
)

// MemberHandler 管理端会员管理
type MemberHandler struct {
	memberService     *service.MemberService
	membershipService *service.MembershipService
}

func NewMemberHandler(
	memberService *service.MemberService,
	membershipService *service.MembershipService,
) *MemberHandler {
	return &MemberHandler{
		memberService:     memberService,
		membershipService: membershipService,
	}
}

// List 会员列表
// GET /api/admin/members
func (h *MemberHandler) List(c *gin.Context) {
	items, err := h.memberService.List()
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.Success(c, items)
}

// Get 单个会员及其会籍记录
// GET /api/admin/members/:id
func (h *MemberHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的会员 ID")
		return
	}

	user, err := h.memberService.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	memberships, err := h.membershipService.GetHistory(id)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, gin.H{
		"member":      user,
		"memberships": memberships,
	})
}

// Create 新增会员
// POST /api/admin/members
func (h *MemberHandler) Create(c *gin.Context) {
	var req dto.CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	user, err := h.memberService.Create(&req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailExists):
			response.ConflictError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "会员添加成功", user)
}

// Update 更新会员
// PUT /api/admin/members/:id
func (h *MemberHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的会员 ID")
		return
	}

	var req dto.UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	if err := h.memberService.Update(id, &req); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrEmailExists):
			response.ConflictError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "会员更新成功", nil)
}

// Delete 删除会员（级联删除会籍和通知）
// DELETE /api/admin/members/:id
func (h *MemberHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的会员 ID")
		return
	}

	if err := h.memberService.Delete(id); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.SuccessWithMessage(c, "会员删除成功", nil)
}
