package handler

import (
	"net/http"
	"strconv"

	"warbler/internal/middleware"
	"warbler/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type FollowHandler struct {
	svc *service.FollowService
}

func NewFollowHandler(db *gorm.DB, notifier *service.Notifier) *FollowHandler {
	return &FollowHandler{svc: service.NewFollowService(db, notifier)}
}

type followReq struct {
	FolloweeID uint64 `json:"followee_id" binding:"required"`
	Action     string `json:"action" binding:"required,oneof=follow unfollow"`
}

// Follow 关注/取关接口。关注私密账号会进入请求态，响应里用 pending 区分
func (h *FollowHandler) Follow(c *gin.Context) {
	var req followReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	viewer := middleware.Viewer(c)
	ctx := c.Request.Context()

	if req.Action == "follow" {
		pending, err := h.svc.Follow(ctx, viewer, req.FolloweeID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"pending": pending})
		return
	}

	changed, err := h.svc.Unfollow(ctx, viewer, req.FolloweeID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"changed": changed})
}

// Relation 查询自己与目标用户的关系。
// 起点固定为当前登录用户：请求态只有请求双方可知，不暴露给第三方
func (h *FollowHandler) Relation(c *gin.Context) {
	viewer := middleware.Viewer(c)
	to, _ := strconv.ParseUint(c.Query("to"), 10, 64)
	ctx := c.Request.Context()

	following, err := h.svc.IsFollowing(ctx, viewer.ID, to)
	if err != nil {
		writeError(c, err)
		return
	}
	pending, err := h.svc.HasPendingRequest(ctx, viewer.ID, to)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"following": following, "pending": pending})
}

// ListFollowings 关注列表，受可见性策略保护
func (h *FollowHandler) ListFollowings(c *gin.Context) {
	targetID, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	cursor, _ := strconv.ParseUint(c.Query("cursor"), 10, 64)
	limit, _ := strconv.Atoi(c.Query("limit"))

	rows, next, err := h.svc.ListFollowings(c.Request.Context(), middleware.Viewer(c), targetID, cursor, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": rows, "next_cursor": next})
}

// ListFollowers 粉丝列表，受可见性策略保护
func (h *FollowHandler) ListFollowers(c *gin.Context) {
	targetID, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	cursor, _ := strconv.ParseUint(c.Query("cursor"), 10, 64)
	limit, _ := strconv.Atoi(c.Query("limit"))

	rows, next, err := h.svc.ListFollowers(c.Request.Context(), middleware.Viewer(c), targetID, cursor, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": rows, "next_cursor": next})
}

// ListRequests 自己收到的待处理关注请求（通知页）
func (h *FollowHandler) ListRequests(c *gin.Context) {
	rows, err := h.svc.ListIncomingRequests(c.Request.Context(), middleware.Viewer(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": rows})
}

// AcceptRequest 接受 sender 的关注请求
func (h *FollowHandler) AcceptRequest(c *gin.Context) {
	senderID, _ := strconv.ParseUint(c.Param("sender_id"), 10, 64)
	if err := h.svc.Accept(c.Request.Context(), middleware.Viewer(c), senderID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

// RejectRequest 拒绝 sender 的关注请求
func (h *FollowHandler) RejectRequest(c *gin.Context) {
	senderID, _ := strconv.ParseUint(c.Param("sender_id"), 10, 64)
	if err := h.svc.Reject(c.Request.Context(), middleware.Viewer(c), senderID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}
