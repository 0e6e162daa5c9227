package handler

import (
	"net/http"
	"strconv"

	"warbler/internal/middleware"
	"warbler/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type MessageHandler struct {
	svc   *service.MessageService
	likes *service.LikeService
}

func NewMessageHandler(db *gorm.DB) *MessageHandler {
	return &MessageHandler{
		svc:   service.NewMessageService(db),
		likes: service.NewLikeService(db),
	}
}

// Create 发布消息
func (h *MessageHandler) Create(c *gin.Context) {
	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	msg, err := h.svc.Create(c.Request.Context(), middleware.Viewer(c), req.Text)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msg})
}

// Show 查看单条消息，可见性按作者判定
func (h *MessageHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	ctx := c.Request.Context()
	viewer := middleware.Viewer(c)

	msg, err := h.svc.Get(ctx, viewer, id)
	if err != nil {
		writeError(c, err)
		return
	}
	count, err := h.likes.Count(ctx, id)
	if err != nil {
		writeError(c, err)
		return
	}
	liked, err := h.likes.IsLiked(ctx, viewer, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msg, "like_count": count, "liked": liked})
}

// Delete 作者或管理员删除消息
func (h *MessageHandler) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	if err := h.svc.Delete(c.Request.Context(), middleware.Viewer(c), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

// ToggleLike 点赞/取消点赞翻转
func (h *MessageHandler) ToggleLike(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	liked, err := h.likes.Toggle(c.Request.Context(), middleware.Viewer(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"liked": liked})
}

// ListByUser 某用户的消息流
func (h *MessageHandler) ListByUser(c *gin.Context) {
	targetID, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	limit, _ := strconv.Atoi(c.Query("limit"))

	list, err := h.svc.ListByUser(c.Request.Context(), middleware.Viewer(c), targetID, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}

// ListLiked 某用户点赞过的消息
func (h *MessageHandler) ListLiked(c *gin.Context) {
	targetID, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	limit, _ := strconv.Atoi(c.Query("limit"))

	list, err := h.likes.ListLiked(c.Request.Context(), middleware.Viewer(c), targetID, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}
