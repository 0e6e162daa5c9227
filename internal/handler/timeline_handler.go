package handler

import (
	"net/http"

	"warbler/internal/middleware"
	"warbler/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type TimelineHandler struct {
	svc *service.TimelineService
}

func NewTimelineHandler(db *gorm.DB) *TimelineHandler {
	return &TimelineHandler{svc: service.NewTimelineService(db)}
}

// Home 首页时间线：登录用户看自己和关注对象的最新消息，匿名得到空列表
func (h *TimelineHandler) Home(c *gin.Context) {
	list, err := h.svc.Home(c.Request.Context(), middleware.Viewer(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}
