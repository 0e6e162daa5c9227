package handler

import (
	"net/http"
	"strconv"

	"warbler/internal/middleware"
	"warbler/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type UserHandler struct {
	svc *service.UserService
	vis *service.VisibilityService
}

// RegisterReq 注册请求体
type RegisterReq struct {
	Username  string `json:"username" binding:"required"`
	Password  string `json:"password" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Bio       string `json:"bio"`
	Location  string `json:"location"`
	ImageURL  string `json:"image_url"`
	IsPrivate bool   `json:"is_private"`
}

// UpdateProfileReq 自我编辑，password 用于二次确认身份
type UpdateProfileReq struct {
	Password       string `json:"password" binding:"required"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	Bio            string `json:"bio"`
	Location       string `json:"location"`
	ImageURL       string `json:"image_url"`
	HeaderImageURL string `json:"header_image_url"`
	IsPrivate      bool   `json:"is_private"`
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{
		svc: service.NewUserService(db),
		vis: service.NewVisibilityService(db),
	}
}

// Register 注册接口
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	user, err := h.svc.Register(req.Username, req.Email, req.Password, service.ProfileFields{
		Bio:       req.Bio,
		Location:  req.Location,
		ImageURL:  req.ImageURL,
		IsPrivate: req.IsPrivate,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": user.ID, "username": user.Username})
}

// Login 登录接口
func (h *UserHandler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	token, user, err := h.svc.Login(req.Username, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":      user.ID,
		"AccessToken":  token.AccessToken,
		"RefreshToken": token.RefreshToken,
	})
}

func (h *UserHandler) Logout(c *gin.Context) {
	viewer := middleware.Viewer(c)
	if viewer == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "unauthorized"})
		return
	}
	if err := h.svc.Logout(viewer.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "logout failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

// TokenRefresh 利用refresh来更新access
func (h *UserHandler) TokenRefresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	token, err := h.svc.Refresh(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"AccessToken": token.AccessToken, "RefreshToken": token.RefreshToken})
}

// List 用户列表，q 为可选的用户名搜索
func (h *UserHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Query("q"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}

// Show 用户主页。不可见时只暴露基础字段，和原 profile 页的 can_view 行为一致
func (h *UserHandler) Show(c *gin.Context) {
	targetID, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	target, err := h.svc.GetByID(targetID)
	if err != nil {
		writeError(c, err)
		return
	}

	viewer := middleware.Viewer(c)
	canView, err := h.vis.CanView(c.Request.Context(), viewer, target)
	if err != nil {
		writeError(c, err)
		return
	}
	if !canView {
		c.JSON(http.StatusOK, gin.H{
			"can_view": false,
			"user": gin.H{
				"id":         target.ID,
				"username":   target.Username,
				"is_private": true,
			},
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"can_view": true, "user": target})
}

// Update 编辑资料，本人或管理员
func (h *UserHandler) Update(c *gin.Context) {
	targetID, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	var req UpdateProfileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	viewer := middleware.Viewer(c)
	err := h.svc.UpdateProfile(viewer, targetID, req.Password, req.Username, req.Email, service.ProfileFields{
		Bio:            req.Bio,
		Location:       req.Location,
		ImageURL:       req.ImageURL,
		HeaderImageURL: req.HeaderImageURL,
		IsPrivate:      req.IsPrivate,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

// Delete 删号，级联清理消息、关注边、请求和点赞
func (h *UserHandler) Delete(c *gin.Context) {
	targetID, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	viewer := middleware.Viewer(c)
	if err := h.svc.Delete(c.Request.Context(), viewer, targetID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}
