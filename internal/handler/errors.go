package handler

import (
	"errors"
	"net/http"

	"warbler/internal/service"

	"github.com/gin-gonic/gin"
)

// writeError 统一把业务错误映射为 HTTP 响应，未识别的错误按 500 处理
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
	case errors.Is(err, service.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"msg": err.Error()})
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"msg": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"msg": err.Error()})
	case errors.Is(err, service.ErrDuplicateIdentity),
		errors.Is(err, service.ErrDuplicateEdge),
		errors.Is(err, service.ErrSelfLikeForbidden):
		c.JSON(http.StatusConflict, gin.H{"msg": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "internal error"})
	}
}
