package middleware

import (
	"net/http"
	"strings"

	"warbler/internal/model"
	"warbler/internal/pkg"
	"warbler/internal/repository/mysql"
	"warbler/internal/repository/redis"

	"github.com/gin-gonic/gin"
)

const ContextViewerKey = "viewer"

// Viewer 取当前请求的登录用户，匿名返回 nil
func Viewer(c *gin.Context) *model.User {
	if v, ok := c.Get(ContextViewerKey); ok {
		if u, ok2 := v.(*model.User); ok2 {
			return u
		}
	}
	return nil
}

// resolveViewer 解析 Bearer token 并和 redis 里的登录态比对，通过后加载用户
func resolveViewer(c *gin.Context, users *mysql.UserRepository) (*model.User, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, false
	}

	tokenStr := parts[1]
	claims, err := pkg.ParseAccess(tokenStr)
	if err != nil {
		return nil, false
	}

	// redis校验是否是当前有效的登录 token
	userRep := &redis.UserRepository{}
	originToken, err := userRep.GetUserToken(claims.UserID)
	if err != nil || originToken != tokenStr {
		return nil, false
	}

	// 校验通过后顺延过期时间
	_ = userRep.ExtendUserToken(claims.UserID)

	user, err := users.FindByID(claims.UserID)
	if err != nil {
		return nil, false
	}
	return user, true
}

// AuthMiddleware 强制登录，未登录直接 401
func AuthMiddleware(users *mysql.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := resolveViewer(c, users)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "unauthorized"})
			c.Abort()
			return
		}
		c.Set(ContextViewerKey, user)
		c.Next()
	}
}

// OptionalAuthMiddleware 匿名也是合法的访客态：有合法 token 就注入 viewer，没有就放行
func OptionalAuthMiddleware(users *mysql.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, ok := resolveViewer(c, users); ok {
			c.Set(ContextViewerKey, user)
		}
		c.Next()
	}
}
