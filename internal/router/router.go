package router

import (
	"warbler/internal/handler"
	"warbler/internal/middleware"
	"warbler/internal/pkg"
	"warbler/internal/repository/mysql"
	"warbler/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func InitRouter(db *gorm.DB, smtpCfg pkg.SMTPConfig) *gin.Engine {
	r := gin.Default()

	users := &mysql.UserRepository{DB: db}
	notifier := service.NewNotifier(smtpCfg)

	user := handler.NewUserHandler(db)
	follow := handler.NewFollowHandler(db, notifier)
	message := handler.NewMessageHandler(db)
	timeline := handler.NewTimelineHandler(db)

	requireAuth := middleware.AuthMiddleware(users)
	optionalAuth := middleware.OptionalAuthMiddleware(users)

	// 用户相关接口
	userGroup := r.Group("/api/user")
	{
		userGroup.POST("/register", user.Register)
		userGroup.POST("/login", user.Login)
		userGroup.POST("/logout", requireAuth, user.Logout)
	}

	// token相关接口
	tokenGroup := r.Group("/api/token")
	{
		tokenGroup.POST("/refresh", user.TokenRefresh)
	}

	// 用户资料，读接口匿名可访问（可见性由策略层判定）
	usersGroup := r.Group("/api/users")
	{
		usersGroup.GET("", optionalAuth, user.List)
		usersGroup.GET("/:id", optionalAuth, user.Show)
		usersGroup.PUT("/:id", requireAuth, user.Update)
		usersGroup.DELETE("/:id", requireAuth, user.Delete)
		usersGroup.GET("/:id/followers", optionalAuth, follow.ListFollowers)
		usersGroup.GET("/:id/followings", optionalAuth, follow.ListFollowings)
		usersGroup.GET("/:id/likes", optionalAuth, message.ListLiked)
		usersGroup.GET("/:id/messages", optionalAuth, message.ListByUser)
	}

	// 关注相关接口
	followGroup := r.Group("/api/follow")
	followGroup.Use(requireAuth)
	{
		followGroup.POST("", follow.Follow)
		followGroup.GET("/relation", follow.Relation)
	}

	// 关注请求相关接口
	requestGroup := r.Group("/api/requests")
	requestGroup.Use(requireAuth)
	{
		requestGroup.GET("", follow.ListRequests)
		requestGroup.POST("/accept/:sender_id", follow.AcceptRequest)
		requestGroup.POST("/reject/:sender_id", follow.RejectRequest)
	}

	// 消息相关接口
	messageGroup := r.Group("/api/message")
	{
		messageGroup.POST("", requireAuth, message.Create)
		messageGroup.GET("/:id", optionalAuth, message.Show)
		messageGroup.DELETE("/:id", requireAuth, message.Delete)
		messageGroup.POST("/:id/like", requireAuth, message.ToggleLike)
	}

	// 时间线
	r.GET("/api/timeline", optionalAuth, timeline.Home)

	return r
}
