package router

import (
	"github.com/tritonir/nondan-backend/internal/handler"
	"github.com/tritonir/nondan-backend/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	User  *handler.UserHandler
	Club  *handler.ClubHandler
	Event *handler.EventHandler
}

func InitRouter(h Handlers, allowedOrigin string) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{allowedOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	// 用户相关接口
	userGroup := r.Group("/api/user")
	{
		userGroup.POST("/auth/signup", h.User.Signup)
		userGroup.POST("/auth/login", h.User.Login)
	}

	// token 相关接口
	tokenGroup := r.Group("/api/token")
	{
		tokenGroup.POST("/refresh", h.User.TokenRefresh)
	}

	// 登录态接口
	authGroup := r.Group("/api/auth")
	authGroup.Use(middleware.AuthMiddleware())
	{
		authGroup.POST("/logout", h.User.Logout)
		authGroup.POST("/change-password", h.User.ChangePassword)
	}

	// 社团相关接口，读公开，写需要登录态
	clubGroup := r.Group("/api/club")
	{
		clubGroup.GET("", h.Club.List)
		clubGroup.GET("/:id", h.Club.Get)
	}
	clubAuth := r.Group("/api/club")
	clubAuth.Use(middleware.AuthMiddleware())
	{
		clubAuth.POST("", h.Club.Create)
		clubAuth.PUT("/:id", h.Club.Update)
		clubAuth.DELETE("/:id", h.Club.Delete)
		clubAuth.POST("/:id/follow", h.Club.Follow)
		clubAuth.POST("/:id/unfollow", h.Club.Unfollow)
		clubAuth.POST("/:id/leave", h.Club.Leave)
		clubAuth.GET("/:id/analytics", h.Club.Analytics)
		clubAuth.POST("/:id/invite", h.Club.Invite)
		clubAuth.POST("/invite/accept", h.Club.AcceptInvite)
		clubAuth.DELETE("/:id/member/:uid", h.Club.RemoveMember)
		clubAuth.PUT("/:id/member/:uid/role", h.Club.ChangeRole)
	}

	// 活动相关接口
	eventGroup := r.Group("/api/event")
	{
		eventGroup.GET("", h.Event.List)
		eventGroup.GET("/:id", h.Event.Get)
	}
	eventAuth := r.Group("/api/event")
	eventAuth.Use(middleware.AuthMiddleware())
	{
		eventAuth.POST("", h.Event.Create)
		eventAuth.PUT("/:id", h.Event.Update)
		eventAuth.DELETE("/:id", h.Event.Delete)
		eventAuth.POST("/:id/register", h.Event.Register)
		eventAuth.GET("/mine", h.Event.MyEvents)
	}

	return r
}
