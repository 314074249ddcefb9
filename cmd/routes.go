package main

import (
	"strings"

	"github.com/HanniPham13/PawPalAPI-sub000/config"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/api/adoption"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/api/admin"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/api/chat"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/api/clinic"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/api/community"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/api/notification"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/api/pet"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/api/user"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/api/verification"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/metrics"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/middleware"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/policy"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/service"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/storage"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

type appServices struct {
	user         *service.UserService
	feed         *service.FeedService
	community    *service.CommunityService
	adoption     *service.AdoptionService
	pet          *service.PetService
	chat         *service.ChatService
	notification *service.NotificationService
	clinic       *service.ClinicService
	verification *service.VerificationService
	admin        *service.AdminService
}

func setupRouter(
	s *appServices,
	fileStorage storage.Storage,
	recorder *metrics.Collector,
	registry *prometheus.Registry,
	rateLimiter *middleware.RateLimiter,
) *gin.Engine {
	authHandler := user.NewAuthHandler(s.user)
	profileHandler := user.NewProfileHandler(s.user, fileStorage)
	userHandler := user.NewUserHandler(s.user)
	communityHandler := community.NewCommunityHandler(s.community, s.feed, fileStorage)
	adoptionHandler := adoption.NewAdoptionHandler(s.adoption)
	petHandler := pet.NewPetHandler(s.pet, fileStorage)
	chatHandler := chat.NewChatHandler(s.chat)
	notificationHandler := notification.NewNotificationHandler(s.notification)
	clinicHandler := clinic.NewClinicHandler(s.clinic)
	verificationHandler := verification.NewVerificationHandler(s.verification, fileStorage)
	adminHandler := admin.NewAdminHandler(s.admin, s.user, s.verification)

	errorMonitor := middleware.NewErrorMonitor(recorder)

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(middleware.RecoveryMiddleware())
	r.Use(middleware.RequestMetrics(recorder))
	r.Use(middleware.ErrorMonitorMiddleware(errorMonitor))

	// 配置 CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{config.AppConfig.FrontendURL}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}
	corsConfig.AllowHeaders = []string{
		"Origin",
		"Content-Length",
		"Content-Type",
		"Authorization",
	}
	corsConfig.ExposeHeaders = []string{
		"Content-Length",
		"Content-Type",
		"Retry-After",
	}
	r.Use(cors.New(corsConfig))

	// 本地存储时提供静态文件
	if local, ok := fileStorage.(*storage.LocalStorage); ok {
		r.Use(func(c *gin.Context) {
			if strings.HasPrefix(c.Request.URL.Path, "/uploads/") {
				c.Header("Access-Control-Allow-Origin", config.AppConfig.FrontendURL)
				c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
			}
			c.Next()
		})
		r.Static("/uploads", local.BasePath())
	}

	r.GET("/metrics", gin.WrapH(metrics.Handler(registry)))
	r.GET("/healthz", func(c *gin.Context) { c.String(200, "ok") })

	auth := middleware.AuthMiddleware(s.user)
	limited := rateLimiter.Middleware()

	api := r.Group("/api")
	{
		// 公开路由按 IP 限流
		public := api.Group("")
		public.Use(limited)
		{
			public.POST("/register", authHandler.Register)
			public.POST("/login", authHandler.Login)
			public.GET("/verify-email", authHandler.VerifyEmail)
			public.POST("/password-reset/request", authHandler.RequestPasswordReset)
			public.POST("/password-reset", authHandler.ResetPassword)
			public.GET("/users/:id", userHandler.GetUser)
			public.GET("/users/:id/posts", communityHandler.GetUserPosts)
			public.GET("/users/:id/followers", communityHandler.GetFollowers)
			public.GET("/users/:id/following", communityHandler.GetFollowing)
			public.GET("/posts/:id", communityHandler.GetPost)
			public.GET("/posts/:id/comments", communityHandler.ListComments)
			public.GET("/adoptions", adoptionHandler.ListPosts)
			public.GET("/adoptions/:id", adoptionHandler.GetPost)
			public.GET("/clinics", clinicHandler.List)
			public.GET("/clinics/:id", clinicHandler.Get)
		}

		// 需要认证的路由，认证之后按用户限流
		authorized := api.Group("")
		authorized.Use(auth, limited)
		{
			authorized.GET("/profile", profileHandler.GetProfile)
			authorized.PUT("/profile", profileHandler.UpdateProfile)
			authorized.POST("/profile/avatar", profileHandler.UploadAvatar)
			authorized.POST("/logout", authHandler.Logout)
			authorized.POST("/refresh-token", authHandler.RefreshToken)

			authorized.POST("/users/:id/follow", communityHandler.Follow)
			authorized.DELETE("/users/:id/follow", communityHandler.Unfollow)

			authorized.GET("/feed", communityHandler.GetFeed)
			authorized.POST("/posts", communityHandler.CreatePost)
			authorized.PUT("/posts/:id", communityHandler.UpdatePost)
			authorized.DELETE("/posts/:id", communityHandler.DeletePost)
			authorized.POST("/posts/:id/comments", communityHandler.CreateComment)
			authorized.DELETE("/comments/:id", communityHandler.DeleteComment)
			authorized.PUT("/posts/:id/reactions", communityHandler.React)
			authorized.DELETE("/posts/:id/reactions", communityHandler.RemoveReaction)

			authorized.POST("/pets", petHandler.CreatePet)
			authorized.GET("/pets", petHandler.ListPets)
			authorized.GET("/pets/:id", petHandler.GetPet)
			authorized.PUT("/pets/:id", petHandler.UpdatePet)
			authorized.DELETE("/pets/:id", petHandler.DeletePet)
			authorized.POST("/pets/:id/photo", petHandler.UploadPhoto)

			authorized.POST("/adoptions", adoptionHandler.CreatePost)
			authorized.POST("/adoptions/:id/close", adoptionHandler.ClosePost)
			authorized.POST("/adoptions/:id/applications", adoptionHandler.Apply)
			authorized.GET("/adoptions/:id/applications", adoptionHandler.ListApplications)
			authorized.GET("/applications/mine", adoptionHandler.ListMyApplications)
			authorized.PATCH("/applications/:applicationId/status", adoptionHandler.UpdateApplicationStatus)

			authorized.POST("/chats", chatHandler.OpenRoom)
			authorized.GET("/chats", chatHandler.ListRooms)
			authorized.GET("/chats/:id/messages", chatHandler.ListMessages)
			authorized.POST("/chats/:id/messages", chatHandler.SendMessage)

			authorized.GET("/notifications", notificationHandler.List)
			authorized.POST("/notifications/:id/read", notificationHandler.MarkRead)

			authorized.POST("/verification-documents", verificationHandler.Submit)
			authorized.GET("/verification-documents", verificationHandler.ListMine)
		}

		// 管理员路由组
		adminRoutes := api.Group("/admin")
		adminRoutes.Use(auth, limited)
		{
			adminRoutes.GET("/stats", middleware.RequireAction(s.user, policy.ActionViewStats), adminHandler.GetStats)

			documents := adminRoutes.Group("/documents", middleware.RequireAction(s.user, policy.ActionReviewDocument))
			documents.GET("", adminHandler.ListPendingDocuments)
			documents.POST("/:id/review", adminHandler.ReviewDocument)

			users := adminRoutes.Group("/users", middleware.RequireAction(s.user, policy.ActionManageUsers))
			users.GET("", adminHandler.ListUsers)
			users.PUT("/:id/level", adminHandler.SetUserLevel)

			clinics := adminRoutes.Group("/clinics", middleware.RequireAction(s.user, policy.ActionManageClinic))
			clinics.POST("", clinicHandler.Create)
			clinics.PUT("/:id", clinicHandler.Update)
			clinics.DELETE("/:id", clinicHandler.Delete)
		}
	}

	return r
}
