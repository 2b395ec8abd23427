package main

import (
	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/entities"
	"github.com/TRAPZZY/AGRO--007-sub000/internal/interfaces/http/handlers"
	"github.com/TRAPZZY/AGRO--007-sub000/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

type routeDeps struct {
	authHandler         *handlers.AuthHandler
	projectHandler      *handlers.ProjectHandler
	marketplaceHandler  *handlers.MarketplaceHandler
	investmentHandler   *handlers.InvestmentHandler
	kycHandler          *handlers.KYCHandler
	notificationHandler *handlers.NotificationHandler
	adminHandler        *handlers.AdminHandler
	realtimeHandler     *handlers.RealtimeHandler
	authMiddleware      gin.HandlerFunc
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		// Auth routes
		auth := v1.Group("/auth")
		{
			auth.POST("/signup", d.authHandler.SignUp)
			auth.POST("/login", d.authHandler.Login)
			auth.POST("/refresh", d.authHandler.Refresh)
			auth.POST("/logout", d.authMiddleware, d.authHandler.Logout)
			auth.GET("/me", d.authMiddleware, d.authHandler.Me)
			auth.PUT("/password", d.authMiddleware, d.authHandler.UpdatePassword)
			auth.PUT("/profile", d.authMiddleware, d.authHandler.UpdateProfile)
		}

		// Project routes
		projects := v1.Group("/projects")
		projects.Use(d.authMiddleware)
		{
			projects.GET("", d.projectHandler.List)
			projects.GET("/:id", d.projectHandler.Get)
			projects.POST("", middleware.RequireFarmer(), d.projectHandler.Create)
			projects.PATCH("/:id", middleware.RequireFarmer(), d.projectHandler.Update)
			projects.DELETE("/:id", middleware.RequireRole(entities.UserRoleFarmer, entities.UserRoleAdmin), d.projectHandler.Delete)
			projects.POST("/:id/images", middleware.RequireFarmer(), d.projectHandler.UploadImage)
		}

		v1.GET("/marketplace", d.authMiddleware, d.marketplaceHandler.Browse)

		// Investment routes
		investments := v1.Group("/investments")
		investments.Use(d.authMiddleware)
		{
			investments.POST("", middleware.RequireInvestor(), middleware.IdempotencyMiddleware(), d.investmentHandler.Create)
			investments.GET("", d.investmentHandler.List)
			investments.GET("/:id", d.investmentHandler.Get)
			investments.GET("/:id/receipt", middleware.RequireInvestor(), d.investmentHandler.Receipt)
		}

		// KYC routes
		kyc := v1.Group("/kyc")
		kyc.Use(d.authMiddleware)
		{
			kyc.POST("/documents", d.kycHandler.Upload)
			kyc.GET("/documents", d.kycHandler.List)
			kyc.DELETE("/documents/:id", d.kycHandler.Delete)
		}

		// Notification routes
		notifications := v1.Group("/notifications")
		notifications.Use(d.authMiddleware)
		{
			notifications.GET("", d.notificationHandler.List)
			notifications.POST("/:id/read", d.notificationHandler.MarkRead)
			notifications.POST("/read-all", d.notificationHandler.MarkAllRead)
		}

		v1.GET("/realtime/:table", d.authMiddleware, d.realtimeHandler.Subscribe)

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(d.authMiddleware, middleware.RequireAdmin())
		{
			admin.GET("/users", d.adminHandler.ListUsers)
			admin.GET("/kyc/documents", d.kycHandler.List)
			admin.POST("/kyc/documents/:id/review", d.kycHandler.Review)
			admin.PATCH("/investments/:id/status", d.investmentHandler.UpdateStatus)
			admin.DELETE("/investments/:id", d.investmentHandler.Delete)
			admin.GET("/reports/investments.xlsx", d.adminHandler.ExportInvestments)
			admin.POST("/reconcile", d.adminHandler.Reconcile)
		}
	}
}
