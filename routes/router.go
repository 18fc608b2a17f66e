package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/medixhq/medix/config"
	"github.com/medixhq/medix/controllers"
	"github.com/medixhq/medix/middleware"
	"github.com/medixhq/medix/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace default console logger with file-based zap access logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	authController := controllers.NewAuthController(db)
	userController := controllers.NewUserController(db)
	meetingController := controllers.NewMeetingController(db)
	attendanceController := controllers.NewAttendanceController(db)
	dashboardController := controllers.NewDashboardController(db)
	feedbackController := controllers.NewFeedbackController(db)
	webinarController := controllers.NewWebinarController()

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/logout", middleware.AuthRequired(), authController.Logout)
	authGroup.GET("/me", middleware.AuthRequired(), authController.Me)
	authGroup.PATCH("/profile", middleware.AuthRequired(), authController.UpdateProfile)

	// Authenticated member routes; every hit records daily activity.
	protected := api.Group("")
	protected.Use(middleware.AuthRequired(), middleware.ActivityRecorder(db))

	adminOnly := middleware.AdminRequired()

	meetings := protected.Group("/meeting")
	meetings.GET("/today", meetingController.GetTodayMeeting)
	meetings.POST("/join", meetingController.JoinMeeting)
	meetings.POST("/leave/:attendanceId", meetingController.LeaveMeeting)
	meetings.GET("/history", meetingController.GetSessionHistory)
	meetings.POST("/create", adminOnly, meetingController.CreateOrUpdateMeeting)
	meetings.PATCH("/status", adminOnly, meetingController.UpdateStatus)
	meetings.GET("/sessions", adminOnly, meetingController.GetAllSessions)

	attendance := protected.Group("/attendance")
	attendance.POST("/mark", attendanceController.MarkAttendance)
	attendance.POST("/leave/:attendanceId", attendanceController.MarkLeave)
	attendance.GET("/getAttendances", attendanceController.GetAttendances)

	feedback := protected.Group("/feedback")
	feedback.POST("", feedbackController.Submit)
	feedback.GET("/history", feedbackController.History)
	feedback.GET("/stats", adminOnly, feedbackController.Stats)

	dashboard := protected.Group("/dashboard")
	dashboard.GET("/user", dashboardController.User)
	dashboard.GET("/admin", adminOnly, dashboardController.Admin)
	dashboard.GET("/status", adminOnly, dashboardController.Status)

	users := protected.Group("/user", adminOnly)
	users.GET("", userController.ListUsers)
	users.GET("/:userId", userController.GetUser)
	users.PUT("/:userId", userController.UpdateUser)
	users.DELETE("/:userId", userController.DeleteUser)

	webinars := protected.Group("/webinars", adminOnly)
	webinars.POST("", webinarController.Create)
	webinars.GET("", webinarController.List)
	webinars.GET("/:webinarId", webinarController.Get)
	webinars.PATCH("/:webinarId", webinarController.Update)
	webinars.DELETE("/:webinarId", webinarController.Delete)

	r.NoRoute(func(ctx *gin.Context) {
		if strings.HasPrefix(ctx.Request.URL.Path, "/api/") {
			utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
			return
		}
		ctx.Status(http.StatusNotFound)
	})

	return r
}
