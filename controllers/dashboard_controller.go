package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/medixhq/medix/config"
	"github.com/medixhq/medix/models"
	"github.com/medixhq/medix/utils"
)

// startTime anchors the uptime reported by the status endpoint.
var startTime = time.Now()

const adminDashboardCacheKey = "cache:dashboard:admin"

// DashboardController serves aggregate views for admins and members.
type DashboardController struct {
	db *gorm.DB
}

// NewDashboardController creates a DashboardController.
func NewDashboardController(db *gorm.DB) *DashboardController {
	return &DashboardController{db: db}
}

type monthlyGrowth struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}

// Admin returns platform-wide aggregates. The payload is cached briefly since
// every number is a full table scan or group-by.
func (d *DashboardController) Admin(ctx *gin.Context) {
	if b, ok := utils.CacheGetBytes(adminDashboardCacheKey); ok {
		var cached map[string]interface{}
		if json.Unmarshal(b, &cached) == nil {
			utils.Success(ctx, cached)
			return
		}
	}

	now := time.Now()
	today := models.DayOf(now).String()
	monthStart := time.Date(now.UTC().Year(), now.UTC().Month(), 1, 0, 0, 0, 0, time.UTC)
	activeSince := now.Add(-30 * 24 * time.Hour)

	var totalUsers, newUsersThisMonth, activeUsers, todaysAttendance int64
	if err := d.db.Model(&models.User{}).Count(&totalUsers).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to load dashboard")
		return
	}
	if err := d.db.Model(&models.User{}).
		Where("created_at >= ?", monthStart).Count(&newUsersThisMonth).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to load dashboard")
		return
	}
	if err := d.db.Model(&models.User{}).
		Where("last_active_at >= ?", activeSince).Count(&activeUsers).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to load dashboard")
		return
	}
	if err := d.db.Model(&models.Attendance{}).
		Where("date = ? AND counted = ?", today, true).Count(&todaysAttendance).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to load dashboard")
		return
	}

	// substr on created_at works on both mysql datetime and sqlite text.
	var growth []monthlyGrowth
	if err := d.db.Model(&models.User{}).
		Select("substr(created_at, 1, 7) AS month, count(*) AS count").
		Group("month").Order("month DESC").Limit(6).
		Scan(&growth).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to load dashboard")
		return
	}

	payload := gin.H{
		"total_users":          totalUsers,
		"new_users_this_month": newUsersThisMonth,
		"active_users":         activeUsers,
		"todays_attendance":    todaysAttendance,
		"monthly_user_growth":  growth,
	}

	utils.CacheSetJSON(adminDashboardCacheKey, payload, 60*time.Second)
	utils.Success(ctx, payload)
}

// User returns the caller's personal dashboard: streaks, tree state, points,
// attendance aggregates and recent sessions.
func (d *DashboardController) User(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var user models.User
	if err := d.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40410, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50051, "failed to load dashboard")
		return
	}

	type aggregates struct {
		TotalSessions int64
		TotalSeconds  int64
	}
	var agg aggregates
	if err := d.db.Model(&models.Attendance{}).
		Select("count(*) AS total_sessions, coalesce(sum(duration_seconds), 0) AS total_seconds").
		Where("user_id = ? AND counted = ?", userID, true).
		Scan(&agg).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50051, "failed to load dashboard")
		return
	}

	var recent []models.Attendance
	if err := d.db.Where("user_id = ?", userID).
		Order("date DESC").Limit(5).Find(&recent).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50051, "failed to load dashboard")
		return
	}

	var lastSession *string
	if len(recent) > 0 {
		lastSession = &recent[0].Date
	}

	utils.Success(ctx, gin.H{
		"current_streak":    user.CurrentStreak,
		"longest_streak":    user.LongestStreak,
		"last_meeting_date": user.LastMeetingDate,
		"soul_peace_points": user.SoulPeacePoints,
		"tree_stage":        user.TreeStage,
		"total_trees":       user.TotalTrees,
		"total_sessions":    agg.TotalSessions,
		"total_minutes":     agg.TotalSeconds / 60,
		"last_session":      lastSession,
		"recent_activity":   recent,
	})
}

// Status reports process health for monitoring: database reachability,
// memory, goroutines and uptime.
func (d *DashboardController) Status(ctx *gin.Context) {
	dbStatus := "up"
	if sqlDB, err := d.db.DB(); err != nil || sqlDB.Ping() != nil {
		dbStatus = "down"
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	utils.Success(ctx, gin.H{
		"database":       dbStatus,
		"environment":    config.Get().AppEnv,
		"uptime_seconds": int64(time.Since(startTime).Seconds()),
		"goroutines":     runtime.NumGoroutine(),
		"alloc_mb":       mem.Alloc / 1024 / 1024,
		"sys_mb":         mem.Sys / 1024 / 1024,
	})
}
