package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/medixhq/medix/models"
	"github.com/medixhq/medix/utils"
)

// AttendanceController exposes the attendance ledger endpoints. The mark
// route shares its write path with the meeting join route; only the response
// shape differs.
type AttendanceController struct {
	db *gorm.DB
}

// NewAttendanceController creates an AttendanceController.
func NewAttendanceController(db *gorm.DB) *AttendanceController {
	return &AttendanceController{db: db}
}

// MarkAttendance records today's attendance for a meeting and returns the
// caller's updated progress.
func (a *AttendanceController) MarkAttendance(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	type request struct {
		MeetingID uint `json:"meeting_id" binding:"required"`
	}
	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40040, "meeting id is required")
		return
	}

	result, err := recordAttendanceEvent(a.db, userID, req.MeetingID, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, ErrMeetingNotFound):
			utils.Error(ctx, http.StatusNotFound, 40431, "meeting not found")
		case errors.Is(err, ErrUserNotFound):
			utils.Error(ctx, http.StatusNotFound, 40410, "user not found")
		default:
			utils.Sugar.Errorf("mark attendance failed user=%d meeting=%d: %v", userID, req.MeetingID, err)
			utils.Error(ctx, http.StatusInternalServerError, 50040, "unable to mark attendance")
		}
		return
	}

	user := result.User
	utils.Success(ctx, gin.H{
		"message":       "attendance marked",
		"attendance_id": result.Attendance.ID,
		"user_progress": gin.H{
			"current_streak":    user.CurrentStreak,
			"longest_streak":    user.LongestStreak,
			"last_meeting_date": user.LastMeetingDate,
			"tree_stage":        user.TreeStage,
			"forest_count":      user.TotalTrees,
			"soul_peace_points": user.SoulPeacePoints,
		},
	})
}

// MarkLeave stamps the leave time for an attendance row. Idempotent.
func (a *AttendanceController) MarkLeave(ctx *gin.Context) {
	attendanceID, err := strconv.ParseUint(strings.TrimSpace(ctx.Param("attendanceId")), 10, 32)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40041, "invalid attendance id")
		return
	}

	attendance, err := recordLeave(a.db, uint(attendanceID), time.Now())
	if err != nil {
		if errors.Is(err, ErrAttendanceNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40432, "attendance not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50041, "error updating leave time")
		return
	}

	utils.Success(ctx, gin.H{
		"message":    "leave recorded",
		"attendance": attendance,
	})
}

// GetAttendances lists the caller's attendance rows.
func (a *AttendanceController) GetAttendances(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var attendances []models.Attendance
	if err := a.db.Where("user_id = ?", userID).
		Order("date DESC").Find(&attendances).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50042, "failed to load attendance")
		return
	}

	utils.Success(ctx, gin.H{"attendance": attendances})
}
