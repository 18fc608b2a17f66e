package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/medixhq/medix/models"
	"github.com/medixhq/medix/utils"
)

// MeetingController manages the daily session and its join/leave flows.
type MeetingController struct {
	db *gorm.DB
}

// NewMeetingController creates a MeetingController.
func NewMeetingController(db *gorm.DB) *MeetingController {
	return &MeetingController{db: db}
}

// CreateOrUpdateMeeting upserts the meeting for a date. The unique index on
// meeting_date makes the upsert atomic, so two admins racing on the same day
// converge on one row with the last writer's fields.
func (m *MeetingController) CreateOrUpdateMeeting(ctx *gin.Context) {
	adminID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	type request struct {
		JoinLink    string `json:"join_link"`
		Title       string `json:"title"`
		StartTime   string `json:"start_time"`
		MeetingDate string `json:"meeting_date"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "invalid request payload")
		return
	}

	if strings.TrimSpace(req.JoinLink) == "" {
		utils.Error(ctx, http.StatusBadRequest, 40031, "meeting link required")
		return
	}

	date := models.DayOf(time.Now())
	if req.MeetingDate != "" {
		parsed, ok := models.ParseDay(req.MeetingDate)
		if !ok {
			utils.Error(ctx, http.StatusBadRequest, 40032, "meeting date must be YYYY-MM-DD")
			return
		}
		date = parsed
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = models.DefaultMeetingTitle
	}

	meeting := models.Meeting{
		Title:       title,
		JoinLink:    strings.TrimSpace(req.JoinLink),
		MeetingDate: date.String(),
		StartTime:   strings.TrimSpace(req.StartTime),
		CreatedBy:   adminID,
		Status:      models.MeetingScheduled,
	}

	err := m.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "meeting_date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"title":      meeting.Title,
			"join_link":  meeting.JoinLink,
			"start_time": meeting.StartTime,
			"created_by": meeting.CreatedBy,
			"status":     models.MeetingScheduled,
			"updated_at": time.Now(),
		}),
	}).Create(&meeting).Error
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to save meeting")
		return
	}

	// Re-read so updates return the stored row rather than the insert attempt.
	var stored models.Meeting
	if err := m.db.Where("meeting_date = ?", date.String()).First(&stored).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to save meeting")
		return
	}

	utils.Success(ctx, stored)
}

// GetTodayMeeting returns the meeting scheduled for the current UTC day.
func (m *MeetingController) GetTodayMeeting(ctx *gin.Context) {
	today := models.DayOf(time.Now()).String()

	var meeting models.Meeting
	if err := m.db.Where("meeting_date = ?", today).First(&meeting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40430, "no meeting scheduled today")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to get today's meeting")
		return
	}

	utils.Success(ctx, meeting)
}

// JoinMeeting records the caller's attendance and returns the external
// redirect link. Repeat joins on the same day are idempotent.
func (m *MeetingController) JoinMeeting(ctx *gin.Context) {
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
		utils.Error(ctx, http.StatusBadRequest, 40033, "meeting id is required")
		return
	}

	result, err := recordAttendanceEvent(m.db, userID, req.MeetingID, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, ErrMeetingNotFound):
			utils.Error(ctx, http.StatusNotFound, 40431, "meeting not found")
		case errors.Is(err, ErrUserNotFound):
			utils.Error(ctx, http.StatusNotFound, 40410, "user not found")
		default:
			utils.Sugar.Errorf("join meeting failed user=%d meeting=%d: %v", userID, req.MeetingID, err)
			utils.Error(ctx, http.StatusInternalServerError, 50032, "join failed")
		}
		return
	}

	utils.Success(ctx, gin.H{
		"redirect":      result.Meeting.JoinLink,
		"attendance_id": result.Attendance.ID,
		"is_new_join":   result.IsNewJoin,
	})
}

// LeaveMeeting stamps the caller's leave time for an attendance row.
func (m *MeetingController) LeaveMeeting(ctx *gin.Context) {
	attendanceID, err := strconv.ParseUint(strings.TrimSpace(ctx.Param("attendanceId")), 10, 32)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40034, "invalid attendance id")
		return
	}

	attendance, err := recordLeave(m.db, uint(attendanceID), time.Now())
	if err != nil {
		if errors.Is(err, ErrAttendanceNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40432, "attendance not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50033, "leave failed")
		return
	}

	utils.Success(ctx, gin.H{
		"message":    "leave recorded",
		"attendance": attendance,
	})
}

// GetSessionHistory lists the caller's past attendance, newest first.
func (m *MeetingController) GetSessionHistory(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var attendances []models.Attendance
	if err := m.db.Where("user_id = ?", userID).
		Order("date DESC").Limit(30).Find(&attendances).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50034, "failed to load session history")
		return
	}

	utils.Success(ctx, gin.H{"sessions": attendances})
}

// GetAllSessions lists meetings for admins, newest first.
func (m *MeetingController) GetAllSessions(ctx *gin.Context) {
	page, limit := 1, 20
	if v := strings.TrimSpace(ctx.Query("page")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}

	var total int64
	if err := m.db.Model(&models.Meeting{}).Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50035, "failed to count meetings")
		return
	}

	var meetings []models.Meeting
	if err := m.db.Order("meeting_date DESC").
		Offset((page - 1) * limit).Limit(limit).Find(&meetings).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50035, "failed to list meetings")
		return
	}

	utils.Success(ctx, gin.H{
		"items": meetings,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// UpdateStatus applies an admin-driven status transition. Only the linear
// scheduled -> live -> completed path and the completed -> scheduled
// reschedule are accepted.
func (m *MeetingController) UpdateStatus(ctx *gin.Context) {
	type request struct {
		MeetingID uint   `json:"meeting_id" binding:"required"`
		Status    string `json:"status" binding:"required"`
	}
	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40035, "meeting id and status are required")
		return
	}

	var meeting models.Meeting
	if err := m.db.First(&meeting, req.MeetingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40431, "meeting not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50036, "failed to load meeting")
		return
	}

	if !models.ValidStatusTransition(meeting.Status, req.Status) {
		utils.Error(ctx, http.StatusConflict, 40930, "invalid status transition")
		return
	}

	if err := m.db.Model(&meeting).Update("status", req.Status).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50036, "failed to update status")
		return
	}
	meeting.Status = req.Status

	utils.Success(ctx, meeting)
}
