package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/medixhq/medix/models"
	"github.com/medixhq/medix/utils"
)

// FeedbackController handles post-session survey submission and reporting.
type FeedbackController struct {
	db *gorm.DB
}

// NewFeedbackController creates a FeedbackController.
func NewFeedbackController(db *gorm.DB) *FeedbackController {
	return &FeedbackController{db: db}
}

// Submit stores one survey entry. The free-text message passes through the
// HTML sanitizer before it is stored.
func (f *FeedbackController) Submit(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	type request struct {
		Rating    int      `json:"rating" binding:"required"`
		Mood      string   `json:"mood" binding:"required"`
		Recommend bool     `json:"recommend"`
		Message   string   `json:"message" binding:"required"`
		Chips     []string `json:"chips"`
		MeetingID *uint    `json:"meeting_id"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40050, "rating, mood and message are required")
		return
	}

	if req.Rating < 1 || req.Rating > 5 {
		utils.Error(ctx, http.StatusBadRequest, 40051, "rating must be between 1 and 5")
		return
	}
	mood := strings.ToLower(strings.TrimSpace(req.Mood))
	if !models.ValidMood(mood) {
		utils.Error(ctx, http.StatusBadRequest, 40052, "unknown mood value")
		return
	}
	message := utils.Sanitize(strings.TrimSpace(req.Message))
	if message == "" {
		utils.Error(ctx, http.StatusBadRequest, 40053, "message is required")
		return
	}

	feedback := models.Feedback{
		UserID:    userID,
		Rating:    req.Rating,
		Mood:      mood,
		Recommend: req.Recommend,
		Message:   message,
		Chips:     strings.Join(req.Chips, ","),
		MeetingID: req.MeetingID,
	}

	if err := f.db.Create(&feedback).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50060, "failed to save feedback")
		return
	}

	utils.Success(ctx, feedback)
}

// History lists the caller's submitted feedback, newest first.
func (f *FeedbackController) History(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var entries []models.Feedback
	if err := f.db.Where("user_id = ?", userID).
		Order("created_at DESC").Limit(50).Find(&entries).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50061, "failed to load feedback")
		return
	}

	utils.Success(ctx, gin.H{"feedback": entries})
}

// Stats aggregates survey results for admins: entry count, average rating
// and mood distribution.
func (f *FeedbackController) Stats(ctx *gin.Context) {
	var total int64
	if err := f.db.Model(&models.Feedback{}).Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50062, "failed to load feedback stats")
		return
	}

	type ratingRow struct {
		Avg float64
	}
	var rating ratingRow
	if total > 0 {
		if err := f.db.Model(&models.Feedback{}).
			Select("avg(rating) AS avg").Scan(&rating).Error; err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50062, "failed to load feedback stats")
			return
		}
	}

	type moodRow struct {
		Mood  string `json:"mood"`
		Count int64  `json:"count"`
	}
	var moods []moodRow
	if err := f.db.Model(&models.Feedback{}).
		Select("mood, count(*) AS count").
		Group("mood").Order("count DESC").
		Scan(&moods).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50062, "failed to load feedback stats")
		return
	}

	var recommendCount int64
	if err := f.db.Model(&models.Feedback{}).
		Where("recommend = ?", true).Count(&recommendCount).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50062, "failed to load feedback stats")
		return
	}

	utils.Success(ctx, gin.H{
		"total_entries":     total,
		"average_rating":    rating.Avg,
		"mood_distribution": moods,
		"recommend_count":   recommendCount,
	})
}
