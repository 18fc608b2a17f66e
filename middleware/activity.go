package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/medixhq/medix/models"
)

// ActivityRecorder records one daily-activity row per authenticated user per
// day and stamps User.LastActiveAt. It feeds the admin dashboard's active
// user counts. Must run after AuthRequired.
func ActivityRecorder(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		status := c.Writer.Status()
		if status < 200 || status >= 400 {
			return
		}

		v, ok := c.Get(ContextUserIDKey)
		if !ok {
			return
		}
		userID, ok := v.(uint)
		if !ok {
			return
		}

		now := time.Now()
		today := models.DayOf(now).String()

		// Atomic upsert; the unique (date, user_id) index absorbs concurrent
		// requests from the same user.
		res := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "date"}, {Name: "user_id"}},
			DoNothing: true,
		}).Create(&models.DailyActivity{Date: today, UserID: userID})
		if res.Error != nil {
			return
		}

		// Only touch the user row on the first request of the day.
		if res.RowsAffected > 0 {
			_ = db.Model(&models.User{}).Where("id = ?", userID).
				Update("last_active_at", now).Error
		}
	}
}
