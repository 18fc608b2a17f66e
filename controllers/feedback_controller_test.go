package controllers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/medixhq/medix/models"
)

func newFeedbackEngine(db *gorm.DB, userID uint, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	fc := NewFeedbackController(db)
	authed := r.Group("/api", stubAuth(userID, role))
	authed.POST("/feedback", fc.Submit)
	authed.GET("/feedback/history", fc.History)
	authed.GET("/admin/feedback/stats", fc.Stats)
	return r
}

func TestSubmitFeedback(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "a@example.com")
	r := newFeedbackEngine(db, user.ID, models.RoleUser)

	w := doJSON(t, r, http.MethodPost, "/api/feedback", gin.H{
		"rating":    5,
		"mood":      "Relaxed",
		"recommend": true,
		"message":   "Lovely session",
		"chips":     []string{"calm", "guided"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var stored models.Feedback
	require.NoError(t, db.First(&stored).Error)
	assert.Equal(t, "relaxed", stored.Mood, "mood is normalized to lowercase")
	assert.Equal(t, "calm,guided", stored.Chips)
	assert.Equal(t, user.ID, stored.UserID)
}

func TestSubmitFeedbackSanitizesMessage(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "a@example.com")
	r := newFeedbackEngine(db, user.ID, models.RoleUser)

	w := doJSON(t, r, http.MethodPost, "/api/feedback", gin.H{
		"rating":  4,
		"mood":    "focused",
		"message": "<script>alert(1)</script>peaceful",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var stored models.Feedback
	require.NoError(t, db.First(&stored).Error)
	assert.NotContains(t, stored.Message, "<script>")
	assert.Contains(t, stored.Message, "peaceful")
}

func TestSubmitFeedbackValidation(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "a@example.com")
	r := newFeedbackEngine(db, user.ID, models.RoleUser)

	w := doJSON(t, r, http.MethodPost, "/api/feedback", gin.H{
		"rating":  6,
		"mood":    "relaxed",
		"message": "x",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, "rating above 5")

	w = doJSON(t, r, http.MethodPost, "/api/feedback", gin.H{
		"rating":  3,
		"mood":    "furious",
		"message": "x",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, "unknown mood")

	w = doJSON(t, r, http.MethodPost, "/api/feedback", gin.H{
		"rating": 3,
		"mood":   "relaxed",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, "missing message")
}

func TestFeedbackHistoryAndStats(t *testing.T) {
	db := newTestDB(t)
	alice := seedUser(t, db, "alice@example.com")
	bob := seedUser(t, db, "bob@example.com")

	for _, f := range []models.Feedback{
		{UserID: alice.ID, Rating: 5, Mood: "relaxed", Recommend: true, Message: "great"},
		{UserID: alice.ID, Rating: 3, Mood: "neutral", Message: "ok"},
		{UserID: bob.ID, Rating: 4, Mood: "relaxed", Recommend: true, Message: "nice"},
	} {
		entry := f
		require.NoError(t, db.Create(&entry).Error)
	}

	r := newFeedbackEngine(db, alice.ID, models.RoleAdmin)

	w := doJSON(t, r, http.MethodGet, "/api/feedback/history", nil)
	require.Equal(t, http.StatusOK, w.Code)
	_, data := envelope(t, w)
	entries, ok := data["feedback"].([]interface{})
	require.True(t, ok)
	assert.Len(t, entries, 2, "history only returns the caller's entries")

	w = doJSON(t, r, http.MethodGet, "/api/admin/feedback/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	_, data = envelope(t, w)
	assert.EqualValues(t, 3, data["total_entries"])
	assert.EqualValues(t, 2, data["recommend_count"])
	assert.InDelta(t, 4.0, data["average_rating"], 0.001)
}
