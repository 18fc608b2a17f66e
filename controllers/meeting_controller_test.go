package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/medixhq/medix/middleware"
	"github.com/medixhq/medix/models"
)

// stubAuth injects an authenticated identity without a real token.
func stubAuth(userID uint, role string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Set(middleware.ContextUserIDKey, userID)
		ctx.Set(middleware.ContextRoleKey, role)
		ctx.Next()
	}
}

func newMeetingEngine(db *gorm.DB, userID uint, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	mc := NewMeetingController(db)
	ac := NewAttendanceController(db)

	authed := r.Group("/api", stubAuth(userID, role))
	authed.GET("/meeting/today", mc.GetTodayMeeting)
	authed.POST("/meeting/join", mc.JoinMeeting)
	authed.POST("/attendance/mark", ac.MarkAttendance)
	authed.POST("/admin/meeting", mc.CreateOrUpdateMeeting)
	authed.PATCH("/admin/meeting/status", mc.UpdateStatus)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func envelope(t *testing.T, w *httptest.ResponseRecorder) (int, map[string]interface{}) {
	t.Helper()
	var out struct {
		Code int                    `json:"code"`
		Data map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out.Code, out.Data
}

func TestCreateMeetingUpsertSameDate(t *testing.T) {
	db := newTestDB(t)
	admin := seedUser(t, db, "admin@example.com")
	r := newMeetingEngine(db, admin.ID, models.RoleAdmin)

	date := models.DayOf(time.Now()).String()

	w := doJSON(t, r, http.MethodPost, "/api/admin/meeting", gin.H{
		"join_link":    "https://meet.example.com/first",
		"meeting_date": date,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/admin/meeting", gin.H{
		"join_link":    "https://meet.example.com/second",
		"title":        "Evening Sit",
		"meeting_date": date,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.Meeting{}).Count(&count).Error)
	assert.EqualValues(t, 1, count, "one meeting per date regardless of repeat saves")

	var stored models.Meeting
	require.NoError(t, db.Where("meeting_date = ?", date).First(&stored).Error)
	assert.Equal(t, "https://meet.example.com/second", stored.JoinLink)
	assert.Equal(t, "Evening Sit", stored.Title)
	assert.Equal(t, models.MeetingScheduled, stored.Status)
}

func TestCreateMeetingRequiresLink(t *testing.T) {
	db := newTestDB(t)
	admin := seedUser(t, db, "admin@example.com")
	r := newMeetingEngine(db, admin.ID, models.RoleAdmin)

	w := doJSON(t, r, http.MethodPost, "/api/admin/meeting", gin.H{"title": "No Link"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateMeetingRejectsBadDate(t *testing.T) {
	db := newTestDB(t)
	admin := seedUser(t, db, "admin@example.com")
	r := newMeetingEngine(db, admin.ID, models.RoleAdmin)

	w := doJSON(t, r, http.MethodPost, "/api/admin/meeting", gin.H{
		"join_link":    "https://meet.example.com/x",
		"meeting_date": "01-03-2026",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateMeetingResetsStatusOnReschedule(t *testing.T) {
	db := newTestDB(t)
	admin := seedUser(t, db, "admin@example.com")
	r := newMeetingEngine(db, admin.ID, models.RoleAdmin)

	date := models.DayOf(time.Now())
	meeting := seedMeeting(t, db, date)
	require.NoError(t, db.Model(meeting).Update("status", models.MeetingCompleted).Error)

	w := doJSON(t, r, http.MethodPost, "/api/admin/meeting", gin.H{
		"join_link":    "https://meet.example.com/again",
		"meeting_date": date.String(),
	})
	require.Equal(t, http.StatusOK, w.Code)

	var stored models.Meeting
	require.NoError(t, db.First(&stored, meeting.ID).Error)
	assert.Equal(t, models.MeetingScheduled, stored.Status)
}

func TestGetTodayMeeting(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "a@example.com")
	r := newMeetingEngine(db, user.ID, models.RoleUser)

	w := doJSON(t, r, http.MethodGet, "/api/meeting/today", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	seedMeeting(t, db, models.DayOf(time.Now()))
	w = doJSON(t, r, http.MethodGet, "/api/meeting/today", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestJoinMeetingReturnsRedirect(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "a@example.com")
	meeting := seedMeeting(t, db, models.DayOf(time.Now()))
	r := newMeetingEngine(db, user.ID, models.RoleUser)

	w := doJSON(t, r, http.MethodPost, "/api/meeting/join", gin.H{"meeting_id": meeting.ID})
	require.Equal(t, http.StatusOK, w.Code)

	code, data := envelope(t, w)
	assert.Equal(t, 0, code)
	assert.Equal(t, meeting.JoinLink, data["redirect"])
	assert.Equal(t, true, data["is_new_join"])
	assert.NotZero(t, data["attendance_id"])
}

func TestMarkAttendanceReturnsProgress(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "a@example.com")
	meeting := seedMeeting(t, db, models.DayOf(time.Now()))
	r := newMeetingEngine(db, user.ID, models.RoleUser)

	w := doJSON(t, r, http.MethodPost, "/api/attendance/mark", gin.H{"meeting_id": meeting.ID})
	require.Equal(t, http.StatusOK, w.Code)

	_, data := envelope(t, w)
	progress, ok := data["user_progress"].(map[string]interface{})
	require.True(t, ok)
	assert.EqualValues(t, 1, progress["current_streak"])
	assert.EqualValues(t, 10, progress["soul_peace_points"])
	assert.Equal(t, models.StageSeed, progress["tree_stage"])
}

func TestUpdateStatusTransitions(t *testing.T) {
	db := newTestDB(t)
	admin := seedUser(t, db, "admin@example.com")
	meeting := seedMeeting(t, db, models.DayOf(time.Now()))
	r := newMeetingEngine(db, admin.ID, models.RoleAdmin)

	patch := func(status string) *httptest.ResponseRecorder {
		return doJSON(t, r, http.MethodPatch, "/api/admin/meeting/status", gin.H{
			"meeting_id": meeting.ID,
			"status":     status,
		})
	}

	// Skipping a step is rejected.
	assert.Equal(t, http.StatusConflict, patch(models.MeetingCompleted).Code)

	assert.Equal(t, http.StatusOK, patch(models.MeetingLive).Code)
	assert.Equal(t, http.StatusOK, patch(models.MeetingCompleted).Code)

	// Completed meetings can only go back to scheduled.
	assert.Equal(t, http.StatusConflict, patch(models.MeetingLive).Code)
	assert.Equal(t, http.StatusOK, patch(models.MeetingScheduled).Code)
}

func TestUpdateStatusUnknownMeeting(t *testing.T) {
	db := newTestDB(t)
	admin := seedUser(t, db, "admin@example.com")
	r := newMeetingEngine(db, admin.ID, models.RoleAdmin)

	w := doJSON(t, r, http.MethodPatch, "/api/admin/meeting/status", gin.H{
		"meeting_id": 999,
		"status":     models.MeetingLive,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLeaveMeetingEndpoint(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "a@example.com")
	meeting := seedMeeting(t, db, models.DayOf(time.Now()))

	gin.SetMode(gin.TestMode)
	r := gin.New()
	mc := NewMeetingController(db)
	authed := r.Group("/api", stubAuth(user.ID, models.RoleUser))
	authed.POST("/meeting/join", mc.JoinMeeting)
	authed.POST("/meeting/leave/:attendanceId", mc.LeaveMeeting)

	w := doJSON(t, r, http.MethodPost, "/api/meeting/join", gin.H{"meeting_id": meeting.ID})
	require.Equal(t, http.StatusOK, w.Code)
	_, data := envelope(t, w)
	attendanceID := data["attendance_id"]

	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/meeting/leave/%v", attendanceID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/meeting/leave/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/meeting/leave/99999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
