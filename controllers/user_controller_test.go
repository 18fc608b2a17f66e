package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/medixhq/medix/models"
)

func newUserEngine(db *gorm.DB, adminID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	uc := NewUserController(db)
	authed := r.Group("/api/user", stubAuth(adminID, models.RoleAdmin))
	authed.GET("", uc.ListUsers)
	authed.GET("/:userId", uc.GetUser)
	authed.PUT("/:userId", uc.UpdateUser)
	authed.DELETE("/:userId", uc.DeleteUser)
	return r
}

func TestListUsersPaginationAndSearch(t *testing.T) {
	db := newTestDB(t)
	admin := seedUser(t, db, "admin@example.com")
	for i := 0; i < 12; i++ {
		seedUser(t, db, fmt.Sprintf("member%02d@example.com", i))
	}
	r := newUserEngine(db, admin.ID)

	w := doJSON(t, r, http.MethodGet, "/api/user?page=1&limit=5", nil)
	require.Equal(t, http.StatusOK, w.Code)
	_, data := envelope(t, w)
	items := data["items"].([]interface{})
	assert.Len(t, items, 5)
	pagination := data["pagination"].(map[string]interface{})
	assert.EqualValues(t, 13, pagination["total"])

	w = doJSON(t, r, http.MethodGet, "/api/user?search=member03", nil)
	require.Equal(t, http.StatusOK, w.Code)
	_, data = envelope(t, w)
	assert.Len(t, data["items"].([]interface{}), 1)
}

func TestUpdateUserRole(t *testing.T) {
	db := newTestDB(t)
	admin := seedUser(t, db, "admin@example.com")
	member := seedUser(t, db, "member@example.com")
	r := newUserEngine(db, admin.ID)

	w := doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/user/%d", member.ID), gin.H{"role": "admin"})
	require.Equal(t, http.StatusOK, w.Code)

	var stored models.User
	require.NoError(t, db.First(&stored, member.ID).Error)
	assert.Equal(t, models.RoleAdmin, stored.Role)

	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/user/%d", member.ID), gin.H{"role": "superuser"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteUserSoftDeletes(t *testing.T) {
	db := newTestDB(t)
	admin := seedUser(t, db, "admin@example.com")
	member := seedUser(t, db, "member@example.com")
	r := newUserEngine(db, admin.ID)

	w := doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/user/%d", member.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count, "deleted user no longer listed")

	var raw int64
	require.NoError(t, db.Unscoped().Model(&models.User{}).Count(&raw).Error)
	assert.EqualValues(t, 2, raw, "row is retained for history")

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/user/%d", member.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
