package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/medixhq/medix/models"
	"github.com/medixhq/medix/utils"
)

// UserController exposes admin user management endpoints.
type UserController struct {
	db *gorm.DB
}

// NewUserController creates a UserController.
func NewUserController(db *gorm.DB) *UserController {
	return &UserController{db: db}
}

// ListUsers returns paginated users with optional name/email search and role filter.
func (u *UserController) ListUsers(ctx *gin.Context) {
	page, limit := 1, 10
	if v := strings.TrimSpace(ctx.Query("page")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}
	if v := strings.TrimSpace(ctx.Query("limit")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	query := u.db.Model(&models.User{})
	if search := strings.TrimSpace(ctx.Query("search")); search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR email LIKE ?", like, like)
	}
	if role := strings.TrimSpace(ctx.Query("role")); role != "" {
		query = query.Where("role = ?", role)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to count users")
		return
	}

	var users []models.User
	if err := query.Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&users).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to retrieve users")
		return
	}

	utils.Success(ctx, gin.H{
		"items": users,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetUser returns one user by id.
func (u *UserController) GetUser(ctx *gin.Context) {
	id := strings.TrimSpace(ctx.Param("userId"))
	if id == "" {
		utils.Error(ctx, http.StatusBadRequest, 40020, "missing user id")
		return
	}

	var user models.User
	if err := u.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40410, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to get user")
		return
	}

	utils.Success(ctx, user)
}

// UpdateUser lets an admin change display fields and the role.
func (u *UserController) UpdateUser(ctx *gin.Context) {
	id := strings.TrimSpace(ctx.Param("userId"))
	if id == "" {
		utils.Error(ctx, http.StatusBadRequest, 40020, "missing user id")
		return
	}

	type request struct {
		Name   string `json:"name"`
		Phone  string `json:"phone"`
		Gender string `json:"gender"`
		Role   string `json:"role"`
	}
	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40021, "invalid request payload")
		return
	}
	if req.Role != "" && req.Role != models.RoleUser && req.Role != models.RoleAdmin {
		utils.Error(ctx, http.StatusBadRequest, 40022, "unknown role")
		return
	}

	var user models.User
	if err := u.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40410, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to get user")
		return
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		user.Name = name
	}
	if req.Phone != "" {
		user.Phone = strings.TrimSpace(req.Phone)
	}
	if req.Gender != "" {
		user.Gender = strings.TrimSpace(req.Gender)
	}
	if req.Role != "" {
		user.Role = req.Role
	}

	if err := u.db.Save(&user).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50024, "failed to update user")
		return
	}

	utils.Success(ctx, user)
}

// DeleteUser removes a user account. Admin only; this is the single place a
// user record leaves the system.
func (u *UserController) DeleteUser(ctx *gin.Context) {
	id := strings.TrimSpace(ctx.Param("userId"))
	if id == "" {
		utils.Error(ctx, http.StatusBadRequest, 40020, "missing user id")
		return
	}

	res := u.db.Delete(&models.User{}, id)
	if res.Error != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to delete user")
		return
	}
	if res.RowsAffected == 0 {
		utils.Error(ctx, http.StatusNotFound, 40410, "user not found")
		return
	}

	utils.Success(ctx, gin.H{"message": "user deleted"})
}
