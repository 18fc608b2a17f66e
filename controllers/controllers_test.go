package controllers

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/medixhq/medix/config"
	"github.com/medixhq/medix/models"
	"github.com/medixhq/medix/utils"
)

func init() {
	utils.Logger = zap.NewNop()
	utils.Sugar = utils.Logger.Sugar()
	config.SetForTesting(config.AppConfig{
		AppEnv:              "test",
		JWTSecret:           "test-secret",
		SessionRewardPoints: 10,
		TreeStageSessions:   7,
		RateLimitPerMinute:  1000,
	})
}

// newTestDB opens an isolated in-memory database with the full schema.
// A single connection keeps sqlite happy under the concurrency tests.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Meeting{},
		&models.Attendance{},
		&models.Feedback{},
		&models.DailyActivity{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{
		Name:         "Test Member",
		Email:        email,
		PasswordHash: "x",
		Role:         models.RoleUser,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedMeeting(t *testing.T, db *gorm.DB, date models.Day) *models.Meeting {
	t.Helper()
	meeting := &models.Meeting{
		Title:       models.DefaultMeetingTitle,
		JoinLink:    "https://meet.example.com/daily",
		MeetingDate: date.String(),
		Status:      models.MeetingScheduled,
	}
	require.NoError(t, db.Create(meeting).Error)
	return meeting
}

func at(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t.UTC()
}
