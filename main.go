package main

import (
	"github.com/medixhq/medix/config"
	"github.com/medixhq/medix/models"
	"github.com/medixhq/medix/routes"
	"github.com/medixhq/medix/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
		&models.User{},
		&models.Meeting{},
		&models.Attendance{},
		&models.Feedback{},
		&models.DailyActivity{},
	)

	r := routes.SetupRouter(db)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
