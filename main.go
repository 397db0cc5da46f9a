package main

import (
	"github.com/studyvolt/studyvolt/config"
	"github.com/studyvolt/studyvolt/models"
	"github.com/studyvolt/studyvolt/routes"
	"github.com/studyvolt/studyvolt/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(&models.User{}, &models.DailyRecord{}, &models.ActivityEntry{})

	r := routes.SetupRouter(db)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
