package main

import (
	"log"
	"time"

	"github.com/storemate/storemate/config"
	"github.com/storemate/storemate/models"
	"github.com/storemate/storemate/routes"
	"github.com/storemate/storemate/services"
	"github.com/storemate/storemate/utils"
)

func main() {
	cfg := config.Load()

	if err := utils.InitLogger(cfg); err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = utils.Logger.Sync() }()

	db := config.InitDatabase(
		&models.UserStats{},
		&models.XPLogEntry{},
		&models.UserBadge{},
	)

	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		utils.Sugar.Fatalf("load time zone %s: %v", cfg.TimeZone, err)
	}

	levels := services.DefaultLevelTable()
	catalog := services.DefaultBadgeCatalog()
	rewards, err := services.NewRewardTable(services.RewardTable{
		CheckinXP:  cfg.CheckinXP,
		RegisterXP: cfg.RegisterXP,
		RemoveXP:   cfg.RemoveXP,
		DrawXP:     cfg.DrawXP,
		Milestones: []services.StreakMilestone{
			{Days: 7, BonusXP: cfg.Milestone7XP},
			{Days: 14, BonusXP: cfg.Milestone14XP},
			{Days: 30, BonusXP: cfg.Milestone30XP},
		},
		NightBadges: map[int]string{7: "night_7", 30: "night_30"},
		EarlyBadges: map[int]string{7: "early_7"},
	})
	if err != nil {
		utils.Sugar.Fatalf("reward table: %v", err)
	}

	engine := services.NewEngine(db, levels, catalog, rewards, loc, cfg.DefaultDisplayName,
		time.Duration(cfg.StorageTimeoutSecs)*time.Second)
	router := routes.SetupRouter(db, engine)

	addr := ":" + cfg.AppPort
	utils.Sugar.Infof("storemate progression service listening on %s", addr)
	if err := utils.GraceServer(addr, router); err != nil {
		utils.Sugar.Errorf("server exited: %v", err)
	}
}
