package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/storemate/storemate/config"
	"github.com/storemate/storemate/controllers"
	"github.com/storemate/storemate/middleware"
	"github.com/storemate/storemate/services"
	"github.com/storemate/storemate/utils"
)

// SetupRouter builds the gin engine with middleware and all route groups.
func SetupRouter(db *gorm.DB, engine *services.Engine) *gin.Engine {
	cfg := config.Get()

	gin.SetMode(cfg.GinMode)
	r := gin.New()

	r.Use(utils.Ginzap(utils.Logger, time.RFC3339, true))
	r.Use(utils.RecoveryWithZap(utils.Logger, true))

	corsCfg := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	r.Use(cors.New(corsCfg))

	r.GET("/healthz", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	gameCtl := controllers.NewGameController(engine, time.Duration(cfg.LeaderboardCacheTTLSecs)*time.Second)
	webhookCtl := controllers.NewWebhookController(engine)
	configCtl := controllers.NewConfigController(engine)
	authCtl := controllers.NewAuthController()

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimit(cfg.RateLimitPerMinute))

	auth := api.Group("/auth")
	{
		auth.POST("/token", authCtl.IssueToken)
		auth.POST("/revoke", middleware.ServiceAuth(), authCtl.RevokeToken)
	}

	// Public reads
	game := api.Group("/game")
	{
		game.GET("/users/:id", gameCtl.GetUser)
		game.GET("/leaderboard", gameCtl.GetLeaderboard)
		game.GET("/report/daily", gameCtl.GetDailyReport)
		game.GET("/config/levels", configCtl.GetLevels)
		game.GET("/config/badges", configCtl.GetBadges)
		game.GET("/config/rewards", configCtl.GetRewards)
	}

	// Mutations require a service token
	mut := api.Group("/game")
	mut.Use(middleware.ServiceAuth())
	{
		mut.POST("/checkin", gameCtl.CheckIn)
		mut.POST("/actions", gameCtl.RecordAction)
		mut.POST("/draws", gameCtl.RecordDraw)
		mut.POST("/badges", gameCtl.AwardBadge)
		mut.POST("/xp", gameCtl.GrantXP)
	}

	hooks := api.Group("/webhook")
	hooks.Use(middleware.ServiceAuth())
	{
		hooks.POST("/events", webhookCtl.HandleEvents)
	}

	return r
}
