package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/storemate/storemate/services"
	"github.com/storemate/storemate/utils"
)

// ConfigController serves the static progression tables so clients can render
// level names and badge galleries without hardcoding them.
type ConfigController struct {
	Engine *services.Engine
}

func NewConfigController(engine *services.Engine) *ConfigController {
	return &ConfigController{Engine: engine}
}

// GetLevels handles GET /game/config/levels.
func (cc *ConfigController) GetLevels(c *gin.Context) {
	utils.Success(c, cc.Engine.Levels().Defs())
}

// GetBadges handles GET /game/config/badges. Hidden badges stay out of the
// gallery until earned.
func (cc *ConfigController) GetBadges(c *gin.Context) {
	visible := []services.BadgeDef{}
	for _, def := range cc.Engine.Catalog().Defs() {
		if !def.Hidden {
			visible = append(visible, def)
		}
	}
	utils.Success(c, visible)
}

// GetRewards handles GET /game/config/rewards.
func (cc *ConfigController) GetRewards(c *gin.Context) {
	utils.Success(c, cc.Engine.Rewards())
}
