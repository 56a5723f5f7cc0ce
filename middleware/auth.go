package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/storemate/storemate/utils"
)

// ServiceAuth validates the Bearer token of a calling backend service and
// stores the service name in the context.
func ServiceAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			utils.Error(c, http.StatusUnauthorized, 40101, "認証トークンがありません")
			c.Abort()
			return
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")

		if utils.IsTokenBlacklisted(tokenString) {
			utils.Error(c, http.StatusUnauthorized, 40102, "トークンは無効化されています")
			c.Abort()
			return
		}

		claims, err := utils.ParseServiceToken(tokenString)
		if err != nil {
			utils.Error(c, http.StatusUnauthorized, 40103, "トークンが無効です")
			c.Abort()
			return
		}

		c.Set("service", claims.Service)
		c.Next()
	}
}
