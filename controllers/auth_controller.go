package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/storemate/storemate/config"
	"github.com/storemate/storemate/utils"
)

// AuthController issues and revokes the service tokens trusted backends
// present on mutation routes. Issuance bootstraps off the shared JWT secret.
type AuthController struct{}

func NewAuthController() *AuthController { return &AuthController{} }

type issueTokenRequest struct {
	Service string `json:"service" binding:"required"`
	Secret  string `json:"secret" binding:"required"`
}

// IssueToken handles POST /auth/token.
func (ac *AuthController) IssueToken(c *gin.Context) {
	var req issueTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, 40001, "リクエスト形式が不正です")
		return
	}
	cfg := config.Get()
	if req.Secret != cfg.JWTSecret {
		utils.Error(c, http.StatusUnauthorized, 40104, "シークレットが一致しません")
		return
	}

	ttl := time.Duration(cfg.ServiceTokenTTLHours) * time.Hour
	token, err := utils.GenerateServiceToken(req.Service, ttl)
	if err != nil {
		utils.Sugar.Errorw("issue service token", "service", req.Service, "err", err)
		utils.Error(c, http.StatusInternalServerError, 50001, "内部エラーが発生しました")
		return
	}
	utils.Success(c, gin.H{"token": token, "expires_in": int(ttl.Seconds())})
}

// RevokeToken handles POST /auth/revoke, blacklisting the presented token
// until its natural expiry. Used when rotating a leaked token.
func (ac *AuthController) RevokeToken(c *gin.Context) {
	tokenString := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	claims, err := utils.ParseServiceToken(tokenString)
	if err != nil || claims.ExpiresAt == nil {
		utils.Error(c, http.StatusUnauthorized, 40103, "トークンが無効です")
		return
	}
	utils.BlacklistToken(tokenString, claims.ExpiresAt.Time)
	utils.Success(c, gin.H{"revoked": true, "service": claims.Service})
}
