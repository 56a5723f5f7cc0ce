package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/storemate/storemate/utils"
)

func authTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ping", ServiceAuth(), func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	return r
}

func doPing(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestServiceAuthRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "middleware-test-secret")
	r := authTestRouter()

	token, err := utils.GenerateServiceToken("chat-backend", time.Hour)
	if err != nil {
		t.Fatalf("GenerateServiceToken: %v", err)
	}

	if w := doPing(r, token); w.Code != http.StatusOK {
		t.Fatalf("valid token: status = %d, want %d", w.Code, http.StatusOK)
	}

	utils.BlacklistToken(token, time.Now().Add(time.Hour))
	if w := doPing(r, token); w.Code != http.StatusUnauthorized {
		t.Errorf("revoked token: status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestServiceAuthRejectsBadTokens(t *testing.T) {
	t.Setenv("JWT_SECRET", "middleware-test-secret")
	r := authTestRouter()

	if w := doPing(r, ""); w.Code != http.StatusUnauthorized {
		t.Errorf("missing header: status = %d, want 401", w.Code)
	}
	if w := doPing(r, "not-a-jwt"); w.Code != http.StatusUnauthorized {
		t.Errorf("garbage token: status = %d, want 401", w.Code)
	}

	expired, err := utils.GenerateServiceToken("chat-backend", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateServiceToken: %v", err)
	}
	if w := doPing(r, expired); w.Code != http.StatusUnauthorized {
		t.Errorf("expired token: status = %d, want 401", w.Code)
	}
}
