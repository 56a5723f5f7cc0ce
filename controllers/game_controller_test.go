package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/storemate/storemate/config"
	"github.com/storemate/storemate/models"
	"github.com/storemate/storemate/services"
	"github.com/storemate/storemate/utils"
)

var testDBSeq int64

func newTestEngine(t *testing.T, loc *time.Location) *services.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	_ = utils.InitLogger(config.AppConfig{LogLevel: "error"})

	dsn := fmt.Sprintf("file:ctltest%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(&models.UserStats{}, &models.XPLogEntry{}, &models.UserBadge{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return services.NewEngine(db, services.DefaultLevelTable(), services.DefaultBadgeCatalog(),
		services.DefaultRewardTable(), loc, "店員", 5*time.Second)
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if env.Code != 0 {
		t.Fatalf("envelope code = %d (%s), want 0", env.Code, env.Message)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		t.Fatalf("decode data: %v", err)
	}
}

func TestGetDailyReportUsesConfiguredZone(t *testing.T) {
	// A zone west of any plausible server zone: a naive local-zone parse of
	// the query date would land the report on the previous calendar day.
	loc := time.FixedZone("UTC-11", -11*3600)
	e := newTestEngine(t, loc)

	if _, err := e.CheckIn(context.Background(), "u1", "", time.Date(2026, 4, 5, 12, 0, 0, 0, loc)); err != nil {
		t.Fatalf("CheckIn: %v", err)
	}

	gc := NewGameController(e, time.Second)
	r := gin.New()
	r.GET("/report", gc.GetDailyReport)

	req := httptest.NewRequest(http.MethodGet, "/report?date=2026-04-05", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var report services.DailyReport
	decodeEnvelope(t, w, &report)
	if report.Date != "2026-04-05" {
		t.Errorf("Date = %q, want 2026-04-05", report.Date)
	}
	if report.Checkins != 1 {
		t.Errorf("Checkins = %d, want 1", report.Checkins)
	}
}

func TestGetDailyReportRejectsBadDate(t *testing.T) {
	e := newTestEngine(t, time.UTC)
	gc := NewGameController(e, time.Second)
	r := gin.New()
	r.GET("/report", gc.GetDailyReport)

	req := httptest.NewRequest(http.MethodGet, "/report?date=05-04-2026", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestIssueTokenRequiresSharedSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "controllers-test-secret")
	gin.SetMode(gin.TestMode)
	_ = utils.InitLogger(config.AppConfig{LogLevel: "error"})

	ac := NewAuthController()
	r := gin.New()
	r.POST("/token", ac.IssueToken)

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	if w := post(`{"service":"chat-backend","secret":"wrong"}`); w.Code != http.StatusUnauthorized {
		t.Errorf("wrong secret: status = %d, want 401", w.Code)
	}

	w := post(`{"service":"chat-backend","secret":"controllers-test-secret"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("right secret: status = %d, want 200", w.Code)
	}
	var data struct {
		Token     string `json:"token"`
		ExpiresIn int    `json:"expires_in"`
	}
	decodeEnvelope(t, w, &data)
	if data.Token == "" || data.ExpiresIn <= 0 {
		t.Errorf("issued token = %q expires_in = %d", data.Token, data.ExpiresIn)
	}
	claims, err := utils.ParseServiceToken(data.Token)
	if err != nil {
		t.Fatalf("issued token does not parse: %v", err)
	}
	if claims.Service != "chat-backend" {
		t.Errorf("Service = %q, want chat-backend", claims.Service)
	}
}
