package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/storemate/storemate/services"
)

func postEvents(t *testing.T, wc *WebhookController, body string) *httptest.ResponseRecorder {
	t.Helper()
	r := gin.New()
	r.POST("/events", wc.HandleEvents)

	req := httptest.NewRequest(http.MethodPost, "/events", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type outcomesData struct {
	Outcomes []struct {
		Index    int    `json:"index"`
		Type     string `json:"type"`
		UserID   string `json:"user_id"`
		Accepted bool   `json:"accepted"`
		Error    string `json:"error"`
	} `json:"outcomes"`
}

func TestWebhookDispatchesBatch(t *testing.T) {
	e := newTestEngine(t, time.UTC)
	wc := NewWebhookController(e)

	body := `{"events":[
		{"type":"checkin","user_id":"u1","occurred_at":"2026-04-05T12:00:00Z"},
		{"type":"product_register","user_id":"u1","occurred_at":"2026-04-05T12:01:00Z"},
		{"type":"unknown_event","user_id":"u1"}
	]}`
	w := postEvents(t, wc, body)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var data outcomesData
	decodeEnvelope(t, w, &data)
	if len(data.Outcomes) != 3 {
		t.Fatalf("outcomes = %d, want 3", len(data.Outcomes))
	}
	if !data.Outcomes[0].Accepted || !data.Outcomes[1].Accepted {
		t.Errorf("valid events rejected: %+v", data.Outcomes[:2])
	}
	if data.Outcomes[2].Accepted || data.Outcomes[2].Error == "" {
		t.Errorf("unknown event type must carry an error: %+v", data.Outcomes[2])
	}

	stats, err := e.GetUserGameData(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetUserGameData: %v", err)
	}
	// 10 check-in + 5 register.
	if stats.Stats.TotalXP != 15 {
		t.Errorf("TotalXP = %d, want 15", stats.Stats.TotalXP)
	}
}

func TestWebhookRejectsMalformedOccurredAt(t *testing.T) {
	e := newTestEngine(t, time.UTC)
	wc := NewWebhookController(e)

	body := `{"events":[
		{"type":"checkin","user_id":"u1","occurred_at":"2026-04-05T12:00:00Z"},
		{"type":"checkin","user_id":"u2","occurred_at":"not-a-time"}
	]}`
	w := postEvents(t, wc, body)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var data outcomesData
	decodeEnvelope(t, w, &data)
	if !data.Outcomes[0].Accepted {
		t.Errorf("valid event rejected: %+v", data.Outcomes[0])
	}
	if data.Outcomes[1].Accepted || data.Outcomes[1].Error == "" {
		t.Errorf("malformed occurred_at must carry an error: %+v", data.Outcomes[1])
	}

	// The bad event must not have been replayed at some other time.
	if _, err := e.GetUserGameData(context.Background(), "u2"); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("u2 err = %v, want ErrNotFound (event not applied)", err)
	}
}

func TestWebhookRejectsOversizedBatch(t *testing.T) {
	e := newTestEngine(t, time.UTC)
	wc := NewWebhookController(e)

	var sb strings.Builder
	sb.WriteString(`{"events":[`)
	for i := 0; i < 101; i++ {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(`{"type":"checkin","user_id":"u1"}`)
	}
	sb.WriteString(`]}`)

	w := postEvents(t, wc, sb.String())
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}
