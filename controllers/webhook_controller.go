package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/storemate/storemate/models"
	"github.com/storemate/storemate/services"
	"github.com/storemate/storemate/utils"
)

// WebhookController ingests batched activity events from collaborating
// backends (POS sync jobs, the fortune-card service) and replays them through
// the engine one by one.
type WebhookController struct {
	Engine *services.Engine
}

func NewWebhookController(engine *services.Engine) *WebhookController {
	return &WebhookController{Engine: engine}
}

// Supported webhook event types.
const (
	EventCheckin  = "checkin"
	EventRegister = "product_register"
	EventRemove   = "product_remove"
	EventDraw     = "card_draw"
	EventBadge    = "badge_award"
)

type webhookEvent struct {
	Type        string `json:"type" binding:"required"`
	UserID      string `json:"user_id" binding:"required"`
	DisplayName string `json:"display_name"`
	LuckyValue  int    `json:"lucky_value"`
	BadgeCode   string `json:"badge_code"`
	OccurredAt  string `json:"occurred_at"` // RFC3339, defaults to now
}

type webhookRequest struct {
	Events []webhookEvent `json:"events" binding:"required"`
}

type webhookOutcome struct {
	Index    int         `json:"index"`
	Type     string      `json:"type"`
	UserID   string      `json:"user_id"`
	Accepted bool        `json:"accepted"`
	Error    string      `json:"error,omitempty"`
	Result   interface{} `json:"result,omitempty"`
}

// HandleEvents handles POST /webhook/events. Each event is processed
// independently; a bad event never blocks the rest of the batch, so the
// response is always 200 with per-event outcomes.
func (wc *WebhookController) HandleEvents(c *gin.Context) {
	var req webhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, 40001, "リクエスト形式が不正です")
		return
	}
	if len(req.Events) == 0 {
		utils.Error(c, http.StatusBadRequest, 40001, "eventsが空です")
		return
	}
	if len(req.Events) > 100 {
		utils.Error(c, http.StatusBadRequest, 40001, "1回のバッチは100件までです")
		return
	}

	ctx := c.Request.Context()
	outcomes := make([]webhookOutcome, 0, len(req.Events))
	for i, ev := range req.Events {
		now := time.Now()
		if ev.OccurredAt != "" {
			parsed, perr := time.Parse(time.RFC3339, ev.OccurredAt)
			if perr != nil {
				outcomes = append(outcomes, webhookOutcome{
					Index:  i,
					Type:   ev.Type,
					UserID: ev.UserID,
					Error:  "occurred_atはRFC3339形式で指定してください",
				})
				continue
			}
			now = parsed
		}
		name := utils.Sanitize(ev.DisplayName)

		outcome := webhookOutcome{Index: i, Type: ev.Type, UserID: ev.UserID}
		var res interface{}
		var err error
		switch ev.Type {
		case EventCheckin:
			res, err = wc.Engine.CheckIn(ctx, ev.UserID, name, now)
		case EventRegister:
			res, err = wc.Engine.RecordAction(ctx, ev.UserID, name, models.ActionRegister, now)
		case EventRemove:
			res, err = wc.Engine.RecordAction(ctx, ev.UserID, name, models.ActionRemove, now)
		case EventDraw:
			res, err = wc.Engine.RecordDraw(ctx, ev.UserID, name, ev.LuckyValue, now)
		case EventBadge:
			res, err = wc.Engine.AwardBadge(ctx, ev.UserID, name, ev.BadgeCode, now)
		default:
			err = errors.New("未対応のイベントタイプです")
		}

		if err != nil {
			outcome.Error = err.Error()
			if errors.Is(err, services.ErrStorageUnavailable) {
				utils.Sugar.Errorw("webhook event failed on storage", "type", ev.Type, "user_id", ev.UserID, "err", err)
			}
		} else {
			outcome.Accepted = true
			outcome.Result = res
		}
		outcomes = append(outcomes, outcome)
	}

	utils.Success(c, gin.H{"outcomes": outcomes})
}
