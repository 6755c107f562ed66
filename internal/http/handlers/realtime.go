package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/coursegen-backend/internal/http/response"
	"github.com/yungbote/coursegen-backend/internal/platform/apierr"
	"github.com/yungbote/coursegen-backend/internal/platform/ctxutil"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
	"github.com/yungbote/coursegen-backend/internal/realtime"
)

type RealtimeHandler struct {
	log *logger.Logger
	hub *realtime.SSEHub
}

func NewRealtimeHandler(log *logger.Logger, hub *realtime.SSEHub) *RealtimeHandler {
	return &RealtimeHandler{
		log: log.With("handler", "RealtimeHandler"),
		hub: hub,
	}
}

// GET /api/events?channel=course:<cid>
func (h *RealtimeHandler) Stream(c *gin.Context) {
	channel := strings.TrimSpace(c.Query("channel"))
	if !strings.HasPrefix(channel, "course:") || len(channel) == len("course:") {
		response.RespondAPIError(c, apierr.BadRequest("invalid_channel", errors.New("channel must be course:<courseId>")))
		return
	}

	client := h.hub.NewSSEClient(ctxutil.Email(c.Request.Context()))
	h.hub.AddChannel(client, channel)
	h.log.Debug("SSE stream open", "clientID", client.ID, "channel", channel)

	h.hub.ServeHTTP(c.Writer, c.Request, client)

	h.hub.CloseClient(client)
	h.log.Debug("SSE stream closed", "clientID", client.ID, "channel", channel)
}
