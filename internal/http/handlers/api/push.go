package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smarteats-next/internal/http/handlers/shared"
	"github.com/smarteats-next/internal/logger"
)

// StreamPush SSE 推送流。
// 客户端按身份订阅自己的频道，断线后由收件箱补读错过的消息。
func (h *Handler) StreamPush(c *gin.Context) {
	recipient, ok := shared.Recipient(c)
	if !ok {
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.WriteHeader(http.StatusOK)
	c.Writer.Flush()

	sub := h.PushHub.Subscribe(recipient.Channel())
	defer h.PushHub.Unsubscribe(sub)

	logger.Debugw("push_stream_opened", "channel", recipient.Channel(), "subscriber", sub.ID)

	c.Stream(func(_ io.Writer) bool {
		select {
		case event, open := <-sub.C:
			if !open {
				return false
			}
			payload, err := json.Marshal(event.Data)
			if err != nil {
				logger.Warnw("push_stream_marshal_failed", "event", event.Name, "error", err)
				return true
			}
			fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", event.Name, payload)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})

	logger.Debugw("push_stream_closed", "channel", recipient.Channel(), "subscriber", sub.ID)
}
