package handler

import (
	"context"
	"io"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/edudocs-api/internal/models"
	"github.com/noah-isme/edudocs-api/pkg/response"
)

const streamKeepAlive = 25 * time.Second

type requestWatcher interface {
	WatchRequests(ctx context.Context, actor models.IdentityFacts, query models.RequestListQuery) (<-chan []*models.RequestRecord, error)
}

// StreamHandler pushes live request list snapshots over server-sent events.
type StreamHandler struct {
	watcher   requestWatcher
	keepAlive time.Duration
	shutdown  <-chan struct{}
}

// NewStreamHandler constructs the handler.
func NewStreamHandler(watcher requestWatcher) *StreamHandler {
	return &StreamHandler{watcher: watcher, keepAlive: streamKeepAlive}
}

// CloseOnShutdown ends open streams once ctx is done. http.Server.Shutdown does not
// cancel in-flight requests, so long-lived streams need their own signal.
func (h *StreamHandler) CloseOnShutdown(ctx context.Context) *StreamHandler {
	h.shutdown = ctx.Done()
	return h
}

// Requests godoc
// @Summary Live request list
// @Description Server-sent events. Each "requests" event carries the full filtered list.
// @Tags Requests
// @Produce text/event-stream
// @Security BearerAuth
// @Param tab query string false "all, new or history"
// @Param status query string false "Status filter"
// @Param search query string false "Search"
// @Param access_token query string false "Token for clients that cannot set headers"
// @Success 200 {string} string "event stream"
// @Router /stream/requests [get]
func (h *StreamHandler) Requests(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var query models.RequestListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		bindError(c, err, "invalid query parameters")
		return
	}
	updates, err := h.watcher.WatchRequests(c.Request.Context(), actor, query)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case records, open := <-updates:
			if !open {
				return false
			}
			c.SSEvent("requests", records)
			return true
		case <-ticker.C:
			c.SSEvent("ping", time.Now().UTC().Format(time.RFC3339))
			return true
		case <-c.Request.Context().Done():
			return false
		case <-h.shutdown:
			return false
		}
	})
}
