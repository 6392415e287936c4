package sse

import (
	"github.com/gin-gonic/gin"
)

// Stream writes events to the client until the channel closes, an error
// frame is emitted, or the request context is cancelled. Events are written
// in channel order, one SSE frame per event. An error event terminates the
// stream with an "error" frame so clients can tell failure from a clean
// close. On cancellation Stream stops reading, which unblocks producers
// that select on the same context.
func Stream(c *gin.Context, events <-chan Event) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if event.Type == EventError {
				c.SSEvent("error", event)
				c.Writer.Flush()
				return
			}
			c.SSEvent("message", event)
			c.Writer.Flush()
		}
	}
}
