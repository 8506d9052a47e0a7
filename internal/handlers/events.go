package handlers

import (
	"io"
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"minimart/internal/events"
)

const heartbeatInterval = 25 * time.Second

// StreamEvents pushes catalog and order changes to the client as
// server-sent events until it disconnects.
func StreamEvents(broker *events.Broker) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /events"
		defer handlePanic(c, route)

		id, ch, cancel := broker.Subscribe()
		defer cancel()
		log.Printf("[%s] subscriber %s connected", route, id)

		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")
		c.Header("X-Accel-Buffering", "no")

		heartbeat := time.NewTicker(heartbeatInterval)
		defer heartbeat.Stop()

		c.SSEvent("ready", gin.H{"subscriber": id})
		c.Stream(func(w io.Writer) bool {
			select {
			case <-c.Request.Context().Done():
				return false
			case e, ok := <-ch:
				if !ok {
					return false
				}
				c.SSEvent("change", e)
				return true
			case t := <-heartbeat.C:
				c.SSEvent("ping", t.UTC().Format(time.RFC3339))
				return true
			}
		})
		log.Printf("[%s] subscriber %s disconnected", route, id)
	}
}
