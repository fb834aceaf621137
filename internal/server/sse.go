package server

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stargate-press/stargate/internal/models"
	"gorm.io/gorm"
)

// statusEvent is one status change pushed to SSE clients.
type statusEvent struct {
	ID         uint      `json:"id"`
	JobNumber  string    `json:"job_number"`
	Status     string    `json:"status"`
	StatusDate time.Time `json:"status_date"`
}

// handleSSE streams status changes as server-sent events. It polls the
// history ledger for rows newer than the last one seen, so every
// committed transition reaches connected dashboards without a reload.
func handleSSE(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/event-stream")
		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")
		c.Header("X-Accel-Buffering", "no")

		writeSSE(c.Writer, "connected", map[string]string{"type": "connected"})
		c.Writer.Flush()

		// Only alert on rows created after the client connected.
		var lastSeenID uint
		var latest models.JobStatusHistory
		if err := db.Order("id DESC").Limit(1).First(&latest).Error; err == nil {
			lastSeenID = latest.ID
		}

		ctx := c.Request.Context()
		ticker := time.NewTicker(3 * time.Second)
		heartbeat := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		defer heartbeat.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-heartbeat.C:
				writeSSE(c.Writer, "heartbeat", map[string]string{
					"timestamp": time.Now().UTC().Format(time.RFC3339),
				})
				c.Writer.Flush()
			case <-ticker.C:
				rows := fetchNewHistory(db, lastSeenID)
				if len(rows) == 0 {
					continue
				}
				lastSeenID = rows[len(rows)-1].ID

				for _, row := range rows {
					writeSSE(c.Writer, "status", statusEvent{
						ID:         row.ID,
						JobNumber:  row.JobNumber,
						Status:     row.StatusType.DisplayName,
						StatusDate: row.StatusDate,
					})
				}
				c.Writer.Flush()
			}
		}
	}
}

// fetchNewHistory returns history rows newer than lastSeenID. A query
// failure is logged rather than swallowed, so a dying DB connection
// shows up in the server log instead of a silently frozen stream.
func fetchNewHistory(db *gorm.DB, lastSeenID uint) []models.JobStatusHistory {
	var rows []models.JobStatusHistory
	if err := db.Preload("StatusType").
		Where("id > ?", lastSeenID).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		log.Printf("sse: poll history: %v", err)
		return nil
	}
	return rows
}

// writeSSE writes a single SSE event to the writer.
func writeSSE(w io.Writer, event string, data any) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, string(jsonData))
}
