package notify

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// cronParser uses standard 5-field cron expressions (minute, hour, dom, month, dow).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// OnHoldJob is one row in the daily on-hold digest.
type OnHoldJob struct {
	JobNumber    string
	CustomerName string
	Since        *time.Time
}

// BuildOnHoldDigest queries the jobs currently on hold and formats them
// as a digest event. Returns nil when no job is on hold.
func BuildOnHoldDigest(db *gorm.DB) (*Event, error) {
	var rows []OnHoldJob
	err := db.Table("jobs").
		Select("jobs.job_number AS job_number, customers.customer_name AS customer_name").
		Joins("JOIN customers ON customers.id = jobs.customer_id").
		Where("jobs.on_hold = ?", true).
		Order("jobs.job_number").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("notify: on-hold digest: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	for i := range rows {
		rows[i].Since = holdDate(db, rows[i].JobNumber)
	}

	var lines []string
	for _, r := range rows {
		line := fmt.Sprintf("%s — %s", r.JobNumber, r.CustomerName)
		if r.Since != nil {
			line += fmt.Sprintf(" (held since %s)", r.Since.Format("Jan 2, 2006"))
		}
		lines = append(lines, line)
	}

	evt := Event{
		Title:    fmt.Sprintf("%d job(s) on hold", len(rows)),
		Body:     strings.Join(lines, "\n"),
		Severity: "warning",
		Color:    ColorWarning,
		Fields: []Field{
			{Name: "On Hold", Value: fmt.Sprintf("%d", len(rows)), Short: true},
		},
	}
	return &evt, nil
}

// holdDate returns the most recent on-hold history timestamp for a job, or nil.
func holdDate(db *gorm.DB, jobNumber string) *time.Time {
	var since time.Time
	err := db.Table("job_status_history").
		Select("job_status_history.status_date").
		Joins("JOIN status_types st ON st.id = job_status_history.status_type_id").
		Where("job_status_history.job_number = ? AND st.status_name = ?", jobNumber, "on_hold").
		Order("job_status_history.status_date DESC").
		Limit(1).
		Scan(&since).Error
	if err != nil || since.IsZero() {
		return nil
	}
	return &since
}

// RunDigest posts the on-hold digest on the given 5-field cron schedule
// until the context is cancelled. Errors building or posting a digest are
// logged and the loop keeps running.
func (n *Notifier) RunDigest(ctx context.Context, db *gorm.DB, cronExpr string) error {
	if n == nil || n.adapter == nil {
		return nil
	}
	sched, err := cronParser.Parse(cronExpr)
	if err != nil {
		return fmt.Errorf("notify: parse digest cron %q: %w", cronExpr, err)
	}

	for {
		next := sched.Next(time.Now())
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(time.Until(next)):
		}

		evt, err := BuildOnHoldDigest(db)
		if err != nil {
			log.Printf("notify: %v", err)
			continue
		}
		if evt == nil {
			continue // nothing on hold, stay quiet
		}
		msg := Message{Channel: n.channel, Events: []Event{*evt}}
		if err := n.adapter.Send(ctx, msg); err != nil {
			log.Printf("notify: post digest: %v", err)
		}
	}
}
