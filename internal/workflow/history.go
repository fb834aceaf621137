package workflow

import (
	"fmt"
	"time"

	"github.com/stargate-press/stargate/internal/models"
	"gorm.io/gorm"
)

// HistoryEntry is one status change as shown to callers.
type HistoryEntry struct {
	Status     string    `json:"status"`
	StatusDate time.Time `json:"status_date"`
	UpdatedBy  string    `json:"updated_by"`
	Notes      string    `json:"notes"`
}

// GetHistory returns a job's status ledger, most recent first.
func GetHistory(db *gorm.DB, jobNumber string) ([]HistoryEntry, error) {
	var rows []struct {
		DisplayName string
		StatusDate  time.Time
		Username    string
		Notes       string
	}
	err := db.Model(&models.JobStatusHistory{}).
		Select("st.display_name, job_status_history.status_date, u.username, job_status_history.notes").
		Joins("JOIN status_types st ON st.id = job_status_history.status_type_id").
		Joins("LEFT JOIN users u ON u.id = job_status_history.user_id").
		Where("job_status_history.job_number = ?", jobNumber).
		Order("job_status_history.status_date DESC, job_status_history.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("workflow: history for %s: %w", jobNumber, err)
	}

	entries := make([]HistoryEntry, len(rows))
	for i, r := range rows {
		entries[i] = HistoryEntry{
			Status:     r.DisplayName,
			StatusDate: r.StatusDate,
			UpdatedBy:  r.Username,
			Notes:      r.Notes,
		}
	}
	return entries, nil
}
