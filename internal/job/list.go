package job

import (
	"fmt"
	"time"

	"github.com/stargate-press/stargate/internal/models"
	"github.com/stargate-press/stargate/internal/status"
	"github.com/stargate-press/stargate/internal/workflow"
	"gorm.io/gorm"
)

// Filters narrows List results. Search matches job number, job name,
// customer name, and salesman; Status compares against the derived
// label or its canonical form.
type Filters struct {
	Search string
	Status string
}

// Row is one job in the listing, with the status derived from the same
// function the transition guard uses.
type Row struct {
	JobNumber    string    `json:"job_number"`
	JobName      string    `json:"job_name"`
	Salesman     string    `json:"salesman"`
	PressType    string    `json:"press_type"`
	ProductType  string    `json:"product_type"`
	CustomerName string    `json:"customer_name"`
	CreatedAt    time.Time `json:"created_at"`
	Status       string    `json:"status"`
}

// List returns jobs newest first with their derived status. Status is
// computed here, never stored, so the listing can not drift from the
// flags the executor writes.
func List(db *gorm.DB, filters Filters) ([]Row, error) {
	q := db.Model(&models.Job{}).
		Joins("JOIN customers ON customers.id = jobs.customer_id").
		Preload("Customer").
		Preload("QC").
		Order("jobs.created_at DESC")

	if filters.Search != "" {
		like := "%" + filters.Search + "%"
		q = q.Where(
			"jobs.job_number LIKE ? OR jobs.job_name LIKE ? OR customers.customer_name LIKE ? OR jobs.salesman LIKE ?",
			like, like, like, like)
	}

	var jobs []models.Job
	if err := q.Find(&jobs).Error; err != nil {
		return nil, fmt.Errorf("job: list: %w", err)
	}

	holdDates, err := onHoldDates(db)
	if err != nil {
		return nil, err
	}

	out := make([]Row, 0, len(jobs))
	for i := range jobs {
		j := &jobs[i]
		label := status.Derive(workflow.Snapshot(j, j.QC, holdDates[j.JobNumber]))

		if filters.Status != "" && label != filters.Status && status.Normalize(label) != filters.Status {
			continue
		}

		out = append(out, Row{
			JobNumber:    j.JobNumber,
			JobName:      j.JobName,
			Salesman:     j.Salesman,
			PressType:    j.PressType,
			ProductType:  j.ProductType,
			CustomerName: j.Customer.CustomerName,
			CreatedAt:    j.CreatedAt,
			Status:       label,
		})
	}
	return out, nil
}

// onHoldDates returns the latest on_hold history timestamp per job.
func onHoldDates(db *gorm.DB) (map[string]*time.Time, error) {
	var rows []struct {
		JobNumber string
		Latest    time.Time
	}
	err := db.Model(&models.JobStatusHistory{}).
		Select("job_status_history.job_number, MAX(job_status_history.status_date) AS latest").
		Joins("JOIN status_types st ON st.id = job_status_history.status_type_id").
		Where("st.status_name = ?", "on_hold").
		Group("job_status_history.job_number").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("job: on-hold dates: %w", err)
	}

	dates := make(map[string]*time.Time, len(rows))
	for i := range rows {
		dates[rows[i].JobNumber] = &rows[i].Latest
	}
	return dates, nil
}

// Statuses returns the labels usable as a list filter, in workflow order.
func Statuses() []string {
	return []string{
		status.UnderReview,
		status.FinanciallyApproved,
		status.TechnicallyApproved,
		status.OnHold,
		status.WorkingOnJobStudy,
		status.WorkingOnSoftcopy,
		status.NeedSCApproval,
		status.SCUnderQCCheck,
		status.SCChecked,
		status.WorkingOnCromalin,
		status.CromalinUnderQCCheck,
		status.NeedCromalinApproval,
		status.WorkingOnRepro,
		status.PrepressReceivedPlates,
		status.QCReceivedPlates,
		status.ReadyForPress,
	}
}
