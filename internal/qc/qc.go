// Package qc persists the quality-control department's checklist.
package qc

import (
	"errors"
	"fmt"

	"github.com/stargate-press/stargate/internal/models"
	"github.com/stargate-press/stargate/internal/status"
	"github.com/stargate-press/stargate/internal/workflow"
	"gorm.io/gorm"
)

// SaveOpts holds the QC form payload.
type SaveOpts struct {
	JobNumber       string
	ScChecked       bool
	CromalinChecked bool
	PlatesReceived  bool
	PlatesChecked   bool
	Comments        string
	HandlerID       *uint
}

// Save upserts the QC record, mirrors sc_checked onto the job row, and
// records the SC Checked transition when that box is ticked.
//
// Ticking plates_checked here only updates the department record; the
// terminal flag on the job row is set exclusively by the Ready for
// Press transition so the executor's guard stays the single gate.
func Save(db *gorm.DB, opts SaveOpts) error {
	if opts.JobNumber == "" {
		return fmt.Errorf("%w: job number is required", workflow.ErrValidation)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var job models.Job
		if err := tx.Where("job_number = ?", opts.JobNumber).First(&job).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return workflow.ErrNotFound
			}
			return fmt.Errorf("qc: load job %s: %w", opts.JobNumber, err)
		}

		// Mirror the executor's terminal guard. Without it an unticked
		// save would slip past the executor and rewrite a Ready for
		// Press job's flags.
		if job.PlatesChecked {
			return workflow.ErrTerminalState
		}

		if err := upsert(tx, opts); err != nil {
			return err
		}

		if err := tx.Model(&models.Job{}).Where("job_number = ?", opts.JobNumber).
			Update("sc_checked", opts.ScChecked).Error; err != nil {
			return fmt.Errorf("qc: flag job %s: %w", opts.JobNumber, err)
		}

		if opts.ScChecked {
			note := opts.Comments
			if note == "" {
				note = "SC Checked by QC"
			}
			if _, err := workflow.Apply(tx, workflow.Request{
				JobNumber: opts.JobNumber,
				Status:    status.SCChecked,
				ActorID:   opts.HandlerID,
				Note:      note,
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

func upsert(tx *gorm.DB, opts SaveOpts) error {
	row := models.QCData{
		JobNumber:       opts.JobNumber,
		ScChecked:       opts.ScChecked,
		CromalinChecked: opts.CromalinChecked,
		PlatesReceived:  opts.PlatesReceived,
		PlatesChecked:   opts.PlatesChecked,
		Comments:        opts.Comments,
	}

	var existing models.QCData
	err := tx.Where("job_number = ?", opts.JobNumber).First(&existing).Error
	switch {
	case err == nil:
		row.ID = existing.ID
		row.CreatedAt = existing.CreatedAt
		if err := tx.Save(&row).Error; err != nil {
			return fmt.Errorf("qc: update %s: %w", opts.JobNumber, err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("qc: create %s: %w", opts.JobNumber, err)
		}
	default:
		return fmt.Errorf("qc: load %s: %w", opts.JobNumber, err)
	}
	return nil
}

// Get returns the QC record, or nil when the department has not touched
// the job yet.
func Get(db *gorm.DB, jobNumber string) (*models.QCData, error) {
	var row models.QCData
	if err := db.Where("job_number = ?", jobNumber).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("qc: get %s: %w", jobNumber, err)
	}
	return &row, nil
}
