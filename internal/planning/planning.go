// Package planning persists the planning department's layout sheet and
// moves the job into the softcopy stage.
package planning

import (
	"errors"
	"fmt"

	"github.com/stargate-press/stargate/internal/models"
	"github.com/stargate-press/stargate/internal/status"
	"github.com/stargate-press/stargate/internal/workflow"
	"gorm.io/gorm"
)

// SaveOpts holds the planning form payload.
type SaveOpts struct {
	JobNumber       string
	Machine         string
	HorizontalCount *int
	VerticalCount   *int
	FlipDirection   bool
	AddLines        bool
	NewMachine      bool
	AddStagger      bool
	Comments        string
	HandlerID       *uint
}

// Save upserts the planning record and routes the status change through
// the workflow executor, which sets working_on_softcopy and records
// history in the same transaction.
func Save(db *gorm.DB, opts SaveOpts) error {
	if opts.JobNumber == "" {
		return fmt.Errorf("%w: job number is required", workflow.ErrValidation)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := upsert(tx, opts); err != nil {
			return err
		}
		_, err := workflow.Apply(tx, workflow.Request{
			JobNumber: opts.JobNumber,
			Status:    status.WorkingOnSoftcopy,
			ActorID:   opts.HandlerID,
			Note:      "Planning data saved",
		})
		return err
	})
}

func upsert(tx *gorm.DB, opts SaveOpts) error {
	row := models.PlanningData{
		JobNumber:       opts.JobNumber,
		Machine:         opts.Machine,
		HorizontalCount: opts.HorizontalCount,
		VerticalCount:   opts.VerticalCount,
		FlipDirection:   opts.FlipDirection,
		AddLines:        opts.AddLines,
		NewMachine:      opts.NewMachine,
		AddStagger:      opts.AddStagger,
		Comments:        opts.Comments,
	}

	var existing models.PlanningData
	err := tx.Where("job_number = ?", opts.JobNumber).First(&existing).Error
	switch {
	case err == nil:
		row.ID = existing.ID
		row.CreatedAt = existing.CreatedAt
		if err := tx.Save(&row).Error; err != nil {
			return fmt.Errorf("planning: update %s: %w", opts.JobNumber, err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("planning: create %s: %w", opts.JobNumber, err)
		}
	default:
		return fmt.Errorf("planning: load %s: %w", opts.JobNumber, err)
	}
	return nil
}

// Detail is the planning record merged with the job dimensions the
// planner lays out against.
type Detail struct {
	models.PlanningData
	ProductType  string   `json:"product_type"`
	Width        *float64 `json:"width"`
	Height       *float64 `json:"height"`
	Gusset       *float64 `json:"gusset"`
	Flap         *float64 `json:"flap"`
	TwoFaces     bool     `json:"two_faces"`
	SideGusset   bool     `json:"side_gusset"`
	BottomGusset bool     `json:"bottom_gusset"`
	HoleHandle   bool     `json:"hole_handle"`
	StripHandle  bool     `json:"strip_handle"`
}

// Get returns the planning record with job dimensions, or nil when the
// department has not touched the job yet.
func Get(db *gorm.DB, jobNumber string) (*Detail, error) {
	var row models.PlanningData
	if err := db.Where("job_number = ?", jobNumber).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("planning: get %s: %w", jobNumber, err)
	}

	var job models.Job
	if err := db.Where("job_number = ?", jobNumber).First(&job).Error; err != nil {
		return nil, fmt.Errorf("planning: job of %s: %w", jobNumber, err)
	}

	return &Detail{
		PlanningData: row,
		ProductType:  job.ProductType,
		Width:        job.Width,
		Height:       job.Height,
		Gusset:       job.Gusset,
		Flap:         job.Flap,
		TwoFaces:     job.TwoFaces,
		SideGusset:   job.SideGusset,
		BottomGusset: job.BottomGusset,
		HoleHandle:   job.HoleHandle,
		StripHandle:  job.StripHandle,
	}, nil
}
