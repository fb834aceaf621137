// Package prepress persists the prepress department's record (softcopy,
// cromalin, repro, colors) and pushes the job to Need SC Approval.
package prepress

import (
	"errors"
	"fmt"

	"github.com/stargate-press/stargate/internal/models"
	"github.com/stargate-press/stargate/internal/status"
	"github.com/stargate-press/stargate/internal/workflow"
	"gorm.io/gorm"
)

// Color is one ink color in separation order.
type Color struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// SaveOpts holds the prepress form payload.
type SaveOpts struct {
	JobNumber         string
	Supplier          string
	ScSentToQC        bool
	WorkingOnCromalin bool
	CromalinQCCheck   bool
	CromalinReady     bool
	WorkingOnRepro    bool
	PlatesReceived    bool
	Comments          string
	ScImageURL        string
	HandlerID         *uint
	Colors            []Color
}

// Save upserts the prepress record with sc_sent_to_sales forced true,
// replaces the color list, mirrors the flag onto the job row, and
// records the Need SC Approval transition, all in one transaction.
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
			return fmt.Errorf("prepress: load job %s: %w", opts.JobNumber, err)
		}

		if err := upsert(tx, opts); err != nil {
			return err
		}
		if err := replaceColors(tx, opts.JobNumber, opts.Colors); err != nil {
			return err
		}

		// Saving from prepress always means the softcopy went out to
		// sales; the job-row flag is what status derivation reads.
		if err := tx.Model(&models.Job{}).Where("job_number = ?", opts.JobNumber).
			Update("sc_sent_to_sales", true).Error; err != nil {
			return fmt.Errorf("prepress: flag job %s: %w", opts.JobNumber, err)
		}

		_, err := workflow.Apply(tx, workflow.Request{
			JobNumber: opts.JobNumber,
			Status:    status.NeedSCApproval,
			ActorID:   opts.HandlerID,
			Note:      "Status updated to Need SC Approval",
		})
		return err
	})
}

func upsert(tx *gorm.DB, opts SaveOpts) error {
	row := models.PrepressData{
		JobNumber:         opts.JobNumber,
		Supplier:          opts.Supplier,
		ScSentToSales:     true,
		ScSentToQC:        opts.ScSentToQC,
		WorkingOnCromalin: opts.WorkingOnCromalin,
		CromalinQCCheck:   opts.CromalinQCCheck,
		CromalinReady:     opts.CromalinReady,
		WorkingOnRepro:    opts.WorkingOnRepro,
		PlatesReceived:    opts.PlatesReceived,
		Comments:          opts.Comments,
		ScImageURL:        opts.ScImageURL,
		HandlerID:         opts.HandlerID,
	}

	var existing models.PrepressData
	err := tx.Where("job_number = ?", opts.JobNumber).First(&existing).Error
	switch {
	case err == nil:
		row.ID = existing.ID
		row.CreatedAt = existing.CreatedAt
		if err := tx.Save(&row).Error; err != nil {
			return fmt.Errorf("prepress: update %s: %w", opts.JobNumber, err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("prepress: create %s: %w", opts.JobNumber, err)
		}
	default:
		return fmt.Errorf("prepress: load %s: %w", opts.JobNumber, err)
	}
	return nil
}

func replaceColors(tx *gorm.DB, jobNumber string, colors []Color) error {
	if err := tx.Where("job_number = ?", jobNumber).Delete(&models.PrepressColor{}).Error; err != nil {
		return fmt.Errorf("prepress: clear colors of %s: %w", jobNumber, err)
	}
	position := 0
	for _, c := range colors {
		if c.Name == "" {
			continue
		}
		if len(c.Name) > 50 {
			c.Name = c.Name[:50]
		}
		if c.Code == "" {
			c.Code = "#000000"
		}
		row := models.PrepressColor{
			JobNumber: jobNumber,
			ColorName: c.Name,
			ColorCode: c.Code,
			Position:  position,
		}
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("prepress: insert color %q of %s: %w", c.Name, jobNumber, err)
		}
		position++
	}
	return nil
}

// Detail is the prepress record plus resolved handler name and colors.
type Detail struct {
	models.PrepressData
	HandlerName string  `json:"handler_name"`
	Colors      []Color `json:"colors"`
}

// Get returns the prepress record, or a Detail with only an empty color
// list when the department has not touched the job yet.
func Get(db *gorm.DB, jobNumber string) (*Detail, error) {
	var row models.PrepressData
	if err := db.Preload("Handler").Where("job_number = ?", jobNumber).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &Detail{Colors: []Color{}}, nil
		}
		return nil, fmt.Errorf("prepress: get %s: %w", jobNumber, err)
	}

	var colorRows []models.PrepressColor
	if err := db.Where("job_number = ?", jobNumber).Order("position ASC").Find(&colorRows).Error; err != nil {
		return nil, fmt.Errorf("prepress: colors of %s: %w", jobNumber, err)
	}

	detail := &Detail{PrepressData: row, Colors: make([]Color, len(colorRows))}
	if row.Handler != nil {
		detail.HandlerName = row.Handler.FullName
	}
	for i, c := range colorRows {
		detail.Colors[i] = Color{Name: c.ColorName, Code: c.ColorCode}
	}
	return detail, nil
}
