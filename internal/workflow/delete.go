package workflow

import (
	"fmt"

	"github.com/stargate-press/stargate/internal/models"
	"gorm.io/gorm"
)

// DeleteJob removes a job and every dependent row in one transaction.
// This is the only sanctioned way a history entry ever disappears.
func DeleteJob(db *gorm.DB, jobNumber string) error {
	if jobNumber == "" {
		return fmt.Errorf("%w: job number is required", ErrValidation)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{
			&models.JobStatusHistory{},
			&models.JobPly{},
			&models.PlanningData{},
			&models.PrepressData{},
			&models.PrepressColor{},
			&models.QCData{},
		} {
			if err := tx.Where("job_number = ?", jobNumber).Delete(model).Error; err != nil {
				return fmt.Errorf("workflow: delete dependents of %s: %w", jobNumber, err)
			}
		}

		res := tx.Where("job_number = ?", jobNumber).Delete(&models.Job{})
		if res.Error != nil {
			return fmt.Errorf("workflow: delete job %s: %w", jobNumber, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
