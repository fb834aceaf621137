// Package workflow is the single writer path for job status changes: it
// validates transitions, applies flag recipes and cascades inside one
// transaction, and appends to the status history ledger. Code outside
// this package must not mutate workflow flags directly, or the terminal
// guard stops holding and the history ledger drifts from the flags.
package workflow

import (
	"errors"
	"fmt"
	"log"

	"github.com/stargate-press/stargate/internal/models"
	"github.com/stargate-press/stargate/internal/status"
	"gorm.io/gorm"
)

// Request asks for one status transition. ActorID and Note may be empty.
// An empty ActorRole skips the transition-table permission check; the
// department save paths use that after doing their own routing.
type Request struct {
	JobNumber string
	Status    string
	ActorID   *uint
	ActorRole status.Role
	Note      string
}

// Apply executes a transition atomically and returns the history entry
// it recorded, or nil when the requested status has no configured
// status type. All writes roll back together on any failure.
func Apply(db *gorm.DB, req Request) (*models.JobStatusHistory, error) {
	if req.JobNumber == "" || req.Status == "" {
		return nil, fmt.Errorf("%w: job number and status are required", ErrValidation)
	}

	var entry *models.JobStatusHistory
	err := db.Transaction(func(tx *gorm.DB) error {
		var job models.Job
		if err := tx.Where("job_number = ?", req.JobNumber).First(&job).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("workflow: load job %s: %w", req.JobNumber, err)
		}

		// Terminal guard: once plates are checked nothing moves, except
		// a repeated Ready for Press which is a no-op.
		if job.PlatesChecked && req.Status != status.ReadyForPress {
			return ErrTerminalState
		}

		if req.ActorRole != "" {
			snap, err := LoadSnapshot(tx, req.JobNumber)
			if err != nil {
				return err
			}
			current := status.Derive(snap)
			if !status.CanTransition(current, req.Status, req.ActorRole) {
				return fmt.Errorf("%w: %s may not move job from %q to %q",
					ErrValidation, req.ActorRole, current, req.Status)
			}
		}

		if recipe, ok := status.Recipes[req.Status]; ok {
			if err := applyRecipe(tx, req.JobNumber, recipe); err != nil {
				return err
			}
		}

		var err error
		entry, err = appendHistory(tx, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// applyRecipe performs the primary flag write and cascades. Satellite
// rows are inserted on first touch; the jobs row always exists here.
func applyRecipe(tx *gorm.DB, jobNumber string, recipe status.Recipe) error {
	if recipe.Table == status.TableJobs {
		if err := updateFlag(tx, recipe.Table, recipe.Field, recipe.Value, jobNumber); err != nil {
			return err
		}
	} else {
		var count int64
		if err := tx.Table(recipe.Table).Where("job_number = ?", jobNumber).Count(&count).Error; err != nil {
			return fmt.Errorf("workflow: check %s row: %w", recipe.Table, err)
		}
		if count == 0 {
			row := map[string]interface{}{"job_number": jobNumber, recipe.Field: recipe.Value}
			if err := tx.Table(recipe.Table).Create(row).Error; err != nil {
				return fmt.Errorf("workflow: insert %s row: %w", recipe.Table, err)
			}
		} else if err := updateFlag(tx, recipe.Table, recipe.Field, recipe.Value, jobNumber); err != nil {
			return err
		}
	}

	for _, c := range recipe.Cascades {
		if err := updateFlag(tx, c.Table, c.Field, c.Value, jobNumber); err != nil {
			return err
		}
	}
	return nil
}

func updateFlag(tx *gorm.DB, table, field string, value bool, jobNumber string) error {
	err := tx.Table(table).Where("job_number = ?", jobNumber).
		Update(field, value).Error
	if err != nil {
		return fmt.Errorf("workflow: set %s.%s: %w", table, field, err)
	}
	return nil
}

// appendHistory resolves the status-type catalog and appends a ledger
// entry. An unconfigured status is logged and skipped, not failed: the
// flag mutation is still worth committing.
func appendHistory(tx *gorm.DB, req Request) (*models.JobStatusHistory, error) {
	var st models.StatusType
	err := tx.Where("display_name = ? OR status_name = ?", req.Status, req.Status).First(&st).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("workflow: no status type configured for %q, history skipped", req.Status)
			return nil, nil
		}
		return nil, fmt.Errorf("workflow: resolve status type %q: %w", req.Status, err)
	}

	entry := models.JobStatusHistory{
		JobNumber:    req.JobNumber,
		StatusTypeID: st.ID,
		UserID:       req.ActorID,
		Notes:        req.Note,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return nil, fmt.Errorf("workflow: append history: %w", err)
	}
	return &entry, nil
}
