// Package job provides sales-side job lifecycle operations: creating
// and updating orders, fetching details, and listing with the derived
// status.
package job

import (
	"errors"
	"fmt"
	"time"

	"github.com/stargate-press/stargate/internal/models"
	"github.com/stargate-press/stargate/internal/workflow"
	"gorm.io/gorm"
)

// Ply is one material layer as submitted by the sales form.
type Ply struct {
	Material  string   `json:"material"`
	Finish    string   `json:"finish"`
	Thickness *float64 `json:"thickness"`
}

// SaveOpts holds the sales form payload. An empty JobNumber means
// create; a populated one means update.
type SaveOpts struct {
	JobNumber    string
	CustomerName string
	CustomerCode string
	Salesman     string
	EntryDate    time.Time
	JobName      string

	Quantity     *float64
	QuantityUnit string
	ProductType  string

	Width  *float64
	Height *float64
	Gusset *float64
	Flap   *float64

	PressType          string
	PrintOrientation   string
	UnwindingDirection string

	TwoFaces      bool
	SideGusset    bool
	BottomGusset  bool
	HoleHandle    bool
	StripHandle   bool
	FlipDirection bool

	FinancialApproval bool
	TechnicalApproval bool
	OnHold            bool
	Comments          string

	Plies []Ply
}

// SaveResult reports what Save did.
type SaveResult struct {
	JobNumber string
	Created   bool
}

// Save creates or updates a job from the sales form in one transaction:
// customer upsert, job insert (with generated number) or update, and a
// full replace of the ply list.
func Save(db *gorm.DB, opts SaveOpts) (*SaveResult, error) {
	if opts.CustomerName == "" {
		return nil, fmt.Errorf("%w: customer name is required", workflow.ErrValidation)
	}

	result := &SaveResult{JobNumber: opts.JobNumber, Created: opts.JobNumber == ""}
	err := db.Transaction(func(tx *gorm.DB) error {
		customerID, err := upsertCustomer(tx, opts.CustomerName, opts.CustomerCode)
		if err != nil {
			return err
		}

		if result.Created {
			entryDate := opts.EntryDate
			if entryDate.IsZero() {
				entryDate = time.Now()
			}
			jobNumber, err := workflow.GenerateJobNumber(tx, entryDate, opts.PressType)
			if err != nil {
				return err
			}
			result.JobNumber = jobNumber

			job := jobFromOpts(opts, customerID)
			job.JobNumber = jobNumber
			job.EntryDate = &entryDate
			if err := tx.Create(&job).Error; err != nil {
				return fmt.Errorf("job: create %s: %w", jobNumber, err)
			}
		} else {
			var existing models.Job
			if err := tx.Where("job_number = ?", opts.JobNumber).First(&existing).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return workflow.ErrNotFound
				}
				return fmt.Errorf("job: load %s: %w", opts.JobNumber, err)
			}
			updates := jobFromOpts(opts, customerID)
			updates.JobNumber = opts.JobNumber
			if err := tx.Model(&existing).Select(salesColumns).Updates(updates).Error; err != nil {
				return fmt.Errorf("job: update %s: %w", opts.JobNumber, err)
			}
		}

		return replacePlies(tx, result.JobNumber, opts.Plies)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// salesColumns are the job columns the sales form owns. Workflow flags
// beyond the three sales-entered ones stay untouched on update.
var salesColumns = []string{
	"customer_id", "salesman", "job_name", "quantity", "quantity_unit",
	"product_type", "width", "height", "gusset", "flap", "press_type",
	"print_orientation", "unwinding_direction", "financial_approval",
	"technical_approval", "on_hold", "comments", "two_faces",
	"side_gusset", "bottom_gusset", "hole_handle", "strip_handle",
	"flip_direction",
}

func jobFromOpts(opts SaveOpts, customerID uint) models.Job {
	return models.Job{
		CustomerID:         customerID,
		Salesman:           opts.Salesman,
		JobName:            opts.JobName,
		Quantity:           opts.Quantity,
		QuantityUnit:       opts.QuantityUnit,
		ProductType:        opts.ProductType,
		Width:              opts.Width,
		Height:             opts.Height,
		Gusset:             opts.Gusset,
		Flap:               opts.Flap,
		PressType:          opts.PressType,
		PrintOrientation:   opts.PrintOrientation,
		UnwindingDirection: opts.UnwindingDirection,
		TwoFaces:           opts.TwoFaces,
		SideGusset:         opts.SideGusset,
		BottomGusset:       opts.BottomGusset,
		HoleHandle:         opts.HoleHandle,
		StripHandle:        opts.StripHandle,
		FlipDirection:      opts.FlipDirection,
		FinancialApproval:  opts.FinancialApproval,
		TechnicalApproval:  opts.TechnicalApproval,
		OnHold:             opts.OnHold,
		Comments:           opts.Comments,
	}
}

func upsertCustomer(tx *gorm.DB, name, code string) (uint, error) {
	var customer models.Customer
	err := tx.Where("customer_name = ? AND customer_code = ?", name, code).First(&customer).Error
	if err == nil {
		return customer.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("job: look up customer %q: %w", name, err)
	}

	customer = models.Customer{CustomerName: name, CustomerCode: code}
	if err := tx.Create(&customer).Error; err != nil {
		return 0, fmt.Errorf("job: create customer %q: %w", name, err)
	}
	return customer.ID, nil
}

func replacePlies(tx *gorm.DB, jobNumber string, plies []Ply) error {
	if err := tx.Where("job_number = ?", jobNumber).Delete(&models.JobPly{}).Error; err != nil {
		return fmt.Errorf("job: clear plies of %s: %w", jobNumber, err)
	}
	for i, p := range plies {
		row := models.JobPly{
			JobNumber: jobNumber,
			Position:  i + 1,
			Material:  p.Material,
			Finish:    p.Finish,
			Thickness: p.Thickness,
		}
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("job: insert ply %d of %s: %w", i+1, jobNumber, err)
		}
	}
	return nil
}

// Get retrieves a job with its customer and plies. Returns
// workflow.ErrNotFound when absent.
func Get(db *gorm.DB, jobNumber string) (*models.Job, error) {
	var job models.Job
	err := db.Preload("Customer").
		Preload("Plies", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("job_number = ?", jobNumber).
		First(&job).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, workflow.ErrNotFound
		}
		return nil, fmt.Errorf("job: get %s: %w", jobNumber, err)
	}
	return &job, nil
}

// ListCustomers returns all customers ordered by name, for the
// autocomplete surface.
func ListCustomers(db *gorm.DB) ([]models.Customer, error) {
	var customers []models.Customer
	if err := db.Order("customer_name ASC").Find(&customers).Error; err != nil {
		return nil, fmt.Errorf("job: list customers: %w", err)
	}
	return customers, nil
}

// LookupUser resolves a username to its account. A missing user is not
// an error; both return values are zero.
func LookupUser(db *gorm.DB, username string) (*models.User, error) {
	if username == "" {
		return nil, nil
	}
	var user models.User
	err := db.Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("job: look up user %q: %w", username, err)
	}
	return &user, nil
}
