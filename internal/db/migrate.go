package db

import (
	"fmt"

	"github.com/stargate-press/stargate/internal/models"
	"github.com/stargate-press/stargate/internal/status"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AllModels returns every GORM model for migration.
func AllModels() []interface{} {
	return []interface{}{
		&models.Customer{},
		&models.User{},
		&models.Job{},
		&models.JobPly{},
		&models.PlanningData{},
		&models.PrepressData{},
		&models.PrepressColor{},
		&models.QCData{},
		&models.StatusType{},
		&models.JobStatusHistory{},
	}
}

// AutoMigrate creates or updates all tables.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("db: auto-migrate: %w", err)
	}
	return nil
}

// statusCatalog pairs every recordable status flag with its display
// label. History entries reference these rows; a label missing here is
// display-only and never recorded.
var statusCatalog = []models.StatusType{
	{StatusName: "financial_approval", DisplayName: status.FinanciallyApproved},
	{StatusName: "technical_approval", DisplayName: status.TechnicallyApproved},
	{StatusName: "on_hold", DisplayName: status.OnHold},
	{StatusName: "working_on_job_study", DisplayName: status.WorkingOnJobStudy},
	{StatusName: "working_on_softcopy", DisplayName: status.WorkingOnSoftcopy},
	{StatusName: "sc_sent_to_sales", DisplayName: status.NeedSCApproval},
	{StatusName: "sc_sent_to_qc", DisplayName: status.SCUnderQCCheck},
	{StatusName: "sc_checked", DisplayName: status.SCChecked},
	{StatusName: "working_on_cromalin", DisplayName: status.WorkingOnCromalin},
	{StatusName: "cromalin_qc_check", DisplayName: status.CromalinUnderQCCheck},
	{StatusName: "cromalin_ready", DisplayName: status.NeedCromalinApproval},
	{StatusName: "working_on_repro", DisplayName: status.WorkingOnRepro},
	{StatusName: "prepress_plates_received", DisplayName: status.PrepressReceivedPlates},
	{StatusName: "qc_plates_received", DisplayName: status.QCReceivedPlates},
	{StatusName: "plates_checked", DisplayName: status.ReadyForPress},
}

// SeedStatusTypes upserts the status-type catalog.
func SeedStatusTypes(db *gorm.DB) error {
	for _, st := range statusCatalog {
		result := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "status_name"}},
			DoUpdates: clause.AssignmentColumns([]string{"display_name"}),
		}).Create(&models.StatusType{StatusName: st.StatusName, DisplayName: st.DisplayName})
		if result.Error != nil {
			return fmt.Errorf("db: seed status type %q: %w", st.StatusName, result.Error)
		}
	}
	return nil
}
