package workflow

import (
	"errors"
	"time"

	"github.com/stargate-press/stargate/internal/models"
	"github.com/stargate-press/stargate/internal/status"
	"gorm.io/gorm"
)

// Snapshot builds the derivation input from a job row plus its optional
// QC satellite and the most recent on-hold timestamp. A nil qc row reads
// as all-false.
func Snapshot(job *models.Job, qc *models.QCData, onHoldSince *time.Time) status.Snapshot {
	s := status.Snapshot{
		PlatesChecked:     job.PlatesChecked,
		PlatesReceived:    job.PlatesReceived,
		WorkingOnRepro:    job.WorkingOnRepro,
		CromalinReady:     job.CromalinReady,
		CromalinQCCheck:   job.CromalinQCCheck,
		WorkingOnCromalin: job.WorkingOnCromalin,
		ScChecked:         job.ScChecked,
		ScSentToQC:        job.ScSentToQC,
		ScSentToSales:     job.ScSentToSales,
		WorkingOnSoftcopy: job.WorkingOnSoftcopy,
		FinancialApproval: job.FinancialApproval,
		TechnicalApproval: job.TechnicalApproval,
		OnHold:            job.OnHold,
		PressType:         job.PressType,
		OnHoldSince:       onHoldSince,
	}
	if qc != nil {
		s.QCPlatesReceived = qc.PlatesReceived
	}
	return s
}

// LoadSnapshot reads the job, its QC satellite, and the latest on-hold
// history entry, and returns the derivation input. Returns ErrNotFound
// when the job row is absent.
func LoadSnapshot(db *gorm.DB, jobNumber string) (status.Snapshot, error) {
	var job models.Job
	if err := db.Where("job_number = ?", jobNumber).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return status.Snapshot{}, ErrNotFound
		}
		return status.Snapshot{}, err
	}

	var qc models.QCData
	qcPtr := &qc
	if err := db.Where("job_number = ?", jobNumber).First(&qc).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return status.Snapshot{}, err
		}
		qcPtr = nil
	}

	return Snapshot(&job, qcPtr, onHoldSince(db, jobNumber)), nil
}

// onHoldSince returns the most recent on_hold history timestamp, or nil.
func onHoldSince(db *gorm.DB, jobNumber string) *time.Time {
	var entry models.JobStatusHistory
	err := db.Joins("JOIN status_types st ON st.id = job_status_history.status_type_id").
		Where("job_status_history.job_number = ? AND st.status_name = ?", jobNumber, "on_hold").
		Order("job_status_history.status_date DESC").
		First(&entry).Error
	if err != nil {
		return nil
	}
	t := entry.StatusDate
	return &t
}
