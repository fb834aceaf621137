// Package status is the pure workflow core: it derives a job's display
// status from its stored flags, defines the allowed forward transitions
// per actor role, and maps each target status to the flag writes that
// realize it. It holds no state and performs no I/O; the workflow
// executor and the listing path both consume it so the stored flags and
// the displayed status can never drift apart.
package status

import "time"

// Canonical status labels.
const (
	UnderReview            = "Under Review"
	FinanciallyApproved    = "Financially Approved"
	TechnicallyApproved    = "Technically Approved"
	OnHold                 = "On Hold"
	WorkingOnJobStudy      = "Working on Job-Study"
	WorkingOnSoftcopy      = "Working on softcopy"
	NeedSCApproval         = "Need SC Approval"
	SCUnderQCCheck         = "SC Under QC Check"
	SCChecked              = "SC Checked"
	SCCheckedNeedCromalin  = "SC Checked, Need Cromalin"
	SCCheckedNeedPlates    = "SC Checked, Need Plates"
	WorkingOnCromalin      = "Working on Cromalin"
	CromalinUnderQCCheck   = "Cromalin Under QC Check"
	NeedCromalinApproval   = "Need Cromalin Approval"
	WorkingOnRepro         = "Working on Repro"
	PrepressReceivedPlates = "Prepress Received Plates"
	QCReceivedPlates       = "QC Received Plates"
	ReadyForPress          = "Ready for Press"
)

// Press types that refine the SC Checked label.
const (
	PressCentralDrum = "Central Drum"
	PressStackType   = "Stack Type"
)

// Snapshot is a point-in-time view of the flags that drive status
// derivation: the denormalized Job columns plus the one QC satellite
// flag the precedence chain reads directly. Missing satellite rows read
// as false.
type Snapshot struct {
	PlatesChecked     bool
	QCPlatesReceived  bool
	PlatesReceived    bool
	WorkingOnRepro    bool
	CromalinReady     bool
	CromalinQCCheck   bool
	WorkingOnCromalin bool
	ScChecked         bool
	ScSentToQC        bool
	ScSentToSales     bool
	WorkingOnSoftcopy bool
	FinancialApproval bool
	TechnicalApproval bool
	OnHold            bool

	PressType string

	// OnHoldSince is the most recent on_hold history timestamp, used
	// only to decorate the On Hold label.
	OnHoldSince *time.Time
}
