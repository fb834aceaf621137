package status

import "strings"

// Derive maps a flag snapshot to its single display status. Precedence
// runs from the end of the workflow backwards, so a later-stage flag
// always wins over a stale earlier one. on_hold is deliberately ranked
// below the job-study and softcopy stages: a held job that has since
// progressed shows its progress, not the hold.
func Derive(s Snapshot) string {
	switch {
	case s.PlatesChecked:
		return ReadyForPress
	case s.QCPlatesReceived:
		return QCReceivedPlates
	case s.PlatesReceived:
		return PrepressReceivedPlates
	case s.WorkingOnRepro:
		return WorkingOnRepro
	case s.CromalinReady:
		return NeedCromalinApproval
	case s.CromalinQCCheck:
		return CromalinUnderQCCheck
	case s.WorkingOnCromalin:
		return WorkingOnCromalin
	case s.ScChecked:
		switch s.PressType {
		case PressCentralDrum:
			return SCCheckedNeedCromalin
		case PressStackType:
			return SCCheckedNeedPlates
		default:
			return SCChecked
		}
	case s.ScSentToQC:
		return SCUnderQCCheck
	case s.ScSentToSales:
		return NeedSCApproval
	case s.WorkingOnSoftcopy:
		return WorkingOnSoftcopy
	case s.FinancialApproval && s.TechnicalApproval:
		return WorkingOnJobStudy
	case s.OnHold:
		if s.OnHoldSince != nil {
			return OnHold + " Since " + s.OnHoldSince.Format("Jan 2, 2006")
		}
		return OnHold
	case s.TechnicalApproval:
		return TechnicallyApproved
	case s.FinancialApproval:
		return FinanciallyApproved
	default:
		return UnderReview
	}
}

// Normalize collapses decorated labels back to their canonical form:
// "On Hold Since <date>" to On Hold and the press-type refinements of
// SC Checked to SC Checked. Used for transition-table lookups and
// status filtering.
func Normalize(label string) string {
	switch {
	case strings.HasPrefix(label, OnHold):
		return OnHold
	case strings.HasPrefix(label, SCChecked):
		return SCChecked
	default:
		return label
	}
}
