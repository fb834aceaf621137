package status

// Role identifies the department a transition request acts as.
type Role string

const (
	RoleSales    Role = "sales"
	RolePlanning Role = "planning"
	RolePrepress Role = "prepress"
	RoleQC       Role = "qc"
)

// Edge is one allowed forward transition and the roles permitted to
// take it.
type Edge struct {
	Next  string
	Roles []Role
}

// Transitions maps each status to its outgoing edges. Statuses with no
// entry (Ready for Press) are terminal. Lookups go through Normalize,
// so the decorated On Hold and SC Checked labels share their canonical
// row. The cromalin branch applies to Central Drum presses; Stack Type
// jobs go straight from SC Checked to repro.
var Transitions = map[string][]Edge{
	UnderReview: {
		{FinanciallyApproved, []Role{RoleSales}},
		{TechnicallyApproved, []Role{RoleSales}},
		{OnHold, []Role{RoleSales}},
	},
	FinanciallyApproved: {
		{TechnicallyApproved, []Role{RoleSales}},
		{OnHold, []Role{RoleSales}},
	},
	TechnicallyApproved: {
		{FinanciallyApproved, []Role{RoleSales}},
		{OnHold, []Role{RoleSales}},
	},
	OnHold: {
		{FinanciallyApproved, []Role{RoleSales}},
		{TechnicallyApproved, []Role{RoleSales}},
	},
	WorkingOnJobStudy: {
		{WorkingOnSoftcopy, []Role{RolePlanning}},
		{OnHold, []Role{RoleSales}},
	},
	WorkingOnSoftcopy: {
		{NeedSCApproval, []Role{RolePrepress}},
	},
	NeedSCApproval: {
		{SCUnderQCCheck, []Role{RoleSales}},
	},
	SCUnderQCCheck: {
		{SCChecked, []Role{RoleQC}},
	},
	SCChecked: {
		{WorkingOnCromalin, []Role{RolePrepress}},
		{WorkingOnRepro, []Role{RolePrepress}},
	},
	WorkingOnCromalin: {
		{CromalinUnderQCCheck, []Role{RoleQC}},
	},
	CromalinUnderQCCheck: {
		{NeedCromalinApproval, []Role{RolePrepress}},
	},
	NeedCromalinApproval: {
		{WorkingOnRepro, []Role{RolePrepress}},
	},
	WorkingOnRepro: {
		{PrepressReceivedPlates, []Role{RolePrepress}},
	},
	PrepressReceivedPlates: {
		{QCReceivedPlates, []Role{RoleQC}},
	},
	QCReceivedPlates: {
		{ReadyForPress, []Role{RoleQC}},
	},
}

// Allowed returns the statuses the given role may move to from current.
// An empty role means the caller is trusted (internal department saves)
// and sees every outgoing edge. Terminal statuses return nil.
func Allowed(current string, role Role) []string {
	edges, ok := Transitions[Normalize(current)]
	if !ok {
		return nil
	}
	var next []string
	for _, e := range edges {
		if role == "" || e.permits(role) {
			next = append(next, e.Next)
		}
	}
	return next
}

// CanTransition reports whether role may move a job from current to
// target. Requesting the status the job is already in is always
// permitted as a no-op repeat.
func CanTransition(current, target string, role Role) bool {
	if Normalize(current) == Normalize(target) {
		return true
	}
	// The refined SC Checked labels are reachable via their canonical form.
	target = Normalize(target)
	for _, next := range Allowed(current, role) {
		if next == target {
			return true
		}
	}
	return false
}

func (e Edge) permits(role Role) bool {
	for _, r := range e.Roles {
		if r == role {
			return true
		}
	}
	return false
}
