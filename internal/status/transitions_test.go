package status

import (
	"slices"
	"testing"
)

func TestAllowed_Roles(t *testing.T) {
	next := Allowed(UnderReview, RoleSales)
	for _, want := range []string{FinanciallyApproved, TechnicallyApproved, OnHold} {
		if !slices.Contains(next, want) {
			t.Errorf("sales from Under Review: missing %q in %v", want, next)
		}
	}

	if got := Allowed(UnderReview, RoleQC); got != nil {
		t.Errorf("qc from Under Review: want none, got %v", got)
	}

	// Empty role sees every edge.
	if got := Allowed(SCChecked, ""); len(got) != 2 {
		t.Errorf("unrestricted from SC Checked: want 2 edges, got %v", got)
	}
}

func TestAllowed_Terminal(t *testing.T) {
	for _, role := range []Role{RoleSales, RolePlanning, RolePrepress, RoleQC, ""} {
		if got := Allowed(ReadyForPress, role); got != nil {
			t.Errorf("Ready for Press must be terminal, got %v for role %q", got, role)
		}
	}
}

func TestAllowed_NormalizesDecoratedLabels(t *testing.T) {
	next := Allowed("On Hold Since Mar 7, 2025", RoleSales)
	if !slices.Contains(next, FinanciallyApproved) {
		t.Errorf("decorated On Hold label: got %v", next)
	}

	next = Allowed(SCCheckedNeedCromalin, RolePrepress)
	if !slices.Contains(next, WorkingOnCromalin) {
		t.Errorf("refined SC Checked label: got %v", next)
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		current, target string
		role            Role
		want            bool
	}{
		{UnderReview, FinanciallyApproved, RoleSales, true},
		{UnderReview, FinanciallyApproved, RolePrepress, false},
		{UnderReview, ReadyForPress, RoleQC, false},
		{QCReceivedPlates, ReadyForPress, RoleQC, true},
		{QCReceivedPlates, ReadyForPress, RoleSales, false},
		{SCCheckedNeedPlates, WorkingOnRepro, RolePrepress, true},
		{SCUnderQCCheck, SCCheckedNeedCromalin, RoleQC, true},
		// Repeating the current status is a permitted no-op.
		{ReadyForPress, ReadyForPress, RoleQC, true},
		{"On Hold Since Jan 1, 2026", OnHold, RoleSales, true},
	}
	for _, tt := range tests {
		if got := CanTransition(tt.current, tt.target, tt.role); got != tt.want {
			t.Errorf("CanTransition(%q, %q, %q) = %v, want %v",
				tt.current, tt.target, tt.role, got, tt.want)
		}
	}
}

// Every transition target with a flag recipe must write to a known table,
// and every cascade as well.
func TestRecipes_Tables(t *testing.T) {
	known := map[string]bool{TableJobs: true, TablePrepress: true, TableQC: true}
	for label, r := range Recipes {
		if !known[r.Table] {
			t.Errorf("%s: unknown table %q", label, r.Table)
		}
		for _, c := range r.Cascades {
			if !known[c.Table] {
				t.Errorf("%s cascade: unknown table %q", label, c.Table)
			}
		}
	}
}

func TestRecipes_ReadyForPressCascade(t *testing.T) {
	r := Recipes[ReadyForPress]
	if r.Table != TableQC || r.Field != "plates_checked" || !r.Value {
		t.Fatalf("primary write = %+v", r)
	}
	want := []FieldUpdate{
		{TableJobs, "plates_checked", true},
		{TableJobs, "sc_checked", false},
		{TableJobs, "plates_received", false},
	}
	if !slices.Equal(r.Cascades, want) {
		t.Errorf("cascades = %v, want %v", r.Cascades, want)
	}
}
