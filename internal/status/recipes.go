package status

// Tables a recipe may write to.
const (
	TableJobs     = "jobs"
	TablePrepress = "prepress_data"
	TableQC       = "qc_data"
)

// FieldUpdate is one boolean column write.
type FieldUpdate struct {
	Table string
	Field string
	Value bool
}

// Recipe describes the flag writes that realize a target status: one
// primary write (inserting the satellite row if it does not exist yet)
// plus any cascading updates. Statuses with no recipe are history-only
// labels; requesting them records history without touching flags.
type Recipe struct {
	Table    string
	Field    string
	Value    bool
	Cascades []FieldUpdate
}

// Recipes maps target status to its flag-mutation recipe.
var Recipes = map[string]Recipe{
	FinanciallyApproved: {Table: TableJobs, Field: "financial_approval", Value: true},
	TechnicallyApproved: {Table: TableJobs, Field: "technical_approval", Value: true},
	OnHold:              {Table: TableJobs, Field: "on_hold", Value: true},
	WorkingOnJobStudy:   {Table: TableJobs, Field: "working_on_job_study", Value: true},
	WorkingOnSoftcopy:   {Table: TableJobs, Field: "working_on_softcopy", Value: true},
	NeedSCApproval: {
		Table: TablePrepress, Field: "sc_sent_to_sales", Value: true,
		Cascades: []FieldUpdate{
			{TableJobs, "working_on_softcopy", false},
		},
	},
	SCUnderQCCheck: {Table: TableJobs, Field: "sc_sent_to_qc", Value: true},
	SCChecked: {
		Table: TableQC, Field: "sc_checked", Value: true,
		Cascades: []FieldUpdate{
			{TableJobs, "sc_checked", true},
			{TableJobs, "sc_sent_to_qc", false},
		},
	},
	WorkingOnCromalin: {
		Table: TablePrepress, Field: "working_on_cromalin", Value: true,
		Cascades: []FieldUpdate{
			{TableJobs, "working_on_cromalin", true},
		},
	},
	NeedCromalinApproval: {
		Table: TablePrepress, Field: "cromalin_ready", Value: true,
		Cascades: []FieldUpdate{
			{TableJobs, "cromalin_ready", true},
		},
	},
	WorkingOnRepro: {
		Table: TablePrepress, Field: "working_on_repro", Value: true,
		Cascades: []FieldUpdate{
			{TableJobs, "working_on_repro", true},
		},
	},
	PrepressReceivedPlates: {
		Table: TablePrepress, Field: "plates_received", Value: true,
		Cascades: []FieldUpdate{
			{TableJobs, "plates_received", true},
		},
	},
	QCReceivedPlates: {
		Table: TableQC, Field: "plates_received", Value: true,
		Cascades: []FieldUpdate{
			{TableJobs, "plates_received", true},
		},
	},
	// The terminal recipe resets the earlier-stage Job flags once the
	// plates are approved. The satellite rows keep their historical
	// values on purpose: Job columns mean "current stage", satellites
	// are the department's record of what it did.
	ReadyForPress: {
		Table: TableQC, Field: "plates_checked", Value: true,
		Cascades: []FieldUpdate{
			{TableJobs, "plates_checked", true},
			{TableJobs, "sc_checked", false},
			{TableJobs, "plates_received", false},
		},
	},
}
