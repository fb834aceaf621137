package models

import "time"

// Job is the core work item in StarGate. The job number doubles as the
// primary key and is immutable once assigned.
type Job struct {
	JobNumber  string     `gorm:"primaryKey;size:8;column:job_number" json:"job_number"`
	CustomerID uint       `gorm:"not null;index" json:"customer_id"`
	Salesman   string     `gorm:"size:64" json:"salesman"`
	EntryDate  *time.Time `gorm:"type:date" json:"entry_date"`
	JobName    string     `gorm:"size:128" json:"job_name"`

	Quantity     *float64 `json:"quantity"`
	QuantityUnit string   `gorm:"size:16" json:"quantity_unit"`
	ProductType  string   `gorm:"size:32" json:"product_type"`

	Width  *float64 `json:"width"`
	Height *float64 `json:"height"`
	Gusset *float64 `json:"gusset"`
	Flap   *float64 `json:"flap"`

	PressType          string `gorm:"size:32;index" json:"press_type"`
	PrintOrientation   string `gorm:"size:32" json:"print_orientation"`
	UnwindingDirection string `gorm:"size:32" json:"unwinding_direction"`

	// Bag construction options.
	TwoFaces      bool `gorm:"default:false" json:"two_faces"`
	SideGusset    bool `gorm:"default:false" json:"side_gusset"`
	BottomGusset  bool `gorm:"default:false" json:"bottom_gusset"`
	HoleHandle    bool `gorm:"default:false" json:"hole_handle"`
	StripHandle   bool `gorm:"default:false" json:"strip_handle"`
	FlipDirection bool `gorm:"default:false" json:"flip_direction"`

	// Workflow flags. These are the stored truth the status string is
	// derived from; only the workflow executor may change them once the
	// job leaves sales.
	FinancialApproval bool `gorm:"default:false" json:"financial_approval"`
	TechnicalApproval bool `gorm:"default:false" json:"technical_approval"`
	OnHold            bool `gorm:"default:false" json:"on_hold"`
	WorkingOnJobStudy bool `gorm:"default:false" json:"working_on_job_study"`
	WorkingOnSoftcopy bool `gorm:"default:false" json:"working_on_softcopy"`
	ScSentToSales     bool `gorm:"default:false;column:sc_sent_to_sales" json:"sc_sent_to_sales"`
	ScSentToQC        bool `gorm:"default:false;column:sc_sent_to_qc" json:"sc_sent_to_qc"`
	ScChecked         bool `gorm:"default:false;column:sc_checked" json:"sc_checked"`
	WorkingOnCromalin bool `gorm:"default:false" json:"working_on_cromalin"`
	CromalinQCCheck   bool `gorm:"default:false;column:cromalin_qc_check" json:"cromalin_qc_check"`
	CromalinReady     bool `gorm:"default:false" json:"cromalin_ready"`
	CromalinChecked   bool `gorm:"default:false" json:"cromalin_checked"`
	WorkingOnRepro    bool `gorm:"default:false" json:"working_on_repro"`
	PlatesReady       bool `gorm:"default:false" json:"plates_ready"`
	PlatesReceived    bool `gorm:"default:false" json:"plates_received"`
	PlatesChecked     bool `gorm:"default:false;index" json:"plates_checked"`

	Comments  string    `gorm:"type:text" json:"comments"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Customer Customer           `gorm:"foreignKey:CustomerID" json:"customer"`
	Plies    []JobPly           `gorm:"foreignKey:JobNumber" json:"plies"`
	Planning *PlanningData      `gorm:"foreignKey:JobNumber" json:"planning,omitempty"`
	Prepress *PrepressData      `gorm:"foreignKey:JobNumber" json:"prepress,omitempty"`
	QC       *QCData            `gorm:"foreignKey:JobNumber" json:"qc,omitempty"`
	History  []JobStatusHistory `gorm:"foreignKey:JobNumber" json:"history,omitempty"`
}

func (Job) TableName() string { return "jobs" }

// JobPly is one material layer of a job, ordered by position.
type JobPly struct {
	ID        uint     `gorm:"primaryKey;autoIncrement" json:"id"`
	JobNumber string   `gorm:"size:8;index;column:job_number" json:"job_number"`
	Position  int      `json:"position"`
	Material  string   `gorm:"size:64" json:"material"`
	Finish    string   `gorm:"size:64" json:"finish"`
	Thickness *float64 `json:"thickness"`
}

func (JobPly) TableName() string { return "job_plies" }
