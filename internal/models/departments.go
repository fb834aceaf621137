package models

import "time"

// PlanningData is the planning department's satellite record, at most
// one per job.
type PlanningData struct {
	ID              uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	JobNumber       string    `gorm:"size:8;uniqueIndex;column:job_number" json:"job_number"`
	Machine         string    `gorm:"size:64" json:"machine"`
	HorizontalCount *int      `json:"horizontal_count"`
	VerticalCount   *int      `json:"vertical_count"`
	FlipDirection   bool      `gorm:"default:false" json:"flip_direction"`
	AddLines        bool      `gorm:"default:false" json:"add_lines"`
	NewMachine      bool      `gorm:"default:false" json:"new_machine"`
	AddStagger      bool      `gorm:"default:false" json:"add_stagger"`
	Comments        string    `gorm:"type:text" json:"comments"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (PlanningData) TableName() string { return "planning_data" }

// PrepressData is the prepress department's satellite record. Its flag
// columns are the department's own record of what happened; the
// denormalized copies on Job drive status derivation.
type PrepressData struct {
	ID                uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	JobNumber         string    `gorm:"size:8;uniqueIndex;column:job_number" json:"job_number"`
	Supplier          string    `gorm:"size:64" json:"supplier"`
	ScSentToSales     bool      `gorm:"default:false;column:sc_sent_to_sales" json:"sc_sent_to_sales"`
	ScSentToQC        bool      `gorm:"default:false;column:sc_sent_to_qc" json:"sc_sent_to_qc"`
	WorkingOnCromalin bool      `gorm:"default:false" json:"working_on_cromalin"`
	CromalinQCCheck   bool      `gorm:"default:false;column:cromalin_qc_check" json:"cromalin_qc_check"`
	CromalinReady     bool      `gorm:"default:false" json:"cromalin_ready"`
	WorkingOnRepro    bool      `gorm:"default:false" json:"working_on_repro"`
	PlatesReceived    bool      `gorm:"default:false" json:"plates_received"`
	Comments          string    `gorm:"type:text" json:"comments"`
	ScImageURL        string    `gorm:"size:255;column:sc_image_url" json:"sc_image_url"`
	HandlerID         *uint     `json:"handler_id"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`

	Handler *User `gorm:"foreignKey:HandlerID" json:"handler,omitempty"`
}

func (PrepressData) TableName() string { return "prepress_data" }

// PrepressColor is one ink color of a job's separation, ordered by position.
type PrepressColor struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	JobNumber string `gorm:"size:8;index;column:job_number" json:"job_number"`
	ColorName string `gorm:"size:50" json:"color_name"`
	ColorCode string `gorm:"size:16;default:#000000" json:"color_code"`
	Position  int    `json:"position"`
}

func (PrepressColor) TableName() string { return "prepress_colors" }

// QCData is the quality-control satellite record. qc_data.plates_checked
// is the terminal flag's department-side record; the Job copy is the one
// the terminal guard reads.
type QCData struct {
	ID              uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	JobNumber       string    `gorm:"size:8;uniqueIndex;column:job_number" json:"job_number"`
	ScChecked       bool      `gorm:"default:false;column:sc_checked" json:"sc_checked"`
	CromalinChecked bool      `gorm:"default:false" json:"cromalin_checked"`
	PlatesReceived  bool      `gorm:"default:false" json:"plates_received"`
	PlatesChecked   bool      `gorm:"default:false" json:"plates_checked"`
	Comments        string    `gorm:"type:text" json:"comments"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (QCData) TableName() string { return "qc_data" }
