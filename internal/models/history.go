package models

import "time"

// StatusType is the configured status catalog. History entries reference
// statuses by id; a status label with no catalog row is display-only and
// produces no history.
type StatusType struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	StatusName  string `gorm:"size:64;uniqueIndex;not null" json:"status_name"`
	DisplayName string `gorm:"size:64;not null" json:"display_name"`
}

func (StatusType) TableName() string { return "status_types" }

// JobStatusHistory is the append-only status ledger. Rows are never
// updated; deletion happens only through the full job cascade.
type JobStatusHistory struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	JobNumber    string    `gorm:"size:8;index;column:job_number" json:"job_number"`
	StatusTypeID uint      `gorm:"not null" json:"status_type_id"`
	UserID       *uint     `json:"user_id"`
	Notes        string    `gorm:"type:text" json:"notes"`
	StatusDate   time.Time `gorm:"autoCreateTime;index" json:"status_date"`

	StatusType StatusType `gorm:"foreignKey:StatusTypeID" json:"status_type"`
	User       *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (JobStatusHistory) TableName() string { return "job_status_history" }
