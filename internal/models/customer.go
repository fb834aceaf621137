package models

import "time"

// Customer is a sales account. The (name, code) pair is looked up on
// every sales save and created on first use.
type Customer struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CustomerName string    `gorm:"size:128;not null;index" json:"customer_name"`
	CustomerCode string    `gorm:"size:32" json:"customer_code"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Customer) TableName() string { return "customers" }

// User is a staff account referenced by history entries and department
// records. Authentication lives outside this service.
type User struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username  string    `gorm:"size:64;uniqueIndex;not null" json:"username"`
	FullName  string    `gorm:"size:128" json:"full_name"`
	Role      string    `gorm:"size:16;default:sales" json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func (User) TableName() string { return "users" }
