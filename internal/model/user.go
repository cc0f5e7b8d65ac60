package model

import "time"

// User represents a registered staff member.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"uniqueIndex;size:80;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:120;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	DepartmentID uint      `json:"department_id" gorm:"not null;index"`
	Position     string    `json:"position" gorm:"size:100;not null"`
	Active       bool      `json:"active" gorm:"default:true"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Department Department `json:"department,omitempty" gorm:"foreignKey:DepartmentID"`
}
