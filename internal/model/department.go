package model

// Department represents a hospital department. Departments are seeded at
// startup and read-only afterwards.
type Department struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"uniqueIndex;size:100;not null"`
	Description string `json:"description" gorm:"size:255"`
}
