package models

// User is a shop employee. Code is the short credential typed on the
// sign-in screen; it is unique per user.
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	FullName string `gorm:"not null;index" json:"full_name"`
	Code     string `gorm:"unique;not null" json:"code"`
}
