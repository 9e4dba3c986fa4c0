package models

import "time"

// Student is an enrollee tied to exactly one class.
//
// ClassFee is a snapshot of the class fee taken when ClassID was last set. It is
// not updated when the class fee changes later.
type Student struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	ParentName  string    `db:"parent_name" json:"parentName"`
	PhoneNumber string    `db:"phone_number" json:"phoneNumber"`
	IsActive    bool      `db:"is_active" json:"isActive"`
	ClassID     string    `db:"class_id" json:"classId"`
	ClassFee    float64   `db:"class_fee" json:"classFee"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// StudentFilter narrows student listings. Nil Active means any.
type StudentFilter struct {
	ClassID string
	Active  *bool
}

// Matches reports whether the student satisfies every set filter field.
func (f StudentFilter) Matches(s Student) bool {
	if f.ClassID != "" && s.ClassID != f.ClassID {
		return false
	}
	if f.Active != nil && s.IsActive != *f.Active {
		return false
	}
	return true
}
